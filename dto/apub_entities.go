package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	ActivityStreamsContext = "https://www.w3.org/ns/activitystreams"
	SecurityContext        = "https://w3id.org/security/v1"
	ActivityPublic         = "https://www.w3.org/ns/activitystreams#Public"
)

// Actor is a Person (or Service, Group...) document, as served by us or by a remote instance.
type Actor struct {
	Context           any        `json:"@context,omitempty"`
	Id                string     `json:"id" validate:"required,url"`
	Type              string     `json:"type"`
	PreferredUsername string     `json:"preferredUsername" validate:"required"`
	Name              string     `json:"name"`
	Summary           string     `json:"summary"`
	Url               string     `json:"url,omitempty"`
	Published         string     `json:"published,omitempty"`
	Outbox            string     `json:"outbox" validate:"required,url"`
	PublicKey         *PublicKey `json:"publicKey,omitempty"`
	Icon              *Image     `json:"-"`
	RawIcon           any        `json:"icon,omitempty"`
	Image             *Image     `json:"-"`
	RawImage          any        `json:"image,omitempty"`
}

func (x *Actor) UnmarshalJSON(data []byte) error {
	var err error
	type Y Actor
	var y = (*Y)(x)
	if err = json.Unmarshal(data, y); err != nil {
		return err
	}
	if y.Icon, err = getImage(y.RawIcon); err != nil {
		return fmt.Errorf("icon: %w", err)
	}
	if y.Image, err = getImage(y.RawImage); err != nil {
		return fmt.Errorf("image: %w", err)
	}
	return nil
}

func (x *Actor) MarshalJSON() ([]byte, error) {
	type Y Actor
	var y = *(*Y)(x)
	y.RawIcon = nil
	y.RawImage = nil
	if y.Icon != nil {
		y.RawIcon = y.Icon
	}
	if y.Image != nil {
		y.RawImage = y.Image
	}
	return json.Marshal(&y)
}

type Image struct {
	Type      string `json:"type"`
	MediaType string `json:"mediaType,omitempty"`
	Url       string `json:"url"`
}

type PublicKey struct {
	Id           string `json:"id"`
	Owner        string `json:"owner"`
	PublicKeyPem string `json:"publicKeyPem"`
}

// Images come as an object, a bare URL, or an array of either.
// An image whose url is itself a Link object is accepted too.
func getImage(raw any) (*Image, error) {
	if raw == nil {
		return nil, nil
	}
	if str, ok := raw.(string); ok {
		if str == "" {
			return nil, nil
		}
		return &Image{Type: "Image", Url: str}, nil
	}
	if slice, ok := raw.([]any); ok {
		for _, item := range slice {
			img, err := getImage(item)
			if err != nil {
				return nil, err
			}
			if img != nil {
				return img, nil
			}
		}
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.New("must be an object, a string or an array")
	}
	img := Image{Type: "Image"}
	if typ, ok := obj["type"].(string); ok {
		img.Type = typ
	}
	if mediaType, ok := obj["mediaType"].(string); ok {
		img.MediaType = mediaType
	}
	switch url := obj["url"].(type) {
	case nil:
		if href, ok := obj["href"].(string); ok {
			img.Url = href
		}
	case string:
		img.Url = url
	case map[string]any:
		if href, ok := url["href"].(string); ok {
			img.Url = href
		}
	case []any:
		if len(url) != 0 {
			inner, err := getImage(url[0])
			if err != nil {
				return nil, err
			}
			if inner != nil {
				img.Url = inner.Url
			}
		}
	default:
		return nil, errors.New("url must be a string or a link")
	}
	if img.Url == "" {
		return nil, nil
	}
	return &img, nil
}

func getRecipient(raw any) ([]string, error) {
	var res []string
	if raw == nil {
		return res, nil
	}
	if slice, ok := raw.([]interface{}); ok {
		for _, s := range slice {
			if str, ok := s.(string); ok {
				res = append(res, str)
			} else {
				return res, fmt.Errorf("list of recipients must only contain strings")
			}
		}
	} else if str, ok := raw.(string); ok {
		res = []string{str}
	} else {
		return res, fmt.Errorf("to and cc must be single string or array of strings")
	}
	return res, nil
}

// attributedTo may be an actor URI, an embedded actor, or an array of those.
func getAttributedTo(raw any) (string, error) {
	switch val := raw.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case map[string]any:
		if id, ok := val["id"].(string); ok {
			return id, nil
		}
		return "", errors.New("embedded actor has no id")
	case []any:
		for _, item := range val {
			if id, err := getAttributedTo(item); err == nil && id != "" {
				return id, nil
			}
		}
		return "", nil
	}
	return "", errors.New("attributedTo must be a string, an object or an array")
}

type Note struct {
	Context         any      `json:"@context,omitempty"`
	Id              string   `json:"id"`
	Type            string   `json:"type"`
	Url             string   `json:"url,omitempty"`
	Published       string   `json:"published"`
	Updated         string   `json:"updated,omitempty"`
	AttributedTo    string   `json:"-"`
	RawAttributedTo any      `json:"attributedTo"`
	To              []string `json:"-"`
	RawTo           any      `json:"to,omitempty"`
	Cc              []string `json:"-"`
	RawCc           any      `json:"cc,omitempty"`
	Content         string   `json:"content"`
}

func (x *Note) UnmarshalJSON(data []byte) error {
	var err error
	type Y Note
	var y = (*Y)(x)
	if err = json.Unmarshal(data, y); err != nil {
		return err
	}
	if y.AttributedTo, err = getAttributedTo(y.RawAttributedTo); err != nil {
		return err
	}
	if y.To, err = getRecipient(y.RawTo); err != nil {
		return err
	}
	if y.Cc, err = getRecipient(y.RawCc); err != nil {
		return err
	}
	return nil
}

func (x *Note) MarshalJSON() ([]byte, error) {
	type Y Note
	var y = *(*Y)(x)
	y.RawAttributedTo = y.AttributedTo
	y.RawTo, y.RawCc = nil, nil
	if len(y.To) != 0 {
		y.RawTo = y.To
	}
	if len(y.Cc) != 0 {
		y.RawCc = y.Cc
	}
	return json.Marshal(&y)
}

// ActivityIn is one item of a remote outbox. Object is nil when the activity
// refers to its object by URI only (e.g. an Announce).
type ActivityIn struct {
	Id        string          `json:"id"`
	Type      string          `json:"type"`
	Actor     string          `json:"actor"`
	Published string          `json:"published"`
	Object    *Note           `json:"-"`
	ObjectId  string          `json:"-"`
	RawObject json.RawMessage `json:"object"`
}

func (x *ActivityIn) UnmarshalJSON(data []byte) error {
	type Y ActivityIn
	var y = (*Y)(x)
	if err := json.Unmarshal(data, y); err != nil {
		return err
	}
	raw := bytes.TrimSpace(y.RawObject)
	if len(raw) == 0 {
		return nil
	}
	switch raw[0] {
	case '{':
		var note Note
		if err := json.Unmarshal(raw, &note); err != nil {
			return fmt.Errorf("object: %w", err)
		}
		y.Object = &note
		y.ObjectId = note.Id
	case '"':
		return json.Unmarshal(raw, &y.ObjectId)
	}
	return nil
}

type ActivityOut struct {
	Context   any      `json:"@context,omitempty"`
	Id        string   `json:"id"`
	Type      string   `json:"type"`
	Actor     string   `json:"actor"`
	Published string   `json:"published,omitempty"`
	To        []string `json:"to,omitempty"`
	Cc        []string `json:"cc,omitempty"`
	Object    any      `json:"object,omitempty"`
}

// OrderedCollection is an outbox summary. First is set when the remote side embeds
// the first page; FirstUrl when it links to it.
type OrderedCollection struct {
	Context    any             `json:"@context,omitempty"`
	Id         string          `json:"id"`
	Type       string          `json:"type"`
	TotalItems uint            `json:"totalItems"`
	First      *CollectionPage `json:"-"`
	FirstUrl   string          `json:"-"`
	RawFirst   json.RawMessage `json:"first,omitempty"`
}

func (x *OrderedCollection) UnmarshalJSON(data []byte) error {
	type Y OrderedCollection
	var y = (*Y)(x)
	if err := json.Unmarshal(data, y); err != nil {
		return err
	}
	raw := bytes.TrimSpace(y.RawFirst)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	switch raw[0] {
	case '"':
		return json.Unmarshal(raw, &y.FirstUrl)
	case '{':
		var page CollectionPage
		if err := json.Unmarshal(raw, &page); err != nil {
			return fmt.Errorf("first: %w", err)
		}
		y.First = &page
		y.FirstUrl = page.Id
		return nil
	}
	return errors.New("first must be a URL or a page object")
}

func (x *OrderedCollection) MarshalJSON() ([]byte, error) {
	type Y OrderedCollection
	var y = *(*Y)(x)
	y.RawFirst = nil
	if y.FirstUrl != "" {
		y.RawFirst, _ = json.Marshal(y.FirstUrl)
	}
	return json.Marshal(&y)
}

// CollectionPage is a page of an outbox as received. Items come from orderedItems,
// or from items if the former is missing. Entries that are bare URIs are dropped.
type CollectionPage struct {
	Id              string            `json:"id"`
	Type            string            `json:"type"`
	Next            string            `json:"next"`
	Items           []*ActivityIn     `json:"-"`
	RawOrderedItems []json.RawMessage `json:"orderedItems"`
	RawItems        []json.RawMessage `json:"items"`
}

func (x *CollectionPage) UnmarshalJSON(data []byte) error {
	type Y CollectionPage
	var y = (*Y)(x)
	if err := json.Unmarshal(data, y); err != nil {
		return err
	}
	rawItems := y.RawOrderedItems
	if rawItems == nil {
		rawItems = y.RawItems
	}
	y.Items = nil
	for _, raw := range rawItems {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			continue
		}
		var act ActivityIn
		if err := json.Unmarshal(raw, &act); err != nil {
			return err
		}
		y.Items = append(y.Items, &act)
	}
	return nil
}

type OrderedCollectionPageOut struct {
	Context      any            `json:"@context,omitempty"`
	Id           string         `json:"id"`
	Type         string         `json:"type"`
	PartOf       string         `json:"partOf"`
	TotalItems   uint           `json:"totalItems"`
	OrderedItems []*ActivityOut `json:"orderedItems"`
}
