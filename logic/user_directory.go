package logic

import (
	"fmt"
	"gibber/dal"
	"gibber/dto"
	"gibber/shared"
	"gibber/texts"
	"github.com/google/uuid"
	"strings"
	"time"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_user_directory.go -package mocks gibber/logic IUserDirectory

const outboxPageSize = 20

// IUserDirectory serves the profiles that live on this instance.
// Getters return nil without an error if the user does not exist.
type IUserDirectory interface {
	GetWebfinger(user string) (*dto.WebfingerResp, error)
	GetActor(user string) (*dto.Actor, error)
	GetOutboxSummary(user string) (*dto.OrderedCollection, error)
	GetOutboxPage(user string) (*dto.OrderedCollectionPageOut, error)
	GetLocalProfile(user string) (*dal.Profile, error)
	GetLocalPosts(user string) ([]*dal.Post, error)
	CreateLocalProfile(req *dto.CreateProfileReq) (profile *dal.Profile, isNew bool, err error)
}

type userDirectory struct {
	cfg    *shared.Config
	logger shared.ILogger
	repo   dal.IRepo
	idb    shared.IdBuilder
	txt    texts.ITexts
}

func NewUserDirectory(
	cfg *shared.Config,
	logger shared.ILogger,
	repo dal.IRepo,
	txt texts.ITexts,
) IUserDirectory {
	return &userDirectory{
		cfg:    cfg,
		logger: logger,
		repo:   repo,
		idb:    shared.IdBuilder{Host: cfg.Host},
		txt:    txt,
	}
}

func (udir *userDirectory) isInstanceActor(user string) bool {
	return udir.cfg.Instance != nil && strings.EqualFold(user, udir.cfg.Instance.User)
}

func (udir *userDirectory) GetLocalProfile(user string) (*dal.Profile, error) {
	return udir.repo.GetProfile(strings.ToLower(user), udir.cfg.Host)
}

func (udir *userDirectory) GetLocalPosts(user string) ([]*dal.Post, error) {
	profile, err := udir.GetLocalProfile(user)
	if err != nil || profile == nil {
		return nil, err
	}
	return udir.repo.GetPostsByProfile(profile.Id, outboxPageSize)
}

func (udir *userDirectory) CreateLocalProfile(req *dto.CreateProfileReq) (*dal.Profile, bool, error) {

	user := strings.ToLower(req.Username)
	if err := shared.ValidateUsername(user); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	}
	now := time.Now().UTC()
	profile := dal.Profile{
		Id:        uuid.New().String(),
		Username:  user,
		Domain:    udir.cfg.Host,
		Name:      req.Name,
		Summary:   sanitizeHtml(req.Summary),
		CreatedAt: now,
		FetchedAt: now,
	}
	isNew, err := udir.repo.AddLocalProfile(&profile)
	if err != nil {
		return nil, false, err
	}
	if !isNew {
		existing, err := udir.GetLocalProfile(user)
		return existing, false, err
	}
	udir.logger.Infof("Created local profile %s", user)
	return &profile, true, nil
}

func (udir *userDirectory) GetWebfinger(user string) (*dto.WebfingerResp, error) {

	user = strings.ToLower(user)
	profile, err := udir.GetLocalProfile(user)
	if err != nil || profile == nil {
		return nil, err
	}

	resp := dto.WebfingerResp{
		Subject: fmt.Sprintf("acct:%s@%s", user, udir.cfg.Host),
		Aliases: []string{
			udir.idb.ProfilePage(user),
			udir.idb.ActorUrl(user),
		},
		Links: []dto.WebfingerLink{
			{
				Rel:  "http://webfinger.net/rel/profile-page",
				Type: "text/html",
				Href: udir.idb.ProfilePage(user),
			},
			{
				Rel:  "self",
				Type: "application/activity+json",
				Href: udir.idb.ActorUrl(user),
			},
		},
	}
	return &resp, nil
}

func (udir *userDirectory) GetActor(user string) (*dto.Actor, error) {

	user = strings.ToLower(user)
	profile, err := udir.GetLocalProfile(user)
	if err != nil || profile == nil {
		return nil, err
	}

	actorUrl := udir.idb.ActorUrl(user)
	resp := dto.Actor{
		Context:           []string{dto.ActivityStreamsContext, dto.SecurityContext},
		Id:                actorUrl,
		Type:              "Person",
		PreferredUsername: user,
		Name:              profile.Name,
		Summary:           profile.Summary,
		Url:               udir.idb.ProfilePage(user),
		Published:         profile.CreatedAt.UTC().Format(time.RFC3339),
		Outbox:            udir.idb.ActorOutbox(user),
	}
	if profile.Avatar != nil {
		resp.Icon = &dto.Image{Type: "Image", MediaType: profile.Avatar.Mime, Url: profile.Avatar.Url}
	}
	if profile.Header != nil {
		resp.Image = &dto.Image{Type: "Image", MediaType: profile.Header.Mime, Url: profile.Header.Url}
	}
	if udir.isInstanceActor(user) {
		resp.Type = "Application"
		resp.Summary = udir.txt.WithVals("instance_bio.html", map[string]string{
			"host": udir.cfg.Host,
		})
		resp.PublicKey = &dto.PublicKey{
			Id:           udir.idb.ActorKeyId(user),
			Owner:        actorUrl,
			PublicKeyPem: udir.cfg.Instance.PubKey,
		}
	}
	return &resp, nil
}

func (udir *userDirectory) GetOutboxSummary(user string) (*dto.OrderedCollection, error) {

	user = strings.ToLower(user)
	counts, posts, err := udir.outboxPosts(user)
	if err != nil || posts == nil {
		return nil, err
	}
	return &dto.OrderedCollection{
		Context:    dto.ActivityStreamsContext,
		Id:         udir.idb.ActorOutbox(user),
		Type:       "OrderedCollection",
		TotalItems: counts,
		FirstUrl:   udir.idb.ActorOutboxPage(user),
	}, nil
}

func (udir *userDirectory) GetOutboxPage(user string) (*dto.OrderedCollectionPageOut, error) {

	user = strings.ToLower(user)
	counts, posts, err := udir.outboxPosts(user)
	if err != nil || posts == nil {
		return nil, err
	}
	actorUrl := udir.idb.ActorUrl(user)
	resp := dto.OrderedCollectionPageOut{
		Context:      dto.ActivityStreamsContext,
		Id:           udir.idb.ActorOutboxPage(user),
		Type:         "OrderedCollectionPage",
		PartOf:       udir.idb.ActorOutbox(user),
		TotalItems:   counts,
		OrderedItems: []*dto.ActivityOut{},
	}
	for _, post := range posts {
		published := post.CreatedAt.UTC().Format(time.RFC3339)
		note := &dto.Note{
			Id:           udir.idb.PostUrl(post.Id),
			Type:         "Note",
			Url:          udir.idb.PostUrl(post.Id),
			Published:    published,
			AttributedTo: actorUrl,
			To:           []string{dto.ActivityPublic},
			Content:      post.Content,
		}
		if !post.UpdatedAt.Equal(post.CreatedAt) {
			note.Updated = post.UpdatedAt.UTC().Format(time.RFC3339)
		}
		resp.OrderedItems = append(resp.OrderedItems, &dto.ActivityOut{
			Id:        udir.idb.PostActivityUrl(post.Id),
			Type:      "Create",
			Actor:     actorUrl,
			Published: published,
			To:        []string{dto.ActivityPublic},
			Object:    note,
		})
	}
	return &resp, nil
}

// Returns a nil slice if the user does not exist.
func (udir *userDirectory) outboxPosts(user string) (uint, []*dal.Post, error) {
	profile, err := udir.GetLocalProfile(user)
	if err != nil || profile == nil {
		return 0, nil, err
	}
	posts, err := udir.repo.GetPostsByProfile(profile.Id, outboxPageSize)
	if err != nil {
		return 0, nil, err
	}
	count, err := udir.repo.GetPostCount(profile.Id)
	if err != nil {
		return 0, nil, err
	}
	return uint(count), posts, nil
}
