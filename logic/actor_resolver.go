package logic

import (
	"context"
	"fmt"
	"gibber/dto"
	"gibber/shared"
	"github.com/go-playground/validator/v10"
	"net/url"
	"strings"
	"time"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_actor_resolver.go -package mocks gibber/logic IActorResolver

// IActorResolver turns user@domain into the remote actor's document via WebFinger.
type IActorResolver interface {
	Resolve(ctx context.Context, ident RemoteIdentity) (*ActorDocument, error)
}

type actorResolver struct {
	logger   shared.ILogger
	client   IApubClient
	validate *validator.Validate
}

func NewActorResolver(logger shared.ILogger, client IApubClient) IActorResolver {
	return &actorResolver{
		logger:   logger,
		client:   client,
		validate: validator.New(),
	}
}

func webfingerUrl(ident RemoteIdentity) string {
	resource := url.QueryEscape("acct:" + ident.Acct())
	return fmt.Sprintf("https://%s/.well-known/webfinger?resource=%s", ident.Domain, resource)
}

func isActivityJsonType(mediaType string) bool {
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	if mediaType == "application/activity+json" {
		return true
	}
	return strings.HasPrefix(mediaType, "application/ld+json") &&
		strings.Contains(mediaType, "https://www.w3.org/ns/activitystreams")
}

func (ar *actorResolver) Resolve(ctx context.Context, ident RemoteIdentity) (*ActorDocument, error) {

	var err error
	acct := ident.Acct()

	var wf dto.WebfingerResp
	if err = ar.client.GetJson(ctx, "webfinger", webfingerUrl(ident), AcceptWebfingerJson, &wf); err != nil {
		ar.logger.Infof("Webfinger lookup of %s failed: %v", acct, err)
		return nil, err
	}

	actorUrl := ""
	for _, link := range wf.Links {
		if link.Rel == "self" && isActivityJsonType(link.Type) && link.Href != "" {
			actorUrl = link.Href
			break
		}
	}
	if actorUrl == "" {
		ar.logger.Infof("Webfinger response for %s has no ActivityPub self link", acct)
		return nil, &DiscoveryError{Acct: acct, Reason: "webfinger response has no activity+json self link"}
	}

	var actor dto.Actor
	if err = ar.client.GetJson(ctx, "actor", actorUrl, AcceptActivityJson, &actor); err != nil {
		ar.logger.Infof("Failed to fetch actor %s for %s: %v", actorUrl, acct, err)
		return nil, err
	}
	if err = ar.validate.Struct(&actor); err != nil {
		ar.logger.Infof("Actor document %s is not valid: %v", actorUrl, err)
		return nil, &FetchError{Url: actorUrl, Err: fmt.Errorf("invalid actor document: %w", err)}
	}

	res := ActorDocument{
		Id:                actor.Id,
		Name:              actor.Name,
		PreferredUsername: actor.PreferredUsername,
		Summary:           actor.Summary,
		OutboxUrl:         actor.Outbox,
	}
	if actor.Published != "" {
		if published, err := time.Parse(time.RFC3339, actor.Published); err == nil {
			res.PublishedAt = published
		}
	}
	if actor.Icon != nil {
		res.IconUrl = actor.Icon.Url
	}
	if actor.Image != nil {
		res.ImageUrl = actor.Image.Url
	}
	return &res, nil
}
