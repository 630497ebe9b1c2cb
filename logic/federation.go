package logic

import (
	"context"
	"errors"
	"fmt"
	"gibber/dal"
	"gibber/shared"
	"golang.org/x/sync/singleflight"
	"strings"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_federation.go -package mocks gibber/logic IFederation

var ErrInvalidIdentity = errors.New("invalid identity")
var ErrLocalIdentity = errors.New("identity belongs to this instance")

// IFederation is the entry point for everything that needs remote profiles or posts.
// Errors are *DiscoveryError, *FetchError or *MediaFetchError whenever the cause is remote.
type IFederation interface {
	GetOrCreateRemoteProfile(ctx context.Context, username, domain string) (*dal.Profile, error)
	GetOrCreateRemotePosts(ctx context.Context, username, domain string) ([]*dal.Post, error)
}

type federation struct {
	cfg      *shared.Config
	logger   shared.ILogger
	repo     dal.IRepo
	resolver IActorResolver
	profiles IProfileNormalizer
	outbox   IOutboxFetcher
	posts    IPostNormalizer
	metrics  IMetrics
	group    singleflight.Group
}

func NewFederation(
	cfg *shared.Config,
	logger shared.ILogger,
	repo dal.IRepo,
	resolver IActorResolver,
	profiles IProfileNormalizer,
	outbox IOutboxFetcher,
	posts IPostNormalizer,
	metrics IMetrics,
) IFederation {
	return &federation{
		cfg:      cfg,
		logger:   logger,
		repo:     repo,
		resolver: resolver,
		profiles: profiles,
		outbox:   outbox,
		posts:    posts,
		metrics:  metrics,
	}
}

func (fed *federation) makeIdentity(username, domain string) (RemoteIdentity, error) {
	user, dom, err := shared.ParseIdentity(shared.MakeAcct(username, domain))
	if err != nil {
		return RemoteIdentity{}, fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	}
	if dom == strings.ToLower(fed.cfg.Host) {
		return RemoteIdentity{}, ErrLocalIdentity
	}
	return RemoteIdentity{Username: user, Domain: dom}, nil
}

func (fed *federation) countError(err error) {
	var mediaErr *MediaFetchError
	var discoveryErr *DiscoveryError
	var fetchErr *FetchError
	switch {
	case errors.As(err, &mediaErr):
		fed.metrics.FederationError("media")
	case errors.As(err, &discoveryErr):
		fed.metrics.FederationError("discovery")
	case errors.As(err, &fetchErr):
		fed.metrics.FederationError("fetch")
	default:
		fed.metrics.FederationError("other")
	}
}

func (fed *federation) GetOrCreateRemoteProfile(ctx context.Context, username, domain string) (*dal.Profile, error) {

	ident, err := fed.makeIdentity(username, domain)
	if err != nil {
		return nil, err
	}
	// Callers share one outbound chain; one caller going away must not fail the others.
	profile, _, err := fed.sharedProfile(context.WithoutCancel(ctx), ident)
	if err != nil {
		fed.countError(err)
		return nil, err
	}
	return profile, nil
}

func (fed *federation) GetOrCreateRemotePosts(ctx context.Context, username, domain string) ([]*dal.Post, error) {

	ident, err := fed.makeIdentity(username, domain)
	if err != nil {
		return nil, err
	}
	sharedCtx := context.WithoutCancel(ctx)
	val, err, _ := fed.group.Do("posts:"+ident.Acct(), func() (any, error) {
		profile, actor, err := fed.sharedProfile(sharedCtx, ident)
		if err != nil {
			return nil, err
		}
		activities, err := fed.outbox.FetchPosts(sharedCtx, actor)
		if err != nil {
			return nil, err
		}
		posts, err := fed.posts.Normalize(sharedCtx, activities, profile)
		if err != nil {
			return nil, err
		}
		return posts, nil
	})
	if err != nil {
		fed.countError(err)
		return nil, err
	}
	return val.([]*dal.Post), nil
}

type resolvedProfile struct {
	profile *dal.Profile
	actor   *ActorDocument
}

// Profile and post requests for the same identity join the same profile flight.
func (fed *federation) sharedProfile(ctx context.Context, ident RemoteIdentity) (*dal.Profile, *ActorDocument, error) {
	val, err, _ := fed.group.Do("profile:"+ident.Acct(), func() (any, error) {
		profile, actor, err := fed.getOrCreateProfile(ctx, ident)
		if err != nil {
			return nil, err
		}
		return &resolvedProfile{profile, actor}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	res := val.(*resolvedProfile)
	return res.profile, res.actor, nil
}

// Returns the stored profile if it is fresh enough; otherwise resolves and normalizes it.
// The actor document is rebuilt from stored fields on a cache hit.
func (fed *federation) getOrCreateProfile(ctx context.Context, ident RemoteIdentity) (*dal.Profile, *ActorDocument, error) {

	profile, err := fed.repo.GetProfile(ident.Username, ident.Domain)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up profile %s: %w", ident.Acct(), err)
	}
	if profile != nil && fed.profiles.IsFresh(profile) {
		fed.logger.Debugf("Profile %s served from store", ident.Acct())
		return profile, actorFromProfile(profile), nil
	}

	actor, err := fed.resolver.Resolve(ctx, ident)
	if err != nil {
		return nil, nil, err
	}
	if profile, err = fed.profiles.Normalize(ctx, ident, actor); err != nil {
		return nil, nil, err
	}
	return profile, actor, nil
}

func actorFromProfile(profile *dal.Profile) *ActorDocument {
	res := ActorDocument{
		Id:                profile.ActorUri,
		Name:              profile.Name,
		PreferredUsername: profile.Username,
		Summary:           profile.Summary,
		OutboxUrl:         profile.OutboxUrl,
	}
	if profile.Avatar != nil {
		res.IconUrl = profile.Avatar.SourceUrl
	}
	if profile.Header != nil {
		res.ImageUrl = profile.Header.SourceUrl
	}
	return &res
}
