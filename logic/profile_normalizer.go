package logic

import (
	"context"
	"fmt"
	"gibber/dal"
	"gibber/shared"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"strings"
	"time"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_profile_normalizer.go -package mocks gibber/logic IProfileNormalizer

// IProfileNormalizer stores a remote actor as a local profile, together with its avatar and header images.
// The profile is keyed by the identity it was requested under, not by the actor's preferredUsername.
type IProfileNormalizer interface {
	Normalize(ctx context.Context, ident RemoteIdentity, actor *ActorDocument) (*dal.Profile, error)
	IsFresh(profile *dal.Profile) bool
}

type profileNormalizer struct {
	cfg     *shared.Config
	logger  shared.ILogger
	repo    dal.IRepo
	media   IMediaFetcher
	blobs   IBlobStore
	metrics IMetrics
}

func NewProfileNormalizer(
	cfg *shared.Config,
	logger shared.ILogger,
	repo dal.IRepo,
	media IMediaFetcher,
	blobs IBlobStore,
	metrics IMetrics,
) IProfileNormalizer {
	return &profileNormalizer{cfg, logger, repo, media, blobs, metrics}
}

func (pn *profileNormalizer) IsFresh(profile *dal.Profile) bool {
	ttl := pn.cfg.ProfileTTL()
	if ttl == 0 || profile.ActorUri == "" {
		return true
	}
	return time.Since(profile.FetchedAt) < ttl
}

func (pn *profileNormalizer) Normalize(ctx context.Context, ident RemoteIdentity, actor *ActorDocument) (*dal.Profile, error) {

	ident.Username = strings.ToLower(ident.Username)
	ident.Domain = strings.ToLower(ident.Domain)
	acct := ident.Acct()
	if actor.PreferredUsername != "" && !strings.EqualFold(actor.PreferredUsername, ident.Username) {
		pn.logger.Debugf("Actor %s calls itself '%s'; storing it as %s", actor.Id, actor.PreferredUsername, acct)
	}

	existing, err := pn.repo.GetProfile(ident.Username, ident.Domain)
	if err != nil {
		return nil, fmt.Errorf("failed to look up profile %s: %w", acct, err)
	}
	if existing != nil && pn.IsFresh(existing) {
		return existing, nil
	}

	now := time.Now().UTC()
	profile := &dal.Profile{
		Id:        ident.ProfileId(),
		Username:  ident.Username,
		Domain:    ident.Domain,
		Name:      stripHtml(actor.Name),
		Summary:   sanitizeHtml(actor.Summary),
		ActorUri:  actor.Id,
		OutboxUrl: actor.OutboxUrl,
		CreatedAt: now,
		FetchedAt: now,
	}
	var oldAvatar, oldHeader *dal.File
	if existing != nil {
		profile.Id = existing.Id
		profile.CreatedAt = existing.CreatedAt
		profile.FollowersCount = existing.FollowersCount
		profile.FollowingCount = existing.FollowingCount
		oldAvatar, oldHeader = existing.Avatar, existing.Header
		pn.logger.Infof("Refreshing remote profile %s fetched at %v", acct, existing.FetchedAt)
	}

	// Download and probe both images before anything is written
	var avatarMedia, headerMedia *FetchedMedia
	g, gctx := errgroup.WithContext(ctx)
	if needsFetch(actor.IconUrl, oldAvatar) {
		g.Go(func() (err error) {
			avatarMedia, err = pn.media.Fetch(gctx, actor.IconUrl)
			return
		})
	}
	if needsFetch(actor.ImageUrl, oldHeader) {
		g.Go(func() (err error) {
			headerMedia, err = pn.media.Fetch(gctx, actor.ImageUrl)
			return
		})
	}
	if err = g.Wait(); err != nil {
		pn.logger.Warnf("Not storing profile %s: %v", acct, err)
		return nil, err
	}

	var newFiles []*dal.File
	profile.Avatar, err = pn.pickFile(ctx, actor.IconUrl, oldAvatar, avatarMedia, &newFiles)
	if err != nil {
		return nil, err
	}
	profile.Header, err = pn.pickFile(ctx, actor.ImageUrl, oldHeader, headerMedia, &newFiles)
	if err != nil {
		pn.discardFiles(ctx, newFiles)
		return nil, err
	}
	if profile.Avatar != nil {
		profile.AvatarFileId = &profile.Avatar.Id
	}
	if profile.Header != nil {
		profile.HeaderFileId = &profile.Header.Id
	}

	if err = pn.repo.SaveRemoteProfile(profile, newFiles); err != nil {
		pn.logger.Errorf("Failed to save profile %s: %v", acct, err)
		pn.discardFiles(ctx, newFiles)
		return nil, fmt.Errorf("failed to save profile %s: %w", acct, err)
	}

	pn.metrics.RemoteProfileNormalized()
	for range newFiles {
		pn.metrics.MediaFileStored()
	}
	pn.logger.Infof("Stored remote profile %s with %d new files", acct, len(newFiles))
	return profile, nil
}

// Removes blobs uploaded for a profile that is not going to be saved.
func (pn *profileNormalizer) discardFiles(ctx context.Context, files []*dal.File) {
	ctx = context.WithoutCancel(ctx)
	for _, file := range files {
		if err := pn.blobs.DeleteObject(ctx, file.Name); err != nil {
			pn.logger.Warnf("Orphaned blob %s left in store: %v", file.Name, err)
		}
	}
}

func needsFetch(url string, old *dal.File) bool {
	return url != "" && (old == nil || old.SourceUrl != url)
}

// Returns the stored file for an image slot: the old one if its source is unchanged,
// a newly stored one if media was fetched, or nil if the actor has no such image.
func (pn *profileNormalizer) pickFile(
	ctx context.Context,
	url string,
	old *dal.File,
	fetched *FetchedMedia,
	newFiles *[]*dal.File,
) (*dal.File, error) {

	if fetched == nil {
		if url != "" && old != nil && old.SourceUrl == url {
			return old, nil
		}
		return nil, nil
	}

	id := uuid.New().String()
	name := id + "." + fetched.Extension
	publicUrl, err := pn.blobs.PutObject(ctx, name, fetched.Data, fetched.Mime)
	if err != nil {
		return nil, err
	}
	file := &dal.File{
		Id:        id,
		Url:       publicUrl,
		SourceUrl: fetched.SourceUrl,
		Mime:      fetched.Mime,
		Extension: fetched.Extension,
		Name:      name,
		Size:      int64(len(fetched.Data)),
		Width:     fetched.Width,
		Height:    fetched.Height,
		CreatedAt: time.Now().UTC(),
	}
	*newFiles = append(*newFiles, file)
	return file, nil
}
