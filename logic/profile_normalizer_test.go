package logic_test

import (
	"context"
	"errors"
	"gibber/dal"
	"gibber/logic"
	"gibber/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"strings"
	"testing"
	"time"
)

type profileNormalizerHarness struct {
	repo       *mocks.MockIRepo
	media      *mocks.MockIMediaFetcher
	blobs      *mocks.MockIBlobStore
	metrics    *mocks.MockIMetrics
	normalizer logic.IProfileNormalizer
	actor      *logic.ActorDocument
}

func setupProfileNormalizer(t *testing.T, refreshHours int) *profileNormalizerHarness {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockILogger(ctrl)
	setupDummyLogger(mockLogger)
	cfg := makeTestConfig()
	cfg.ProfileRefreshHours = &refreshHours
	h := &profileNormalizerHarness{
		repo:    mocks.NewMockIRepo(ctrl),
		media:   mocks.NewMockIMediaFetcher(ctrl),
		blobs:   mocks.NewMockIBlobStore(ctrl),
		metrics: mocks.NewMockIMetrics(ctrl),
		actor: &logic.ActorDocument{
			Id:                "https://remote.example/users/Bob",
			Name:              "Bob",
			PreferredUsername: "Bob",
			Summary:           "<p>hello</p>",
			OutboxUrl:         "https://remote.example/users/Bob/outbox",
			IconUrl:           "https://remote.example/media/avatar.png",
			ImageUrl:          "https://remote.example/media/header.jpg",
		},
	}
	h.normalizer = logic.NewProfileNormalizer(cfg, mockLogger, h.repo, h.media, h.blobs, h.metrics)
	return h
}

var bobIdent = logic.RemoteIdentity{Username: "bob", Domain: "remote.example"}

func fetchedPng(url string) *logic.FetchedMedia {
	return &logic.FetchedMedia{SourceUrl: url, Data: makePng(3, 3), Mime: "image/png", Extension: "png", Width: 3, Height: 3}
}

func TestProfileNormalizerIsFresh(t *testing.T) {
	h := setupProfileNormalizer(t, 24)
	assert.True(t, h.normalizer.IsFresh(&dal.Profile{ActorUri: "https://a.example/u/x", FetchedAt: time.Now().Add(-time.Hour)}))
	assert.False(t, h.normalizer.IsFresh(&dal.Profile{ActorUri: "https://a.example/u/x", FetchedAt: time.Now().Add(-25 * time.Hour)}))
	// Local profiles are never refreshed
	assert.True(t, h.normalizer.IsFresh(&dal.Profile{FetchedAt: time.Now().Add(-100 * time.Hour)}))

	never := setupProfileNormalizer(t, 0)
	assert.True(t, never.normalizer.IsFresh(&dal.Profile{ActorUri: "https://a.example/u/x", FetchedAt: time.Unix(0, 0)}))
}

func TestProfileNormalizerNewProfile(t *testing.T) {
	h := setupProfileNormalizer(t, 24)

	h.repo.EXPECT().GetProfile("bob", "remote.example").Return(nil, nil)
	h.media.EXPECT().Fetch(gomock.Any(), h.actor.IconUrl).Return(fetchedPng(h.actor.IconUrl), nil)
	h.media.EXPECT().Fetch(gomock.Any(), h.actor.ImageUrl).Return(fetchedPng(h.actor.ImageUrl), nil)
	h.blobs.EXPECT().PutObject(gomock.Any(), gomock.Any(), gomock.Any(), "image/png").
		DoAndReturn(func(ctx context.Context, key string, data []byte, mime string) (string, error) {
			assert.True(t, strings.HasSuffix(key, ".png"))
			return "https://cdn.example/" + key, nil
		}).Times(2)
	h.repo.EXPECT().SaveRemoteProfile(gomock.Any(), gomock.Len(2)).Return(nil)
	h.metrics.EXPECT().RemoteProfileNormalized()
	h.metrics.EXPECT().MediaFileStored().Times(2)

	profile, err := h.normalizer.Normalize(context.Background(), logic.RemoteIdentity{Username: "Bob", Domain: "Remote.Example"}, h.actor)
	require.NoError(t, err)
	ident := logic.RemoteIdentity{Username: "bob", Domain: "remote.example"}
	assert.Equal(t, ident.ProfileId(), profile.Id)
	assert.Equal(t, "bob", profile.Username)
	assert.Equal(t, "remote.example", profile.Domain)
	require.NotNil(t, profile.AvatarFileId)
	assert.Equal(t, profile.Avatar.Id, *profile.AvatarFileId)
	assert.Equal(t, "https://cdn.example/"+profile.Avatar.Name, profile.Avatar.Url)
	assert.Equal(t, h.actor.ImageUrl, profile.Header.SourceUrl)
}

func TestProfileNormalizerFreshProfileUntouched(t *testing.T) {
	h := setupProfileNormalizer(t, 24)
	existing := &dal.Profile{
		Id:        "existing",
		Username:  "bob",
		Domain:    "remote.example",
		ActorUri:  h.actor.Id,
		FetchedAt: time.Now().UTC(),
	}
	h.repo.EXPECT().GetProfile("bob", "remote.example").Return(existing, nil)

	profile, err := h.normalizer.Normalize(context.Background(), bobIdent, h.actor)
	require.NoError(t, err)
	assert.Same(t, existing, profile)
}

func TestProfileNormalizerKeepsUnchangedImages(t *testing.T) {
	h := setupProfileNormalizer(t, 24)
	oldAvatar := &dal.File{Id: "avatar-1", SourceUrl: h.actor.IconUrl}
	oldHeader := &dal.File{Id: "header-1", SourceUrl: "https://remote.example/media/old-header.jpg"}
	created := time.Now().UTC().Add(-30 * 24 * time.Hour)
	existing := &dal.Profile{
		Id:             "existing",
		Username:       "bob",
		Domain:         "remote.example",
		ActorUri:       h.actor.Id,
		FollowersCount: 12,
		AvatarFileId:   &oldAvatar.Id,
		HeaderFileId:   &oldHeader.Id,
		Avatar:         oldAvatar,
		Header:         oldHeader,
		CreatedAt:      created,
		FetchedAt:      time.Now().UTC().Add(-48 * time.Hour),
	}
	h.repo.EXPECT().GetProfile("bob", "remote.example").Return(existing, nil)
	h.media.EXPECT().Fetch(gomock.Any(), h.actor.ImageUrl).Return(fetchedPng(h.actor.ImageUrl), nil)
	h.blobs.EXPECT().PutObject(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("https://cdn.example/h.png", nil)
	h.repo.EXPECT().SaveRemoteProfile(gomock.Any(), gomock.Len(1)).Return(nil)
	h.metrics.EXPECT().RemoteProfileNormalized()
	h.metrics.EXPECT().MediaFileStored()

	profile, err := h.normalizer.Normalize(context.Background(), bobIdent, h.actor)
	require.NoError(t, err)
	assert.Equal(t, "existing", profile.Id)
	assert.Equal(t, created, profile.CreatedAt)
	assert.Equal(t, 12, profile.FollowersCount)
	assert.Same(t, oldAvatar, profile.Avatar)
	assert.NotEqual(t, "header-1", profile.Header.Id)
	assert.True(t, profile.FetchedAt.After(existing.FetchedAt))
}

func TestProfileNormalizerNothingSavedOnFailure(t *testing.T) {
	mediaErr := &logic.MediaFetchError{Url: "https://remote.example/media/header.jpg", Err: errors.New("not an image")}

	t.Run("media", func(t *testing.T) {
		h := setupProfileNormalizer(t, 24)
		h.repo.EXPECT().GetProfile(gomock.Any(), gomock.Any()).Return(nil, nil)
		h.media.EXPECT().Fetch(gomock.Any(), h.actor.IconUrl).Return(fetchedPng(h.actor.IconUrl), nil).MaxTimes(1)
		h.media.EXPECT().Fetch(gomock.Any(), h.actor.ImageUrl).Return(nil, mediaErr)

		_, err := h.normalizer.Normalize(context.Background(), bobIdent, h.actor)
		assert.Equal(t, mediaErr, err)
	})

	t.Run("blob store", func(t *testing.T) {
		h := setupProfileNormalizer(t, 24)
		h.repo.EXPECT().GetProfile(gomock.Any(), gomock.Any()).Return(nil, nil)
		h.media.EXPECT().Fetch(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, url string) (*logic.FetchedMedia, error) {
				return fetchedPng(url), nil
			}).Times(2)
		h.blobs.EXPECT().PutObject(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", errors.New("bucket is gone"))

		_, err := h.normalizer.Normalize(context.Background(), bobIdent, h.actor)
		assert.EqualError(t, err, "bucket is gone")
	})

	t.Run("repo", func(t *testing.T) {
		h := setupProfileNormalizer(t, 24)
		h.actor.IconUrl = ""
		h.actor.ImageUrl = ""
		h.repo.EXPECT().GetProfile(gomock.Any(), gomock.Any()).Return(nil, nil)
		h.repo.EXPECT().SaveRemoteProfile(gomock.Any(), gomock.Len(0)).Return(errors.New("constraint failed"))

		_, err := h.normalizer.Normalize(context.Background(), bobIdent, h.actor)
		assert.ErrorContains(t, err, "constraint failed")
	})
}

func TestProfileNormalizerKeysOnRequestedIdentity(t *testing.T) {
	h := setupProfileNormalizer(t, 24)
	h.actor.PreferredUsername = "Robert"
	h.actor.IconUrl = ""
	h.actor.ImageUrl = ""

	h.repo.EXPECT().GetProfile("bob", "remote.example").Return(nil, nil)
	h.repo.EXPECT().SaveRemoteProfile(gomock.Any(), gomock.Len(0)).Return(nil)
	h.metrics.EXPECT().RemoteProfileNormalized()

	profile, err := h.normalizer.Normalize(context.Background(), bobIdent, h.actor)
	require.NoError(t, err)
	assert.Equal(t, "bob", profile.Username)
	assert.Equal(t, bobIdent.ProfileId(), profile.Id)
	assert.Equal(t, h.actor.Id, profile.ActorUri)
}

func TestProfileNormalizerDiscardsUploadedBlobs(t *testing.T) {
	t.Run("header upload fails", func(t *testing.T) {
		h := setupProfileNormalizer(t, 24)
		h.repo.EXPECT().GetProfile(gomock.Any(), gomock.Any()).Return(nil, nil)
		h.media.EXPECT().Fetch(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, url string) (*logic.FetchedMedia, error) {
				return fetchedPng(url), nil
			}).Times(2)
		var avatarKey string
		gomock.InOrder(
			h.blobs.EXPECT().PutObject(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(ctx context.Context, key string, data []byte, mime string) (string, error) {
					avatarKey = key
					return "https://cdn.example/" + key, nil
				}),
			h.blobs.EXPECT().PutObject(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return("", errors.New("bucket is gone")),
		)
		h.blobs.EXPECT().DeleteObject(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, key string) error {
				assert.Equal(t, avatarKey, key)
				return nil
			})

		_, err := h.normalizer.Normalize(context.Background(), bobIdent, h.actor)
		assert.EqualError(t, err, "bucket is gone")
	})

	t.Run("save fails", func(t *testing.T) {
		h := setupProfileNormalizer(t, 24)
		h.repo.EXPECT().GetProfile(gomock.Any(), gomock.Any()).Return(nil, nil)
		h.media.EXPECT().Fetch(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, url string) (*logic.FetchedMedia, error) {
				return fetchedPng(url), nil
			}).Times(2)
		h.blobs.EXPECT().PutObject(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, key string, data []byte, mime string) (string, error) {
				return "https://cdn.example/" + key, nil
			}).Times(2)
		h.repo.EXPECT().SaveRemoteProfile(gomock.Any(), gomock.Len(2)).Return(errors.New("constraint failed"))
		// A failed delete is logged and does not mask the save error
		h.blobs.EXPECT().DeleteObject(gomock.Any(), gomock.Any()).Return(errors.New("timeout"))
		h.blobs.EXPECT().DeleteObject(gomock.Any(), gomock.Any()).Return(nil)

		_, err := h.normalizer.Normalize(context.Background(), bobIdent, h.actor)
		assert.ErrorContains(t, err, "constraint failed")
	})
}
