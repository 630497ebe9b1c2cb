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
	"sync"
	"testing"
	"time"
)

func TestRemoteProfileCreated(t *testing.T) {
	ri := newRemoteInstance(t, "bob")
	ts := newTestStack(t, ri, nil)

	profile, err := ts.fed.GetOrCreateRemoteProfile(context.Background(), "bob", ri.domain)
	require.NoError(t, err)
	require.NotNil(t, profile)

	ident := logic.RemoteIdentity{Username: "bob", Domain: ri.domain}
	assert.Equal(t, ident.ProfileId(), profile.Id)
	assert.Equal(t, "bob", profile.Username)
	assert.Equal(t, ri.domain, profile.Domain)
	assert.Equal(t, "Bob Builder", profile.Name)
	assert.Contains(t, profile.Summary, "I build things")
	assert.NotContains(t, profile.Summary, "script")
	assert.Equal(t, ri.actorUrl(), profile.ActorUri)

	require.NotNil(t, profile.Avatar)
	assert.Equal(t, "image/png", profile.Avatar.Mime)
	assert.Equal(t, "png", profile.Avatar.Extension)
	assert.Equal(t, 4, profile.Avatar.Width)
	assert.Equal(t, 3, profile.Avatar.Height)
	assert.True(t, strings.HasPrefix(profile.Avatar.Url, "https://blobs.example/media/"))
	assert.Equal(t, profile.Avatar.Name, profile.Avatar.Id+".png")
	require.NotNil(t, profile.Header)
	assert.Equal(t, 16, profile.Header.Width)
	assert.Equal(t, 9, profile.Header.Height)

	counts := ts.rowCounts(t)
	assert.Equal(t, 1, counts["profiles"])
	assert.Equal(t, 2, counts["files"])
	assert.Equal(t, 2, ts.blobs.count())

	stored, err := ts.repo.GetProfile("bob", ri.domain)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotNil(t, stored.Avatar)
	assert.Equal(t, profile.Avatar.Url, stored.Avatar.Url)
}

func TestRemoteProfileIdempotent(t *testing.T) {
	ri := newRemoteInstance(t, "bob")
	ts := newTestStack(t, ri, nil)

	first, err := ts.fed.GetOrCreateRemoteProfile(context.Background(), "bob", ri.domain)
	require.NoError(t, err)
	second, err := ts.fed.GetOrCreateRemoteProfile(context.Background(), "Bob", strings.ToUpper(ri.domain))
	require.NoError(t, err)

	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, 1, ri.hitCount("/.well-known/webfinger"))
	assert.Equal(t, 1, ri.hitCount("/media/avatar.png"))
	counts := ts.rowCounts(t)
	assert.Equal(t, 1, counts["profiles"])
	assert.Equal(t, 2, counts["files"])
}

func TestRemoteProfileNoImages(t *testing.T) {
	ri := newRemoteInstance(t, "bob")
	ri.setImages("", "")
	ts := newTestStack(t, ri, nil)

	profile, err := ts.fed.GetOrCreateRemoteProfile(context.Background(), "bob", ri.domain)
	require.NoError(t, err)
	assert.Nil(t, profile.Avatar)
	assert.Nil(t, profile.Header)
	assert.Nil(t, profile.AvatarFileId)
	assert.Equal(t, 0, ts.rowCounts(t)["files"])
}

func TestRemoteProfileDiscoveryError(t *testing.T) {
	ri := newRemoteInstance(t, "bob")
	ri.update(func(ri *remoteInstance) { ri.noSelfLink = true })
	ts := newTestStack(t, ri, nil)

	profile, err := ts.fed.GetOrCreateRemoteProfile(context.Background(), "bob", ri.domain)
	assert.Nil(t, profile)
	var discoveryErr *logic.DiscoveryError
	require.True(t, errors.As(err, &discoveryErr))
	assert.Equal(t, "bob@"+ri.domain, discoveryErr.Acct)

	counts := ts.rowCounts(t)
	assert.Equal(t, 0, counts["profiles"])
	assert.Equal(t, 0, counts["files"])
}

func TestRemoteProfileUnknownUser(t *testing.T) {
	ri := newRemoteInstance(t, "bob")
	ts := newTestStack(t, ri, nil)

	_, err := ts.fed.GetOrCreateRemoteProfile(context.Background(), "alice", ri.domain)
	var fetchErr *logic.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, 404, fetchErr.Status)
	assert.Equal(t, 0, ts.rowCounts(t)["profiles"])
}

func TestRemoteProfileActorFetchError(t *testing.T) {
	ri := newRemoteInstance(t, "bob")
	ri.update(func(ri *remoteInstance) { ri.actorStatus = 500 })
	ts := newTestStack(t, ri, nil)

	_, err := ts.fed.GetOrCreateRemoteProfile(context.Background(), "bob", ri.domain)
	var fetchErr *logic.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, 500, fetchErr.Status)
	assert.Equal(t, ri.actorUrl(), fetchErr.Url)
	assert.Equal(t, 0, ts.rowCounts(t)["profiles"])
}

func TestRemoteProfileInvalidActor(t *testing.T) {
	ri := newRemoteInstance(t, "bob")
	ri.update(func(ri *remoteInstance) {
		ri.actorOverride = `{"id": "not a url", "type": "Person", "preferredUsername": "bob"}`
	})
	ts := newTestStack(t, ri, nil)

	_, err := ts.fed.GetOrCreateRemoteProfile(context.Background(), "bob", ri.domain)
	var fetchErr *logic.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, 0, ts.rowCounts(t)["profiles"])
}

func TestRemoteProfileMediaError(t *testing.T) {
	ri := newRemoteInstance(t, "bob")
	ri.setImages("/media/avatar.png", "/media/broken.png")
	ts := newTestStack(t, ri, nil)

	profile, err := ts.fed.GetOrCreateRemoteProfile(context.Background(), "bob", ri.domain)
	assert.Nil(t, profile)
	var mediaErr *logic.MediaFetchError
	require.True(t, errors.As(err, &mediaErr))
	assert.Equal(t, ri.url("/media/broken.png"), mediaErr.Url)

	counts := ts.rowCounts(t)
	assert.Equal(t, 0, counts["profiles"])
	assert.Equal(t, 0, counts["files"])
	assert.Equal(t, 0, ts.blobs.count())
}

func TestRemoteProfileMissingMedia(t *testing.T) {
	ri := newRemoteInstance(t, "bob")
	ri.setImages("/media/gone.png", "")
	ts := newTestStack(t, ri, nil)

	_, err := ts.fed.GetOrCreateRemoteProfile(context.Background(), "bob", ri.domain)
	var mediaErr *logic.MediaFetchError
	require.True(t, errors.As(err, &mediaErr))
	var fetchErr *logic.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, 404, fetchErr.Status)
	assert.Equal(t, 0, ts.rowCounts(t)["profiles"])
}

func TestRemoteProfileRefreshedWhenStale(t *testing.T) {
	ri := newRemoteInstance(t, "bob")
	cfg := makeTestConfig()
	hours := 1
	cfg.ProfileRefreshHours = &hours
	ts := newTestStack(t, ri, cfg)

	first, err := ts.fed.GetOrCreateRemoteProfile(context.Background(), "bob", ri.domain)
	require.NoError(t, err)

	// Age the stored copy past the refresh window
	stored, err := ts.repo.GetProfile("bob", ri.domain)
	require.NoError(t, err)
	stored.FetchedAt = time.Now().UTC().Add(-2 * time.Hour)
	require.NoError(t, ts.repo.SaveRemoteProfile(stored, nil))

	ri.setImages("/media/avatar2.png", "/media/header.png")
	second, err := ts.fed.GetOrCreateRemoteProfile(context.Background(), "bob", ri.domain)
	require.NoError(t, err)

	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, 2, ri.hitCount("/.well-known/webfinger"))
	assert.Equal(t, 1, ri.hitCount("/media/avatar2.png"))
	assert.Equal(t, 1, ri.hitCount("/media/header.png"))
	require.NotNil(t, second.Avatar)
	assert.Equal(t, ri.url("/media/avatar2.png"), second.Avatar.SourceUrl)
	require.NotNil(t, second.Header)
	assert.Equal(t, first.Header.Id, second.Header.Id)
	assert.True(t, second.FetchedAt.After(stored.FetchedAt))

	counts := ts.rowCounts(t)
	assert.Equal(t, 1, counts["profiles"])
	assert.Equal(t, 3, counts["files"])
}

func TestRemoteProfileConcurrentCallers(t *testing.T) {
	ri := newRemoteInstance(t, "bob")
	ts := newTestStack(t, ri, nil)

	const callers = 8
	ids := make([]string, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			profile, err := ts.fed.GetOrCreateRemoteProfile(context.Background(), "bob", ri.domain)
			errs[i] = err
			if profile != nil {
				ids[i] = profile.Id
			}
		}()
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, 1, ri.hitCount("/.well-known/webfinger"))
	assert.Equal(t, 1, ts.rowCounts(t)["profiles"])
}

func TestIdentityRejected(t *testing.T) {
	ri := newRemoteInstance(t, "bob")
	ts := newTestStack(t, ri, nil)

	_, err := ts.fed.GetOrCreateRemoteProfile(context.Background(), "bob", ts.cfg.Host)
	assert.ErrorIs(t, err, logic.ErrLocalIdentity)

	_, err = ts.fed.GetOrCreateRemoteProfile(context.Background(), "bob smith", ri.domain)
	assert.ErrorIs(t, err, logic.ErrInvalidIdentity)

	_, err = ts.fed.GetOrCreateRemotePosts(context.Background(), "bob", "")
	assert.ErrorIs(t, err, logic.ErrInvalidIdentity)
	assert.Equal(t, 0, ri.hitCount("/.well-known/webfinger"))
}

func testNotes(ri *remoteInstance) []remoteNote {
	return []remoteNote{
		{id: ri.url("/notes/3"), published: "2024-05-03T10:00:00Z", content: "<p>third</p>"},
		{id: ri.url("/notes/2"), published: "2024-05-02T10:00:00Z", content: "<p>second <b>bold</b></p>"},
		{id: ri.url("/notes/boost"), boost: true},
		{id: ri.url("/notes/1"), published: "2024-05-01T10:00:00Z", content: "<p>first<script>x()</script></p>"},
	}
}

func TestRemotePostsCreated(t *testing.T) {
	ri := newRemoteInstance(t, "bob")
	ri.setNotes(testNotes(ri))
	ts := newTestStack(t, ri, nil)

	posts, err := ts.fed.GetOrCreateRemotePosts(context.Background(), "bob", ri.domain)
	require.NoError(t, err)
	require.Len(t, posts, 3)

	profile, err := ts.repo.GetProfile("bob", ri.domain)
	require.NoError(t, err)
	assert.Equal(t, ri.url("/notes/3"), posts[0].Id)
	assert.Equal(t, ri.url("/notes/1"), posts[2].Id)
	for _, post := range posts {
		assert.Equal(t, profile.Id, post.ProfileId)
	}
	assert.NotContains(t, posts[2].Content, "script")
	assert.True(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC).Equal(posts[2].CreatedAt))

	counts := ts.rowCounts(t)
	assert.Equal(t, 1, counts["profiles"])
	assert.Equal(t, 3, counts["posts"])
}

func TestRemotePostsIdempotent(t *testing.T) {
	ri := newRemoteInstance(t, "bob")
	ri.setNotes(testNotes(ri))
	ts := newTestStack(t, ri, nil)

	_, err := ts.fed.GetOrCreateRemotePosts(context.Background(), "bob", ri.domain)
	require.NoError(t, err)
	posts, err := ts.fed.GetOrCreateRemotePosts(context.Background(), "bob", ri.domain)
	require.NoError(t, err)
	assert.Len(t, posts, 3)

	assert.Equal(t, 1, ri.hitCount("/.well-known/webfinger"))
	assert.Equal(t, 2, ri.hitCount("/users/bob/outbox/page"))
	counts := ts.rowCounts(t)
	assert.Equal(t, 1, counts["profiles"])
	assert.Equal(t, 3, counts["posts"])
}

func TestRemotePostsSkipsBadPost(t *testing.T) {
	ri := newRemoteInstance(t, "bob")
	ri.setNotes([]remoteNote{
		{id: ri.url("/notes/2"), published: "yesterday", content: "bad date"},
		{id: ri.url("/notes/1"), published: "2024-05-01T10:00:00Z", content: "fine"},
	})
	ts := newTestStack(t, ri, nil)

	posts, err := ts.fed.GetOrCreateRemotePosts(context.Background(), "bob", ri.domain)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, ri.url("/notes/1"), posts[0].Id)
	assert.Equal(t, 1, ts.rowCounts(t)["posts"])
}

func TestRemotePostsEmptyOutbox(t *testing.T) {
	ri := newRemoteInstance(t, "bob")
	ts := newTestStack(t, ri, nil)

	posts, err := ts.fed.GetOrCreateRemotePosts(context.Background(), "bob", ri.domain)
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Len(t, posts, 0)
	assert.Equal(t, 1, ts.rowCounts(t)["profiles"])
}

func TestRemotePostsProfileFailure(t *testing.T) {
	ri := newRemoteInstance(t, "bob")
	ri.setNotes(testNotes(ri))
	ri.update(func(ri *remoteInstance) { ri.noSelfLink = true })
	ts := newTestStack(t, ri, nil)

	_, err := ts.fed.GetOrCreateRemotePosts(context.Background(), "bob", ri.domain)
	var discoveryErr *logic.DiscoveryError
	require.True(t, errors.As(err, &discoveryErr))
	assert.Equal(t, 0, ri.hitCount("/users/bob/outbox"))
	assert.Equal(t, 0, ts.rowCounts(t)["posts"])
}

type federationHarness struct {
	ctrl     *gomock.Controller
	repo     *mocks.MockIRepo
	resolver *mocks.MockIActorResolver
	profiles *mocks.MockIProfileNormalizer
	outbox   *mocks.MockIOutboxFetcher
	posts    *mocks.MockIPostNormalizer
	metrics  *mocks.MockIMetrics
	fed      logic.IFederation
}

func setupFederationHarness(t *testing.T) *federationHarness {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockILogger(ctrl)
	setupDummyLogger(mockLogger)
	h := &federationHarness{
		ctrl:     ctrl,
		repo:     mocks.NewMockIRepo(ctrl),
		resolver: mocks.NewMockIActorResolver(ctrl),
		profiles: mocks.NewMockIProfileNormalizer(ctrl),
		outbox:   mocks.NewMockIOutboxFetcher(ctrl),
		posts:    mocks.NewMockIPostNormalizer(ctrl),
		metrics:  mocks.NewMockIMetrics(ctrl),
	}
	h.fed = logic.NewFederation(makeTestConfig(), mockLogger, h.repo, h.resolver,
		h.profiles, h.outbox, h.posts, h.metrics)
	return h
}

func TestFederationCountsErrorKind(t *testing.T) {
	h := setupFederationHarness(t)
	ident := logic.RemoteIdentity{Username: "bob", Domain: "federated.example"}
	mediaErr := &logic.MediaFetchError{Url: "https://federated.example/a.png", Err: errors.New("boom")}

	h.repo.EXPECT().GetProfile("bob", "federated.example").Return(nil, nil)
	h.resolver.EXPECT().Resolve(gomock.Any(), ident).Return(&logic.ActorDocument{Id: "x"}, nil)
	h.profiles.EXPECT().Normalize(gomock.Any(), ident, gomock.Any()).Return(nil, mediaErr)
	h.metrics.EXPECT().FederationError("media").Times(1)

	_, err := h.fed.GetOrCreateRemoteProfile(context.Background(), "bob", "federated.example")
	assert.ErrorIs(t, err, mediaErr)
}

func TestFederationCancelledCallerDoesNotAbortFetch(t *testing.T) {
	h := setupFederationHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h.repo.EXPECT().GetProfile("bob", "federated.example").Return(nil, nil)
	h.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, ident logic.RemoteIdentity) (*logic.ActorDocument, error) {
			assert.NoError(t, ctx.Err())
			return &logic.ActorDocument{Id: "https://federated.example/users/bob"}, nil
		})
	h.profiles.EXPECT().Normalize(gomock.Any(), logic.RemoteIdentity{Username: "bob", Domain: "federated.example"}, gomock.Any()).
		Return(nil, errors.New("disk full"))
	h.metrics.EXPECT().FederationError("other")

	_, err := h.fed.GetOrCreateRemoteProfile(ctx, "bob", "federated.example")
	assert.EqualError(t, err, "disk full")
}

func TestRemoteProfileAliasServedFromStore(t *testing.T) {
	ri := newRemoteInstance(t, "bob")
	ri.update(func(ri *remoteInstance) { ri.preferredName = "Robert" })
	ri.setNotes(testNotes(ri))
	ts := newTestStack(t, ri, nil)

	var first *dal.Profile
	for i := 0; i < 3; i++ {
		profile, err := ts.fed.GetOrCreateRemoteProfile(context.Background(), "bob", ri.domain)
		require.NoError(t, err)
		if first == nil {
			first = profile
		}
		assert.Equal(t, first.Id, profile.Id)
		assert.Equal(t, "bob", profile.Username)
	}
	assert.Equal(t, 1, ri.hitCount("/.well-known/webfinger"))
	assert.Equal(t, 1, ri.hitCount("/users/bob"))

	aliased, err := ts.repo.GetProfile("robert", ri.domain)
	require.NoError(t, err)
	assert.Nil(t, aliased)

	posts, err := ts.fed.GetOrCreateRemotePosts(context.Background(), "bob", ri.domain)
	require.NoError(t, err)
	assert.Len(t, posts, 3)
	assert.Equal(t, 1, ri.hitCount("/.well-known/webfinger"))
}

func TestProfileAndPostCallersShareResolution(t *testing.T) {
	ri := newRemoteInstance(t, "bob")
	ri.setNotes(testNotes(ri))
	ts := newTestStack(t, ri, nil)

	const callers = 4
	errs := make([]error, 2*callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, errs[2*i] = ts.fed.GetOrCreateRemoteProfile(context.Background(), "bob", ri.domain)
		}()
		go func() {
			defer wg.Done()
			_, errs[2*i+1] = ts.fed.GetOrCreateRemotePosts(context.Background(), "bob", ri.domain)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, ri.hitCount("/.well-known/webfinger"))
	assert.Equal(t, 1, ri.hitCount("/users/bob"))
	assert.Equal(t, 1, ts.rowCounts(t)["profiles"])
	assert.Equal(t, 3, ts.rowCounts(t)["posts"])
}

func TestRemoteProfileMediaErrorLeavesNoBlobs(t *testing.T) {
	ri := newRemoteInstance(t, "bob")
	ts := newTestStack(t, ri, nil)
	// Avatar upload succeeds, header upload fails
	ts.blobs.failAfter = 1

	_, err := ts.fed.GetOrCreateRemoteProfile(context.Background(), "bob", ri.domain)
	require.Error(t, err)
	assert.Equal(t, 0, ts.blobs.count())
	assert.Equal(t, 0, ts.rowCounts(t)["files"])
}
