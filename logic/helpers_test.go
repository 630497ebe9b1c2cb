package logic_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"gibber/dal"
	"gibber/logic"
	"gibber/shared"
	"gibber/test/mocks"
	"github.com/charmbracelet/log"
	"go.uber.org/mock/gomock"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type nopObserver struct{}

func (nopObserver) Finish() {}

func setupDummyLogger(mockLogger *mocks.MockILogger) {
	mockLogger.EXPECT().Error(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Errorf(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warnf(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Infof(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Printf(gomock.Any(), gomock.Any()).AnyTimes()
}

func setupDummyMetrics(mockMetrics *mocks.MockIMetrics) {
	mockMetrics.EXPECT().StartWebRequestIn(gomock.Any()).Return(nopObserver{}).AnyTimes()
	mockMetrics.EXPECT().StartApubRequestIn(gomock.Any()).Return(nopObserver{}).AnyTimes()
	mockMetrics.EXPECT().StartApubRequestOut(gomock.Any()).Return(nopObserver{}).AnyTimes()
	mockMetrics.EXPECT().RemoteProfileNormalized().AnyTimes()
	mockMetrics.EXPECT().MediaFileStored().AnyTimes()
	mockMetrics.EXPECT().PostUpserted(gomock.Any()).AnyTimes()
	mockMetrics.EXPECT().PostNormalizeFailed().AnyTimes()
	mockMetrics.EXPECT().FederationError(gomock.Any()).AnyTimes()
	mockMetrics.EXPECT().StoredRows(gomock.Any(), gomock.Any()).AnyTimes()
	mockMetrics.EXPECT().ServiceStarted().AnyTimes()
}

func makeTestConfig() *shared.Config {
	cfg := &shared.Config{Host: "gibber.example"}
	cfg.ApplyDefaults()
	return cfg
}

func makePng(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

type fakeBlobStore struct {
	mu      sync.Mutex
	objects   map[string][]byte
	fail      bool
	puts      int
	failAfter int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: map[string][]byte{}}
}

func (bs *fakeBlobStore) PutObject(ctx context.Context, key string, data []byte, mime string) (string, error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.puts++
	if bs.fail || (bs.failAfter > 0 && bs.puts > bs.failAfter) {
		return "", fmt.Errorf("blob store unavailable")
	}
	bs.objects[key] = data
	return "https://blobs.example/media/" + key, nil
}

func (bs *fakeBlobStore) DeleteObject(ctx context.Context, key string) error {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	delete(bs.objects, key)
	return nil
}

func (bs *fakeBlobStore) count() int {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return len(bs.objects)
}

type remoteNote struct {
	id        string
	published string
	content   string
	boost     bool
}

// remoteInstance is a fake federated server that serves one user over TLS.
type remoteInstance struct {
	server *httptest.Server
	domain string
	user   string

	mu            sync.Mutex
	hits          map[string]int
	noSelfLink    bool
	actorStatus   int
	actorOverride string
	preferredName string
	avatarPath    string
	headerPath    string
	notes         []remoteNote
}

func newRemoteInstance(t *testing.T, user string) *remoteInstance {
	ri := &remoteInstance{
		user:       user,
		hits:       map[string]int{},
		avatarPath: "/media/avatar.png",
		headerPath: "/media/header.png",
	}
	ri.server = httptest.NewTLSServer(http.HandlerFunc(ri.serve))
	t.Cleanup(ri.server.Close)
	ri.domain = strings.TrimPrefix(ri.server.URL, "https://")
	return ri
}

func (ri *remoteInstance) url(path string) string {
	return ri.server.URL + path
}

func (ri *remoteInstance) actorUrl() string {
	return ri.url("/users/" + ri.user)
}

func (ri *remoteInstance) hitCount(path string) int {
	ri.mu.Lock()
	defer ri.mu.Unlock()
	return ri.hits[path]
}

func (ri *remoteInstance) update(fn func(ri *remoteInstance)) {
	ri.mu.Lock()
	defer ri.mu.Unlock()
	fn(ri)
}

func (ri *remoteInstance) setImages(avatarPath, headerPath string) {
	ri.mu.Lock()
	defer ri.mu.Unlock()
	ri.avatarPath = avatarPath
	ri.headerPath = headerPath
}

func (ri *remoteInstance) setNotes(notes []remoteNote) {
	ri.mu.Lock()
	defer ri.mu.Unlock()
	ri.notes = notes
}

func (ri *remoteInstance) writeJson(w http.ResponseWriter, contentType string, obj any) {
	w.Header().Set("Content-Type", contentType)
	_ = json.NewEncoder(w).Encode(obj)
}

func (ri *remoteInstance) serve(w http.ResponseWriter, r *http.Request) {

	ri.mu.Lock()
	ri.hits[r.URL.Path]++
	noSelfLink := ri.noSelfLink
	actorStatus := ri.actorStatus
	actorOverride := ri.actorOverride
	preferredName := ri.preferredName
	avatarPath := ri.avatarPath
	headerPath := ri.headerPath
	notes := append([]remoteNote{}, ri.notes...)
	ri.mu.Unlock()

	actorPath := "/users/" + ri.user
	if preferredName == "" {
		preferredName = ri.user
	}
	switch {
	case r.URL.Path == "/.well-known/webfinger":
		if r.URL.Query().Get("resource") != "acct:"+ri.user+"@"+ri.domain {
			http.NotFound(w, r)
			return
		}
		links := []map[string]string{
			{"rel": "http://webfinger.net/rel/profile-page", "type": "text/html", "href": ri.url("/@" + ri.user)},
		}
		if !noSelfLink {
			links = append(links, map[string]string{
				"rel": "self", "type": "application/activity+json", "href": ri.actorUrl(),
			})
		}
		ri.writeJson(w, "application/jrd+json", map[string]any{
			"subject": "acct:" + ri.user + "@" + ri.domain,
			"links":   links,
		})
	case r.URL.Path == actorPath:
		if actorStatus != 0 {
			w.WriteHeader(actorStatus)
			return
		}
		if actorOverride != "" {
			w.Header().Set("Content-Type", "application/activity+json")
			_, _ = io.WriteString(w, actorOverride)
			return
		}
		actor := map[string]any{
			"@context":          "https://www.w3.org/ns/activitystreams",
			"id":                ri.actorUrl(),
			"type":              "Person",
			"preferredUsername": preferredName,
			"name":              "Bob <b>Builder</b>",
			"summary":           "<p>I build things<script>alert(1)</script></p>",
			"published":         "2023-04-01T10:00:00Z",
			"outbox":            ri.url(actorPath + "/outbox"),
		}
		if avatarPath != "" {
			actor["icon"] = map[string]string{"type": "Image", "mediaType": "image/png", "url": ri.url(avatarPath)}
		}
		if headerPath != "" {
			actor["image"] = map[string]string{"type": "Image", "url": ri.url(headerPath)}
		}
		ri.writeJson(w, "application/activity+json", actor)
	case r.URL.Path == actorPath+"/outbox":
		ri.writeJson(w, "application/activity+json", map[string]any{
			"@context":   "https://www.w3.org/ns/activitystreams",
			"id":         ri.url(actorPath + "/outbox"),
			"type":       "OrderedCollection",
			"totalItems": len(notes),
			"first":      ri.url(actorPath + "/outbox/page"),
		})
	case r.URL.Path == actorPath+"/outbox/page":
		items := []any{}
		for _, n := range notes {
			if n.boost {
				items = append(items, map[string]any{
					"id":     n.id + "/activity",
					"type":   "Announce",
					"actor":  ri.actorUrl(),
					"object": "https://elsewhere.example/notes/1",
				})
				continue
			}
			items = append(items, map[string]any{
				"id":        n.id + "/activity",
				"type":      "Create",
				"actor":     ri.actorUrl(),
				"published": n.published,
				"object": map[string]any{
					"id":           n.id,
					"type":         "Note",
					"attributedTo": ri.actorUrl(),
					"published":    n.published,
					"content":      n.content,
					"to":           []string{"https://www.w3.org/ns/activitystreams#Public"},
				},
			})
		}
		ri.writeJson(w, "application/activity+json", map[string]any{
			"id":           ri.url(actorPath + "/outbox/page"),
			"type":         "OrderedCollectionPage",
			"partOf":       ri.url(actorPath + "/outbox"),
			"orderedItems": items,
		})
	case r.URL.Path == "/media/avatar.png" || r.URL.Path == "/media/avatar2.png":
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(makePng(4, 3))
	case r.URL.Path == "/media/header.png":
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(makePng(16, 9))
	case r.URL.Path == "/media/broken.png":
		w.Header().Set("Content-Type", "image/png")
		_, _ = io.WriteString(w, "this is not an image at all")
	default:
		http.NotFound(w, r)
	}
}

// testStack is the federation facade wired against a fake remote instance and a throwaway database.
type testStack struct {
	cfg     *shared.Config
	repo    dal.IRepo
	blobs   *fakeBlobStore
	client  logic.IApubClient
	fed     logic.IFederation
	metrics *mocks.MockIMetrics
}

func newTestStack(t *testing.T, ri *remoteInstance, cfg *shared.Config) *testStack {

	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockILogger(ctrl)
	setupDummyLogger(mockLogger)
	mockMetrics := mocks.NewMockIMetrics(ctrl)
	setupDummyMetrics(mockMetrics)

	if cfg == nil {
		cfg = makeTestConfig()
	}
	cfg.DbFile = filepath.Join(t.TempDir(), "gibber.db")
	repo := dal.NewRepo(cfg, log.New(io.Discard))
	repo.InitUpdateDb()

	blobs := newFakeBlobStore()
	client := logic.NewApubClient(cfg, mockLogger, shared.NewUserAgent(cfg), mockMetrics,
		logic.NewKeyStore(cfg), ri.server.Client())
	resolver := logic.NewActorResolver(mockLogger, client)
	media := logic.NewMediaFetcher(cfg, mockLogger, client)
	profiles := logic.NewProfileNormalizer(cfg, mockLogger, repo, media, blobs, mockMetrics)
	outbox := logic.NewOutboxFetcher(mockLogger, client)
	posts := logic.NewPostNormalizer(cfg, mockLogger, repo, mockMetrics)
	fed := logic.NewFederation(cfg, mockLogger, repo, resolver, profiles, outbox, posts, mockMetrics)

	return &testStack{
		cfg:     cfg,
		repo:    repo,
		blobs:   blobs,
		client:  client,
		fed:     fed,
		metrics: mockMetrics,
	}
}

func (ts *testStack) rowCounts(t *testing.T) map[string]int {
	counts, err := ts.repo.GetRowCounts()
	if err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return counts
}
