package logic

import (
	"gibber/shared"
	"github.com/prometheus/client_golang/prometheus"
	"time"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_metrics.go -package mocks gibber/logic IMetrics,IRequestObserver

type IMetrics interface {
	StartWebRequestIn(label string) IRequestObserver
	StartApubRequestIn(label string) IRequestObserver
	StartApubRequestOut(label string) IRequestObserver
	RemoteProfileNormalized()
	MediaFileStored()
	PostUpserted(result string)
	PostNormalizeFailed()
	FederationError(kind string)
	StoredRows(table string, count int)
	ServiceStarted()
}

type IRequestObserver interface {
	Finish()
}

type metrics struct {
	cfg                *shared.Config
	webRequestsIn      *prometheus.HistogramVec
	apubRequestsIn     *prometheus.HistogramVec
	apubRequestsOut    *prometheus.HistogramVec
	profilesNormalized prometheus.Counter
	mediaFilesStored   prometheus.Counter
	postsUpserted      *prometheus.CounterVec
	postFailures       prometheus.Counter
	federationErrors   *prometheus.CounterVec
	storedRows         *prometheus.GaugeVec
	serviceStarted     prometheus.Counter
}

func NewMetrics(cfg *shared.Config) IMetrics {

	res := metrics{}
	res.cfg = cfg

	res.webRequestsIn = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "web_requests_in_duration",
		Help: "Duration in seconds of API requests served.",
	}, []string{"label"})
	prometheus.Register(res.webRequestsIn)

	res.apubRequestsIn = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "apub_requests_in_duration",
		Help: "Duration in seconds of ActivityPub requests served.",
	}, []string{"label"})
	prometheus.Register(res.apubRequestsIn)

	res.apubRequestsOut = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "apub_requests_out_duration",
		Help: "Duration in seconds of ActivityPub requests made.",
	}, []string{"label"})
	prometheus.Register(res.apubRequestsOut)

	res.profilesNormalized = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "remote_profiles_normalized",
		Help: "Number of remote profiles created or refreshed",
	})
	prometheus.Register(res.profilesNormalized)

	res.mediaFilesStored = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "media_files_stored",
		Help: "Number of avatar and header images stored",
	})
	prometheus.Register(res.mediaFilesStored)

	res.postsUpserted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "posts_upserted",
		Help: "Number of remote posts written, by outcome",
	}, []string{"result"})
	prometheus.Register(res.postsUpserted)

	res.postFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "post_normalize_failures",
		Help: "Number of remote posts that could not be normalized",
	})
	prometheus.Register(res.postFailures)

	res.federationErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "federation_errors",
		Help: "Number of failed federation requests, by error kind",
	}, []string{"kind"})
	prometheus.Register(res.federationErrors)

	res.storedRows = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "stored_rows",
		Help: "Number of rows in the database, by table",
	}, []string{"table"})
	prometheus.Register(res.storedRows)

	res.serviceStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "service_started",
		Help: "Service has started up",
	})
	prometheus.Register(res.serviceStarted)

	return &res
}

type requestObserver struct {
	label string
	start time.Time
	hgvec *prometheus.HistogramVec
}

func (ro *requestObserver) Finish() {
	elapsed := time.Since(ro.start).Seconds()
	ro.hgvec.WithLabelValues(ro.label).Observe(elapsed)
}

func (m *metrics) StartWebRequestIn(label string) IRequestObserver {
	return &requestObserver{label, time.Now(), m.webRequestsIn}
}

func (m *metrics) StartApubRequestIn(label string) IRequestObserver {
	return &requestObserver{label, time.Now(), m.apubRequestsIn}
}

func (m *metrics) StartApubRequestOut(label string) IRequestObserver {
	return &requestObserver{label, time.Now(), m.apubRequestsOut}
}

func (m *metrics) RemoteProfileNormalized() {
	m.profilesNormalized.Add(1)
}

func (m *metrics) MediaFileStored() {
	m.mediaFilesStored.Add(1)
}

func (m *metrics) PostUpserted(result string) {
	m.postsUpserted.WithLabelValues(result).Add(1)
}

func (m *metrics) PostNormalizeFailed() {
	m.postFailures.Add(1)
}

func (m *metrics) FederationError(kind string) {
	m.federationErrors.WithLabelValues(kind).Add(1)
}

func (m *metrics) StoredRows(table string, count int) {
	m.storedRows.WithLabelValues(table).Set(float64(count))
}

func (m *metrics) ServiceStarted() {
	m.serviceStarted.Add(1)
}
