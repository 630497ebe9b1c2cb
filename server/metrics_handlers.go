package server

import (
	"crypto/subtle"
	"gibber/dal"
	"gibber/logic"
	"gibber/shared"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"strings"
)

type metricsHandlerGroup struct {
	cfg             *shared.Config
	logger          shared.ILogger
	repo            dal.IRepo
	metrics         logic.IMetrics
	promHttpHandler http.Handler
}

func NewMetricsHandlerGroup(
	cfg *shared.Config,
	logger shared.ILogger,
	repo dal.IRepo,
	metrics logic.IMetrics,
) IHandlerGroup {
	res := metricsHandlerGroup{
		cfg:             cfg,
		logger:          logger,
		repo:            repo,
		metrics:         metrics,
		promHttpHandler: promhttp.Handler(),
	}
	return &res
}

func (hg *metricsHandlerGroup) Prefix() string {
	return "/"
}

func (hg *metricsHandlerGroup) GroupDefs() []handlerDef {
	return []handlerDef{
		{"GET", "/metrics", func(w http.ResponseWriter, r *http.Request) { hg.getMetrics(w, r) }},
	}
}

func (hg *metricsHandlerGroup) AuthMW() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return hg.authMW(next)
	}
}

func (hg *metricsHandlerGroup) authMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get(metricsAuthHeader)
		authSecret := strings.TrimPrefix(authHeader, "Bearer ")
		expected := hg.cfg.Secrets.MetricsAuth
		if authSecret == authHeader || expected == "" ||
			subtle.ConstantTimeCompare([]byte(authSecret), []byte(expected)) != 1 {
			hg.logger.Warnf("Metrics scrape request with missing or invalid Authorization header")
			writeErrorResponse(w, badAuthorization, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (hg *metricsHandlerGroup) getMetrics(w http.ResponseWriter, r *http.Request) {
	hg.logger.Debugf("Handling metrics GET: %s", r.URL.Path)
	if counts, err := hg.repo.GetRowCounts(); err != nil {
		hg.logger.Warnf("Failed to count stored rows: %v", err)
	} else {
		for table, count := range counts {
			hg.metrics.StoredRows(table, count)
		}
	}
	hg.promHttpHandler.ServeHTTP(w, r)
}
