package server

import (
	"gibber/logic"
	"gibber/shared"
	"github.com/gorilla/mux"
	"net/http"
	"regexp"
	"strings"
)

// Groups together the handlers that make local profiles discoverable over ActivityPub.
type apubHandlerGroup struct {
	cfg        *shared.Config
	logger     shared.ILogger
	metrics    logic.IMetrics
	udir       logic.IUserDirectory
	reResource *regexp.Regexp
}

func NewApubHandlerGroup(
	cfg *shared.Config,
	logger shared.ILogger,
	metrics logic.IMetrics,
	udir logic.IUserDirectory,
) IHandlerGroup {
	res := apubHandlerGroup{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		udir:    udir,
	}
	res.reResource = regexp.MustCompile("^acct:([^@]+)@([^@]+)$")
	return &res
}

func (hg *apubHandlerGroup) Prefix() string {
	return ""
}

func (hg *apubHandlerGroup) GroupDefs() []handlerDef {
	return []handlerDef{
		{"GET", "/.well-known/webfinger", func(w http.ResponseWriter, r *http.Request) { hg.getWebfinger(w, r) }},
		{"GET", "/api/activitypub/{user}", func(w http.ResponseWriter, r *http.Request) { hg.getActor(w, r) }},
		{"GET", "/api/activitypub/{user}/outbox", func(w http.ResponseWriter, r *http.Request) { hg.getOutbox(w, r) }},
		{"GET", "/api/activitypub/{user}/outbox/page", func(w http.ResponseWriter, r *http.Request) { hg.getOutboxPage(w, r) }},
	}
}

func (hg *apubHandlerGroup) AuthMW() func(next http.Handler) http.Handler {
	return emptyMW
}

func (hg *apubHandlerGroup) getWebfinger(w http.ResponseWriter, r *http.Request) {

	hg.logger.Infof("Handling webfinger GET: %s", r.URL.Path)
	obs := hg.metrics.StartApubRequestIn("webfinger")
	defer obs.Finish()

	resourceParam := r.URL.Query().Get("resource")
	groups := hg.reResource.FindStringSubmatch(resourceParam)
	if groups == nil {
		hg.logger.Infof("Webfinger: Invalid request; 'resource' param is '%s'", resourceParam)
		writeErrorResponse(w, "Missing or invalid 'resource' param", http.StatusBadRequest)
		return
	}
	user, host := groups[1], groups[2]
	if !strings.EqualFold(host, hg.cfg.Host) {
		hg.logger.Infof("Webfinger: Resource is not on this instance: '%s'", resourceParam)
		writeErrorResponse(w, "No such resource", http.StatusNotFound)
		return
	}

	resp, err := hg.udir.GetWebfinger(user)
	if err != nil {
		hg.logger.Errorf("Webfinger: Failed to look up user '%s': %v", user, err)
		writeErrorResponse(w, internalErrorStr, http.StatusInternalServerError)
		return
	}
	if resp == nil {
		hg.logger.Infof("Webfinger: No such resource; 'resource' param is '%s'", resourceParam)
		writeErrorResponse(w, "No such resource", http.StatusNotFound)
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	writeJsonResponse(hg.logger, w, false, resp)
}

func (hg *apubHandlerGroup) getActor(w http.ResponseWriter, r *http.Request) {

	hg.logger.Infof("Handling actor GET: %s", r.URL.Path)
	obs := hg.metrics.StartApubRequestIn("actor")
	defer obs.Finish()
	userName := mux.Vars(r)["user"]

	if !acceptsJson(r) {
		idb := shared.IdBuilder{Host: hg.cfg.Host}
		profileUrl := idb.ProfilePage(strings.ToLower(userName))
		hg.logger.Infof("No application/json in accept header; redirecting to: '%s'", profileUrl)
		http.Redirect(w, r, profileUrl, http.StatusSeeOther)
		return
	}

	actor, err := hg.udir.GetActor(userName)
	if err != nil {
		hg.logger.Errorf("Failed to look up user '%s': %v", userName, err)
		writeErrorResponse(w, internalErrorStr, http.StatusInternalServerError)
		return
	}
	if actor == nil {
		hg.logger.Infof("Info requested for unknown user: '%s'", userName)
		writeErrorResponse(w, "No such user", http.StatusNotFound)
		return
	}

	writeJsonResponse(hg.logger, w, true, actor)
}

func (hg *apubHandlerGroup) getOutbox(w http.ResponseWriter, r *http.Request) {

	hg.logger.Infof("Handling outbox GET: %s", r.URL.Path)
	obs := hg.metrics.StartApubRequestIn("outbox")
	defer obs.Finish()

	userName := mux.Vars(r)["user"]
	summary, err := hg.udir.GetOutboxSummary(userName)
	if err != nil {
		hg.logger.Errorf("Failed to get outbox of '%s': %v", userName, err)
		writeErrorResponse(w, internalErrorStr, http.StatusInternalServerError)
		return
	}
	if summary == nil {
		hg.logger.Infof("Outbox requested for unknown user: '%s'", userName)
		writeErrorResponse(w, "No such user", http.StatusNotFound)
		return
	}
	writeJsonResponse(hg.logger, w, true, summary)
}

func (hg *apubHandlerGroup) getOutboxPage(w http.ResponseWriter, r *http.Request) {

	hg.logger.Infof("Handling outbox page GET: %s", r.URL.Path)
	obs := hg.metrics.StartApubRequestIn("outbox/page")
	defer obs.Finish()

	userName := mux.Vars(r)["user"]
	page, err := hg.udir.GetOutboxPage(userName)
	if err != nil {
		hg.logger.Errorf("Failed to get outbox page of '%s': %v", userName, err)
		writeErrorResponse(w, internalErrorStr, http.StatusInternalServerError)
		return
	}
	if page == nil {
		hg.logger.Infof("Outbox page requested for unknown user: '%s'", userName)
		writeErrorResponse(w, "No such user", http.StatusNotFound)
		return
	}
	writeJsonResponse(hg.logger, w, true, page)
}
