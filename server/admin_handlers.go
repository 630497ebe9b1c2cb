package server

import (
	"encoding/json"
	"errors"
	"gibber/dto"
	"gibber/logic"
	"gibber/shared"
	"github.com/go-playground/validator/v10"
	"net/http"
)

type adminHandlerGroup struct {
	cfg      *shared.Config
	logger   shared.ILogger
	metrics  logic.IMetrics
	udir     logic.IUserDirectory
	validate *validator.Validate
}

func NewAdminHandlerGroup(
	cfg *shared.Config,
	logger shared.ILogger,
	metrics logic.IMetrics,
	udir logic.IUserDirectory,
) IHandlerGroup {
	res := adminHandlerGroup{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		udir:     udir,
		validate: validator.New(),
	}
	return &res
}

func (hg *adminHandlerGroup) Prefix() string {
	return "/admin"
}

func (hg *adminHandlerGroup) GroupDefs() []handlerDef {
	return []handlerDef{
		{"POST", "/profiles", func(w http.ResponseWriter, r *http.Request) { hg.postProfiles(w, r) }},
	}
}

func (hg *adminHandlerGroup) AuthMW() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return hg.authMW(next)
	}
}

func (hg *adminHandlerGroup) authMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var apiKey = r.Header.Get(apiKeyHeader)
		found := false
		for _, key := range hg.cfg.Secrets.ApiKeys {
			if apiKey != "" && apiKey == key {
				found = true
			}
		}
		if !found {
			keyPart := apiKey
			if len(apiKey) > 4 {
				keyPart = apiKey[:4] + "..."
			}
			hg.logger.Warnf("Admin request with missing or invalid key '%s': %s", keyPart, r.URL.Path)
			writeErrorResponse(w, badApiKeyStr, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (hg *adminHandlerGroup) postProfiles(w http.ResponseWriter, r *http.Request) {

	hg.logger.Infof("Handling profile POST: %s", r.URL.Path)
	obs := hg.metrics.StartWebRequestIn("admin/profiles")
	defer obs.Finish()

	body := readBody(hg.logger, w, r)
	if body == nil {
		return
	}
	var req dto.CreateProfileReq
	if err := json.Unmarshal(body, &req); err != nil {
		hg.logger.Infof("Invalid JSON in request body: %v", err)
		writeErrorResponse(w, "Request body is not valid JSON", http.StatusBadRequest)
		return
	}
	if err := hg.validate.Struct(&req); err != nil {
		hg.logger.Infof("Invalid profile request: %v", err)
		writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	profile, isNew, err := hg.udir.CreateLocalProfile(&req)
	if err != nil {
		if errors.Is(err, logic.ErrInvalidIdentity) {
			writeErrorResponse(w, err.Error(), http.StatusBadRequest)
			return
		}
		hg.logger.Errorf("Failed to create profile '%s': %v", req.Username, err)
		writeErrorResponse(w, internalErrorStr, http.StatusInternalServerError)
		return
	}
	if !isNew {
		writeJsonResponse(hg.logger, w, false, toProfileDto(profile))
		return
	}
	w.Header().Set("Location", "/api/v1/profiles/"+profile.Username)
	writeJsonResponseWithStatus(hg.logger, w, false, http.StatusCreated, toProfileDto(profile))
}
