package server

import (
	"errors"
	"gibber/dal"
	"gibber/dto"
	"gibber/logic"
	"gibber/shared"
	"gibber/texts"
	"github.com/gorilla/mux"
	"net/http"
	"strings"
)

// Profiles and posts by identity: user@domain goes through federation, a bare username is local.
type apiHandlerGroup struct {
	cfg     *shared.Config
	logger  shared.ILogger
	metrics logic.IMetrics
	fed     logic.IFederation
	udir    logic.IUserDirectory
	txt     texts.ITexts
}

func NewApiHandlerGroup(
	cfg *shared.Config,
	logger shared.ILogger,
	metrics logic.IMetrics,
	fed logic.IFederation,
	udir logic.IUserDirectory,
	txt texts.ITexts,
) IHandlerGroup {
	res := apiHandlerGroup{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		fed:     fed,
		udir:    udir,
		txt:     txt,
	}
	return &res
}

func (hg *apiHandlerGroup) Prefix() string {
	return "/api/v1"
}

func (hg *apiHandlerGroup) GroupDefs() []handlerDef {
	return []handlerDef{
		{"GET", "/profiles/{ident}", func(w http.ResponseWriter, r *http.Request) { hg.getProfile(w, r) }},
		{"GET", "/profiles/{ident}/posts", func(w http.ResponseWriter, r *http.Request) { hg.getPosts(w, r) }},
	}
}

func (hg *apiHandlerGroup) AuthMW() func(next http.Handler) http.Handler {
	return emptyMW
}

// Returns the username and the domain; domain is empty for local profiles.
func (hg *apiHandlerGroup) parseIdent(ident string) (user, domain string, err error) {
	if !strings.Contains(strings.TrimPrefix(ident, "@"), "@") {
		user = strings.ToLower(strings.TrimPrefix(ident, "@"))
		return user, "", shared.ValidateUsername(user)
	}
	if user, domain, err = shared.ParseIdentity(ident); err != nil {
		return
	}
	if strings.EqualFold(domain, hg.cfg.Host) {
		domain = ""
	}
	return
}

func (hg *apiHandlerGroup) writeFederationError(w http.ResponseWriter, acct string, err error) {
	var mediaErr *logic.MediaFetchError
	var discoveryErr *logic.DiscoveryError
	var fetchErr *logic.FetchError
	vals := map[string]string{"acct": acct}
	switch {
	case errors.As(err, &discoveryErr):
		hg.logger.Infof("%s is not federated: %v", acct, err)
		writeErrorResponse(w, hg.txt.WithVals("err_not_federated.txt", vals), http.StatusNotFound)
	case errors.As(err, &mediaErr), errors.As(err, &fetchErr):
		hg.logger.Infof("Remote data of %s unavailable: %v", acct, err)
		writeErrorResponse(w, hg.txt.WithVals("err_remote_unavailable.txt", vals), http.StatusBadGateway)
	case errors.Is(err, logic.ErrInvalidIdentity):
		writeErrorResponse(w, hg.txt.WithVals("err_invalid_identity.txt", map[string]string{"ident": acct}), http.StatusBadRequest)
	default:
		hg.logger.Errorf("Failed to get remote data of %s: %v", acct, err)
		writeErrorResponse(w, internalErrorStr, http.StatusInternalServerError)
	}
}

func (hg *apiHandlerGroup) getProfileOrFail(w http.ResponseWriter, r *http.Request) (*dal.Profile, bool) {

	ident := mux.Vars(r)["ident"]
	user, domain, err := hg.parseIdent(ident)
	if err != nil {
		hg.logger.Infof("Invalid identity '%s': %v", ident, err)
		writeErrorResponse(w, hg.txt.WithVals("err_invalid_identity.txt", map[string]string{"ident": ident}), http.StatusBadRequest)
		return nil, false
	}

	var profile *dal.Profile
	if domain == "" {
		profile, err = hg.udir.GetLocalProfile(user)
	} else {
		profile, err = hg.fed.GetOrCreateRemoteProfile(r.Context(), user, domain)
	}
	if err != nil {
		hg.writeFederationError(w, shared.MakeAcct(user, domain), err)
		return nil, false
	}
	if profile == nil {
		writeErrorResponse(w, hg.txt.WithVals("err_no_such_profile.txt", map[string]string{"ident": ident}), http.StatusNotFound)
		return nil, false
	}
	return profile, true
}

func (hg *apiHandlerGroup) getProfile(w http.ResponseWriter, r *http.Request) {

	hg.logger.Infof("Handling profile GET: %s", r.URL.Path)
	obs := hg.metrics.StartWebRequestIn("profile")
	defer obs.Finish()

	profile, ok := hg.getProfileOrFail(w, r)
	if !ok {
		return
	}
	writeJsonResponse(hg.logger, w, false, toProfileDto(profile))
}

func (hg *apiHandlerGroup) getPosts(w http.ResponseWriter, r *http.Request) {

	hg.logger.Infof("Handling posts GET: %s", r.URL.Path)
	obs := hg.metrics.StartWebRequestIn("posts")
	defer obs.Finish()

	profile, ok := hg.getProfileOrFail(w, r)
	if !ok {
		return
	}

	var err error
	var posts []*dal.Post
	if strings.EqualFold(profile.Domain, hg.cfg.Host) {
		posts, err = hg.udir.GetLocalPosts(profile.Username)
	} else {
		posts, err = hg.fed.GetOrCreateRemotePosts(r.Context(), profile.Username, profile.Domain)
	}
	if err != nil {
		hg.writeFederationError(w, shared.MakeAcct(profile.Username, profile.Domain), err)
		return
	}

	resp := dto.PostList{
		Profile: toProfileDto(profile),
		Posts:   make([]*dto.Post, 0, len(posts)),
	}
	for _, post := range posts {
		resp.Posts = append(resp.Posts, &dto.Post{
			Id:        post.Id,
			ProfileId: post.ProfileId,
			Content:   post.Content,
			CreatedAt: post.CreatedAt,
			UpdatedAt: post.UpdatedAt,
		})
	}
	writeJsonResponse(hg.logger, w, false, &resp)
}

func toFileDto(file *dal.File) *dto.File {
	if file == nil {
		return nil
	}
	return &dto.File{
		Id:        file.Id,
		Url:       file.Url,
		Mime:      file.Mime,
		Extension: file.Extension,
		Size:      file.Size,
		Width:     file.Width,
		Height:    file.Height,
	}
}

func toProfileDto(profile *dal.Profile) *dto.Profile {
	return &dto.Profile{
		Id:             profile.Id,
		Username:       profile.Username,
		Domain:         profile.Domain,
		Name:           profile.Name,
		Summary:        profile.Summary,
		FollowersCount: profile.FollowersCount,
		FollowingCount: profile.FollowingCount,
		Avatar:         toFileDto(profile.Avatar),
		Header:         toFileDto(profile.Header),
		ActorUri:       profile.ActorUri,
		CreatedAt:      profile.CreatedAt,
	}
}
