package httpserver

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hackfolio/catalog-backend/cache"
	"github.com/hackfolio/catalog-backend/catalog"
	"github.com/hackfolio/catalog-backend/metrics"
	"github.com/hackfolio/catalog-backend/repository"
)

// maxBodySize is the maximum allowed request body size (1MB).
const maxBodySize = 1024 * 1024

// Handler processes HTTP requests for the catalog API. Every response body is
// the uniform result envelope; HTTP status codes are derived from the
// envelope's error code.
type Handler struct {
	chain      *catalog.Chain
	hackathons *repository.HackathonRepository
	users      *repository.UserRepository
	sessions   *repository.SessionRepository
	mirror     *cache.Mirror
	metrics    *metrics.MetricsServer
	log        *slog.Logger
}

// NewHandler creates an HTTP request handler over the degradation chain.
// mirror may be nil when no Redis mirror is configured.
func NewHandler(chain *catalog.Chain, sessionSecret []byte, mirror *cache.Mirror, log *slog.Logger) *Handler {
	return &Handler{
		chain:      chain,
		hackathons: repository.NewHackathonRepository(chain.ManagerFor(repository.CollectionHackathons), log),
		users:      repository.NewUserRepository(chain.ManagerFor(repository.CollectionUsers), log),
		sessions:   repository.NewSessionRepository(chain.ManagerFor(repository.CollectionSessions), sessionSecret, 0, log),
		mirror:     mirror,
		log:        log,
	}
}

// attachMetrics hands the handler the operation counters. Called by the
// server during construction, before requests are served.
func (h *Handler) attachMetrics(m *metrics.MetricsServer) {
	h.metrics = m
}

// writeCounted writes the envelope and records the operation in the catalog
// operation counter.
func (h *Handler) writeCounted(w http.ResponseWriter, collection, op string, res repository.Result) {
	if h.metrics != nil {
		outcome := "ok"
		if !res.Success {
			outcome = "error"
		}
		h.metrics.CatalogOps.WithLabelValues(collection, op, outcome).Inc()
	}
	h.writeResult(w, res)
}

// statusForCode maps envelope error codes onto HTTP status codes.
func statusForCode(code string) int {
	switch code {
	case repository.CodeEntityNotFound:
		return http.StatusNotFound
	case repository.CodeValidationFailed:
		return http.StatusBadRequest
	case repository.CodeSlugConflict, repository.CodeDuplicateIdentity:
		return http.StatusConflict
	case repository.CodeCredentialInvalid, repository.CodeSessionInvalid:
		return http.StatusUnauthorized
	case repository.CodeAccountDeactivated:
		return http.StatusForbidden
	case repository.CodeBackendUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeResult(w http.ResponseWriter, res repository.Result) {
	status := http.StatusOK
	if !res.Success {
		status = statusForCode(res.Error.Code)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		h.log.Error("Failed to encode response", "err", err)
	}
}

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		h.writeResult(w, repository.Fail(repository.CodeValidationFailed, "failed to read request body"))
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		h.writeResult(w, repository.Fail(repository.CodeValidationFailed, "invalid JSON body"))
		return false
	}
	return true
}

// HandleCreateHackathon processes POST /api/hackathons.
func (h *Handler) HandleCreateHackathon(w http.ResponseWriter, r *http.Request) {
	var payload repository.Hackathon
	if !h.decodeBody(w, r, &payload) {
		return
	}
	h.writeCounted(w, repository.CollectionHackathons, "create", h.hackathons.Create(r.Context(), payload))
}

// HandleListHackathons processes GET /api/hackathons.
func (h *Handler) HandleListHackathons(w http.ResponseWriter, r *http.Request) {
	h.writeCounted(w, repository.CollectionHackathons, "list", h.hackathons.ListActive(r.Context()))
}

// HandleGetHackathon processes GET /api/hackathons/{id}.
func (h *Handler) HandleGetHackathon(w http.ResponseWriter, r *http.Request) {
	h.writeCounted(w, repository.CollectionHackathons, "read", h.hackathons.Get(r.Context(), chi.URLParam(r, "id")))
}

// HandleGetHackathonBySlug processes GET /api/hackathons/slug/{slug}. When a
// Redis mirror is configured the slug lookup consults it first; a mirror miss
// or error falls back to the authoritative catalog.
func (h *Handler) HandleGetHackathonBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if h.mirror != nil {
		id, err := h.mirror.EntityIDForSlug(r.Context(), repository.CollectionHackathons, slug)
		if err == nil {
			res := h.hackathons.Get(r.Context(), id)
			if res.Success {
				h.writeResult(w, res)
				return
			}
			// Stale mirror entry, fall through to the catalog.
			h.log.Debug("Mirror slug lookup was stale", slog.String("slug", slug))
		}
	}

	h.writeCounted(w, repository.CollectionHackathons, "read", h.hackathons.GetBySlug(r.Context(), slug))
}

// HandleUpdateHackathon processes PUT /api/hackathons/{id}.
func (h *Handler) HandleUpdateHackathon(w http.ResponseWriter, r *http.Request) {
	var payload repository.Hackathon
	if !h.decodeBody(w, r, &payload) {
		return
	}
	payload.ID = chi.URLParam(r, "id")
	h.writeCounted(w, repository.CollectionHackathons, "update", h.hackathons.Update(r.Context(), payload))
}

// HandleArchiveHackathon processes DELETE /api/hackathons/{id}.
func (h *Handler) HandleArchiveHackathon(w http.ResponseWriter, r *http.Request) {
	h.writeCounted(w, repository.CollectionHackathons, "archive", h.hackathons.Archive(r.Context(), chi.URLParam(r, "id")))
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister processes POST /api/auth/register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var payload registerRequest
	if !h.decodeBody(w, r, &payload) {
		return
	}
	h.writeCounted(w, repository.CollectionUsers, "register", h.users.Register(r.Context(), payload.Username, payload.Email, payload.Password))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin processes POST /api/auth/login: credential check followed by
// session issuance.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if !h.decodeBody(w, r, &payload) {
		return
	}

	authRes := h.users.Authenticate(r.Context(), payload.Email, payload.Password)
	if !authRes.Success {
		h.writeCounted(w, repository.CollectionSessions, "login", authRes)
		return
	}

	user, ok := authRes.Data.(repository.PublicUser)
	if !ok {
		h.writeResult(w, repository.Fail(repository.CodeInternal, "internal error"))
		return
	}

	sessionRes := h.sessions.Issue(r.Context(), user.ID)
	if !sessionRes.Success {
		h.writeCounted(w, repository.CollectionSessions, "login", sessionRes)
		return
	}

	data, _ := sessionRes.Data.(map[string]any)
	data["user"] = user
	h.writeCounted(w, repository.CollectionSessions, "login", repository.OK(data))
}

// HandleVerifySession processes GET /api/auth/session.
func (h *Handler) HandleVerifySession(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		h.writeResult(w, repository.Fail(repository.CodeSessionInvalid, "missing bearer token"))
		return
	}
	h.writeCounted(w, repository.CollectionSessions, "verify", h.sessions.Verify(r.Context(), token))
}

// HandleLogout processes POST /api/auth/logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		h.writeResult(w, repository.Fail(repository.CodeSessionInvalid, "missing bearer token"))
		return
	}
	h.writeCounted(w, repository.CollectionSessions, "logout", h.sessions.Logout(r.Context(), token))
}

// HandleResyncMirror processes POST /api/admin/resync/{collection}: a manual
// rebuild of the Redis mirror from the authoritative catalog.
func (h *Handler) HandleResyncMirror(w http.ResponseWriter, r *http.Request) {
	if h.mirror == nil {
		h.writeResult(w, repository.Fail(repository.CodeValidationFailed, "no mirror configured"))
		return
	}

	collection := chi.URLParam(r, "collection")
	switch collection {
	case repository.CollectionHackathons, repository.CollectionUsers, repository.CollectionSessions:
	default:
		h.writeResult(w, repository.Fail(repository.CodeValidationFailed, "unknown collection"))
		return
	}

	count, err := h.mirror.Resync(r.Context(), h.chain.ManagerFor(collection))
	if err != nil {
		h.log.Error("Mirror resync failed", slog.String("collection", collection), "err", err)
		h.writeResult(w, repository.FailErr(err))
		return
	}
	h.writeResult(w, repository.OK(map[string]any{"collection": collection, "entries": count}))
}

// HandleStatus processes GET /api/status, reporting the selected tier.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, repository.OK(map[string]string{"tier": h.chain.Tier().String()}))
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(auth, prefix))
	return token, token != ""
}
