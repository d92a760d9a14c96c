package authapi

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storeadmin/internal/auth/session"
	"storeadmin/internal/identity"
)

const defaultMaxBodyBytes = 1 << 20

// Handler wires the admin auth endpoints to the session service.
type Handler struct {
	log      *slog.Logger
	sessions *session.Service
	accounts session.AccountDirectory

	maxBodyBytes int64
	trustProxy   bool
}

// NewHandler constructs an auth Handler.
func NewHandler(log *slog.Logger, sessions *session.Service, accounts session.AccountDirectory, trustProxy bool) (*Handler, error) {
	if log == nil || sessions == nil || accounts == nil {
		return nil, errors.New("authapi: nil dependency")
	}
	return &Handler{
		log:          log,
		sessions:     sessions,
		accounts:     accounts,
		maxBodyBytes: defaultMaxBodyBytes,
		trustProxy:   trustProxy,
	}, nil
}

// Register wires auth routes onto the provided mux. Everything past login
// runs behind the strict session check: a blacklisted session is cut off
// immediately, not at token expiry.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/admin/login", h.handleLogin)
	mux.HandleFunc("/admin/refresh-token", h.RequireSession(h.handleRefresh))
	mux.HandleFunc("/admin/update-activity", h.RequireSession(h.handleUpdateActivity))
	mux.HandleFunc("/admin/logout", h.RequireSession(h.handleLogout))
	mux.HandleFunc("GET /admin/agency/{id}", h.RequireSession(h.handleGetAdmin))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Identifier and password are required")
		return
	}

	res, err := h.sessions.Login(r.Context(), identifier, req.Password,
		clientIP(r, h.trustProxy), strings.TrimSpace(r.UserAgent()))
	if err != nil {
		switch {
		case errors.Is(err, session.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, session.ErrAccountBlocked), errors.Is(err, session.ErrAccountInactive):
			writeAuthError(w, err)
		default:
			h.log.Error("auth.login.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: res.Token,
		ExpiresAt:   res.ExpiresAt.UTC().Format(time.RFC3339),
		Admin:       toAdminResponse(res.Account),
	})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Missing token")
		return
	}

	res, err := h.sessions.Refresh(r.Context(), token,
		clientIP(r, h.trustProxy), strings.TrimSpace(r.UserAgent()))
	if err != nil {
		switch {
		case errors.Is(err, session.ErrAccountNotFound):
			writeError(w, http.StatusUnauthorized, "Account not found")
		case errors.Is(err, session.ErrAccountBlocked),
			errors.Is(err, session.ErrAccountInactive),
			errors.Is(err, session.ErrSessionInvalidated),
			errors.Is(err, session.ErrSessionExpired),
			errors.Is(err, session.ErrInvalidToken):
			writeAuthError(w, err)
		default:
			h.log.Error("auth.refresh.fail", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{
		AccessToken: res.Token,
		ExpiresAt:   res.ExpiresAt.UTC().Format(time.RFC3339),
		Rotated:     res.Rotated,
	})
}

// handleUpdateActivity records a liveness ping. A touch that matches no live
// session is still a success; the client keeps its token either way.
func (h *Handler) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	claims, _ := ClaimsFromContext(r.Context())
	if err := h.sessions.TouchActivity(r.Context(), claims.SessionID, claims.AdminID); err != nil {
		h.log.Error("auth.activity.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Activity updated"})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	claims, _ := ClaimsFromContext(r.Context())
	if err := h.sessions.Logout(r.Context(), claims.SessionID, claims.AdminID); err != nil {
		h.log.Error("auth.logout.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
}

func (h *Handler) handleGetAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid admin id")
		return
	}

	acct, err := h.accounts.GetByID(r.Context(), id)
	if err != nil {
		if identity.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Admin not found")
			return
		}
		h.log.Error("auth.get_admin.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toAdminResponse(acct))
}

func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if raw := r.Header.Get("X-Forwarded-For"); raw != "" {
			if first := strings.TrimSpace(strings.Split(raw, ",")[0]); first != "" {
				return first
			}
		}
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
