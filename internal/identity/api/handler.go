// Package identityapi exposes admin account management over HTTP.
package identityapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"storeadmin/internal/identity"
)

const maxBodyBytes = 1 << 20

// AccountStore is the slice of account persistence the handlers need.
type AccountStore interface {
	List(ctx context.Context) ([]identity.Account, error)
	GetByID(ctx context.Context, id int64) (identity.Account, error)
	Create(ctx context.Context, in identity.CreateAccountInput) (identity.Account, error)
	Update(ctx context.Context, id int64, in identity.UpdateAccountInput) error
	UpdateStatus(ctx context.Context, id int64, status identity.Status) (identity.Account, error)
	Delete(ctx context.Context, id int64) error
}

// Guard wraps a handler with an authentication check.
type Guard func(http.HandlerFunc) http.HandlerFunc

// Handler serves the manage-admins CRUD surface. Every route is wrapped in
// the strict session guard.
type Handler struct {
	log   *slog.Logger
	store AccountStore
	guard Guard
}

// NewHandler constructs an admin-management Handler.
func NewHandler(log *slog.Logger, store AccountStore, guard Guard) (*Handler, error) {
	if log == nil || store == nil || guard == nil {
		return nil, errors.New("identityapi: nil dependency")
	}
	return &Handler{log: log, store: store, guard: guard}, nil
}

// Register wires the admin management routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /admins", h.guard(h.handleList))
	mux.HandleFunc("POST /admins", h.guard(h.handleCreate))
	mux.HandleFunc("GET /admins/{id}", h.guard(h.handleGet))
	mux.HandleFunc("PUT /admins/{id}", h.guard(h.handleUpdate))
	mux.HandleFunc("PUT /admins/{id}/status", h.guard(h.handleUpdateStatus))
	mux.HandleFunc("DELETE /admins/{id}", h.guard(h.handleDelete))
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
var numberRe = regexp.MustCompile(`^\d{10}$`)

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.store.List(r.Context())
	if err != nil {
		h.log.Error("admins.list.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := make([]adminResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAdminResponse(a))
	}
	writeJSON(w, http.StatusOK, listResponse{Admins: out})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	acct, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err, "admins.get.fail")
		return
	}
	writeJSON(w, http.StatusOK, toAdminResponse(acct))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createAdminRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg, ok := validateCreate(&req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	acct, err := h.store.Create(r.Context(), identity.CreateAccountInput{
		Name:     req.Name,
		Email:    req.Email,
		Number:   req.Number,
		Password: req.Password,
		Status:   identity.Status(req.Status),
	})
	if err != nil {
		h.writeStoreError(w, err, "admins.create.fail")
		return
	}
	writeJSON(w, http.StatusCreated, toAdminResponse(acct))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateAdminRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg, ok := validateUpdate(&req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	in := identity.UpdateAccountInput{
		Name:     req.Name,
		Email:    req.Email,
		Number:   req.Number,
		Password: req.Password,
	}
	if req.Status != nil {
		st := identity.Status(*req.Status)
		in.Status = &st
	}

	if err := h.store.Update(r.Context(), id, in); err != nil {
		h.writeStoreError(w, err, "admins.update.fail")
		return
	}

	acct, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err, "admins.update.reload.fail")
		return
	}
	writeJSON(w, http.StatusOK, toAdminResponse(acct))
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	acct, err := h.store.UpdateStatus(r.Context(), id, identity.Status(req.Status))
	if err != nil {
		if identity.IsInvalidInput(err) {
			writeError(w, http.StatusBadRequest, "Status must be active or blocked")
			return
		}
		h.writeStoreError(w, err, "admins.status.fail")
		return
	}
	writeJSON(w, http.StatusOK, toAdminResponse(acct))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeStoreError(w, err, "admins.delete.fail")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Admin deleted"})
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error, logKey string) {
	var conflict identity.ConflictError
	switch {
	case errors.As(err, &conflict) && len(conflict.Fields) > 0:
		writeError(w, http.StatusConflict, strings.Join(conflict.Fields, ", ")+" already exists")
	case identity.IsConflict(err):
		writeError(w, http.StatusConflict, "Admin already exists")
	case identity.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Admin not found")
	default:
		h.log.Error(logKey, "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func validateCreate(req *createAdminRequest) (string, bool) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Number = strings.TrimSpace(req.Number)

	if req.Name == "" {
		return "Name is required", false
	}
	if !emailRe.MatchString(req.Email) {
		return "A valid email is required", false
	}
	if !numberRe.MatchString(req.Number) {
		return "Number must be 10 digits", false
	}
	if len(req.Password) < 6 {
		return "Password must be at least 6 characters", false
	}
	if req.Status != "" && req.Status != string(identity.StatusActive) && req.Status != string(identity.StatusBlocked) {
		return "Status must be active or blocked", false
	}
	return "", true
}

func validateUpdate(req *updateAdminRequest) (string, bool) {
	if req.Email != nil && !emailRe.MatchString(strings.TrimSpace(*req.Email)) {
		return "A valid email is required", false
	}
	if req.Number != nil && !numberRe.MatchString(strings.TrimSpace(*req.Number)) {
		return "Number must be 10 digits", false
	}
	if req.Password != nil && *req.Password != "" && len(*req.Password) < 6 {
		return "Password must be at least 6 characters", false
	}
	if req.Status != nil && *req.Status != string(identity.StatusActive) && *req.Status != string(identity.StatusBlocked) {
		return "Status must be active or blocked", false
	}
	return "", true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid admin id")
		return 0, false
	}
	return id, true
}
