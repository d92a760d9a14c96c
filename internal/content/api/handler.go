// Package contentapi exposes the site content over HTTP: public reads for the
// storefront and guarded writes for the dashboard.
package contentapi

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"storeadmin/internal/content"
)

const maxBodyBytes = 1 << 20

// Guard wraps a handler with an authentication check.
type Guard func(http.HandlerFunc) http.HandlerFunc

// Handler serves the content routes. Reads are public; every mutation goes
// through the guard.
type Handler struct {
	log   *slog.Logger
	store content.Store
	guard Guard

	// contactDailyLimit caps public contact submissions per ip per day.
	contactDailyLimit int64
	trustProxy        bool
}

// NewHandler constructs a content Handler.
func NewHandler(log *slog.Logger, store content.Store, guard Guard, contactDailyLimit int64, trustProxy bool) (*Handler, error) {
	if log == nil || store == nil || guard == nil {
		return nil, errors.New("contentapi: nil dependency")
	}
	if contactDailyLimit <= 0 {
		contactDailyLimit = 3
	}
	return &Handler{
		log:               log,
		store:             store,
		guard:             guard,
		contactDailyLimit: contactDailyLimit,
		trustProxy:        trustProxy,
	}, nil
}

// Register wires the content routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	// Public storefront reads.
	mux.HandleFunc("GET /categories", h.handlePublicCategories)
	mux.HandleFunc("GET /items", h.handlePublicItems)
	mux.HandleFunc("GET /banner", h.handleGetBanner)
	mux.HandleFunc("GET /gallery", h.handleListGallery)
	mux.HandleFunc("GET /gallery/{id}", h.handleGetGalleryImage)
	mux.HandleFunc("GET /offers", h.handlePublicOffers)
	mux.HandleFunc("GET /branches", h.handlePublicBranches)
	mux.HandleFunc("GET /popular-products", h.handleListPopular)
	mux.HandleFunc("GET /settings", h.handleGetSettings)
	mux.HandleFunc("POST /contact", h.handleSubmitContact)
	mux.HandleFunc("GET /contact/rate-limit", h.handleContactRateLimit)

	// Dashboard: categories.
	mux.HandleFunc("GET /admin/categories", h.guard(h.handleAdminCategories))
	mux.HandleFunc("POST /admin/categories", h.guard(h.handleCreateCategory))
	mux.HandleFunc("GET /admin/categories/{id}", h.guard(h.handleGetCategory))
	mux.HandleFunc("PUT /admin/categories/{id}", h.guard(h.handleUpdateCategory))
	mux.HandleFunc("PUT /admin/categories/{id}/status", h.guard(h.handleCategoryStatus))
	mux.HandleFunc("DELETE /admin/categories/{id}", h.guard(h.handleDeleteCategory))

	// Dashboard: items.
	mux.HandleFunc("GET /admin/items", h.guard(h.handleAdminItems))
	mux.HandleFunc("POST /admin/items", h.guard(h.handleCreateItem))
	mux.HandleFunc("GET /admin/items/{id}", h.guard(h.handleGetItem))
	mux.HandleFunc("PUT /admin/items/{id}", h.guard(h.handleUpdateItem))
	mux.HandleFunc("PUT /admin/items/{id}/status", h.guard(h.handleItemStatus))
	mux.HandleFunc("DELETE /admin/items/{id}", h.guard(h.handleDeleteItem))

	// Dashboard: gallery and banner.
	mux.HandleFunc("POST /admin/gallery", h.guard(h.handleAddGalleryImage))
	mux.HandleFunc("PUT /admin/gallery/{id}", h.guard(h.handleUpdateGalleryImage))
	mux.HandleFunc("DELETE /admin/gallery/{id}", h.guard(h.handleDeleteGalleryImage))
	mux.HandleFunc("PUT /admin/banner", h.guard(h.handleUpdateBanner))

	// Dashboard: offers.
	mux.HandleFunc("GET /admin/offers", h.guard(h.handleAdminOffers))
	mux.HandleFunc("POST /admin/offers", h.guard(h.handleCreateOffer))
	mux.HandleFunc("GET /admin/offers/{id}", h.guard(h.handleGetOffer))
	mux.HandleFunc("PUT /admin/offers/{id}", h.guard(h.handleUpdateOffer))
	mux.HandleFunc("PUT /admin/offers/{id}/status", h.guard(h.handleOfferStatus))
	mux.HandleFunc("DELETE /admin/offers/{id}", h.guard(h.handleDeleteOffer))

	// Dashboard: branches.
	mux.HandleFunc("GET /admin/branches", h.guard(h.handleAdminBranches))
	mux.HandleFunc("POST /admin/branches", h.guard(h.handleCreateBranch))
	mux.HandleFunc("GET /admin/branches/{id}", h.guard(h.handleGetBranch))
	mux.HandleFunc("PUT /admin/branches/{id}", h.guard(h.handleUpdateBranch))
	mux.HandleFunc("PUT /admin/branches/{id}/status", h.guard(h.handleBranchStatus))
	mux.HandleFunc("DELETE /admin/branches/{id}", h.guard(h.handleDeleteBranch))

	// Dashboard: contacts, popular products, settings.
	mux.HandleFunc("GET /admin/contacts", h.guard(h.handleListContacts))
	mux.HandleFunc("PUT /admin/contacts/{id}/seen", h.guard(h.handleMarkContactSeen))
	mux.HandleFunc("DELETE /admin/contacts/{id}", h.guard(h.handleDeleteContact))
	mux.HandleFunc("POST /admin/popular-products", h.guard(h.handleAddPopular))
	mux.HandleFunc("DELETE /admin/popular-products/{id}", h.guard(h.handleRemovePopular))
	mux.HandleFunc("PUT /admin/settings", h.guard(h.handleUpdateSettings))
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error, logKey string) {
	switch {
	case content.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found")
	case content.IsConflict(err):
		writeError(w, http.StatusConflict, "Already exists")
	case content.IsInvalidInput(err):
		writeError(w, http.StatusBadRequest, "Invalid input")
	default:
		h.log.Error(logKey, "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 0 {
		return 0
	}
	return v
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
