package contentapi

import (
	"net/http"
	"strings"
	"time"

	"storeadmin/internal/content"
)

// ---- gallery ----

func (h *Handler) handleListGallery(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page")
	perPage := queryInt(r, "perPage")

	images, total, err := h.store.ListGallery(r.Context(), page, perPage)
	if err != nil {
		h.writeStoreError(w, err, "content.gallery.list.fail")
		return
	}

	out := make([]galleryImageResponse, 0, len(images))
	for _, g := range images {
		out = append(out, toGalleryImageResponse(g))
	}

	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	writeJSON(w, http.StatusOK, galleryListResponse{Images: out, Total: total, Page: page, PerPage: perPage})
}

func (h *Handler) handleGetGalleryImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	g, err := h.store.GetGalleryImage(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err, "content.gallery.get.fail")
		return
	}
	writeJSON(w, http.StatusOK, toGalleryImageResponse(g))
}

func (h *Handler) handleAddGalleryImage(w http.ResponseWriter, r *http.Request) {
	var req galleryRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "A title is required")
		return
	}
	if strings.TrimSpace(req.Image) == "" {
		writeError(w, http.StatusBadRequest, "An image is required")
		return
	}

	g, err := h.store.AddGalleryImage(r.Context(), strings.TrimSpace(req.Title), strings.TrimSpace(req.Image))
	if err != nil {
		h.writeStoreError(w, err, "content.gallery.add.fail")
		return
	}
	writeJSON(w, http.StatusCreated, toGalleryImageResponse(g))
}

// handleUpdateGalleryImage renames a gallery entry and optionally swaps its
// image. An empty image keeps the stored one.
func (h *Handler) handleUpdateGalleryImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req galleryRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "A title is required")
		return
	}

	g, err := h.store.UpdateGalleryImage(r.Context(), id, strings.TrimSpace(req.Title), strings.TrimSpace(req.Image))
	if err != nil {
		h.writeStoreError(w, err, "content.gallery.update.fail")
		return
	}
	writeJSON(w, http.StatusOK, toGalleryImageResponse(g))
}

func (h *Handler) handleDeleteGalleryImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteGalleryImage(r.Context(), id); err != nil {
		h.writeStoreError(w, err, "content.gallery.delete.fail")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Image deleted"})
}

// ---- banner ----

func (h *Handler) handleGetBanner(w http.ResponseWriter, r *http.Request) {
	b, err := h.store.GetBanner(r.Context())
	if err != nil {
		if content.IsNotFound(err) {
			// No banner configured yet: serve an empty one.
			writeJSON(w, http.StatusOK, bannerResponse{})
			return
		}
		h.writeStoreError(w, err, "content.banner.get.fail")
		return
	}
	writeJSON(w, http.StatusOK, bannerResponse{
		Title:     b.Title,
		Subtitle:  b.Subtitle,
		Image:     b.Image,
		UpdatedAt: b.UpdatedAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) handleUpdateBanner(w http.ResponseWriter, r *http.Request) {
	var req bannerRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b, err := h.store.UpdateBanner(r.Context(), content.BannerInput(req))
	if err != nil {
		h.writeStoreError(w, err, "content.banner.update.fail")
		return
	}
	writeJSON(w, http.StatusOK, bannerResponse{
		Title:     b.Title,
		Subtitle:  b.Subtitle,
		Image:     b.Image,
		UpdatedAt: b.UpdatedAt.UTC().Format(time.RFC3339),
	})
}
