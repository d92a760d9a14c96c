package contentapi

import (
	"net/http"
	"strings"

	"storeadmin/internal/content"
)

// ---- categories ----

func (h *Handler) handlePublicCategories(w http.ResponseWriter, r *http.Request) {
	h.listCategories(w, r, true)
}

func (h *Handler) handleAdminCategories(w http.ResponseWriter, r *http.Request) {
	h.listCategories(w, r, false)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request, onlyActive bool) {
	cats, err := h.store.ListCategories(r.Context(), onlyActive)
	if err != nil {
		h.writeStoreError(w, err, "content.categories.list.fail")
		return
	}

	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, toCategoryResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.store.GetCategory(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err, "content.categories.get.fail")
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(c))
}

func (h *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	c, err := h.store.CreateCategory(r.Context(), content.CategoryInput(req))
	if err != nil {
		h.writeStoreError(w, err, "content.categories.create.fail")
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryResponse(c))
}

func (h *Handler) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req categoryRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	c, err := h.store.UpdateCategory(r.Context(), id, content.CategoryInput(req))
	if err != nil {
		h.writeStoreError(w, err, "content.categories.update.fail")
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(c))
}

func (h *Handler) handleCategoryStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := h.store.SetCategoryStatus(r.Context(), id, req.Status)
	if err != nil {
		if content.IsInvalidInput(err) {
			writeError(w, http.StatusBadRequest, "Status must be active or inactive")
			return
		}
		h.writeStoreError(w, err, "content.categories.status.fail")
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(c))
}

func (h *Handler) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteCategory(r.Context(), id); err != nil {
		if content.IsConflict(err) {
			writeError(w, http.StatusConflict, "Category still has items")
			return
		}
		h.writeStoreError(w, err, "content.categories.delete.fail")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Category deleted"})
}

// ---- items ----

func (h *Handler) handlePublicItems(w http.ResponseWriter, r *http.Request) {
	h.listItems(w, r, true)
}

func (h *Handler) handleAdminItems(w http.ResponseWriter, r *http.Request) {
	h.listItems(w, r, false)
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request, onlyActive bool) {
	f := content.ItemFilter{
		Page:       queryInt(r, "page"),
		PerPage:    queryInt(r, "perPage"),
		Search:     r.URL.Query().Get("search"),
		CategoryID: int64(queryInt(r, "category")),
		OnlyActive: onlyActive,
	}

	items, total, err := h.store.ListItems(r.Context(), f)
	if err != nil {
		h.writeStoreError(w, err, "content.items.list.fail")
		return
	}

	out := make([]itemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it))
	}

	page := f.Page
	if page <= 0 {
		page = 1
	}
	perPage := f.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	writeJSON(w, http.StatusOK, itemListResponse{Items: out, Total: total, Page: page, PerPage: perPage})
}

func (h *Handler) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	it, err := h.store.GetItem(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err, "content.items.get.fail")
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(it))
}

func (h *Handler) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg, ok := validateItem(req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	it, err := h.store.CreateItem(r.Context(), content.ItemInput(req))
	if err != nil {
		h.writeStoreError(w, err, "content.items.create.fail")
		return
	}
	writeJSON(w, http.StatusCreated, toItemResponse(it))
}

func (h *Handler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req itemRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg, ok := validateItem(req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	it, err := h.store.UpdateItem(r.Context(), id, content.ItemInput(req))
	if err != nil {
		h.writeStoreError(w, err, "content.items.update.fail")
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(it))
}

func (h *Handler) handleItemStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	it, err := h.store.SetItemStatus(r.Context(), id, req.Status)
	if err != nil {
		if content.IsInvalidInput(err) {
			writeError(w, http.StatusBadRequest, "Status must be active or inactive")
			return
		}
		h.writeStoreError(w, err, "content.items.status.fail")
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(it))
}

func (h *Handler) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteItem(r.Context(), id); err != nil {
		h.writeStoreError(w, err, "content.items.delete.fail")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Item deleted"})
}

func validateItem(req itemRequest) (string, bool) {
	if strings.TrimSpace(req.Name) == "" {
		return "Name is required", false
	}
	if req.CategoryID <= 0 {
		return "A category is required", false
	}
	if req.Price < 0 {
		return "Price must not be negative", false
	}
	return "", true
}

// ---- popular products ----

func (h *Handler) handleListPopular(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListPopularProducts(r.Context())
	if err != nil {
		h.writeStoreError(w, err, "content.popular.list.fail")
		return
	}

	out := make([]popularResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPopularResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleAddPopular(w http.ResponseWriter, r *http.Request) {
	var req popularRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ItemID <= 0 {
		writeError(w, http.StatusBadRequest, "An item is required")
		return
	}

	p, err := h.store.AddPopularProduct(r.Context(), req.ItemID, req.Position)
	if err != nil {
		h.writeStoreError(w, err, "content.popular.add.fail")
		return
	}
	writeJSON(w, http.StatusCreated, toPopularResponse(p))
}

func (h *Handler) handleRemovePopular(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.RemovePopularProduct(r.Context(), id); err != nil {
		h.writeStoreError(w, err, "content.popular.remove.fail")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Popular product removed"})
}
