package contentapi

import (
	"net/http"
	"strings"
	"time"

	"storeadmin/internal/content"
)

// ---- offers ----

func (h *Handler) handlePublicOffers(w http.ResponseWriter, r *http.Request) {
	h.listOffers(w, r, true)
}

func (h *Handler) handleAdminOffers(w http.ResponseWriter, r *http.Request) {
	h.listOffers(w, r, false)
}

func (h *Handler) listOffers(w http.ResponseWriter, r *http.Request, onlyActive bool) {
	offers, err := h.store.ListOffers(r.Context(), onlyActive)
	if err != nil {
		h.writeStoreError(w, err, "content.offers.list.fail")
		return
	}

	out := make([]offerResponse, 0, len(offers))
	for _, o := range offers {
		out = append(out, toOfferResponse(o))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	o, err := h.store.GetOffer(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err, "content.offers.get.fail")
		return
	}
	writeJSON(w, http.StatusOK, toOfferResponse(o))
}

func (h *Handler) handleCreateOffer(w http.ResponseWriter, r *http.Request) {
	var req offerRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg, ok := validateOffer(req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	o, err := h.store.CreateOffer(r.Context(), offerInput(req))
	if err != nil {
		h.writeStoreError(w, err, "content.offers.create.fail")
		return
	}
	writeJSON(w, http.StatusCreated, toOfferResponse(o))
}

func (h *Handler) handleUpdateOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req offerRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg, ok := validateOffer(req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	o, err := h.store.UpdateOffer(r.Context(), id, offerInput(req))
	if err != nil {
		h.writeStoreError(w, err, "content.offers.update.fail")
		return
	}
	writeJSON(w, http.StatusOK, toOfferResponse(o))
}

func (h *Handler) handleOfferStatus(w http.ResponseWriter, r *http.Request) {
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

	o, err := h.store.SetOfferStatus(r.Context(), id, req.Status)
	if err != nil {
		if content.IsInvalidInput(err) {
			writeError(w, http.StatusBadRequest, "Status must be active or inactive")
			return
		}
		h.writeStoreError(w, err, "content.offers.status.fail")
		return
	}
	writeJSON(w, http.StatusOK, toOfferResponse(o))
}

func (h *Handler) handleDeleteOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteOffer(r.Context(), id); err != nil {
		h.writeStoreError(w, err, "content.offers.delete.fail")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Offer deleted"})
}

func validateOffer(req offerRequest) (string, bool) {
	if strings.TrimSpace(req.Title) == "" {
		return "Title is required", false
	}
	for _, c := range req.Categories {
		if c.CategoryID <= 0 {
			return "Each discount needs a category", false
		}
		if c.DiscountType != "percent" && c.DiscountType != "flat" {
			return "Discount type must be percent or flat", false
		}
		if c.DiscountValue <= 0 {
			return "Discount value must be positive", false
		}
		if c.DiscountType == "percent" && c.DiscountValue > 100 {
			return "Percent discount cannot exceed 100", false
		}
	}
	return "", true
}

func offerInput(req offerRequest) content.OfferInput {
	cats := make([]content.OfferCategory, 0, len(req.Categories))
	for _, c := range req.Categories {
		cats = append(cats, content.OfferCategory{
			CategoryID:    c.CategoryID,
			DiscountType:  c.DiscountType,
			DiscountValue: c.DiscountValue,
		})
	}
	return content.OfferInput{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Status:      req.Status,
		Categories:  cats,
	}
}

// ---- branches ----

func (h *Handler) handlePublicBranches(w http.ResponseWriter, r *http.Request) {
	h.listBranches(w, r, true)
}

func (h *Handler) handleAdminBranches(w http.ResponseWriter, r *http.Request) {
	h.listBranches(w, r, false)
}

func (h *Handler) listBranches(w http.ResponseWriter, r *http.Request, onlyActive bool) {
	branches, err := h.store.ListBranches(r.Context(), onlyActive)
	if err != nil {
		h.writeStoreError(w, err, "content.branches.list.fail")
		return
	}

	out := make([]branchResponse, 0, len(branches))
	for _, b := range branches {
		out = append(out, toBranchResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetBranch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b, err := h.store.GetBranch(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err, "content.branches.get.fail")
		return
	}
	writeJSON(w, http.StatusOK, toBranchResponse(b))
}

func (h *Handler) handleCreateBranch(w http.ResponseWriter, r *http.Request) {
	var req branchRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	b, err := h.store.CreateBranch(r.Context(), content.BranchInput(req))
	if err != nil {
		h.writeStoreError(w, err, "content.branches.create.fail")
		return
	}
	writeJSON(w, http.StatusCreated, toBranchResponse(b))
}

func (h *Handler) handleUpdateBranch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req branchRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	b, err := h.store.UpdateBranch(r.Context(), id, content.BranchInput(req))
	if err != nil {
		h.writeStoreError(w, err, "content.branches.update.fail")
		return
	}
	writeJSON(w, http.StatusOK, toBranchResponse(b))
}

func (h *Handler) handleBranchStatus(w http.ResponseWriter, r *http.Request) {
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

	b, err := h.store.SetBranchStatus(r.Context(), id, req.Status)
	if err != nil {
		if content.IsInvalidInput(err) {
			writeError(w, http.StatusBadRequest, "Status must be active or inactive")
			return
		}
		h.writeStoreError(w, err, "content.branches.status.fail")
		return
	}
	writeJSON(w, http.StatusOK, toBranchResponse(b))
}

func (h *Handler) handleDeleteBranch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteBranch(r.Context(), id); err != nil {
		h.writeStoreError(w, err, "content.branches.delete.fail")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Branch deleted"})
}

// ---- contacts ----

// handleSubmitContact is the public contact form. It requires an active
// branch and throttles submissions per ip per day.
func (h *Handler) handleSubmitContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg, ok := validateContact(req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ctx := r.Context()

	branch, err := h.store.GetBranch(ctx, req.BranchID)
	if err != nil {
		if content.IsNotFound(err) {
			writeError(w, http.StatusBadRequest, "Unknown branch")
			return
		}
		h.writeStoreError(w, err, "content.contacts.branch.fail")
		return
	}
	if branch.Status != content.StatusActive {
		writeError(w, http.StatusBadRequest, "This branch is not accepting messages")
		return
	}

	ip := clientIP(r, h.trustProxy)
	since := time.Now().Add(-24 * time.Hour)
	n, err := h.store.CountContactsFromIPSince(ctx, ip, since)
	if err != nil {
		h.writeStoreError(w, err, "content.contacts.throttle.fail")
		return
	}
	if n >= h.contactDailyLimit {
		writeError(w, http.StatusTooManyRequests, "Too many messages today. Please try again tomorrow.")
		return
	}

	c, err := h.store.CreateContact(ctx, content.ContactInput{
		BranchID:  req.BranchID,
		Name:      req.Name,
		Email:     req.Email,
		Number:    req.Number,
		Message:   req.Message,
		IPAddress: ip,
	})
	if err != nil {
		h.writeStoreError(w, err, "content.contacts.create.fail")
		return
	}
	writeJSON(w, http.StatusCreated, toContactResponse(c))
}

// handleContactRateLimit tells the caller how many contact submissions their
// ip has left today, so the form can disable itself before hitting 429.
func (h *Handler) handleContactRateLimit(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r, h.trustProxy)
	since := time.Now().Add(-24 * time.Hour)
	n, err := h.store.CountContactsFromIPSince(r.Context(), ip, since)
	if err != nil {
		h.writeStoreError(w, err, "content.contacts.rate_limit.fail")
		return
	}

	remaining := h.contactDailyLimit - n
	if remaining < 0 {
		remaining = 0
	}
	writeJSON(w, http.StatusOK, rateLimitResponse{
		SubmissionCount:      n,
		RemainingSubmissions: remaining,
		IsLimitExceeded:      n >= h.contactDailyLimit,
		MaxSubmissions:       h.contactDailyLimit,
	})
}

func (h *Handler) handleListContacts(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page")
	perPage := queryInt(r, "perPage")

	contacts, total, err := h.store.ListContacts(r.Context(), page, perPage)
	if err != nil {
		h.writeStoreError(w, err, "content.contacts.list.fail")
		return
	}

	out := make([]contactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, toContactResponse(c))
	}

	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	writeJSON(w, http.StatusOK, contactListResponse{Contacts: out, Total: total, Page: page, PerPage: perPage})
}

func (h *Handler) handleMarkContactSeen(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.MarkContactSeen(r.Context(), id); err != nil {
		h.writeStoreError(w, err, "content.contacts.seen.fail")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Marked as seen"})
}

func (h *Handler) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteContact(r.Context(), id); err != nil {
		h.writeStoreError(w, err, "content.contacts.delete.fail")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Contact deleted"})
}

func validateContact(req contactRequest) (string, bool) {
	if req.BranchID <= 0 {
		return "A branch is required", false
	}
	if strings.TrimSpace(req.Name) == "" {
		return "Name is required", false
	}
	if strings.TrimSpace(req.Message) == "" {
		return "A message is required", false
	}
	if strings.TrimSpace(req.Email) == "" && strings.TrimSpace(req.Number) == "" {
		return "An email or phone number is required", false
	}
	return "", true
}

// ---- general settings ----

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	g, err := h.store.GetSettings(r.Context())
	if err != nil {
		if content.IsNotFound(err) {
			writeJSON(w, http.StatusOK, settingsResponse{})
			return
		}
		h.writeStoreError(w, err, "content.settings.get.fail")
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(g))
}

func (h *Handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	g, err := h.store.UpdateSettings(r.Context(), content.GeneralSettingsInput(req))
	if err != nil {
		h.writeStoreError(w, err, "content.settings.update.fail")
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(g))
}
