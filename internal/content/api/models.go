package contentapi

import (
	"time"

	"storeadmin/internal/content"
)

type categoryRequest struct {
	Name   string `json:"name"`
	Image  string `json:"image"`
	Status string `json:"status"`
}

type categoryResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toCategoryResponse(c content.Category) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Image:     c.Image,
		Status:    c.Status,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type itemRequest struct {
	CategoryID  int64   `json:"categoryId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Status      string  `json:"status"`
}

type itemResponse struct {
	ID          int64   `json:"id"`
	CategoryID  int64   `json:"categoryId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toItemResponse(it content.Item) itemResponse {
	return itemResponse{
		ID:          it.ID,
		CategoryID:  it.CategoryID,
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price,
		Image:       it.Image,
		Status:      it.Status,
		CreatedAt:   it.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   it.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type itemListResponse struct {
	Items   []itemResponse `json:"items"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"perPage"`
}

type galleryImageResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Image     string `json:"image"`
	CreatedAt string `json:"createdAt"`
}

func toGalleryImageResponse(g content.GalleryImage) galleryImageResponse {
	return galleryImageResponse{
		ID:        g.ID,
		Title:     g.Title,
		Image:     g.Image,
		CreatedAt: g.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type galleryListResponse struct {
	Images  []galleryImageResponse `json:"images"`
	Total   int64                  `json:"total"`
	Page    int                    `json:"page"`
	PerPage int                    `json:"perPage"`
}

type galleryRequest struct {
	Title string `json:"title"`
	Image string `json:"image"`
}

type bannerRequest struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Image    string `json:"image"`
}

type bannerResponse struct {
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	Image     string `json:"image"`
	UpdatedAt string `json:"updatedAt"`
}

type offerCategoryPayload struct {
	CategoryID    int64   `json:"categoryId"`
	DiscountType  string  `json:"discountType"`
	DiscountValue float64 `json:"discountValue"`
}

type offerRequest struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Image       string                 `json:"image"`
	Status      string                 `json:"status"`
	Categories  []offerCategoryPayload `json:"categories"`
}

type offerResponse struct {
	ID          int64                  `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Image       string                 `json:"image"`
	Status      string                 `json:"status"`
	Categories  []offerCategoryPayload `json:"categories"`
	CreatedAt   string                 `json:"createdAt"`
	UpdatedAt   string                 `json:"updatedAt"`
}

func toOfferResponse(o content.Offer) offerResponse {
	cats := make([]offerCategoryPayload, 0, len(o.Categories))
	for _, c := range o.Categories {
		cats = append(cats, offerCategoryPayload{
			CategoryID:    c.CategoryID,
			DiscountType:  c.DiscountType,
			DiscountValue: c.DiscountValue,
		})
	}
	return offerResponse{
		ID:          o.ID,
		Title:       o.Title,
		Description: o.Description,
		Image:       o.Image,
		Status:      o.Status,
		Categories:  cats,
		CreatedAt:   o.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   o.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type branchRequest struct {
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Phone       string  `json:"phone"`
	Status      string  `json:"status"`
	CategoryIDs []int64 `json:"categoryIds"`
}

type branchResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Phone       string  `json:"phone"`
	Status      string  `json:"status"`
	CategoryIDs []int64 `json:"categoryIds"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toBranchResponse(b content.Branch) branchResponse {
	ids := b.CategoryIDs
	if ids == nil {
		ids = []int64{}
	}
	return branchResponse{
		ID:          b.ID,
		Name:        b.Name,
		Address:     b.Address,
		Phone:       b.Phone,
		Status:      b.Status,
		CategoryIDs: ids,
		CreatedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   b.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type contactRequest struct {
	BranchID int64  `json:"branchId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Number   string `json:"number"`
	Message  string `json:"message"`
}

type contactResponse struct {
	ID        int64  `json:"id"`
	BranchID  int64  `json:"branchId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Number    string `json:"number"`
	Message   string `json:"message"`
	Seen      bool   `json:"seen"`
	CreatedAt string `json:"createdAt"`
}

func toContactResponse(c content.Contact) contactResponse {
	return contactResponse{
		ID:        c.ID,
		BranchID:  c.BranchID,
		Name:      c.Name,
		Email:     c.Email,
		Number:    c.Number,
		Message:   c.Message,
		Seen:      c.Seen,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type rateLimitResponse struct {
	SubmissionCount      int64 `json:"submissionCount"`
	RemainingSubmissions int64 `json:"remainingSubmissions"`
	IsLimitExceeded      bool  `json:"isLimitExceeded"`
	MaxSubmissions       int64 `json:"maxSubmissions"`
}

type contactListResponse struct {
	Contacts []contactResponse `json:"contacts"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PerPage  int               `json:"perPage"`
}

type popularRequest struct {
	ItemID   int64 `json:"itemId"`
	Position int   `json:"position"`
}

type popularResponse struct {
	ID        int64   `json:"id"`
	ItemID    int64   `json:"itemId"`
	Position  int     `json:"position"`
	ItemName  string  `json:"itemName"`
	ItemImage string  `json:"itemImage"`
	ItemPrice float64 `json:"itemPrice"`
}

func toPopularResponse(p content.PopularProduct) popularResponse {
	return popularResponse{
		ID:        p.ID,
		ItemID:    p.ItemID,
		Position:  p.Position,
		ItemName:  p.ItemName,
		ItemImage: p.ItemImage,
		ItemPrice: p.ItemPrice,
	}
}

type settingsRequest struct {
	SiteName     string `json:"siteName"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	FacebookURL  string `json:"facebookUrl"`
	InstagramURL string `json:"instagramUrl"`
	About        string `json:"about"`
}

type settingsResponse struct {
	SiteName     string `json:"siteName"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	FacebookURL  string `json:"facebookUrl"`
	InstagramURL string `json:"instagramUrl"`
	About        string `json:"about"`
	UpdatedAt    string `json:"updatedAt"`
}

func toSettingsResponse(g content.GeneralSettings) settingsResponse {
	return settingsResponse{
		SiteName:     g.SiteName,
		Phone:        g.Phone,
		Email:        g.Email,
		Address:      g.Address,
		FacebookURL:  g.FacebookURL,
		InstagramURL: g.InstagramURL,
		About:        g.About,
		UpdatedAt:    g.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
