package content

import "time"

// Visibility states shared by categories, items, offers, and branches.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Category struct {
	ID     int64
	Name   string
	Image  string
	Status string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CategoryInput struct {
	Name   string
	Image  string
	Status string
}

type Item struct {
	ID          int64
	CategoryID  int64
	Name        string
	Description string
	Price       float64
	Image       string
	Status      string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ItemInput struct {
	CategoryID  int64
	Name        string
	Description string
	Price       float64
	Image       string
	Status      string
}

// ItemFilter narrows item listings. Zero values mean "no filter"; Page is
// 1-based and PerPage falls back to a default when unset.
type ItemFilter struct {
	Page       int
	PerPage    int
	Search     string
	CategoryID int64
	OnlyActive bool
}

type GalleryImage struct {
	ID        int64
	Title     string
	Image     string
	CreatedAt time.Time
}

// Banner is the single hero banner (row id 1).
type Banner struct {
	ID        int64
	Title     string
	Subtitle  string
	Image     string
	UpdatedAt time.Time
}

type BannerInput struct {
	Title    string
	Subtitle string
	Image    string
}

// OfferCategory is a per-category discount attached to an offer.
type OfferCategory struct {
	CategoryID    int64
	DiscountType  string // "percent" or "flat"
	DiscountValue float64
}

type Offer struct {
	ID          int64
	Title       string
	Description string
	Image       string
	Status      string
	Categories  []OfferCategory

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OfferInput struct {
	Title       string
	Description string
	Image       string
	Status      string
	Categories  []OfferCategory
}

type Branch struct {
	ID          int64
	Name        string
	Address     string
	Phone       string
	Status      string
	CategoryIDs []int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

type BranchInput struct {
	Name        string
	Address     string
	Phone       string
	Status      string
	CategoryIDs []int64
}

type Contact struct {
	ID        int64
	BranchID  int64
	Name      string
	Email     string
	Number    string
	Message   string
	Seen      bool
	IPAddress string
	CreatedAt time.Time
}

type ContactInput struct {
	BranchID  int64
	Name      string
	Email     string
	Number    string
	Message   string
	IPAddress string
}

type PopularProduct struct {
	ID       int64
	ItemID   int64
	Position int

	// Denormalized item fields for listings.
	ItemName  string
	ItemImage string
	ItemPrice float64
}

// GeneralSettings is the single site-wide settings row (id 1).
type GeneralSettings struct {
	ID           int64
	SiteName     string
	Phone        string
	Email        string
	Address      string
	FacebookURL  string
	InstagramURL string
	About        string
	UpdatedAt    time.Time
}

type GeneralSettingsInput struct {
	SiteName     string
	Phone        string
	Email        string
	Address      string
	FacebookURL  string
	InstagramURL string
	About        string
}
