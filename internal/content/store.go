package content

import (
	"context"
	"time"
)

// Store persists all site content. One interface keeps the HTTP layer
// testable against a single in-memory fake.
type Store interface {
	// Categories.
	ListCategories(ctx context.Context, onlyActive bool) ([]Category, error)
	GetCategory(ctx context.Context, id int64) (Category, error)
	CreateCategory(ctx context.Context, in CategoryInput) (Category, error)
	UpdateCategory(ctx context.Context, id int64, in CategoryInput) (Category, error)
	SetCategoryStatus(ctx context.Context, id int64, status string) (Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	// Items.
	ListItems(ctx context.Context, f ItemFilter) ([]Item, int64, error)
	GetItem(ctx context.Context, id int64) (Item, error)
	CreateItem(ctx context.Context, in ItemInput) (Item, error)
	UpdateItem(ctx context.Context, id int64, in ItemInput) (Item, error)
	SetItemStatus(ctx context.Context, id int64, status string) (Item, error)
	DeleteItem(ctx context.Context, id int64) error

	// Gallery. UpdateGalleryImage always sets the title; an empty image
	// keeps the stored one.
	ListGallery(ctx context.Context, page, perPage int) ([]GalleryImage, int64, error)
	GetGalleryImage(ctx context.Context, id int64) (GalleryImage, error)
	AddGalleryImage(ctx context.Context, title, image string) (GalleryImage, error)
	UpdateGalleryImage(ctx context.Context, id int64, title, image string) (GalleryImage, error)
	DeleteGalleryImage(ctx context.Context, id int64) error

	// Banner (single row).
	GetBanner(ctx context.Context) (Banner, error)
	UpdateBanner(ctx context.Context, in BannerInput) (Banner, error)

	// Offers. Update replaces the per-category discount rows in the same
	// transaction as the offer row itself.
	ListOffers(ctx context.Context, onlyActive bool) ([]Offer, error)
	GetOffer(ctx context.Context, id int64) (Offer, error)
	CreateOffer(ctx context.Context, in OfferInput) (Offer, error)
	UpdateOffer(ctx context.Context, id int64, in OfferInput) (Offer, error)
	SetOfferStatus(ctx context.Context, id int64, status string) (Offer, error)
	DeleteOffer(ctx context.Context, id int64) error

	// Branches.
	ListBranches(ctx context.Context, onlyActive bool) ([]Branch, error)
	GetBranch(ctx context.Context, id int64) (Branch, error)
	CreateBranch(ctx context.Context, in BranchInput) (Branch, error)
	UpdateBranch(ctx context.Context, id int64, in BranchInput) (Branch, error)
	SetBranchStatus(ctx context.Context, id int64, status string) (Branch, error)
	DeleteBranch(ctx context.Context, id int64) error

	// Contacts.
	CreateContact(ctx context.Context, in ContactInput) (Contact, error)
	CountContactsFromIPSince(ctx context.Context, ip string, since time.Time) (int64, error)
	ListContacts(ctx context.Context, page, perPage int) ([]Contact, int64, error)
	MarkContactSeen(ctx context.Context, id int64) error
	DeleteContact(ctx context.Context, id int64) error

	// Popular products.
	ListPopularProducts(ctx context.Context) ([]PopularProduct, error)
	AddPopularProduct(ctx context.Context, itemID int64, position int) (PopularProduct, error)
	RemovePopularProduct(ctx context.Context, id int64) error

	// General settings (single row).
	GetSettings(ctx context.Context) (GeneralSettings, error)
	UpdateSettings(ctx context.Context, in GeneralSettingsInput) (GeneralSettings, error)
}
