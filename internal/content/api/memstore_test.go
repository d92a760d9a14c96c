package contentapi

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"storeadmin/internal/content"
)

// memStore is an in-memory content.Store for handler tests.
type memStore struct {
	mu sync.Mutex

	nextID     int64
	categories map[int64]content.Category
	items      map[int64]content.Item
	gallery    map[int64]content.GalleryImage
	banner     *content.Banner
	offers     map[int64]content.Offer
	branches   map[int64]content.Branch
	contacts   map[int64]content.Contact
	popular    map[int64]content.PopularProduct
	settings   *content.GeneralSettings
}

func newMemStore() *memStore {
	return &memStore{
		nextID:     1,
		categories: map[int64]content.Category{},
		items:      map[int64]content.Item{},
		gallery:    map[int64]content.GalleryImage{},
		offers:     map[int64]content.Offer{},
		branches:   map[int64]content.Branch{},
		contacts:   map[int64]content.Contact{},
		popular:    map[int64]content.PopularProduct{},
	}
}

func (m *memStore) id() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func notFound(op string) error {
	return content.OpError{Op: op, Kind: content.ErrNotFound}
}

func (m *memStore) ListCategories(_ context.Context, onlyActive bool) ([]content.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []content.Category
	for _, c := range m.categories {
		if onlyActive && c.Status != content.StatusActive {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) GetCategory(_ context.Context, id int64) (content.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return content.Category{}, notFound("mem.GetCategory")
	}
	return c, nil
}

func (m *memStore) CreateCategory(_ context.Context, in content.CategoryInput) (content.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.Name == in.Name {
			return content.Category{}, content.OpError{Op: "mem.CreateCategory", Kind: content.ErrConflict}
		}
	}
	c := content.Category{
		ID: m.id(), Name: in.Name, Image: in.Image, Status: statusOrActive(in.Status),
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	m.categories[c.ID] = c
	return c, nil
}

func (m *memStore) UpdateCategory(_ context.Context, id int64, in content.CategoryInput) (content.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return content.Category{}, notFound("mem.UpdateCategory")
	}
	c.Name, c.Image, c.Status, c.UpdatedAt = in.Name, in.Image, statusOrActive(in.Status), time.Now()
	m.categories[id] = c
	return c, nil
}

func (m *memStore) SetCategoryStatus(_ context.Context, id int64, status string) (content.Category, error) {
	if err := checkStatus(status); err != nil {
		return content.Category{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return content.Category{}, notFound("mem.SetCategoryStatus")
	}
	c.Status = status
	m.categories[id] = c
	return c, nil
}

func (m *memStore) DeleteCategory(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return notFound("mem.DeleteCategory")
	}
	for _, it := range m.items {
		if it.CategoryID == id {
			return content.OpError{Op: "mem.DeleteCategory", Kind: content.ErrConflict}
		}
	}
	delete(m.categories, id)
	return nil
}

func (m *memStore) ListItems(_ context.Context, f content.ItemFilter) ([]content.Item, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []content.Item
	for _, it := range m.items {
		if f.OnlyActive && it.Status != content.StatusActive {
			continue
		}
		if f.CategoryID > 0 && it.CategoryID != f.CategoryID {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(f.Search)) {
			continue
		}
		all = append(all, it)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := int64(len(all))
	perPage := f.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (m *memStore) GetItem(_ context.Context, id int64) (content.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return content.Item{}, notFound("mem.GetItem")
	}
	return it, nil
}

func (m *memStore) CreateItem(_ context.Context, in content.ItemInput) (content.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[in.CategoryID]; !ok {
		return content.Item{}, content.OpError{Op: "mem.CreateItem", Kind: content.ErrInvalidInput}
	}
	it := content.Item{
		ID: m.id(), CategoryID: in.CategoryID, Name: in.Name, Description: in.Description,
		Price: in.Price, Image: in.Image, Status: statusOrActive(in.Status),
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	m.items[it.ID] = it
	return it, nil
}

func (m *memStore) UpdateItem(_ context.Context, id int64, in content.ItemInput) (content.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return content.Item{}, notFound("mem.UpdateItem")
	}
	it.CategoryID, it.Name, it.Description = in.CategoryID, in.Name, in.Description
	it.Price, it.Image, it.Status = in.Price, in.Image, statusOrActive(in.Status)
	it.UpdatedAt = time.Now()
	m.items[id] = it
	return it, nil
}

func (m *memStore) SetItemStatus(_ context.Context, id int64, status string) (content.Item, error) {
	if err := checkStatus(status); err != nil {
		return content.Item{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return content.Item{}, notFound("mem.SetItemStatus")
	}
	it.Status = status
	m.items[id] = it
	return it, nil
}

func (m *memStore) DeleteItem(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return notFound("mem.DeleteItem")
	}
	for pid, p := range m.popular {
		if p.ItemID == id {
			delete(m.popular, pid)
		}
	}
	delete(m.items, id)
	return nil
}

func (m *memStore) ListGallery(_ context.Context, page, perPage int) ([]content.GalleryImage, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []content.GalleryImage
	for _, g := range m.gallery {
		all = append(all, g)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return all, int64(len(all)), nil
}

func (m *memStore) GetGalleryImage(_ context.Context, id int64) (content.GalleryImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.gallery[id]
	if !ok {
		return content.GalleryImage{}, notFound("mem.GetGalleryImage")
	}
	return g, nil
}

func (m *memStore) AddGalleryImage(_ context.Context, title, image string) (content.GalleryImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g := content.GalleryImage{ID: m.id(), Title: title, Image: image, CreatedAt: time.Now()}
	m.gallery[g.ID] = g
	return g, nil
}

func (m *memStore) UpdateGalleryImage(_ context.Context, id int64, title, image string) (content.GalleryImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.gallery[id]
	if !ok {
		return content.GalleryImage{}, notFound("mem.UpdateGalleryImage")
	}
	g.Title = title
	if image != "" {
		g.Image = image
	}
	m.gallery[id] = g
	return g, nil
}

func (m *memStore) DeleteGalleryImage(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.gallery[id]; !ok {
		return notFound("mem.DeleteGalleryImage")
	}
	delete(m.gallery, id)
	return nil
}

func (m *memStore) GetBanner(_ context.Context) (content.Banner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.banner == nil {
		return content.Banner{}, notFound("mem.GetBanner")
	}
	return *m.banner, nil
}

func (m *memStore) UpdateBanner(_ context.Context, in content.BannerInput) (content.Banner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.banner = &content.Banner{ID: 1, Title: in.Title, Subtitle: in.Subtitle, Image: in.Image, UpdatedAt: time.Now()}
	return *m.banner, nil
}

func (m *memStore) ListOffers(_ context.Context, onlyActive bool) ([]content.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []content.Offer
	for _, o := range m.offers {
		if onlyActive && o.Status != content.StatusActive {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) GetOffer(_ context.Context, id int64) (content.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.offers[id]
	if !ok {
		return content.Offer{}, notFound("mem.GetOffer")
	}
	return o, nil
}

func (m *memStore) CreateOffer(_ context.Context, in content.OfferInput) (content.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range in.Categories {
		if _, ok := m.categories[c.CategoryID]; !ok {
			return content.Offer{}, content.OpError{Op: "mem.CreateOffer", Kind: content.ErrInvalidInput}
		}
	}
	o := content.Offer{
		ID: m.id(), Title: in.Title, Description: in.Description, Image: in.Image,
		Status: statusOrActive(in.Status), Categories: in.Categories,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	m.offers[o.ID] = o
	return o, nil
}

func (m *memStore) UpdateOffer(_ context.Context, id int64, in content.OfferInput) (content.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.offers[id]
	if !ok {
		return content.Offer{}, notFound("mem.UpdateOffer")
	}
	for _, c := range in.Categories {
		if _, ok := m.categories[c.CategoryID]; !ok {
			return content.Offer{}, content.OpError{Op: "mem.UpdateOffer", Kind: content.ErrInvalidInput}
		}
	}
	o.Title, o.Description, o.Image = in.Title, in.Description, in.Image
	o.Status, o.Categories, o.UpdatedAt = statusOrActive(in.Status), in.Categories, time.Now()
	m.offers[id] = o
	return o, nil
}

func (m *memStore) SetOfferStatus(_ context.Context, id int64, status string) (content.Offer, error) {
	if err := checkStatus(status); err != nil {
		return content.Offer{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.offers[id]
	if !ok {
		return content.Offer{}, notFound("mem.SetOfferStatus")
	}
	o.Status = status
	m.offers[id] = o
	return o, nil
}

func (m *memStore) DeleteOffer(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.offers[id]; !ok {
		return notFound("mem.DeleteOffer")
	}
	delete(m.offers, id)
	return nil
}

func (m *memStore) ListBranches(_ context.Context, onlyActive bool) ([]content.Branch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []content.Branch
	for _, b := range m.branches {
		if onlyActive && b.Status != content.StatusActive {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) GetBranch(_ context.Context, id int64) (content.Branch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.branches[id]
	if !ok {
		return content.Branch{}, notFound("mem.GetBranch")
	}
	return b, nil
}

func (m *memStore) CreateBranch(_ context.Context, in content.BranchInput) (content.Branch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := content.Branch{
		ID: m.id(), Name: in.Name, Address: in.Address, Phone: in.Phone,
		Status: statusOrActive(in.Status), CategoryIDs: in.CategoryIDs,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	m.branches[b.ID] = b
	return b, nil
}

func (m *memStore) UpdateBranch(_ context.Context, id int64, in content.BranchInput) (content.Branch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.branches[id]
	if !ok {
		return content.Branch{}, notFound("mem.UpdateBranch")
	}
	b.Name, b.Address, b.Phone = in.Name, in.Address, in.Phone
	b.Status, b.CategoryIDs, b.UpdatedAt = statusOrActive(in.Status), in.CategoryIDs, time.Now()
	m.branches[id] = b
	return b, nil
}

func (m *memStore) SetBranchStatus(_ context.Context, id int64, status string) (content.Branch, error) {
	if err := checkStatus(status); err != nil {
		return content.Branch{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.branches[id]
	if !ok {
		return content.Branch{}, notFound("mem.SetBranchStatus")
	}
	b.Status = status
	m.branches[id] = b
	return b, nil
}

func (m *memStore) DeleteBranch(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.branches[id]; !ok {
		return notFound("mem.DeleteBranch")
	}
	delete(m.branches, id)
	return nil
}

func (m *memStore) CreateContact(_ context.Context, in content.ContactInput) (content.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := content.Contact{
		ID: m.id(), BranchID: in.BranchID, Name: in.Name, Email: in.Email,
		Number: in.Number, Message: in.Message, IPAddress: in.IPAddress, CreatedAt: time.Now(),
	}
	m.contacts[c.ID] = c
	return c, nil
}

func (m *memStore) CountContactsFromIPSince(_ context.Context, ip string, since time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, c := range m.contacts {
		if c.IPAddress == ip && !c.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) ListContacts(_ context.Context, page, perPage int) ([]content.Contact, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []content.Contact
	for _, c := range m.contacts {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return all, int64(len(all)), nil
}

func (m *memStore) MarkContactSeen(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contacts[id]
	if !ok {
		return notFound("mem.MarkContactSeen")
	}
	c.Seen = true
	m.contacts[id] = c
	return nil
}

func (m *memStore) DeleteContact(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.contacts[id]; !ok {
		return notFound("mem.DeleteContact")
	}
	delete(m.contacts, id)
	return nil
}

func (m *memStore) ListPopularProducts(_ context.Context) ([]content.PopularProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []content.PopularProduct
	for _, p := range m.popular {
		if it, ok := m.items[p.ItemID]; ok {
			p.ItemName, p.ItemImage, p.ItemPrice = it.Name, it.Image, it.Price
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memStore) AddPopularProduct(_ context.Context, itemID int64, position int) (content.PopularProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[itemID]; !ok {
		return content.PopularProduct{}, content.OpError{Op: "mem.AddPopularProduct", Kind: content.ErrInvalidInput}
	}
	for _, p := range m.popular {
		if p.ItemID == itemID {
			return content.PopularProduct{}, content.OpError{Op: "mem.AddPopularProduct", Kind: content.ErrConflict}
		}
	}
	p := content.PopularProduct{ID: m.id(), ItemID: itemID, Position: position}
	m.popular[p.ID] = p
	return p, nil
}

func (m *memStore) RemovePopularProduct(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.popular[id]; !ok {
		return notFound("mem.RemovePopularProduct")
	}
	delete(m.popular, id)
	return nil
}

func (m *memStore) GetSettings(_ context.Context) (content.GeneralSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		return content.GeneralSettings{}, notFound("mem.GetSettings")
	}
	return *m.settings, nil
}

func (m *memStore) UpdateSettings(_ context.Context, in content.GeneralSettingsInput) (content.GeneralSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = &content.GeneralSettings{
		ID: 1, SiteName: in.SiteName, Phone: in.Phone, Email: in.Email, Address: in.Address,
		FacebookURL: in.FacebookURL, InstagramURL: in.InstagramURL, About: in.About, UpdatedAt: time.Now(),
	}
	return *m.settings, nil
}

func statusOrActive(status string) string {
	if status == content.StatusInactive {
		return content.StatusInactive
	}
	return content.StatusActive
}

func checkStatus(status string) error {
	if status != content.StatusActive && status != content.StatusInactive {
		return content.OpError{Op: "mem.status", Kind: content.ErrInvalidInput}
	}
	return nil
}
