package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultPerPage = 20

// PostgresStore implements Store on PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed content store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, errors.New("content: nil db pool")
	}
	return &PostgresStore{pool: pool}, nil
}

func normalizeStatus(status string) string {
	if status != StatusInactive {
		return StatusActive
	}
	return StatusInactive
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func pageBounds(page, perPage int) (limit, offset int) {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if page <= 0 {
		page = 1
	}
	return perPage, (page - 1) * perPage
}

// ---- categories ----

const categoryColumns = `id, name, image, status, created_at, updated_at`

func scanCategory(r pgx.Row) (Category, error) {
	var c Category
	err := r.Scan(&c.ID, &c.Name, &c.Image, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *PostgresStore) ListCategories(ctx context.Context, onlyActive bool) ([]Category, error) {
	q := `SELECT ` + categoryColumns + ` FROM categories`
	if onlyActive {
		q += ` WHERE status = 'active'`
	}
	q += ` ORDER BY id DESC`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("content.ListCategories: %w", err)
	}
	defer rows.Close()

	var list []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("content.ListCategories: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (s *PostgresStore) GetCategory(ctx context.Context, id int64) (Category, error) {
	c, err := scanCategory(s.pool.QueryRow(ctx, `
		SELECT `+categoryColumns+` FROM categories WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, OpError{Op: "content.GetCategory", Kind: ErrNotFound}
	}
	if err != nil {
		return Category{}, fmt.Errorf("content.GetCategory: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) CreateCategory(ctx context.Context, in CategoryInput) (Category, error) {
	const op = "content.CreateCategory"

	c, err := scanCategory(s.pool.QueryRow(ctx, `
		INSERT INTO categories (name, image, status)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns+`
	`, strings.TrimSpace(in.Name), in.Image, normalizeStatus(in.Status)))
	if isUniqueViolation(err) {
		return Category{}, OpError{Op: op, Kind: ErrConflict, Msg: "name"}
	}
	if err != nil {
		return Category{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (s *PostgresStore) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (Category, error) {
	const op = "content.UpdateCategory"

	c, err := scanCategory(s.pool.QueryRow(ctx, `
		UPDATE categories
		SET name = $2, image = $3, status = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+categoryColumns+`
	`, id, strings.TrimSpace(in.Name), in.Image, normalizeStatus(in.Status)))
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, OpError{Op: op, Kind: ErrNotFound}
	}
	if isUniqueViolation(err) {
		return Category{}, OpError{Op: op, Kind: ErrConflict, Msg: "name"}
	}
	if err != nil {
		return Category{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (s *PostgresStore) SetCategoryStatus(ctx context.Context, id int64, status string) (Category, error) {
	const op = "content.SetCategoryStatus"

	if status != StatusActive && status != StatusInactive {
		return Category{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: status}
	}

	c, err := scanCategory(s.pool.QueryRow(ctx, `
		UPDATE categories SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+categoryColumns+`
	`, id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, OpError{Op: op, Kind: ErrNotFound}
	}
	if err != nil {
		return Category{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (s *PostgresStore) DeleteCategory(ctx context.Context, id int64) error {
	const op = "content.DeleteCategory"

	tag, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		return OpError{Op: op, Kind: ErrConflict, Msg: "category has items"}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return OpError{Op: op, Kind: ErrNotFound}
	}
	return nil
}

// ---- items ----

const itemColumns = `id, category_id, name, description, price, image, status, created_at, updated_at`

func scanItem(r pgx.Row) (Item, error) {
	var it Item
	err := r.Scan(&it.ID, &it.CategoryID, &it.Name, &it.Description, &it.Price,
		&it.Image, &it.Status, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

func (s *PostgresStore) ListItems(ctx context.Context, f ItemFilter) ([]Item, int64, error) {
	const op = "content.ListItems"

	where := []string{"TRUE"}
	args := []any{}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.OnlyActive {
		where = append(where, "status = 'active'")
	}
	if f.CategoryID > 0 {
		add("category_id = $%d", f.CategoryID)
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		add("name ILIKE $%d", "%"+q+"%")
	}

	cond := strings.Join(where, " AND ")

	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM items WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	limit, offset := pageBounds(f.Page, f.PerPage)
	args = append(args, limit, offset)
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT `+itemColumns+` FROM items
		WHERE `+cond+`
		ORDER BY id DESC
		LIMIT $%d OFFSET $%d
	`, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var list []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		list = append(list, it)
	}
	return list, total, rows.Err()
}

func (s *PostgresStore) GetItem(ctx context.Context, id int64) (Item, error) {
	it, err := scanItem(s.pool.QueryRow(ctx, `
		SELECT `+itemColumns+` FROM items WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, OpError{Op: "content.GetItem", Kind: ErrNotFound}
	}
	if err != nil {
		return Item{}, fmt.Errorf("content.GetItem: %w", err)
	}
	return it, nil
}

func (s *PostgresStore) CreateItem(ctx context.Context, in ItemInput) (Item, error) {
	const op = "content.CreateItem"

	it, err := scanItem(s.pool.QueryRow(ctx, `
		INSERT INTO items (category_id, name, description, price, image, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+itemColumns+`
	`, in.CategoryID, strings.TrimSpace(in.Name), in.Description, in.Price, in.Image, normalizeStatus(in.Status)))
	if isForeignKeyViolation(err) {
		return Item{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "unknown category"}
	}
	if err != nil {
		return Item{}, fmt.Errorf("%s: %w", op, err)
	}
	return it, nil
}

func (s *PostgresStore) UpdateItem(ctx context.Context, id int64, in ItemInput) (Item, error) {
	const op = "content.UpdateItem"

	it, err := scanItem(s.pool.QueryRow(ctx, `
		UPDATE items
		SET category_id = $2, name = $3, description = $4, price = $5, image = $6, status = $7, updated_at = now()
		WHERE id = $1
		RETURNING `+itemColumns+`
	`, id, in.CategoryID, strings.TrimSpace(in.Name), in.Description, in.Price, in.Image, normalizeStatus(in.Status)))
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, OpError{Op: op, Kind: ErrNotFound}
	}
	if isForeignKeyViolation(err) {
		return Item{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "unknown category"}
	}
	if err != nil {
		return Item{}, fmt.Errorf("%s: %w", op, err)
	}
	return it, nil
}

func (s *PostgresStore) SetItemStatus(ctx context.Context, id int64, status string) (Item, error) {
	const op = "content.SetItemStatus"

	if status != StatusActive && status != StatusInactive {
		return Item{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: status}
	}

	it, err := scanItem(s.pool.QueryRow(ctx, `
		UPDATE items SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+itemColumns+`
	`, id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, OpError{Op: op, Kind: ErrNotFound}
	}
	if err != nil {
		return Item{}, fmt.Errorf("%s: %w", op, err)
	}
	return it, nil
}

func (s *PostgresStore) DeleteItem(ctx context.Context, id int64) error {
	const op = "content.DeleteItem"

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM popular_products WHERE item_id = $1`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return OpError{Op: op, Kind: ErrNotFound}
	}

	return tx.Commit(ctx)
}

// ---- gallery ----

const galleryColumns = `id, title, image, created_at`

func scanGalleryImage(r pgx.Row) (GalleryImage, error) {
	var g GalleryImage
	err := r.Scan(&g.ID, &g.Title, &g.Image, &g.CreatedAt)
	return g, err
}

func (s *PostgresStore) ListGallery(ctx context.Context, page, perPage int) ([]GalleryImage, int64, error) {
	const op = "content.ListGallery"

	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM gallery`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	limit, offset := pageBounds(page, perPage)
	rows, err := s.pool.Query(ctx, `
		SELECT `+galleryColumns+` FROM gallery
		ORDER BY id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var list []GalleryImage
	for rows.Next() {
		g, err := scanGalleryImage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		list = append(list, g)
	}
	return list, total, rows.Err()
}

func (s *PostgresStore) GetGalleryImage(ctx context.Context, id int64) (GalleryImage, error) {
	g, err := scanGalleryImage(s.pool.QueryRow(ctx, `
		SELECT `+galleryColumns+` FROM gallery WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return GalleryImage{}, OpError{Op: "content.GetGalleryImage", Kind: ErrNotFound}
	}
	if err != nil {
		return GalleryImage{}, fmt.Errorf("content.GetGalleryImage: %w", err)
	}
	return g, nil
}

func (s *PostgresStore) AddGalleryImage(ctx context.Context, title, image string) (GalleryImage, error) {
	g, err := scanGalleryImage(s.pool.QueryRow(ctx, `
		INSERT INTO gallery (title, image) VALUES ($1, $2)
		RETURNING `+galleryColumns+`
	`, title, image))
	if err != nil {
		return GalleryImage{}, fmt.Errorf("content.AddGalleryImage: %w", err)
	}
	return g, nil
}

func (s *PostgresStore) UpdateGalleryImage(ctx context.Context, id int64, title, image string) (GalleryImage, error) {
	const op = "content.UpdateGalleryImage"

	g, err := scanGalleryImage(s.pool.QueryRow(ctx, `
		UPDATE gallery
		SET title = $2, image = COALESCE(NULLIF($3, ''), image)
		WHERE id = $1
		RETURNING `+galleryColumns+`
	`, id, title, image))
	if errors.Is(err, pgx.ErrNoRows) {
		return GalleryImage{}, OpError{Op: op, Kind: ErrNotFound}
	}
	if err != nil {
		return GalleryImage{}, fmt.Errorf("%s: %w", op, err)
	}
	return g, nil
}

func (s *PostgresStore) DeleteGalleryImage(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM gallery WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("content.DeleteGalleryImage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return OpError{Op: "content.DeleteGalleryImage", Kind: ErrNotFound}
	}
	return nil
}

// ---- banner ----

func (s *PostgresStore) GetBanner(ctx context.Context) (Banner, error) {
	var b Banner
	err := s.pool.QueryRow(ctx, `
		SELECT id, title, subtitle, image, updated_at FROM banner WHERE id = 1
	`).Scan(&b.ID, &b.Title, &b.Subtitle, &b.Image, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Banner{}, OpError{Op: "content.GetBanner", Kind: ErrNotFound}
	}
	if err != nil {
		return Banner{}, fmt.Errorf("content.GetBanner: %w", err)
	}
	return b, nil
}

func (s *PostgresStore) UpdateBanner(ctx context.Context, in BannerInput) (Banner, error) {
	var b Banner
	err := s.pool.QueryRow(ctx, `
		INSERT INTO banner (id, title, subtitle, image)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, subtitle = EXCLUDED.subtitle, image = EXCLUDED.image, updated_at = now()
		RETURNING id, title, subtitle, image, updated_at
	`, in.Title, in.Subtitle, in.Image).Scan(&b.ID, &b.Title, &b.Subtitle, &b.Image, &b.UpdatedAt)
	if err != nil {
		return Banner{}, fmt.Errorf("content.UpdateBanner: %w", err)
	}
	return b, nil
}

// ---- popular products ----

func (s *PostgresStore) ListPopularProducts(ctx context.Context) ([]PopularProduct, error) {
	const op = "content.ListPopularProducts"

	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.item_id, p.position, i.name, i.image, i.price
		FROM popular_products p
		JOIN items i ON i.id = p.item_id
		ORDER BY p.position, p.id
	`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var list []PopularProduct
	for rows.Next() {
		var p PopularProduct
		if err := rows.Scan(&p.ID, &p.ItemID, &p.Position, &p.ItemName, &p.ItemImage, &p.ItemPrice); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (s *PostgresStore) AddPopularProduct(ctx context.Context, itemID int64, position int) (PopularProduct, error) {
	const op = "content.AddPopularProduct"

	var p PopularProduct
	err := s.pool.QueryRow(ctx, `
		INSERT INTO popular_products (item_id, position)
		VALUES ($1, $2)
		RETURNING id, item_id, position
	`, itemID, position).Scan(&p.ID, &p.ItemID, &p.Position)
	if isUniqueViolation(err) {
		return PopularProduct{}, OpError{Op: op, Kind: ErrConflict, Msg: "item already popular"}
	}
	if isForeignKeyViolation(err) {
		return PopularProduct{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "unknown item"}
	}
	if err != nil {
		return PopularProduct{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s *PostgresStore) RemovePopularProduct(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM popular_products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("content.RemovePopularProduct: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return OpError{Op: "content.RemovePopularProduct", Kind: ErrNotFound}
	}
	return nil
}
