package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// ---- offers ----

const offerColumns = `id, title, description, image, status, created_at, updated_at`

func scanOffer(r pgx.Row) (Offer, error) {
	var o Offer
	err := r.Scan(&o.ID, &o.Title, &o.Description, &o.Image, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (s *PostgresStore) ListOffers(ctx context.Context, onlyActive bool) ([]Offer, error) {
	const op = "content.ListOffers"

	q := `SELECT ` + offerColumns + ` FROM offers`
	if onlyActive {
		q += ` WHERE status = 'active'`
	}
	q += ` ORDER BY id DESC`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var list []Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range list {
		cats, err := s.offerCategories(ctx, list[i].ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		list[i].Categories = cats
	}
	return list, nil
}

func (s *PostgresStore) GetOffer(ctx context.Context, id int64) (Offer, error) {
	const op = "content.GetOffer"

	o, err := scanOffer(s.pool.QueryRow(ctx, `
		SELECT `+offerColumns+` FROM offers WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Offer{}, OpError{Op: op, Kind: ErrNotFound}
	}
	if err != nil {
		return Offer{}, fmt.Errorf("%s: %w", op, err)
	}

	o.Categories, err = s.offerCategories(ctx, o.ID)
	if err != nil {
		return Offer{}, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

func (s *PostgresStore) CreateOffer(ctx context.Context, in OfferInput) (Offer, error) {
	const op = "content.CreateOffer"

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Offer{}, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o, err := scanOffer(tx.QueryRow(ctx, `
		INSERT INTO offers (title, description, image, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+offerColumns+`
	`, strings.TrimSpace(in.Title), in.Description, in.Image, normalizeStatus(in.Status)))
	if err != nil {
		return Offer{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := insertOfferCategories(ctx, tx, o.ID, in.Categories); err != nil {
		if isForeignKeyViolation(err) {
			return Offer{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "unknown category"}
		}
		return Offer{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Offer{}, fmt.Errorf("%s: %w", op, err)
	}
	o.Categories = in.Categories
	return o, nil
}

// UpdateOffer rewrites the offer row and replaces every per-category discount
// row in one transaction.
func (s *PostgresStore) UpdateOffer(ctx context.Context, id int64, in OfferInput) (Offer, error) {
	const op = "content.UpdateOffer"

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Offer{}, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o, err := scanOffer(tx.QueryRow(ctx, `
		UPDATE offers
		SET title = $2, description = $3, image = $4, status = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+offerColumns+`
	`, id, strings.TrimSpace(in.Title), in.Description, in.Image, normalizeStatus(in.Status)))
	if errors.Is(err, pgx.ErrNoRows) {
		return Offer{}, OpError{Op: op, Kind: ErrNotFound}
	}
	if err != nil {
		return Offer{}, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM offer_categories WHERE offer_id = $1`, id); err != nil {
		return Offer{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := insertOfferCategories(ctx, tx, id, in.Categories); err != nil {
		if isForeignKeyViolation(err) {
			return Offer{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "unknown category"}
		}
		return Offer{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Offer{}, fmt.Errorf("%s: %w", op, err)
	}
	o.Categories = in.Categories
	return o, nil
}

func (s *PostgresStore) SetOfferStatus(ctx context.Context, id int64, status string) (Offer, error) {
	const op = "content.SetOfferStatus"

	if status != StatusActive && status != StatusInactive {
		return Offer{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: status}
	}

	o, err := scanOffer(s.pool.QueryRow(ctx, `
		UPDATE offers SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+offerColumns+`
	`, id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return Offer{}, OpError{Op: op, Kind: ErrNotFound}
	}
	if err != nil {
		return Offer{}, fmt.Errorf("%s: %w", op, err)
	}

	o.Categories, err = s.offerCategories(ctx, o.ID)
	if err != nil {
		return Offer{}, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

func (s *PostgresStore) DeleteOffer(ctx context.Context, id int64) error {
	const op = "content.DeleteOffer"

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM offer_categories WHERE offer_id = $1`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return OpError{Op: op, Kind: ErrNotFound}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) offerCategories(ctx context.Context, offerID int64) ([]OfferCategory, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT category_id, discount_type, discount_value
		FROM offer_categories
		WHERE offer_id = $1
		ORDER BY category_id
	`, offerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []OfferCategory
	for rows.Next() {
		var c OfferCategory
		if err := rows.Scan(&c.CategoryID, &c.DiscountType, &c.DiscountValue); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func insertOfferCategories(ctx context.Context, tx pgx.Tx, offerID int64, cats []OfferCategory) error {
	for _, c := range cats {
		if _, err := tx.Exec(ctx, `
			INSERT INTO offer_categories (offer_id, category_id, discount_type, discount_value)
			VALUES ($1, $2, $3, $4)
		`, offerID, c.CategoryID, c.DiscountType, c.DiscountValue); err != nil {
			return err
		}
	}
	return nil
}

// ---- branches ----

const branchColumns = `id, name, address, phone, status, created_at, updated_at`

func scanBranch(r pgx.Row) (Branch, error) {
	var b Branch
	err := r.Scan(&b.ID, &b.Name, &b.Address, &b.Phone, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (s *PostgresStore) ListBranches(ctx context.Context, onlyActive bool) ([]Branch, error) {
	const op = "content.ListBranches"

	q := `SELECT ` + branchColumns + ` FROM branches`
	if onlyActive {
		q += ` WHERE status = 'active'`
	}
	q += ` ORDER BY id DESC`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var list []Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range list {
		ids, err := s.branchCategoryIDs(ctx, list[i].ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		list[i].CategoryIDs = ids
	}
	return list, nil
}

func (s *PostgresStore) GetBranch(ctx context.Context, id int64) (Branch, error) {
	const op = "content.GetBranch"

	b, err := scanBranch(s.pool.QueryRow(ctx, `
		SELECT `+branchColumns+` FROM branches WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Branch{}, OpError{Op: op, Kind: ErrNotFound}
	}
	if err != nil {
		return Branch{}, fmt.Errorf("%s: %w", op, err)
	}

	b.CategoryIDs, err = s.branchCategoryIDs(ctx, b.ID)
	if err != nil {
		return Branch{}, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

func (s *PostgresStore) CreateBranch(ctx context.Context, in BranchInput) (Branch, error) {
	const op = "content.CreateBranch"

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Branch{}, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	b, err := scanBranch(tx.QueryRow(ctx, `
		INSERT INTO branches (name, address, phone, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+branchColumns+`
	`, strings.TrimSpace(in.Name), in.Address, in.Phone, normalizeStatus(in.Status)))
	if err != nil {
		return Branch{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := replaceBranchCategories(ctx, tx, b.ID, in.CategoryIDs); err != nil {
		if isForeignKeyViolation(err) {
			return Branch{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "unknown category"}
		}
		return Branch{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Branch{}, fmt.Errorf("%s: %w", op, err)
	}
	b.CategoryIDs = in.CategoryIDs
	return b, nil
}

func (s *PostgresStore) UpdateBranch(ctx context.Context, id int64, in BranchInput) (Branch, error) {
	const op = "content.UpdateBranch"

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Branch{}, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	b, err := scanBranch(tx.QueryRow(ctx, `
		UPDATE branches
		SET name = $2, address = $3, phone = $4, status = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+branchColumns+`
	`, id, strings.TrimSpace(in.Name), in.Address, in.Phone, normalizeStatus(in.Status)))
	if errors.Is(err, pgx.ErrNoRows) {
		return Branch{}, OpError{Op: op, Kind: ErrNotFound}
	}
	if err != nil {
		return Branch{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := replaceBranchCategories(ctx, tx, id, in.CategoryIDs); err != nil {
		if isForeignKeyViolation(err) {
			return Branch{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "unknown category"}
		}
		return Branch{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Branch{}, fmt.Errorf("%s: %w", op, err)
	}
	b.CategoryIDs = in.CategoryIDs
	return b, nil
}

func (s *PostgresStore) SetBranchStatus(ctx context.Context, id int64, status string) (Branch, error) {
	const op = "content.SetBranchStatus"

	if status != StatusActive && status != StatusInactive {
		return Branch{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: status}
	}

	b, err := scanBranch(s.pool.QueryRow(ctx, `
		UPDATE branches SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+branchColumns+`
	`, id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return Branch{}, OpError{Op: op, Kind: ErrNotFound}
	}
	if err != nil {
		return Branch{}, fmt.Errorf("%s: %w", op, err)
	}

	b.CategoryIDs, err = s.branchCategoryIDs(ctx, b.ID)
	if err != nil {
		return Branch{}, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

func (s *PostgresStore) DeleteBranch(ctx context.Context, id int64) error {
	const op = "content.DeleteBranch"

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM branch_categories WHERE branch_id = $1`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM branches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return OpError{Op: op, Kind: ErrNotFound}
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) branchCategoryIDs(ctx context.Context, branchID int64) ([]int64, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT category_id FROM branch_categories
		WHERE branch_id = $1
		ORDER BY category_id
	`, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func replaceBranchCategories(ctx context.Context, tx pgx.Tx, branchID int64, ids []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM branch_categories WHERE branch_id = $1`, branchID); err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := tx.Exec(ctx, `
			INSERT INTO branch_categories (branch_id, category_id) VALUES ($1, $2)
		`, branchID, id); err != nil {
			return err
		}
	}
	return nil
}

// ---- contacts ----

const contactColumns = `id, branch_id, name, email, number, message, seen, ip_address, created_at`

func scanContact(r pgx.Row) (Contact, error) {
	var c Contact
	err := r.Scan(&c.ID, &c.BranchID, &c.Name, &c.Email, &c.Number, &c.Message, &c.Seen, &c.IPAddress, &c.CreatedAt)
	return c, err
}

func (s *PostgresStore) CreateContact(ctx context.Context, in ContactInput) (Contact, error) {
	const op = "content.CreateContact"

	c, err := scanContact(s.pool.QueryRow(ctx, `
		INSERT INTO contacts (branch_id, name, email, number, message, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+contactColumns+`
	`, in.BranchID, strings.TrimSpace(in.Name), strings.TrimSpace(in.Email), strings.TrimSpace(in.Number), in.Message, in.IPAddress))
	if isForeignKeyViolation(err) {
		return Contact{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "unknown branch"}
	}
	if err != nil {
		return Contact{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (s *PostgresStore) CountContactsFromIPSince(ctx context.Context, ip string, since time.Time) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `
		SELECT count(*) FROM contacts
		WHERE ip_address = $1 AND created_at >= $2
	`, ip, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("content.CountContactsFromIPSince: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) ListContacts(ctx context.Context, page, perPage int) ([]Contact, int64, error) {
	const op = "content.ListContacts"

	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM contacts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	limit, offset := pageBounds(page, perPage)
	rows, err := s.pool.Query(ctx, `
		SELECT `+contactColumns+` FROM contacts
		ORDER BY id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var list []Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

func (s *PostgresStore) MarkContactSeen(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `UPDATE contacts SET seen = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("content.MarkContactSeen: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return OpError{Op: "content.MarkContactSeen", Kind: ErrNotFound}
	}
	return nil
}

func (s *PostgresStore) DeleteContact(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("content.DeleteContact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return OpError{Op: "content.DeleteContact", Kind: ErrNotFound}
	}
	return nil
}

// ---- general settings ----

const settingsColumns = `id, site_name, phone, email, address, facebook_url, instagram_url, about, updated_at`

func scanSettings(r pgx.Row) (GeneralSettings, error) {
	var g GeneralSettings
	err := r.Scan(&g.ID, &g.SiteName, &g.Phone, &g.Email, &g.Address,
		&g.FacebookURL, &g.InstagramURL, &g.About, &g.UpdatedAt)
	return g, err
}

func (s *PostgresStore) GetSettings(ctx context.Context) (GeneralSettings, error) {
	g, err := scanSettings(s.pool.QueryRow(ctx, `
		SELECT `+settingsColumns+` FROM general_settings WHERE id = 1
	`))
	if errors.Is(err, pgx.ErrNoRows) {
		return GeneralSettings{}, OpError{Op: "content.GetSettings", Kind: ErrNotFound}
	}
	if err != nil {
		return GeneralSettings{}, fmt.Errorf("content.GetSettings: %w", err)
	}
	return g, nil
}

func (s *PostgresStore) UpdateSettings(ctx context.Context, in GeneralSettingsInput) (GeneralSettings, error) {
	g, err := scanSettings(s.pool.QueryRow(ctx, `
		INSERT INTO general_settings (id, site_name, phone, email, address, facebook_url, instagram_url, about)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET site_name = EXCLUDED.site_name, phone = EXCLUDED.phone, email = EXCLUDED.email,
		    address = EXCLUDED.address, facebook_url = EXCLUDED.facebook_url,
		    instagram_url = EXCLUDED.instagram_url, about = EXCLUDED.about, updated_at = now()
		RETURNING `+settingsColumns+`
	`, in.SiteName, in.Phone, in.Email, in.Address, in.FacebookURL, in.InstagramURL, in.About))
	if err != nil {
		return GeneralSettings{}, fmt.Errorf("content.UpdateSettings: %w", err)
	}
	return g, nil
}
