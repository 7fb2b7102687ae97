package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dsokolov/procurement-assistant/internal/core/domain"
)

type VendorRepository struct {
	db *sql.DB
}

func NewVendorRepository(db *sql.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

func (r *VendorRepository) Create(ctx context.Context, vendor *domain.Vendor) error {
	err := r.db.QueryRowContext(ctx, `
INSERT INTO vendors (name, email, contact_info, notes, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id
`, vendor.Name, vendor.Email, vendor.ContactInfo, vendor.Notes, vendor.CreatedAt, vendor.UpdatedAt).Scan(&vendor.ID)
	if err != nil {
		// The unique index on email backs up the use-case level check.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.WrapError(domain.ErrVendorExists, "insert vendor", fmt.Errorf("email=%s", vendor.Email))
		}
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}

func (r *VendorRepository) GetByEmail(ctx context.Context, email string) (*domain.Vendor, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, email, contact_info, notes, created_at, updated_at
FROM vendors
WHERE email = $1
`, email)

	vendor, err := scanVendor(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrVendorNotFound, "get vendor by email", fmt.Errorf("email=%s", email))
		}
		return nil, fmt.Errorf("get vendor by email: %w", err)
	}
	return &vendor, nil
}

func (r *VendorRepository) List(ctx context.Context) ([]domain.Vendor, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, email, contact_info, notes, created_at, updated_at
FROM vendors
ORDER BY name ASC
`)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()
	return collectVendors(rows)
}

func (r *VendorRepository) ListByIDs(ctx context.Context, ids []int64) ([]domain.Vendor, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, email, contact_info, notes, created_at, updated_at
FROM vendors
WHERE id = ANY($1)
ORDER BY id ASC
`, ids)
	if err != nil {
		return nil, fmt.Errorf("list vendors by ids: %w", err)
	}
	defer rows.Close()
	return collectVendors(rows)
}

func collectVendors(rows *sql.Rows) ([]domain.Vendor, error) {
	out := make([]domain.Vendor, 0)
	for rows.Next() {
		vendor, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		out = append(out, vendor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vendors: %w", err)
	}
	return out, nil
}

func scanVendor(row rowScanner) (domain.Vendor, error) {
	var vendor domain.Vendor
	err := row.Scan(
		&vendor.ID,
		&vendor.Name,
		&vendor.Email,
		&vendor.ContactInfo,
		&vendor.Notes,
		&vendor.CreatedAt,
		&vendor.UpdatedAt,
	)
	if err != nil {
		return domain.Vendor{}, err
	}
	return vendor, nil
}
