package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dsokolov/procurement-assistant/internal/core/domain"
)

type RFPRepository struct {
	db *sql.DB
}

func NewRFPRepository(db *sql.DB) *RFPRepository {
	return &RFPRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the rfps, vendors and proposals tables. It owns
// the whole schema because proposals reference both other tables.
func (r *RFPRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026053101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS rfps (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	budget DOUBLE PRECISION,
	currency TEXT NOT NULL DEFAULT 'USD',
	delivery_deadline TIMESTAMPTZ,
	status TEXT NOT NULL,
	structured_data TEXT NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS vendors (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	contact_info TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS proposals (
	id BIGSERIAL PRIMARY KEY,
	rfp_id BIGINT NOT NULL REFERENCES rfps(id) ON DELETE CASCADE,
	vendor_id BIGINT NOT NULL REFERENCES vendors(id),
	raw_text TEXT NOT NULL,
	parsed_data TEXT NOT NULL DEFAULT '{}',
	total_price DOUBLE PRECISION,
	currency TEXT NOT NULL DEFAULT 'USD',
	delivery_days INTEGER,
	warranty_months INTEGER,
	payment_terms TEXT,
	completeness_score DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rfps_created_at ON rfps(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_proposals_rfp_id ON proposals(rfp_id);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *RFPRepository) Create(ctx context.Context, rfp *domain.RFP) error {
	structured, err := domain.EncodeRequirements(rfp.Requirements)
	if err != nil {
		return err
	}

	err = r.db.QueryRowContext(ctx, `
INSERT INTO rfps (title, description, budget, currency, delivery_deadline, status, structured_data, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING id
`, rfp.Title, rfp.Description, rfp.Budget, rfp.Currency, rfp.DeliveryDeadline, string(rfp.Status), structured, rfp.CreatedAt, rfp.UpdatedAt).Scan(&rfp.ID)
	if err != nil {
		return fmt.Errorf("insert rfp: %w", err)
	}
	return nil
}

func (r *RFPRepository) GetByID(ctx context.Context, id int64) (*domain.RFP, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, title, description, budget, currency, delivery_deadline, status, structured_data, created_at, updated_at
FROM rfps
WHERE id = $1
`, id)

	rfp, err := scanRFP(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrRFPNotFound, "get rfp by id", fmt.Errorf("id=%d", id))
		}
		return nil, fmt.Errorf("get rfp by id: %w", err)
	}
	return &rfp, nil
}

func (r *RFPRepository) List(ctx context.Context) ([]domain.RFPSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT r.id, r.title, r.description, r.budget, r.currency, r.delivery_deadline, r.status, r.structured_data, r.created_at, r.updated_at,
	COUNT(p.id) AS proposal_count
FROM rfps r
LEFT JOIN proposals p ON p.rfp_id = r.id
GROUP BY r.id
ORDER BY r.created_at DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list rfps: %w", err)
	}
	defer rows.Close()

	out := make([]domain.RFPSummary, 0)
	for rows.Next() {
		var summary domain.RFPSummary
		var status string
		var structured string
		err := rows.Scan(
			&summary.ID, &summary.Title, &summary.Description, &summary.Budget, &summary.Currency,
			&summary.DeliveryDeadline, &status, &structured, &summary.CreatedAt, &summary.UpdatedAt,
			&summary.ProposalCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan rfp summary: %w", err)
		}
		summary.Status = domain.RFPStatus(status)
		if summary.Requirements, err = domain.DecodeRequirements(structured); err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rfps: %w", err)
	}
	return out, nil
}

func (r *RFPRepository) Update(ctx context.Context, id int64, update domain.RFPUpdate) (*domain.RFP, error) {
	sets := []string{"updated_at = $2"}
	args := []interface{}{id, time.Now().UTC()}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title != nil {
		add("title", *update.Title)
	}
	if update.Description != nil {
		add("description", *update.Description)
	}
	if update.Budget != nil {
		add("budget", *update.Budget)
	}
	if update.Currency != nil {
		add("currency", *update.Currency)
	}
	if update.DeliveryDeadline != nil {
		add("delivery_deadline", *update.DeliveryDeadline)
	}
	if update.Status != nil {
		add("status", string(*update.Status))
	}
	if update.Requirements != nil {
		structured, err := domain.EncodeRequirements(*update.Requirements)
		if err != nil {
			return nil, err
		}
		add("structured_data", structured)
	}

	query := fmt.Sprintf("UPDATE rfps SET %s WHERE id = $1", strings.Join(sets, ", "))
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update rfp: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update rfp rows affected: %w", err)
	}
	if rows == 0 {
		return nil, domain.WrapError(domain.ErrRFPNotFound, "update rfp", fmt.Errorf("id=%d", id))
	}
	return r.GetByID(ctx, id)
}

func (r *RFPRepository) SaveRequirements(ctx context.Context, id int64, spec domain.RequirementSpec) error {
	structured, err := domain.EncodeRequirements(spec)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE rfps
SET structured_data = $2, updated_at = $3
WHERE id = $1
`, id, structured, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save requirements: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save requirements rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrRFPNotFound, "save requirements", fmt.Errorf("id=%d", id))
	}
	return nil
}

func (r *RFPRepository) UpdateStatus(ctx context.Context, id int64, status domain.RFPStatus) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE rfps
SET status = $2, updated_at = $3
WHERE id = $1
`, id, string(status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update rfp status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update rfp status rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrRFPNotFound, "update rfp status", fmt.Errorf("id=%d", id))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRFP(row rowScanner) (domain.RFP, error) {
	var rfp domain.RFP
	var status string
	var structured string
	err := row.Scan(
		&rfp.ID,
		&rfp.Title,
		&rfp.Description,
		&rfp.Budget,
		&rfp.Currency,
		&rfp.DeliveryDeadline,
		&status,
		&structured,
		&rfp.CreatedAt,
		&rfp.UpdatedAt,
	)
	if err != nil {
		return domain.RFP{}, err
	}
	rfp.Status = domain.RFPStatus(status)
	if rfp.Requirements, err = domain.DecodeRequirements(structured); err != nil {
		return domain.RFP{}, err
	}
	return rfp, nil
}
