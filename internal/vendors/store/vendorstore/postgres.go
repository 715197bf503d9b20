package vendor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vendra/internal/vendors/models"
	id "vendra/pkg/domain"
	"vendra/pkg/platform/sentinel"
)

// Postgres persists each vendor as a single row: the full aggregate
// (documents, requirements, members, keys, audit log) lives in a JSONB
// payload, with the columns the engine filters on extracted alongside it.
// The engine never joins across vendors, so one row per vendor is the whole
// storage model.
//
// Execute locks the row with SELECT ... FOR UPDATE for the duration of the
// validate/mutate window, which is the single-writer-per-record guarantee:
// the second of two concurrent transitions blocks and then revalidates
// against the committed state.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const vendorsSchema = `
CREATE TABLE IF NOT EXISTS vendors (
    id            UUID PRIMARY KEY,
    name          TEXT NOT NULL,
    contact_email TEXT NOT NULL DEFAULT '',
    status        TEXT NOT NULL,
    readiness     TEXT NOT NULL DEFAULT '',
    version       BIGINT NOT NULL,
    payload       JSONB NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS vendors_status_idx ON vendors (status);
CREATE INDEX IF NOT EXISTS vendors_name_lower_idx ON vendors (lower(name));
CREATE INDEX IF NOT EXISTS vendors_email_lower_idx ON vendors (lower(contact_email));
`

// EnsureSchema creates the vendors table when it does not exist.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, vendorsSchema); err != nil {
		return fmt.Errorf("ensure vendors schema: %w", err)
	}
	return nil
}

func (s *Postgres) Create(ctx context.Context, v *models.Vendor) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal vendor: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO vendors (id, name, contact_email, status, readiness, version, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`,
		v.ID.String(), v.Name, v.ContactEmail, string(v.Status), string(v.Readiness),
		v.Version, payload, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, vendorID id.VendorID) (*models.Vendor, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM vendors WHERE id = $1`, vendorID.String(),
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find vendor: %w", err)
	}
	return unmarshalVendor(payload)
}

func (s *Postgres) List(ctx context.Context, filter Filter) ([]*models.Vendor, error) {
	query := `SELECT payload FROM vendors`
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Readiness != "" {
		args = append(args, string(filter.Readiness))
		conds = append(conds, fmt.Sprintf("readiness = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conds = append(conds, fmt.Sprintf("(lower(name) LIKE $%d OR lower(contact_email) LIKE $%d)", len(args), len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	var out []*models.Vendor
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		v, err := unmarshalVendor(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Postgres) FindMatches(ctx context.Context, name, email string) ([]*models.Vendor, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT payload FROM vendors
		WHERE ($1 <> '' AND lower(name) = $1)
		   OR ($2 <> '' AND lower(contact_email) = $2)
		ORDER BY id`,
		strings.ToLower(strings.TrimSpace(name)),
		strings.ToLower(strings.TrimSpace(email)),
	)
	if err != nil {
		return nil, fmt.Errorf("find vendor matches: %w", err)
	}
	defer rows.Close()

	var out []*models.Vendor
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		v, err := unmarshalVendor(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Postgres) Execute(
	ctx context.Context,
	vendorID id.VendorID,
	validate func(*models.Vendor) error,
	mutate func(*models.Vendor),
) (*models.Vendor, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin vendor tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var payload []byte
	err = tx.QueryRow(ctx,
		`SELECT payload FROM vendors WHERE id = $1 FOR UPDATE`, vendorID.String(),
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock vendor: %w", err)
	}

	v, err := unmarshalVendor(payload)
	if err != nil {
		return nil, err
	}

	if err := validate(v); err != nil {
		// Rollback via defer; the stored row is untouched.
		return nil, err
	}
	mutate(v)
	v.Version++

	updated, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal vendor: %w", err)
	}
	tag, err := tx.Exec(ctx, `
		UPDATE vendors
		SET name = $2, contact_email = $3, status = $4, readiness = $5,
		    version = $6, payload = $7, updated_at = $8
		WHERE id = $1 AND version = $6 - 1`,
		v.ID.String(), v.Name, v.ContactEmail, string(v.Status), string(v.Readiness),
		v.Version, updated, v.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update vendor: %w", err)
	}
	if tag.RowsAffected() != 1 {
		// The row lock makes this unreachable in practice; the version
		// check keeps a concurrent out-of-band write from being silently
		// overwritten.
		return nil, sentinel.ErrConflict
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit vendor tx: %w", err)
	}
	return v, nil
}

func (s *Postgres) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM vendors`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count vendors: %w", err)
	}
	return n, nil
}

func unmarshalVendor(payload []byte) (*models.Vendor, error) {
	var v models.Vendor
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, fmt.Errorf("unmarshal vendor payload: %w", err)
	}
	return &v, nil
}
