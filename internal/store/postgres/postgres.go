// Package postgres stores accepted records in a job_fair_events table and
// serves duplicate-detection candidates from it.
package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"

	"github.com/crimson-sun/fairnorm/internal/model"
	"github.com/crimson-sun/fairnorm/internal/store"
)

//go:embed schema.sql
var schema string

const (
	pingAttempts = 3
	pingBackoff  = 200 * time.Millisecond

	// insertChunk rows per INSERT keeps the bind parameters of one statement
	// under the protocol's 65535 limit.
	insertChunk = 1000

	candidatesQuery = `SELECT identity_id, event_name, start_datetime, venue
FROM job_fair_events
WHERE identity_id = ANY($1) OR start_datetime BETWEEN $2 AND $3
ORDER BY created_at, identity_id`
)

var columns = []string{
	"identity_id", "event_name", "start_datetime", "end_datetime",
	"venue", "district", "address", "language", "organizer_name", "description",
	"contact_email", "contact_phone",
	"website_link", "registration_link", "virtual_link", "source_id",
}

func init() {
	store.Register("postgres", func(ctx context.Context, cfg store.Config) (store.Store, error) {
		s, err := Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}

// Querier is the subset of pgxpool.Pool the store needs. pgxmock pools
// satisfy it too.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store is a PostgreSQL-backed store.
type Store struct {
	db   Querier
	pool *pgxpool.Pool
}

// New wraps an existing connection. Close is a no-op for stores built this way.
func New(db Querier) *Store {
	return &Store{db: db}
}

// Open connects to cfg.DSN, pings with retries and applies the schema.
func Open(ctx context.Context, cfg store.Config) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: parsing dsn: %w", err)
	}
	if cfg.ConnectTimeout > 0 {
		pcfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: creating pool: %w", err)
	}

	backoff := retry.WithMaxRetries(pingAttempts, retry.NewExponential(pingBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			slog.Debug("postgres ping failed", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: pinging database: %w", err)
	}

	s := &Store{db: pool, pool: pool}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	slog.Info("postgres store ready", "host", pcfg.ConnConfig.Host, "database", pcfg.ConnConfig.Database)
	return s, nil
}

// Migrate creates the events table and its index if missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: applying schema: %w", err)
	}
	return nil
}

// Candidates selects rows sharing an identity with recs or starting inside
// their padded window.
func (s *Store) Candidates(ctx context.Context, recs []model.NormalizedRecord, maxDayDiff int) ([]model.ExistingRecordView, error) {
	w := store.WindowFor(recs, maxDayDiff)
	if len(w.IDs) == 0 && !w.HasRange {
		return nil, nil
	}
	from, to := pgtype.Timestamptz{}, pgtype.Timestamptz{}
	if w.HasRange {
		from = pgtype.Timestamptz{Time: w.From, Valid: true}
		to = pgtype.Timestamptz{Time: w.To, Valid: true}
	}
	ids := w.IDs
	if ids == nil {
		ids = []string{}
	}

	rows, err := s.db.Query(ctx, candidatesQuery, ids, from, to)
	if err != nil {
		return nil, fmt.Errorf("postgres: querying candidates: %w", err)
	}
	defer rows.Close()

	var out []model.ExistingRecordView
	for rows.Next() {
		var (
			v     model.ExistingRecordView
			start pgtype.Timestamptz
		)
		if err := rows.Scan(&v.IdentityID, &v.EventName, &start, &v.Venue); err != nil {
			return nil, fmt.Errorf("postgres: scanning candidate: %w", err)
		}
		if start.Valid {
			t := start.Time
			v.StartDatetime = &t
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: reading candidates: %w", err)
	}
	return out, nil
}

// Insert writes recs in one statement. Identities already stored are skipped
// by the primary key, so concurrent writers cannot create duplicates.
func (s *Store) Insert(ctx context.Context, recs []model.NormalizedRecord) (int, error) {
	inserted := 0
	for chunk := range slices.Chunk(recs, insertChunk) {
		sql, args := insertStatement(chunk)
		tag, err := s.db.Exec(ctx, sql, args...)
		if err != nil {
			return inserted, fmt.Errorf("postgres: inserting %d records: %w", len(chunk), err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

func insertStatement(recs []model.NormalizedRecord) (string, []any) {
	var b strings.Builder
	b.WriteString("INSERT INTO job_fair_events (")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(recs)*len(columns))
	for i, r := range recs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j := range columns {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", i*len(columns)+j+1)
		}
		b.WriteByte(')')
		args = append(args, rowValues(r)...)
	}
	b.WriteString(" ON CONFLICT (identity_id) DO NOTHING")
	return b.String(), args
}

func rowValues(r model.NormalizedRecord) []any {
	return []any{
		r.IdentityID, r.EventName, timestamp(r.StartDatetime), timestamp(r.EndDatetime),
		r.Venue, r.District, r.Address, string(r.Language), r.OrganizerName, r.Description,
		r.Contact.Email, r.Contact.Phone,
		r.Links.Website, r.Links.Register, r.Links.Virtual, r.Source.ID,
	}
}

func timestamp(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

// Close releases the pool if the store opened it.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
