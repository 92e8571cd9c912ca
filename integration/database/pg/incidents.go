package pg

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/guard/pkg/apiclient"
)

// DefaultIncidentTable is used when no table name is configured.
const DefaultIncidentTable = "security_incidents"

var tableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// IncidentStore persists API client incidents. It implements
// apiclient.IncidentSink.
type IncidentStore struct {
	db    DBTX
	table string
}

var _ apiclient.IncidentSink = (*IncidentStore)(nil)

// NewIncidentStore writes incidents to table through db. An empty table
// selects DefaultIncidentTable.
func NewIncidentStore(db DBTX, table string) (*IncidentStore, error) {
	if table == "" {
		table = DefaultIncidentTable
	}
	if !tableNameRegex.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTableName, table)
	}
	return &IncidentStore{db: db, table: pgx.Identifier{table}.Sanitize()}, nil
}

// EnsureSchema creates the incident table and its type index if missing.
func (s *IncidentStore) EnsureSchema(ctx context.Context) error {
	db, err := executor(ctx, s.db)
	if err != nil {
		return err
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + s.table + ` (
			id          UUID PRIMARY KEY,
			type        TEXT NOT NULL,
			url         TEXT NOT NULL DEFAULT '',
			user_agent  TEXT NOT NULL DEFAULT '',
			occurred_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS ` + pgx.Identifier{unquoted(s.table) + "_type_idx"}.Sanitize() +
			` ON ` + s.table + ` (type, occurred_at)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure incident schema: %w", err)
		}
	}
	return nil
}

// Record implements apiclient.IncidentSink. Re-recording the same incident
// ID is a no-op.
func (s *IncidentStore) Record(ctx context.Context, inc apiclient.Incident) error {
	db, err := executor(ctx, s.db)
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx,
		`INSERT INTO `+s.table+` (id, type, url, user_agent, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`,
		inc.ID, string(inc.Type), inc.URL, inc.UserAgent, inc.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("record incident %s: %w", inc.ID, err)
	}
	return nil
}

// Count returns how many incidents of kind occurred at or after since.
// An empty kind counts every type.
func (s *IncidentStore) Count(ctx context.Context, kind apiclient.IncidentType, since time.Time) (int64, error) {
	db, err := executor(ctx, s.db)
	if err != nil {
		return 0, err
	}

	var n int64
	err = db.QueryRow(ctx,
		`SELECT count(*) FROM `+s.table+` WHERE ($1 = '' OR type = $1) AND occurred_at >= $2`,
		string(kind), since,
	).Scan(&n)
	if IsNotFoundError(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("count incidents: %w", err)
	}
	return n, nil
}

func unquoted(ident string) string {
	return ident[1 : len(ident)-1]
}
