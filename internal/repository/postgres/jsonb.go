// Package postgres implements every domain Repository interface against
// Postgres via sqlx. Each aggregate is stored as one row: a handful of
// indexed columns for the lookups the repository interfaces actually
// need, plus the full aggregate serialized to a `payload JSONB` column
// — see DESIGN.md for why this replaces the teacher's ent-generated,
// column-per-field schema.
package postgres

import (
	"encoding/json"

	ierr "github.com/ariesone/dme-billing-engine/internal/errors"
	pg "github.com/ariesone/dme-billing-engine/internal/postgres"
)

// marshalPayload is the one place every adapter serializes an aggregate
// into its stored JSONB column.
func marshalPayload(v interface{}) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, ierr.WithError(err).WithHint("failed to serialize record").Mark(ierr.ErrDatabase)
	}
	return b, nil
}

func unmarshalPayload(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return ierr.WithError(err).WithHint("failed to deserialize record").Mark(ierr.ErrDatabase)
	}
	return nil
}

// wrapNotFound turns sql.ErrNoRows (surfaced by sqlx as-is) into the
// engine's sentinel ErrNotFound.
func wrapNotFound(err error, kind, id string) error {
	if err == nil {
		return nil
	}
	return ierr.WithError(err).WithHintf("%s %s not found", kind, id).Mark(ierr.ErrNotFound)
}

func wrapDatabase(err error, op string) error {
	if err == nil {
		return nil
	}
	return ierr.WithError(err).WithHintf("database error during %s", op).Mark(ierr.ErrDatabase)
}

// querier is satisfied by *pg.DB via db.GetQuerier(ctx).
type querier = pg.Querier
