package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/framelab-dev/framelab/internal/orm/schema"
)

// hydrate constructs one in-memory record from a fetched row: identifier,
// plain columns by storage name, then relationships. The record is
// registered in the identity map before relationships are resolved so that
// eagerly-fetched cycles terminate; if the identity key is already mapped,
// the existing record is returned untouched.
func (s *Session) hydrate(ctx context.Context, es *schema.EntitySchema, row map[string]any) (*Record, error) {
	id := normalizeID(row[es.ID.Column])
	key := newEntityKey(es.Name, id)
	if existing, hit := s.identity[key]; hit {
		return existing, nil
	}

	rec := NewRecord(es)
	rec.SetID(id)
	s.identity[key] = rec

	for _, c := range es.Columns {
		rec.Set(c.Field, decodeValue(row[c.Name]))
	}

	for _, rel := range es.OwningRelationships() {
		fk := row[rel.ForeignKey]
		if fk == nil {
			continue
		}
		fk = normalizeID(fk)

		switch rel.Fetch {
		case schema.FetchEager:
			related, err := s.Find(ctx, rel.Target, fk)
			if err != nil {
				if IsNotFound(err) {
					continue
				}
				return nil, fmt.Errorf("eager fetch %s.%s: %w", es.Name, rel.Field, err)
			}
			rec.Set(rel.Field, related)
		case schema.FetchLazy:
			rec.Set(rel.Field, newLazyRef(s, rel.Target, fk))
		}
	}

	return rec, nil
}

// decodeValue normalizes driver values: byte slices become strings, the
// usual text-column shape across drivers.
func decodeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// snapshotRow normalizes a scanned row for the second-level cache. Byte
// slices must become strings before the JSON encoding, which would
// otherwise base64 them and hand the next session mangled field values.
func snapshotRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for col, v := range row {
		out[col] = decodeValue(v)
	}
	return out
}

// scanRow scans a single row into a column-name-keyed map.
func scanRow(row *sql.Row, columns []string) (map[string]any, error) {
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	if err := row.Scan(ptrs...); err != nil {
		return nil, err
	}

	out := make(map[string]any, len(columns))
	for i, col := range columns {
		out[col] = values[i]
	}
	return out, nil
}

// scanRowValues scans the current row of a result set into a
// column-name-keyed map.
func scanRowValues(rows *sql.Rows, columns []string) (map[string]any, error) {
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	out := make(map[string]any, len(columns))
	for i, col := range columns {
		out[col] = values[i]
	}
	return out, nil
}
