package session

import (
	"fmt"
	"strings"

	"github.com/framelab-dev/framelab/internal/orm/schema"
)

// The session issues exactly three statement shapes: a by-identifier point
// select, a full-column insert (omitting a generated identifier and reading
// it back via RETURNING), and a full-column update by identifier. Column
// order follows the declaration table, so statements are deterministic.

// selectColumns returns the storage column list for a point select: the
// identifier, the plain columns, then the owning-side foreign keys.
func selectColumns(s *schema.EntitySchema) []string {
	cols := []string{s.ID.Column}
	for _, c := range s.Columns {
		cols = append(cols, c.Name)
	}
	for _, rel := range s.OwningRelationships() {
		cols = append(cols, rel.ForeignKey)
	}
	return cols
}

// buildSelect builds the by-identifier point select.
func buildSelect(s *schema.EntitySchema) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		strings.Join(selectColumns(s), ", "), s.TableName, s.ID.Column)
}

// buildSelectBy builds a select filtered on an arbitrary storage column,
// used for loading one-to-many collections by foreign key.
func buildSelectBy(s *schema.EntitySchema, column string) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		strings.Join(selectColumns(s), ", "), s.TableName, column)
}

// buildInsert builds the full-column insert for a record. A generated
// identifier is omitted from the column list and read back with RETURNING;
// an assigned identifier is inserted like any other column.
func buildInsert(rec *Record) (string, []any) {
	s := rec.Schema()

	var cols []string
	var args []any

	if !s.ID.Generated {
		cols = append(cols, s.ID.Column)
		args = append(args, rec.ID())
	}
	for _, c := range s.Columns {
		cols = append(cols, c.Name)
		args = append(args, rec.Get(c.Field))
	}
	for _, rel := range s.OwningRelationships() {
		cols = append(cols, rel.ForeignKey)
		args = append(args, foreignKeyValue(rec.Get(rel.Field)))
	}

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.TableName, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	if s.ID.Generated {
		query += " RETURNING " + s.ID.Column
	}
	return query, args
}

// buildUpdate builds the full-column update by identifier.
func buildUpdate(rec *Record) (string, []any) {
	s := rec.Schema()

	var sets []string
	var args []any
	n := 1

	for _, c := range s.Columns {
		sets = append(sets, fmt.Sprintf("%s = $%d", c.Name, n))
		args = append(args, rec.Get(c.Field))
		n++
	}
	for _, rel := range s.OwningRelationships() {
		sets = append(sets, fmt.Sprintf("%s = $%d", rel.ForeignKey, n))
		args = append(args, foreignKeyValue(rec.Get(rel.Field)))
		n++
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		s.TableName, strings.Join(sets, ", "), s.ID.Column, n)
	args = append(args, rec.ID())
	return query, args
}

// foreignKeyValue extracts the storable identifier from a relationship
// field. The field may hold a related record, an unresolved lazy reference
// (whose identifier is known without fetching), a raw identifier, or nil.
func foreignKeyValue(v any) any {
	switch ref := v.(type) {
	case nil:
		return nil
	case *Record:
		return ref.ID()
	case *LazyRef:
		return ref.ID()
	default:
		return v
	}
}
