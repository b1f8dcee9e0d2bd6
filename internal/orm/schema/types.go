// Package schema holds entity metadata for the miniature entity manager.
// Instead of runtime annotation scanning, each entity's description is a
// static declaration table built once via a Builder and registered with an
// explicit Registry; the "one description per type, computed once" contract
// is preserved without a reflection facility.
package schema

import "strings"

// FetchMode controls when a relationship's target is loaded.
type FetchMode int

const (
	// FetchEager loads the related record synchronously during hydration.
	FetchEager FetchMode = iota
	// FetchLazy defers loading until the reference is first accessed.
	FetchLazy
)

// String returns the string representation of the fetch mode.
func (f FetchMode) String() string {
	switch f {
	case FetchEager:
		return "eager"
	case FetchLazy:
		return "lazy"
	default:
		return "unknown"
	}
}

// RelationKind is the shape of a relationship.
type RelationKind int

const (
	// ManyToOne holds a foreign key to a single related record.
	ManyToOne RelationKind = iota
	// OneToMany is the inverse side, mapped by the target's foreign key.
	OneToMany
)

// String returns the string representation of the relation kind.
func (k RelationKind) String() string {
	switch k {
	case ManyToOne:
		return "many_to_one"
	case OneToMany:
		return "one_to_many"
	default:
		return "unknown"
	}
}

// IDField describes the identifier field of an entity.
type IDField struct {
	Field     string // in-memory field name
	Column    string // storage column name
	Generated bool   // identifier assigned by storage on insert
}

// Column describes one persisted plain column. The storage name defaults to
// the field's own name unless overridden.
type Column struct {
	Field string
	Name  string
}

// Relationship records relationship metadata for a field: target entity,
// fetch eagerness, and the owning-side foreign key (many-to-one) or the
// inverse mapping field (one-to-many).
type Relationship struct {
	Field      string
	Kind       RelationKind
	Target     string
	Fetch      FetchMode
	ForeignKey string // many-to-one: FK column on this entity's table
	MappedBy   string // one-to-many: FK field on the target entity
}

// Owning reports whether this side of the relationship carries the key.
func (r *Relationship) Owning() bool {
	return r.Kind == ManyToOne
}

// EntitySchema is the complete description of one entity type. It is
// computed once at registration and never mutated afterward.
type EntitySchema struct {
	Name          string
	TableName     string
	ID            IDField
	Columns       []Column
	Relationships map[string]*Relationship

	// relationOrder preserves declaration order for deterministic SQL.
	relationOrder []string
}

// Column returns the column descriptor for a field name.
func (s *EntitySchema) Column(field string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Field == field {
			return c, true
		}
	}
	return Column{}, false
}

// Relationship returns the relationship descriptor for a field name.
func (s *EntitySchema) Relationship(field string) (*Relationship, bool) {
	rel, ok := s.Relationships[field]
	return rel, ok
}

// OwningRelationships returns the many-to-one relationships in declaration
// order.
func (s *EntitySchema) OwningRelationships() []*Relationship {
	var out []*Relationship
	for _, field := range s.relationOrder {
		if rel := s.Relationships[field]; rel.Owning() {
			out = append(out, rel)
		}
	}
	return out
}

// HasRelationship reports whether the entity declares a relationship on the
// given field.
func (s *EntitySchema) HasRelationship(field string) bool {
	_, ok := s.Relationships[field]
	return ok
}

// defaultTableName lowercases the entity name, matching the "type's own
// name, case-normalized" default.
func defaultTableName(entity string) string {
	return strings.ToLower(entity)
}
