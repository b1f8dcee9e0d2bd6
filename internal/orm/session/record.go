package session

import (
	"fmt"

	"github.com/framelab-dev/framelab/internal/orm/schema"
)

// Record is the in-memory representation of one stored row: an entity
// schema reference plus a field map. Relationship fields hold either a
// *Record (eager) or a *LazyRef (lazy).
type Record struct {
	schema *schema.EntitySchema
	fields map[string]any
}

// NewRecord creates an empty record for the given entity schema.
func NewRecord(s *schema.EntitySchema) *Record {
	return &Record{schema: s, fields: make(map[string]any)}
}

// Schema returns the record's entity schema.
func (r *Record) Schema() *schema.EntitySchema {
	return r.schema
}

// Entity returns the record's entity name.
func (r *Record) Entity() string {
	return r.schema.Name
}

// ID returns the record's identifier value, or nil when unassigned.
func (r *Record) ID() any {
	return r.fields[r.schema.ID.Field]
}

// SetID assigns the record's identifier value.
func (r *Record) SetID(id any) {
	r.fields[r.schema.ID.Field] = id
}

// Get returns the value of a field.
func (r *Record) Get(field string) any {
	return r.fields[field]
}

// Set assigns a field value and returns the record for chaining.
func (r *Record) Set(field string, value any) *Record {
	r.fields[field] = value
	return r
}

// Fields returns a copy of the record's field map.
func (r *Record) Fields() map[string]any {
	out := make(map[string]any, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

// String returns a compact representation for logs and demo output.
func (r *Record) String() string {
	return fmt.Sprintf("%s#%v", r.schema.Name, r.ID())
}
