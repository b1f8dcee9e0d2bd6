package schema

import (
	"errors"
	"fmt"
)

// Builder assembles an EntitySchema declaration table. It replaces field
// annotation scanning: the caller declares the identifier, plain columns,
// and relationships, and Build validates the result once. Fields that are
// never declared are simply not persisted (the transient case).
type Builder struct {
	schema *EntitySchema
	errs   []error
}

// Define starts a declaration table for the named entity. The table name
// defaults to the lowercased entity name.
func Define(entity string) *Builder {
	return &Builder{
		schema: &EntitySchema{
			Name:          entity,
			TableName:     defaultTableName(entity),
			Relationships: make(map[string]*Relationship),
		},
	}
}

// Table overrides the default storage table name.
func (b *Builder) Table(name string) *Builder {
	b.schema.TableName = name
	return b
}

// ID declares the identifier field. The storage column name defaults to the
// field name.
func (b *Builder) ID(field string) *Builder {
	b.schema.ID = IDField{Field: field, Column: field}
	return b
}

// GeneratedID declares an identifier field whose value is assigned by
// storage on insert.
func (b *Builder) GeneratedID(field string) *Builder {
	b.schema.ID = IDField{Field: field, Column: field, Generated: true}
	return b
}

// IDColumn overrides the identifier's storage column name.
func (b *Builder) IDColumn(name string) *Builder {
	if b.schema.ID.Field == "" {
		b.errs = append(b.errs, errors.New("IDColumn before ID declaration"))
		return b
	}
	b.schema.ID.Column = name
	return b
}

// Field declares a plain persisted column whose storage name is the field's
// own name.
func (b *Builder) Field(field string) *Builder {
	return b.FieldColumn(field, field)
}

// FieldColumn declares a plain persisted column with an explicit storage
// name override.
func (b *Builder) FieldColumn(field, column string) *Builder {
	if _, exists := b.schema.Column(field); exists {
		b.errs = append(b.errs, fmt.Errorf("duplicate column declaration: %s", field))
		return b
	}
	b.schema.Columns = append(b.schema.Columns, Column{Field: field, Name: column})
	return b
}

// ManyToOne declares an owning-side relationship to the target entity. The
// foreign key column defaults to field + "_id".
func (b *Builder) ManyToOne(field, target string, fetch FetchMode) *Builder {
	return b.relationship(&Relationship{
		Field:      field,
		Kind:       ManyToOne,
		Target:     target,
		Fetch:      fetch,
		ForeignKey: field + "_id",
	})
}

// ManyToOneKey declares an owning-side relationship with an explicit
// foreign key column.
func (b *Builder) ManyToOneKey(field, target string, fetch FetchMode, foreignKey string) *Builder {
	return b.relationship(&Relationship{
		Field:      field,
		Kind:       ManyToOne,
		Target:     target,
		Fetch:      fetch,
		ForeignKey: foreignKey,
	})
}

// OneToMany declares an inverse-side collection relationship mapped by the
// named field on the target entity. Collections are always lazy here.
func (b *Builder) OneToMany(field, target, mappedBy string) *Builder {
	return b.relationship(&Relationship{
		Field:    field,
		Kind:     OneToMany,
		Target:   target,
		Fetch:    FetchLazy,
		MappedBy: mappedBy,
	})
}

func (b *Builder) relationship(rel *Relationship) *Builder {
	if _, exists := b.schema.Relationships[rel.Field]; exists {
		b.errs = append(b.errs, fmt.Errorf("duplicate relationship declaration: %s", rel.Field))
		return b
	}
	b.schema.Relationships[rel.Field] = rel
	b.schema.relationOrder = append(b.schema.relationOrder, rel.Field)
	return b
}

// Build validates the declaration table and returns the finished schema.
func (b *Builder) Build() (*EntitySchema, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("entity %s: %w", b.schema.Name, errors.Join(b.errs...))
	}
	if b.schema.Name == "" {
		return nil, errors.New("entity name is required")
	}
	if b.schema.ID.Field == "" {
		return nil, fmt.Errorf("entity %s has no identifier field", b.schema.Name)
	}
	for _, c := range b.schema.Columns {
		if c.Field == b.schema.ID.Field {
			return nil, fmt.Errorf("entity %s: identifier %s also declared as a column", b.schema.Name, c.Field)
		}
		if _, clash := b.schema.Relationships[c.Field]; clash {
			return nil, fmt.Errorf("entity %s: field %s declared as both column and relationship", b.schema.Name, c.Field)
		}
	}
	return b.schema, nil
}

// MustBuild is Build for declaration tables known to be valid; it panics on
// error. Intended for package-level demo and test fixtures.
func (b *Builder) MustBuild() *EntitySchema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
