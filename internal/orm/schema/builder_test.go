package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBasicEntity(t *testing.T) {
	s, err := Define("User").
		GeneratedID("id").
		Field("username").
		Field("email").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "User", s.Name)
	assert.Equal(t, "user", s.TableName)
	assert.Equal(t, "id", s.ID.Field)
	assert.Equal(t, "id", s.ID.Column)
	assert.True(t, s.ID.Generated)
	assert.Len(t, s.Columns, 2)
}

func TestBuildTableOverride(t *testing.T) {
	s, err := Define("User").
		Table("users").
		GeneratedID("id").
		Field("username").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "users", s.TableName)
}

func TestBuildColumnOverride(t *testing.T) {
	s, err := Define("User").
		GeneratedID("id").
		FieldColumn("username", "user_name").
		Build()
	require.NoError(t, err)

	col, ok := s.Column("username")
	require.True(t, ok)
	assert.Equal(t, "user_name", col.Name)
}

func TestBuildRelationships(t *testing.T) {
	s, err := Define("Post").
		Table("posts").
		GeneratedID("id").
		Field("title").
		ManyToOne("author", "User", FetchLazy).
		OneToMany("comments", "Comment", "post").
		Build()
	require.NoError(t, err)

	author, ok := s.Relationship("author")
	require.True(t, ok)
	assert.Equal(t, ManyToOne, author.Kind)
	assert.Equal(t, "User", author.Target)
	assert.Equal(t, FetchLazy, author.Fetch)
	assert.Equal(t, "author_id", author.ForeignKey)
	assert.True(t, author.Owning())

	comments, ok := s.Relationship("comments")
	require.True(t, ok)
	assert.Equal(t, OneToMany, comments.Kind)
	assert.Equal(t, "post", comments.MappedBy)
	assert.Equal(t, FetchLazy, comments.Fetch)
	assert.False(t, comments.Owning())

	// Relationships are not plain columns.
	_, ok = s.Column("author")
	assert.False(t, ok)
}

func TestBuildForeignKeyOverride(t *testing.T) {
	s, err := Define("Post").
		GeneratedID("id").
		ManyToOneKey("author", "User", FetchEager, "created_by").
		Build()
	require.NoError(t, err)

	rel, _ := s.Relationship("author")
	assert.Equal(t, "created_by", rel.ForeignKey)
	assert.Equal(t, FetchEager, rel.Fetch)
}

func TestOwningRelationshipsOrder(t *testing.T) {
	s, err := Define("Post").
		GeneratedID("id").
		ManyToOne("author", "User", FetchLazy).
		OneToMany("comments", "Comment", "post").
		ManyToOne("editor", "User", FetchEager).
		Build()
	require.NoError(t, err)

	owning := s.OwningRelationships()
	require.Len(t, owning, 2)
	assert.Equal(t, "author", owning[0].Field)
	assert.Equal(t, "editor", owning[1].Field)
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder *Builder
	}{
		{name: "missing identifier", builder: Define("User").Field("username")},
		{name: "empty entity name", builder: Define("").ID("id")},
		{name: "duplicate column", builder: Define("User").ID("id").Field("a").Field("a")},
		{name: "identifier doubles as column", builder: Define("User").ID("id").Field("id")},
		{
			name:    "column and relationship clash",
			builder: Define("Post").ID("id").Field("author").ManyToOne("author", "User", FetchLazy),
		},
		{name: "id column before id", builder: Define("User").IDColumn("uid")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			assert.Error(t, err)
		})
	}
}

func TestMustBuildPanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() {
		Define("User").MustBuild()
	})
}
