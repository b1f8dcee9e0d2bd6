package commands

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/framelab-dev/framelab/internal/orm/schema"
)

// demoSchemas builds the entity registry for the ORM demo: a User with a
// lazily-fetched post collection, and a Post owning the author relationship.
func demoSchemas() (*schema.Registry, error) {
	reg := schema.NewRegistry()

	user, err := schema.Define("User").
		Table("users").
		GeneratedID("id").
		Field("username").
		Field("email").
		OneToMany("posts", "Post", "author").
		Build()
	if err != nil {
		return nil, err
	}

	post, err := schema.Define("Post").
		Table("posts").
		GeneratedID("id").
		Field("title").
		Field("content").
		ManyToOne("author", "User", schema.FetchLazy).
		Build()
	if err != nil {
		return nil, err
	}

	for _, s := range []*schema.EntitySchema{user, post} {
		if err := reg.Register(s); err != nil {
			return nil, err
		}
	}
	if err := reg.ValidateAll(); err != nil {
		return nil, err
	}
	return reg, nil
}

// setupDemoTables creates the demo tables in the (normally in-memory)
// SQLite database.
func setupDemoTables(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT,
			email TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT,
			content TEXT,
			author_id INTEGER
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create demo tables: %w", err)
		}
	}
	return nil
}
