package commands

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fatih/color"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/framelab-dev/framelab/internal/cli/config"
	"github.com/framelab-dev/framelab/internal/cli/ui"
	"github.com/framelab-dev/framelab/internal/orm/cache"
	"github.com/framelab-dev/framelab/internal/orm/session"
)

// NewOrmCommand creates the orm command: three scripted demos of the entity
// manager against an in-memory SQLite database.
func NewOrmCommand() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "orm",
		Short: "Run the scripted entity-manager demo",
		Long: `Run three scripted demos of the entity manager:

  1. Basic unit of work: create, flush on commit, generated id read-back
  2. Identity map: the second find of the same entity is the same record
     and performs no storage fetch
  3. Lazy loading: a relationship reference that fetches on first access

Storage is an in-memory SQLite database created on the fly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runOrmDemo(cmd.Context(), cmd, cfg, noColor)
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}

func runOrmDemo(ctx context.Context, cmd *cobra.Command, cfg *config.Config, noColor bool) error {
	out := cmd.OutOrStdout()
	section := ui.NewSection(out, noColor)

	heading := color.New(color.Bold, color.FgCyan)
	if noColor {
		heading.DisableColor()
	}
	heading.Fprintln(out, "=== Entity-Manager Demo ===")

	db, err := sql.Open(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	// An in-memory SQLite database exists per connection; keep the pool at
	// one so every statement sees the same schema.
	db.SetMaxOpenConns(1)

	if err := setupDemoTables(ctx, db); err != nil {
		return err
	}
	section.Step("created users and posts tables (%s %s)", cfg.Database.Driver, cfg.Database.URL)

	reg, err := demoSchemas()
	if err != nil {
		return err
	}

	opts := []session.Option{}
	if cfg.Cache.Enabled {
		client := redis.NewClient(&redis.Options{Addr: cfg.Cache.Addr})
		defer client.Close()
		store := cache.NewRedisStore(client, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
		opts = append(opts, session.WithCache(store))
		section.Step("second-level cache enabled (%s)", cfg.Cache.Addr)
	}

	sess := session.NewSession(db, reg, opts...)
	defer sess.Close()

	userID, err := demoBasicUnitOfWork(ctx, sess, section)
	if err != nil {
		return err
	}
	if err := demoIdentityMap(ctx, sess, section, userID); err != nil {
		return err
	}
	return demoLazyLoading(ctx, sess, section, userID)
}

// demoBasicUnitOfWork creates a user and shows the generated identifier
// coming back at flush time.
func demoBasicUnitOfWork(ctx context.Context, sess *session.Session, section *ui.Section) (any, error) {
	section.Title("Demo 1: Basic Unit of Work")

	if err := sess.Begin(); err != nil {
		return nil, err
	}

	user := session.NewRecord(sess.Registry().MustGet("User")).
		Set("username", "john_doe").
		Set("email", "john@example.com")

	if err := sess.Create(user); err != nil {
		return nil, err
	}
	section.Step("created %s (id pending until flush)", user.Get("username"))

	if err := sess.Commit(ctx); err != nil {
		return nil, err
	}
	section.Result("committed: %s", user)

	return user.ID(), nil
}

// demoIdentityMap finds the same user twice inside one unit of work and
// shows that both finds return the identical record.
func demoIdentityMap(ctx context.Context, sess *session.Session, section *ui.Section, userID any) error {
	section.Title("Demo 2: Identity Map (First-Level Cache)")

	if err := sess.Begin(); err != nil {
		return err
	}
	defer sess.Rollback()

	first, err := sess.Find(ctx, "User", userID)
	if err != nil {
		return err
	}
	section.Step("first find:  %s (one storage fetch)", first)

	second, err := sess.Find(ctx, "User", userID)
	if err != nil {
		return err
	}
	section.Step("second find: %s (no storage fetch)", second)

	section.Result("same record? %v", first == second)
	return nil
}

// demoLazyLoading creates a post owned by the user, reloads it in a fresh
// unit of work, and shows the author reference fetching on first access.
func demoLazyLoading(ctx context.Context, sess *session.Session, section *ui.Section, userID any) error {
	section.Title("Demo 3: Lazy Loading")

	if err := sess.Begin(); err != nil {
		return err
	}

	author, err := sess.Find(ctx, "User", userID)
	if err != nil {
		return err
	}

	post := session.NewRecord(sess.Registry().MustGet("Post")).
		Set("title", "My First Post").
		Set("content", "Hello World!").
		Set("author", author)

	if err := sess.Create(post); err != nil {
		return err
	}
	if err := sess.Commit(ctx); err != nil {
		return err
	}
	section.Step("created %s by %s", post, author)

	// Fresh unit of work, empty identity map: the post loads from storage
	// and its author comes back as an unresolved reference.
	if err := sess.Begin(); err != nil {
		return err
	}
	defer sess.Rollback()

	loaded, err := sess.Find(ctx, "Post", post.ID())
	if err != nil {
		return err
	}

	ref, ok := loaded.Get("author").(*session.LazyRef)
	if !ok {
		return fmt.Errorf("expected a lazy author reference, got %T", loaded.Get("author"))
	}
	section.Step("loaded %s; author is %s (unresolved, no fetch yet)", loaded, ref)

	username, err := ref.Get(ctx, "username")
	if err != nil {
		return err
	}
	section.Result("accessing author triggered the fetch: %v", username)
	return nil
}
