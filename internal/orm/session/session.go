// Package session implements the miniature entity manager: a unit of work
// with an identity map, ordered pending-change sets, and lazy relationship
// references. One session serves one unit of work at a time and is not safe
// for concurrent use; concurrent callers need a session each.
package session

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/framelab-dev/framelab/internal/orm/cache"
	"github.com/framelab-dev/framelab/internal/orm/schema"
)

// Querier is the storage collaborator interface, satisfied by *sql.DB and
// *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Session manages one unit of work at a time over a storage collaborator.
// Records move between the identity map and the pending-insert and
// pending-update sets only through explicit calls; all three are discarded
// when the unit of work ends.
type Session struct {
	db       Querier
	registry *schema.Registry
	cache    cache.Store
	log      *zap.Logger

	active   bool
	epoch    uint64
	identity map[entityKey]*Record
	inserts  []*Record
	updates  []*Record
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session's logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithCache attaches a second-level cache consulted after the identity map
// and before storage.
func WithCache(store cache.Store) Option {
	return func(s *Session) { s.cache = store }
}

// NewSession creates a session over the given storage collaborator and
// entity registry. The session starts inactive; call Begin to open a unit
// of work.
func NewSession(db Querier, registry *schema.Registry, opts ...Option) *Session {
	s := &Session{
		db:       db,
		registry: registry,
		log:      zap.NewNop(),
		identity: make(map[entityKey]*Record),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the session's entity registry.
func (s *Session) Registry() *schema.Registry {
	return s.registry
}

// Active reports whether a unit of work is open.
func (s *Session) Active() bool {
	return s.active
}

// activeEpoch reports whether the given unit of work is still the open one.
// Lazy references capture the epoch at creation so that references from an
// ended unit of work fail loudly.
func (s *Session) activeEpoch(epoch uint64) bool {
	return s.active && s.epoch == epoch
}

// Begin opens a unit of work. It fails if one is already active.
func (s *Session) Begin() error {
	if s.active {
		return ErrSessionActive
	}
	s.active = true
	s.epoch++
	s.log.Debug("unit of work begun", zap.Uint64("epoch", s.epoch))
	return nil
}

// Create adds a record to the pending-insert set. The insert takes effect
// at the next flush.
func (s *Session) Create(rec *Record) error {
	if !s.active {
		return ErrSessionInactive
	}
	s.inserts = append(s.inserts, rec)
	s.log.Debug("marked for insert", zap.String("record", rec.String()))
	return nil
}

// Find returns the record for (entity, id). The identity map is checked
// first; a hit returns the cached record with no storage fetch. On a miss
// the second-level cache (when configured) and then storage are consulted,
// and a found record is hydrated and registered under its identity key.
// Absence is reported as ErrNotFound.
func (s *Session) Find(ctx context.Context, entity string, id any) (*Record, error) {
	if !s.active {
		return nil, ErrSessionInactive
	}

	es, ok := s.registry.Get(entity)
	if !ok {
		return nil, fmt.Errorf("entity %s is not registered", entity)
	}

	key := newEntityKey(entity, id)
	if rec, hit := s.identity[key]; hit {
		s.log.Debug("identity map hit", zap.String("record", rec.String()))
		return rec, nil
	}

	if s.cache != nil {
		row, hit, err := s.cache.Get(ctx, entity, key.id)
		switch {
		case err != nil:
			// A degraded cache is a miss, not a failed read; storage
			// still answers. Symmetrical with the write path below.
			s.log.Warn("second-level cache get failed", zap.Error(err))
		case hit:
			s.log.Debug("second-level cache hit",
				zap.String("entity", entity), zap.Any("id", key.id))
			return s.hydrate(ctx, es, row)
		}
	}

	query := buildSelect(es)
	s.log.Debug("point select", zap.String("sql", query), zap.Any("id", key.id))

	row, err := scanRow(s.db.QueryRowContext(ctx, query, key.id), selectColumns(es))
	if err != nil {
		if converted := ConvertStorageError(err); IsNotFound(converted) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find %s#%v: %w", entity, key.id, ConvertStorageError(err))
	}

	rec, err := s.hydrate(ctx, es, row)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, entity, key.id, snapshotRow(row)); err != nil {
			// A cache write failure does not fail the find.
			s.log.Warn("second-level cache put failed", zap.Error(err))
		}
	}

	return rec, nil
}

// MarkDirty adds an identity-mapped record to the pending-update set. The
// session performs no change detection of its own; callers mark records
// explicitly.
func (s *Session) MarkDirty(rec *Record) error {
	if !s.active {
		return ErrSessionInactive
	}
	key := newEntityKey(rec.Entity(), rec.ID())
	if s.identity[key] != rec {
		return fmt.Errorf("%w: %s", ErrNotManaged, rec.String())
	}
	for _, pending := range s.updates {
		if pending == rec {
			return nil
		}
	}
	s.updates = append(s.updates, rec)
	s.log.Debug("marked for update", zap.String("record", rec.String()))
	return nil
}

// Flush performs all pending inserts, then all pending updates, in order.
// Generated identifiers are assigned and the records identity-mapped before
// Flush returns. Both pending sets are emptied regardless of outcome; a
// failure partway through is surfaced but already-applied statements are
// not undone here.
func (s *Session) Flush(ctx context.Context) (err error) {
	if !s.active {
		return ErrSessionInactive
	}

	inserts, updates := s.inserts, s.updates
	s.inserts, s.updates = nil, nil

	for _, rec := range inserts {
		if insertErr := s.insert(ctx, rec); insertErr != nil {
			return insertErr
		}
	}
	for _, rec := range updates {
		if updateErr := s.update(ctx, rec); updateErr != nil {
			return updateErr
		}
	}
	return nil
}

// Commit flushes pending changes and finalizes the unit of work. On any
// failure it rolls back and returns the original error, so the session is
// guaranteed to be inactive afterward either way.
func (s *Session) Commit(ctx context.Context) error {
	if !s.active {
		return ErrSessionInactive
	}
	if err := s.Flush(ctx); err != nil {
		s.Rollback()
		return err
	}
	s.endUnitOfWork()
	s.log.Debug("unit of work committed")
	return nil
}

// Rollback discards all pending changes, clears the identity map, and
// returns the session to inactive. Rolling back an inactive session is a
// no-op.
func (s *Session) Rollback() {
	if !s.active {
		return
	}
	s.endUnitOfWork()
	s.log.Debug("unit of work rolled back")
}

// Close abandons any open unit of work.
func (s *Session) Close() {
	s.Rollback()
}

func (s *Session) endUnitOfWork() {
	s.active = false
	s.identity = make(map[entityKey]*Record)
	s.inserts = nil
	s.updates = nil
}

// insert executes one pending insert, reading back a generated identifier.
func (s *Session) insert(ctx context.Context, rec *Record) error {
	query, args := buildInsert(rec)
	s.log.Debug("insert", zap.String("sql", query))

	es := rec.Schema()
	if es.ID.Generated {
		var id any
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			return fmt.Errorf("insert %s: %w", es.Name, ConvertStorageError(err))
		}
		rec.SetID(normalizeID(id))
	} else if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", es.Name, ConvertStorageError(err))
	}

	s.identity[newEntityKey(rec.Entity(), rec.ID())] = rec
	return nil
}

// update executes one pending update and invalidates its cache snapshot.
func (s *Session) update(ctx context.Context, rec *Record) error {
	query, args := buildUpdate(rec)
	s.log.Debug("update", zap.String("sql", query))

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update %s: %w", rec.String(), ConvertStorageError(err))
	}

	if s.cache != nil {
		key := newEntityKey(rec.Entity(), rec.ID())
		if err := s.cache.Invalidate(ctx, rec.Entity(), key.id); err != nil {
			s.log.Warn("second-level cache invalidate failed", zap.Error(err))
		}
	}
	return nil
}

// Collection loads the records of a one-to-many relationship by the target
// entity's foreign key. Rows whose identity key is already mapped resolve
// to the existing record, preserving the one-record-per-key invariant.
func (s *Session) Collection(ctx context.Context, rec *Record, relField string) ([]*Record, error) {
	if !s.active {
		return nil, ErrSessionInactive
	}

	rel, ok := rec.Schema().Relationship(relField)
	if !ok || rel.Kind != schema.OneToMany {
		return nil, fmt.Errorf("entity %s has no one-to-many relationship %q", rec.Entity(), relField)
	}

	target, ok := s.registry.Get(rel.Target)
	if !ok {
		return nil, fmt.Errorf("entity %s is not registered", rel.Target)
	}
	inverse, ok := target.Relationship(rel.MappedBy)
	if !ok || !inverse.Owning() {
		return nil, fmt.Errorf("entity %s: %q is not an owning relationship", rel.Target, rel.MappedBy)
	}

	query := buildSelectBy(target, inverse.ForeignKey)
	s.log.Debug("collection select", zap.String("sql", query))

	rows, err := s.db.QueryContext(ctx, query, rec.ID())
	if err != nil {
		return nil, fmt.Errorf("collection %s.%s: %w", rec.String(), relField, ConvertStorageError(err))
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		row, err := scanRowValues(rows, selectColumns(target))
		if err != nil {
			return nil, err
		}
		hydrated, err := s.hydrate(ctx, target, row)
		if err != nil {
			return nil, err
		}
		out = append(out, hydrated)
	}
	if err := rows.Err(); err != nil {
		return nil, ConvertStorageError(err)
	}
	return out, nil
}
