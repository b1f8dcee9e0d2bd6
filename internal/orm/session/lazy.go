package session

import (
	"context"
	"fmt"
	"sync"
)

// LazyRef is a placeholder for a related record that has not been fetched.
// Identifier retrieval never touches storage; the first access to anything
// else performs exactly one fetch through the owning session, caches the
// result, and forwards every later access to it. A reference outlives its
// usefulness when the owning unit of work ends: accessing it then returns
// ErrSessionClosed rather than silently fetching against stale state.
type LazyRef struct {
	mu     sync.Mutex
	sess   *Session
	epoch  uint64
	entity string
	id     any

	resolved bool
	target   *Record
	err      error
}

func newLazyRef(sess *Session, entity string, id any) *LazyRef {
	return &LazyRef{
		sess:   sess,
		epoch:  sess.epoch,
		entity: entity,
		id:     id,
	}
}

// Entity returns the referenced entity name.
func (l *LazyRef) Entity() string {
	return l.entity
}

// ID returns the referenced identifier without resolving.
func (l *LazyRef) ID() any {
	return l.id
}

// Resolved reports whether the reference has been resolved.
func (l *LazyRef) Resolved() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.resolved
}

// Resolve fetches the referenced record on first call and returns the
// cached record on every later call.
func (l *LazyRef) Resolve(ctx context.Context) (*Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.resolved {
		return l.target, l.err
	}

	if !l.sess.activeEpoch(l.epoch) {
		return nil, fmt.Errorf("%w: cannot resolve %s#%v", ErrSessionClosed, l.entity, l.id)
	}

	l.target, l.err = l.sess.Find(ctx, l.entity, l.id)
	l.resolved = true
	return l.target, l.err
}

// Get returns a field of the referenced record. Retrieving the identifier
// field never triggers a fetch; any other field resolves the reference
// first.
func (l *LazyRef) Get(ctx context.Context, field string) (any, error) {
	if sch, ok := l.sess.registry.Get(l.entity); ok && field == sch.ID.Field {
		return l.id, nil
	}

	rec, err := l.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return rec.Get(field), nil
}

// String identifies the reference without resolving it.
func (l *LazyRef) String() string {
	return fmt.Sprintf("LazyRef(%s#%v)", l.entity, l.id)
}
