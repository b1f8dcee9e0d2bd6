package session

import "math"

// entityKey is the (entity, identifier) pair used to deduplicate in-memory
// records within one unit of work. Two keys are equal iff both components
// are equal; identifier values are normalized first so the same conceptual
// id always produces the same key.
type entityKey struct {
	entity string
	id     any
}

func newEntityKey(entity string, id any) entityKey {
	return entityKey{entity: entity, id: normalizeID(id)}
}

// normalizeID collapses equivalent identifier representations. Integer
// kinds widen to int64 (drivers variously return int, int32, or int64 for
// the same column), byte slices become strings, and integral floats become
// int64 (JSON snapshots from the second-level cache decode numbers as
// float64).
func normalizeID(id any) any {
	switch v := id.(type) {
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v)
		}
		return v
	case float64:
		if v == float64(int64(v)) {
			return int64(v)
		}
		return v
	case []byte:
		return string(v)
	default:
		return id
	}
}
