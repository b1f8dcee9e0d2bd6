package session

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestConvertStorageError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, ErrUniqueViolation},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, ErrForeignKeyViolation},
		{"check violation", &pgconn.PgError{Code: "23514"}, ErrCheckViolation},
		{"not null violation", &pgconn.PgError{Code: "23502"}, ErrNotNullViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConvertStorageError(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestConvertStorageErrorPassesThroughUnknown(t *testing.T) {
	unknown := errors.New("connection reset")
	assert.Equal(t, unknown, ConvertStorageError(unknown))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrNotFound))
	assert.True(t, IsNotFound(ConvertStorageError(sql.ErrNoRows)))
	assert.False(t, IsNotFound(errors.New("other")))
	assert.False(t, IsNotFound(nil))
}

func TestRecordAccessors(t *testing.T) {
	reg := testRegistry(t)

	rec := NewRecord(reg.MustGet("User")).
		Set("username", "ada").
		Set("email", "ada@example.com")

	assert.Equal(t, "User", rec.Entity())
	assert.Equal(t, "ada", rec.Get("username"))
	assert.Nil(t, rec.Get("missing"))

	rec.SetID(int64(5))
	assert.Equal(t, int64(5), rec.ID())
	assert.Equal(t, "User#5", rec.String())

	// Fields returns a copy; mutating it does not leak back.
	fields := rec.Fields()
	fields["username"] = "mallory"
	assert.Equal(t, "ada", rec.Get("username"))
}
