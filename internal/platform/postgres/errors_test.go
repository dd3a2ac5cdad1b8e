package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/vie2206/solo-legalight-sub007/internal/store"
)

func pgError(code, constraint string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, ConstraintName: constraint}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   error
		wantErr error
	}{
		{
			name:    "nil stays nil",
			input:   nil,
			wantErr: nil,
		},
		{
			name:    "no rows maps to not found",
			input:   sql.ErrNoRows,
			wantErr: store.ErrNotFound,
		},
		{
			name:    "wrapped no rows maps to not found",
			input:   fmt.Errorf("query cards: %w", sql.ErrNoRows),
			wantErr: store.ErrNotFound,
		},
		{
			name:    "unique violation maps to duplicate",
			input:   pgError(uniqueViolationCode, "cards_pkey"),
			wantErr: store.ErrDuplicate,
		},
		{
			name:    "foreign key violation maps to invalid entity",
			input:   pgError(foreignKeyViolationCode, "review_logs_card_id_fkey"),
			wantErr: store.ErrInvalidEntity,
		},
		{
			name:    "check violation maps to invalid entity",
			input:   pgError(checkViolationCode, "cards_state_check"),
			wantErr: store.ErrInvalidEntity,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := MapError(tc.input)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestMapErrorPassesThroughUnknownErrors(t *testing.T) {
	t.Parallel()

	unknown := errors.New("connection refused")
	assert.Equal(t, unknown, MapError(unknown))

	otherPg := pgError("57014", "")
	assert.Equal(t, error(otherPg), MapError(otherPg))
}

func TestIsViolationHelpers(t *testing.T) {
	t.Parallel()

	unique := fmt.Errorf("insert: %w", pgError(uniqueViolationCode, "cards_pkey"))
	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsForeignKeyViolation(unique))

	fk := pgError(foreignKeyViolationCode, "review_logs_card_id_fkey")
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsUniqueViolation(fk))

	assert.False(t, IsUniqueViolation(errors.New("plain")))
}

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, "card"))

	err := CheckRowsAffected(fakeResult{rows: 0}, "card")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), "card")

	err = CheckRowsAffected(fakeResult{rows: 0}, "")
	assert.ErrorIs(t, err, store.ErrNotFound)

	boom := errors.New("driver broke")
	err = CheckRowsAffected(fakeResult{err: boom}, "card")
	assert.ErrorIs(t, err, boom)

	assert.Error(t, CheckRowsAffected(nil, "card"))
}
