package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/pavlenko-dev/venue-go/internal/repository"
)

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "serialization failure",
			err:  &pgconn.PgError{Code: "40001"},
			want: true,
		},
		{
			name: "deadlock detected, wrapped",
			err:  fmt.Errorf("reserve: %w", &pgconn.PgError{Code: "40P01"}),
			want: true,
		},
		{
			name: "unique violation",
			err:  &pgconn.PgError{Code: "23505"},
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestTranslateDBErr(t *testing.T) {
	t.Parallel()

	require.NoError(t, translateDBErr(nil))

	require.ErrorIs(t, translateDBErr(pgx.ErrNoRows), repository.ErrNotFound)
	require.ErrorIs(t, translateDBErr(&pgconn.PgError{Code: "23505"}), repository.ErrConflict)
	require.ErrorIs(t, translateDBErr(&pgconn.PgError{Code: "23P01"}), repository.ErrConflict)

	// A serialization failure passes through untranslated so the transaction
	// runner can still recognize it.
	serialization := &pgconn.PgError{Code: "40001"}
	require.True(t, IsRetryable(translateDBErr(serialization)))

	other := errors.New("boom")
	require.Equal(t, other, translateDBErr(other))
}
