package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	// gorm поверх pgx возвращает *pgconn.PgError, lib/pq - *pq.Error:
	// нарушение уникальности sessionId должно распознаваться для обоих
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "pgconn unique violation",
			err:  &pgconn.PgError{Code: "23505"},
			want: true,
		},
		{
			name: "pq unique violation",
			err:  &pq.Error{Code: "23505"},
			want: true,
		},
		{
			name: "wrapped pgconn unique violation",
			err:  fmt.Errorf("create failed: %w", &pgconn.PgError{Code: "23505"}),
			want: true,
		},
		{
			name: "pgconn other code",
			err:  &pgconn.PgError{Code: "23503"},
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("connection lost"),
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}
