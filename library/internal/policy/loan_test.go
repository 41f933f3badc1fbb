package policy

import (
	"testing"
	"time"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/stretchr/testify/require"
)

func TestDueDate(t *testing.T) {
	t.Parallel()
	borrowed := time.Date(2024, 2, 20, 10, 30, 0, 0, time.UTC)
	require.Equal(t, time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC), DueDate(borrowed))
}

func TestFine(t *testing.T) {
	t.Parallel()
	due := time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		returned time.Time
		want     string // empty means no fine
	}{
		{name: "early", returned: due.Add(-48 * time.Hour)},
		{name: "exactly on due date", returned: due},
		{name: "hours late", returned: due.Add(5 * time.Hour), want: "0"},
		{name: "one day late", returned: due.Add(24 * time.Hour), want: "1"},
		{name: "three and a half days late", returned: due.Add(3*24*time.Hour + 12*time.Hour), want: "3"},
		{name: "thirty days late", returned: due.Add(30 * 24 * time.Hour), want: "30"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Fine(due, tt.returned)
			if tt.want == "" {
				require.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.Equal(t, tt.want, got.String())
		})
	}
}

func TestOverdueDays(t *testing.T) {
	t.Parallel()
	due := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	require.Equal(t, int64(0), OverdueDays(due, due.Add(-time.Hour)))
	require.Equal(t, int64(0), OverdueDays(due, due.Add(23*time.Hour+59*time.Minute)))
	require.Equal(t, int64(2), OverdueDays(due, due.Add(49*time.Hour)))
}

func TestCheckBorrow(t *testing.T) {
	t.Parallel()
	require.NoError(t, CheckBorrow(model.Book{TotalCopies: 1, AvailableCopies: 1}, false))
	require.ErrorIs(t, CheckBorrow(model.Book{TotalCopies: 1, AvailableCopies: 0}, false), errs.ErrBookUnavailable)
	// availability is checked first
	require.ErrorIs(t, CheckBorrow(model.Book{TotalCopies: 1, AvailableCopies: 0}, true), errs.ErrBookUnavailable)
	err := CheckBorrow(model.Book{TotalCopies: 2, AvailableCopies: 1}, true)
	require.ErrorIs(t, err, errs.ErrDuplicateActiveLoan)
	require.ErrorIs(t, err, errs.ErrConflict)
}
