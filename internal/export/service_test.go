package export

import (
	"context"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/booklingua/booklingua/constants"
	"github.com/booklingua/booklingua/internal/entity"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 80, "short"},
		{"exactly", 7, "exactly"},
		{"abcdefgh", 5, "abcd…"},
		{"", 5, ""},
		{"abc", 0, "abc"},
		{"abc", 1, "a"},
		// Multi-byte titles cut on rune boundaries, never mid-character.
		{"日本語のタイトルです", 5, "日本語の…"},
		{"Crónica de una muerte anunciada", 10, "Crónica d…"},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.n)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.in, tt.n)
		}
	}
}

type stubOrders struct {
	orders []*entity.Order
	from   *time.Time
	to     *time.Time
}

func (s *stubOrders) Create(context.Context, *entity.Order) error { return nil }
func (s *stubOrders) GetByID(context.Context, uuid.UUID) (*entity.Order, error) {
	return nil, nil
}
func (s *stubOrders) MarkProcessing(context.Context, uuid.UUID) error { return nil }
func (s *stubOrders) MarkCompleted(context.Context, uuid.UUID, time.Time) error {
	return nil
}
func (s *stubOrders) List(_ context.Context, from, to *time.Time) ([]*entity.Order, error) {
	s.from, s.to = from, to
	return s.orders, nil
}

func TestExportOrdersXLSX(t *testing.T) {
	completed := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	repo := &stubOrders{orders: []*entity.Order{{
		ID:          uuid.New(),
		Email:       "author@example.com",
		AuthorName:  "A. Writer",
		BookTitle:   "The Long Night",
		WordCount:   54000,
		Languages:   []string{"es", "fr"},
		AmountPaid:  9900,
		Status:      constants.OrderStatusCompleted,
		CreatedAt:   time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		CompletedAt: &completed,
	}}}

	svc := NewService(repo, nil)
	from := time.Date(2026, 8, 15, 13, 30, 0, 0, time.UTC)
	data, err := svc.ExportOrdersXLSX(context.Background(), &from, nil)
	if err != nil {
		t.Fatalf("ExportOrdersXLSX: %v", err)
	}
	if len(data) == 0 {
		t.Error("empty workbook")
	}

	// The window is normalized to date-only UTC, and a missing end date
	// defaults to today.
	if repo.from == nil || !repo.from.Equal(time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("from = %v, want 2026-08-15 midnight UTC", repo.from)
	}
	if repo.to == nil {
		t.Error("to must default to today when only from is given")
	}
}
