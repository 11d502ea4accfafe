package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/booklingua/booklingua/internal/repository"
)

// Service is a tiny façade over the order repository that produces XLSX
// bytes for operator exports.
type Service struct {
	ordersRepo repository.OrderRepository
	logger     *slog.Logger
}

func NewService(repo repository.OrderRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{ordersRepo: repo, logger: logger}
}

// ExportOrdersXLSX returns an XLSX workbook (as bytes) for the given date window.
// If only from is provided -> from..today (inclusive).
// If only to is provided   -> beginning..to (inclusive).
// If neither is provided   -> all orders.
func (s *Service) ExportOrdersXLSX(ctx context.Context, from, to *time.Time) ([]byte, error) {
	start := time.Now()

	// Normalize dates (date-only, UTC)
	var fromDate, toDate *time.Time
	if from != nil {
		f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
		fromDate = &f
	}
	if to != nil {
		t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
		toDate = &t
	}
	if fromDate != nil && toDate == nil {
		today := time.Now().UTC()
		t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
		toDate = &t
	}

	orders, err := s.ordersRepo.List(ctx, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Orders"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Order Date",
		"Order ID",
		"Author",
		"Email",
		"Book Title",
		"Languages",
		"Word Count",
		"Amount Paid",
		"Status",
		"Completed",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, o := range orders {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		if !o.CreatedAt.IsZero() {
			write(1, o.CreatedAt.Format("2006-01-02"))
		} else {
			write(1, "")
		}
		write(2, o.ID.String())
		write(3, o.AuthorName)
		write(4, o.Email)
		write(5, truncate(o.BookTitle, 80))
		write(6, strings.Join(o.Languages, ", "))
		write(7, o.WordCount)
		write(8, fmt.Sprintf("%.2f", float64(o.AmountPaid)/100))
		write(9, string(o.Status))
		if o.CompletedAt != nil {
			write(10, o.CompletedAt.Format("2006-01-02"))
		} else {
			write(10, "")
		}

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 12) // date
	_ = f.SetColWidth(sheet, "B", "B", 38) // order id
	_ = f.SetColWidth(sheet, "C", "C", 24) // author
	_ = f.SetColWidth(sheet, "D", "D", 28) // email
	_ = f.SetColWidth(sheet, "E", "E", 32) // title
	_ = f.SetColWidth(sheet, "F", "F", 24) // languages
	_ = f.SetColWidth(sheet, "G", "H", 12) // counts, amount
	_ = f.SetColWidth(sheet, "I", "J", 14) // status, completed

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(orders),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
