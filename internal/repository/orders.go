package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/booklingua/booklingua/constants"
	"github.com/booklingua/booklingua/internal/common"
	"github.com/booklingua/booklingua/internal/entity"
)

type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	// MarkProcessing moves a pending order to processing. Replays on an
	// order already at or past processing are no-ops.
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	// MarkCompleted moves an order to completed and sets the completion
	// timestamp atomically, once. Replays are no-ops.
	MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error
	List(ctx context.Context, from, to *time.Time) ([]*entity.Order, error)
}

type orderRepo struct {
	db  *sql.DB
	log *slog.Logger
}

func NewOrderRepository(db *sql.DB, log *slog.Logger) OrderRepository {
	if log == nil {
		log = slog.Default()
	}
	return &orderRepo{db: db, log: log}
}

const orderColumns = `id, email, author_name, book_title, word_count, size_tier,
	source_format, languages, genre, addons, special_instructions, amount_paid,
	status, created_at, completed_at`

func (r *orderRepo) Create(ctx context.Context, o *entity.Order) error {
	langs, err := json.Marshal(o.Languages)
	if err != nil {
		return fmt.Errorf("marshal languages: %w", err)
	}
	addons, err := json.Marshal(o.Addons)
	if err != nil {
		return fmt.Errorf("marshal addons: %w", err)
	}
	if o.Status == "" {
		o.Status = constants.OrderStatusPending
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO orders (id, email, author_name, book_title, word_count,
			size_tier, source_format, languages, genre, addons,
			special_instructions, amount_paid, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		o.ID.String(), o.Email, o.AuthorName, o.BookTitle, o.WordCount,
		o.SizeTier, o.SourceFormat, string(langs), o.Genre, string(addons),
		o.SpecialInstructions, o.AmountPaid, string(o.Status), o.CreatedAt)
	if err != nil {
		r.log.Error("order create failed", "order_id", o.ID, "err", err)
		return fmt.Errorf("insert order: %w", err)
	}
	r.log.Info("order created", "order_id", o.ID, "languages", len(o.Languages))
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id.String())
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		r.log.Error("order get failed", "order_id", id, "err", err)
		return nil, err
	}
	return o, nil
}

func (r *orderRepo) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2 AND status = $3`,
		string(constants.OrderStatusProcessing), id.String(),
		string(constants.OrderStatusPending))
	if err != nil {
		r.log.Error("order mark processing failed", "order_id", id, "err", err)
		return fmt.Errorf("mark processing: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		// Either the order does not exist or it already advanced; only the
		// former is an error.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		r.log.Debug("order already past pending", "order_id", id)
		return nil
	}
	r.log.Info("order processing", "order_id", id)
	return nil
}

func (r *orderRepo) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, completed_at = $2
		WHERE id = $3 AND status <> $1 AND completed_at IS NULL`,
		string(constants.OrderStatusCompleted), at.UTC(), id.String())
	if err != nil {
		r.log.Error("order mark completed failed", "order_id", id, "err", err)
		return fmt.Errorf("mark completed: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		r.log.Debug("order already completed", "order_id", id)
		return nil
	}
	r.log.Info("order completed", "order_id", id)
	return nil
}

func (r *orderRepo) List(ctx context.Context, from, to *time.Time) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	var args []any
	switch {
	case from != nil && to != nil:
		query += ` WHERE created_at >= $1 AND created_at <= $2`
		args = append(args, from.UTC(), to.UTC())
	case from != nil:
		query += ` WHERE created_at >= $1`
		args = append(args, from.UTC())
	case to != nil:
		query += ` WHERE created_at <= $1`
		args = append(args, to.UTC())
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*entity.Order, error) {
	var (
		o           entity.Order
		id          string
		langs       string
		addons      string
		status      string
		completedAt sql.NullTime
	)
	err := row.Scan(&id, &o.Email, &o.AuthorName, &o.BookTitle, &o.WordCount,
		&o.SizeTier, &o.SourceFormat, &langs, &o.Genre, &addons,
		&o.SpecialInstructions, &o.AmountPaid, &status, &o.CreatedAt,
		&completedAt)
	if err != nil {
		return nil, err
	}
	o.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse order id %q: %w", id, err)
	}
	if err := json.Unmarshal([]byte(langs), &o.Languages); err != nil {
		return nil, fmt.Errorf("unmarshal languages: %w", err)
	}
	if err := json.Unmarshal([]byte(addons), &o.Addons); err != nil {
		return nil, fmt.Errorf("unmarshal addons: %w", err)
	}
	o.Status = constants.OrderStatus(status)
	if completedAt.Valid {
		t := completedAt.Time
		o.CompletedAt = &t
	}
	return &o, nil
}
