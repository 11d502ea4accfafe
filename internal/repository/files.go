package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/booklingua/booklingua/constants"
	"github.com/booklingua/booklingua/internal/common"
	"github.com/booklingua/booklingua/internal/entity"
)

type FileRepository interface {
	CreateOriginal(ctx context.Context, f *entity.File) error
	GetOriginal(ctx context.Context, orderID uuid.UUID) (*entity.File, error)
	// UpsertTranslated inserts the translated file for (order, language),
	// overwriting a previous row for the same pair. The UNIQUE key makes a
	// replayed or duplicated save step converge on one row instead of
	// double-inserting.
	UpsertTranslated(ctx context.Context, f *entity.File) error
	ListTranslated(ctx context.Context, orderID uuid.UUID) ([]*entity.File, error)
}

type fileRepo struct {
	db  *sql.DB
	log *slog.Logger
}

func NewFileRepository(db *sql.DB, log *slog.Logger) FileRepository {
	if log == nil {
		log = slog.Default()
	}
	return &fileRepo{db: db, log: log}
}

func (r *fileRepo) CreateOriginal(ctx context.Context, f *entity.File) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO files (id, order_id, type, language, content, original_content, created_at)
		VALUES ($1, $2, $3, '', $4, '', $5)`,
		f.ID.String(), f.OrderID.String(), string(constants.FileTypeOriginal),
		f.Content, f.CreatedAt)
	if err != nil {
		r.log.Error("original file create failed", "order_id", f.OrderID, "err", err)
		return fmt.Errorf("insert original file: %w", err)
	}
	r.log.Info("original file stored", "order_id", f.OrderID, "bytes", len(f.Content))
	return nil
}

func (r *fileRepo) GetOriginal(ctx context.Context, orderID uuid.UUID) (*entity.File, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, type, language, content, original_content, created_at
		FROM files WHERE order_id = $1 AND type = $2`,
		orderID.String(), string(constants.FileTypeOriginal))
	f, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("original file for order %s: %w", orderID, common.ErrNotFound)
	}
	if err != nil {
		r.log.Error("original file get failed", "order_id", orderID, "err", err)
		return nil, err
	}
	return f, nil
}

func (r *fileRepo) UpsertTranslated(ctx context.Context, f *entity.File) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO files (id, order_id, type, language, content, original_content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (order_id, type, language) DO UPDATE SET
			content = excluded.content,
			original_content = excluded.original_content`,
		f.ID.String(), f.OrderID.String(), string(constants.FileTypeTranslated),
		f.Language, f.Content, f.OriginalContent, f.CreatedAt)
	if err != nil {
		r.log.Error("translated file upsert failed",
			"order_id", f.OrderID, "language", f.Language, "err", err)
		return fmt.Errorf("upsert translated file: %w", err)
	}
	r.log.Info("translated file stored",
		"order_id", f.OrderID, "language", f.Language, "bytes", len(f.Content))
	return nil
}

func (r *fileRepo) ListTranslated(ctx context.Context, orderID uuid.UUID) ([]*entity.File, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, type, language, content, original_content, created_at
		FROM files WHERE order_id = $1 AND type = $2 ORDER BY created_at, language`,
		orderID.String(), string(constants.FileTypeTranslated))
	if err != nil {
		return nil, fmt.Errorf("list translated files: %w", err)
	}
	defer rows.Close()

	var out []*entity.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func scanFile(row rowScanner) (*entity.File, error) {
	var (
		f       entity.File
		id      string
		orderID string
		typ     string
	)
	err := row.Scan(&id, &orderID, &typ, &f.Language, &f.Content,
		&f.OriginalContent, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	if f.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse file id %q: %w", id, err)
	}
	if f.OrderID, err = uuid.Parse(orderID); err != nil {
		return nil, fmt.Errorf("parse file order id %q: %w", orderID, err)
	}
	f.Type = constants.FileType(typ)
	return &f, nil
}
