package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultListLimit is used when ListByProduct is called with a non-positive limit.
const DefaultListLimit = 20

// TranscriptStore defines the interface for transcript storage operations.
type TranscriptStore interface {
	// Insert stores a record, filling in ID and CreatedAt when they are zero.
	Insert(ctx context.Context, record *TranscriptRecord) error
	// ListByProduct returns the newest records for a product, newest first.
	ListByProduct(ctx context.Context, productID string, limit int) ([]TranscriptRecord, error)
}

// TranscriptRepo provides methods for transcript operations.
// It implements the TranscriptStore interface.
type TranscriptRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewTranscriptRepo creates a new TranscriptRepo.
func NewTranscriptRepo(db *sql.DB) *TranscriptRepo {
	return &TranscriptRepo{db: db, now: time.Now}
}

// Insert stores a record, filling in ID and CreatedAt when they are zero.
func (r *TranscriptRepo) Insert(ctx context.Context, record *TranscriptRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = r.now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO negotiations
			(id, request_id, product_id, product_name, list_price, mode, customer_message, reply, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.RequestID, record.ProductID, record.ProductName, record.ListPrice,
		string(record.Mode), record.CustomerMessage, record.Reply, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transcript: %w", err)
	}
	return nil
}

// ListByProduct returns the newest records for a product, newest first.
// Returns an empty slice if none exist (not an error).
func (r *TranscriptRepo) ListByProduct(ctx context.Context, productID string, limit int) ([]TranscriptRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, request_id, product_id, product_name, list_price, mode, customer_message, reply, created_at
		FROM negotiations
		WHERE product_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`,
		productID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcripts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := []TranscriptRecord{}
	for rows.Next() {
		var rec TranscriptRecord
		var requestID sql.NullString
		var mode string
		if err := rows.Scan(&rec.ID, &requestID, &rec.ProductID, &rec.ProductName, &rec.ListPrice,
			&mode, &rec.CustomerMessage, &rec.Reply, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transcript: %w", err)
		}
		rec.RequestID = requestID.String
		rec.Mode = Mode(mode)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}
