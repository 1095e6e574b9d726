package batches

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"scanstation/infrastructure/audit"
	"scanstation/infrastructure/sqlite"
	"scanstation/models"
)

// Journal records submissions in the local SQLite journal. It satisfies the
// recorder interfaces of the stock-in and stock-out flows.
type Journal struct {
	db       *sqlite.DB
	audit    *audit.Service
	operator string
	newID    func() string
}

func NewJournal(db *sqlite.DB, auditSvc *audit.Service, operator string) *Journal {
	if auditSvc == nil {
		auditSvc = audit.NewService()
	}
	return &Journal{db: db, audit: auditSvc, operator: operator, newID: uuid.NewString}
}

func (j *Journal) RecordStockIn(ctx context.Context, sessionID string, barcodes []string, message string, submitErr error, took time.Duration) error {
	outcome := models.OutcomeSuccess
	if submitErr != nil {
		outcome = models.OutcomeFailure
		message = submitErr.Error()
	}
	_, err := j.record(ctx, sessionID, models.KindStockIn, barcodes, outcome, message, took)
	return err
}

func (j *Journal) RecordStockOut(ctx context.Context, sessionID, barcode string, succeeded bool, message string, took time.Duration) error {
	outcome := models.OutcomeFailure
	if succeeded {
		outcome = models.OutcomeSuccess
	}
	_, err := j.record(ctx, sessionID, models.KindStockOut, []string{barcode}, outcome, message, took)
	return err
}

func (j *Journal) record(ctx context.Context, sessionID, kind string, barcodes []string, outcome, message string, took time.Duration) (string, error) {
	if barcodes == nil {
		barcodes = []string{}
	}
	raw, err := json.Marshal(barcodes)
	if err != nil {
		return "", fmt.Errorf("marshal barcodes: %w", err)
	}
	batch := &models.Batch{
		ID:           j.newID(),
		SessionID:    sessionID,
		Operator:     j.operator,
		Kind:         kind,
		BarcodesJSON: string(raw),
		BarcodeCount: len(barcodes),
		Outcome:      outcome,
		Message:      message,
		DurationMS:   took.Milliseconds(),
		CreatedAt:    time.Now().UTC(),
	}
	err = j.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(batch).Exec(ctx); err != nil {
			return err
		}
		after := map[string]any{"outcome": outcome, "count": len(barcodes), "message": message}
		return j.audit.Write(ctx, tx, j.operator, "batch.record", kind, batch.ID, nil, after)
	})
	if err != nil {
		return "", fmt.Errorf("record %s batch: %w", kind, err)
	}
	return batch.ID, nil
}

func ListBatches(ctx context.Context, db *sqlite.DB, filter ListFilter) ([]BatchView, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	var rows []models.Batch
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewSelect().Model(&rows).OrderExpr("created_at DESC, id DESC").Limit(limit)
		if filter.Kind != "" {
			q = q.Where("kind = ?", filter.Kind)
		}
		if filter.Outcome != "" {
			q = q.Where("outcome = ?", filter.Outcome)
		}
		return q.Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	out := make([]BatchView, 0, len(rows))
	for _, row := range rows {
		view, err := toView(row)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

func LoadBatch(ctx context.Context, db *sqlite.DB, id string) (BatchView, error) {
	var row models.Batch
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&row).Where("id = ?", id).Limit(1).Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return BatchView{}, ErrBatchNotFound
	}
	if err != nil {
		return BatchView{}, fmt.Errorf("load batch %s: %w", id, err)
	}
	return toView(row)
}

// LoadDetail returns the batch and its audit trail.
func LoadDetail(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, id string) (DetailData, error) {
	batch, err := LoadBatch(ctx, db, id)
	if err != nil {
		return DetailData{}, err
	}
	var logs []models.AuditLog
	err = db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var err error
		logs, err = auditSvc.ForEntity(ctx, tx, batch.Kind, batch.ID)
		return err
	})
	if err != nil {
		return DetailData{}, fmt.Errorf("load batch audit: %w", err)
	}
	return DetailData{Batch: batch, Audit: logs}, nil
}

func toView(row models.Batch) (BatchView, error) {
	var barcodes []string
	if err := json.Unmarshal([]byte(row.BarcodesJSON), &barcodes); err != nil {
		return BatchView{}, fmt.Errorf("decode barcodes of batch %s: %w", row.ID, err)
	}
	return BatchView{Batch: row, Barcodes: barcodes}, nil
}
