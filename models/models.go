package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	KindStockIn  = "stock_in"
	KindStockOut = "stock_out"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Batch is one journaled submission: a stock-in batch or a single
// stock-out call.
type Batch struct {
	bun.BaseModel `bun:"table:batches,alias:b"`

	ID           string    `bun:"id,pk"`
	SessionID    string    `bun:"session_id,notnull"`
	Operator     string    `bun:"operator,notnull"`
	Kind         string    `bun:"kind,notnull"`
	BarcodesJSON string    `bun:"barcodes_json,notnull"`
	BarcodeCount int       `bun:"barcode_count,notnull"`
	Outcome      string    `bun:"outcome,notnull"`
	Message      string    `bun:"message,notnull"`
	DurationMS   int64     `bun:"duration_ms,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Succeeded reports whether the server accepted the submission.
func (b Batch) Succeeded() bool {
	return b.Outcome == OutcomeSuccess
}

// AuditLog captures immutable change history for journaled operations.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	Operator   string    `bun:"operator,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
