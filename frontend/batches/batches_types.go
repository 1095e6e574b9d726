package batches

import (
	"errors"

	"scanstation/models"
)

var ErrBatchNotFound = errors.New("batch not found")

// BatchView is a journaled batch with its barcodes decoded.
type BatchView struct {
	models.Batch
	Barcodes []string
}

// ListFilter narrows ListBatches. Zero values mean "any".
type ListFilter struct {
	Kind    string
	Outcome string
	Limit   int
}

const defaultListLimit = 100

// PageData feeds the batches page.
type PageData struct {
	Role    string
	Filter  ListFilter
	Batches []BatchView
	Message string
}

// DetailData feeds a single batch page.
type DetailData struct {
	Role   string
	Batch  BatchView
	Audit  []models.AuditLog
	Models map[string]string
}
