package reports

import (
	"context"

	"scanstation/infrastructure/inventory"
)

// Source is the inventory server's read side.
type Source interface {
	ListStock(ctx context.Context) ([]inventory.StockRow, error)
	ListActivated(ctx context.Context, date string) ([]inventory.StockRow, error)
	StockSummary(ctx context.Context) ([]inventory.SummaryRow, error)
	DownloadReport(ctx context.Context, status, date string) (inventory.Report, error)
}

var stockHeaders = []string{"Barcode", "Model", "Mfg Date", "Status", "Activation Date"}

type StockPageData struct {
	Role         string
	Title        string
	Active       string
	Date         string
	ShowDate     bool
	Rows         []inventory.StockRow
	ErrorMessage string
}

type SummaryPageData struct {
	Role         string
	Rows         []inventory.SummaryRow
	Total        int
	ErrorMessage string
}
