package reports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"scanstation/infrastructure/inventory"
)

var ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateDate accepts "" (no filter) or YYYY-MM-DD.
func ValidateDate(date string) error {
	if date == "" || datePattern.MatchString(date) {
		return nil
	}
	return ErrInvalidDate
}

func LoadStock(ctx context.Context, src Source) ([]inventory.StockRow, error) {
	rows, err := src.ListStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stock: %w", err)
	}
	return rows, nil
}

func LoadActivated(ctx context.Context, src Source, date string) ([]inventory.StockRow, error) {
	if err := ValidateDate(date); err != nil {
		return nil, err
	}
	rows, err := src.ListActivated(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load activated stock: %w", err)
	}
	return rows, nil
}

// LoadSummary returns per-model in-stock counts, largest first, and the total.
func LoadSummary(ctx context.Context, src Source) ([]inventory.SummaryRow, int, error) {
	rows, err := src.StockSummary(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("load stock summary: %w", err)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].BatteryCount != rows[j].BatteryCount {
			return rows[i].BatteryCount > rows[j].BatteryCount
		}
		return rows[i].Model < rows[j].Model
	})
	total := 0
	for _, r := range rows {
		total += r.BatteryCount
	}
	return rows, total, nil
}

// Download fetches a server report and renders it in format.
func Download(ctx context.Context, src Source, status, date, format string) (filename string, body []byte, err error) {
	if err := ValidateDate(date); err != nil {
		return "", nil, err
	}
	report, err := src.DownloadReport(ctx, status, date)
	if err != nil {
		return "", nil, fmt.Errorf("download report: %w", err)
	}
	filename = report.Filename
	if filename == "" {
		filename = "report.csv"
	}
	switch format {
	case "", FormatCSV:
		return filename, report.CSV, nil
	case FormatXLSX:
		buf := new(bytes.Buffer)
		if err := CSVToXLSX(buf, "Report", report.CSV); err != nil {
			return "", nil, err
		}
		return XLSXFilename(filename), buf.Bytes(), nil
	default:
		return "", nil, fmt.Errorf("unknown report format %q", format)
	}
}

// StockRecords flattens rows for tabular export.
func StockRecords(rows []inventory.StockRow) ([]string, [][]string) {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.Barcode, r.Model, deref(r.MfgDate), r.Status, deref(r.ActivationDate)})
	}
	return stockHeaders, out
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
