package labels

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"

	"scanstation/infrastructure/inventory"
)

var ErrEmptySheet = errors.New("no barcodes to render")

// SheetData is one received batch printed as a sheet of scannable rows.
type SheetData struct {
	BatchID   string
	Operator  string
	Barcodes  []string
	CreatedAt time.Time
}

const (
	rowsPerPage   = 8
	sheetMargin   = 12.0
	headerHeight  = 30.0
	rowHeight     = 30.0
	barcodeWidth  = 110.0
	barcodeHeight = 18.0
)

// RenderBatchSheetPDF lays barcodes out in order, one Code 128 per row.
func RenderBatchSheetPDF(sheet SheetData, printedAt time.Time) ([]byte, error) {
	if len(sheet.Barcodes) == 0 {
		return nil, ErrEmptySheet
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Stock-in Batch "+sheet.BatchID, false)
	pdf.SetAutoPageBreak(false, 0)
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*sheetMargin

	pages := (len(sheet.Barcodes) + rowsPerPage - 1) / rowsPerPage
	for i, code := range sheet.Barcodes {
		if i%rowsPerPage == 0 {
			pdf.AddPage()
			addSheetHeader(pdf, sheet, printedAt, i/rowsPerPage+1, pages, contentW)
		}
		y := sheetMargin + headerHeight + float64(i%rowsPerPage)*rowHeight
		if err := addSheetRow(pdf, i, code, y, contentW); err != nil {
			return nil, err
		}
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func addSheetHeader(pdf *gofpdf.Fpdf, sheet SheetData, printedAt time.Time, page, pages int, contentW float64) {
	operator := strings.TrimSpace(sheet.Operator)
	if operator == "" {
		operator = "-"
	}
	created := "N/A"
	if !sheet.CreatedAt.IsZero() {
		created = sheet.CreatedAt.Local().Format("02/01/2006 15:04")
	}

	pdf.SetXY(sheetMargin, sheetMargin)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(contentW, 10, "STOCK-IN BATCH", "", 1, "L", false, 0, "")
	pdf.SetX(sheetMargin)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 5, "Batch: "+sheet.BatchID, "", 1, "L", false, 0, "")
	pdf.SetX(sheetMargin)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Operator: %s   Received: %s   Batteries: %d", operator, created, len(sheet.Barcodes)), "", 1, "L", false, 0, "")
	pdf.SetX(sheetMargin)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Printed %s, page %d of %d", printedAt.Format("02/01/2006"), page, pages), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetLineWidth(0.35)
	pdf.Line(sheetMargin, sheetMargin+headerHeight-2, sheetMargin+contentW, sheetMargin+headerHeight-2)
}

func addSheetRow(pdf *gofpdf.Fpdf, index int, code string, y, contentW float64) error {
	model, mfgDate := inventory.ParseBarcode(code)
	if mfgDate == "" {
		mfgDate = "-"
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(sheetMargin, y+2)
	pdf.CellFormat(10, 6, fmt.Sprintf("%d.", index+1), "", 0, "L", false, 0, "")

	textW := contentW - barcodeWidth - 14
	codeFont := fitFontSizeForWidth(pdf, "Helvetica", "B", 14, 8, code, textW)
	pdf.SetFont("Helvetica", "B", codeFont)
	pdf.SetXY(sheetMargin+10, y+2)
	pdf.CellFormat(textW, 7, code, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(sheetMargin+10, y+10)
	pdf.CellFormat(textW, 5, "Model: "+model, "", 0, "L", false, 0, "")
	pdf.SetXY(sheetMargin+10, y+15)
	pdf.CellFormat(textW, 5, "Mfg: "+mfgDate, "", 0, "L", false, 0, "")

	barcodePNG, err := renderCode128PNG(code, 1000, 180)
	if err != nil {
		return fmt.Errorf("encode %q: %w", code, err)
	}
	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	imageName := fmt.Sprintf("battery-barcode-%d", index)
	pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
	pdf.ImageOptions(imageName, sheetMargin+contentW-barcodeWidth, y+2, barcodeWidth, barcodeHeight, false, opt, 0, "")

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(sheetMargin, y+rowHeight-2, sheetMargin+contentW, y+rowHeight-2)
	pdf.SetDrawColor(0, 0, 0)
	return nil
}

func fitFontSizeForWidth(pdf *gofpdf.Fpdf, family, style string, base, min float64, text string, maxWidth float64) float64 {
	if maxWidth <= 0 {
		return min
	}
	size := base
	pdf.SetFont(family, style, size)
	for size > min && pdf.GetStringWidth(text) > maxWidth {
		size -= 0.5
		pdf.SetFont(family, style, size)
	}
	return size
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := png.Encode(&out, toNRGBA(scaled)); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
