package receipt

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/utafrali/OrderEntryGo/internal/domain"
)

// Renderer renders order confirmations as PDF receipts.
type Renderer struct {
	companyName string
}

// NewRenderer creates a renderer. companyName appears in the receipt header.
func NewRenderer(companyName string) *Renderer {
	if companyName == "" {
		companyName = "Order Entry"
	}
	return &Renderer{companyName: companyName}
}

// Render produces a single-page PDF receipt for the given order.
func (r *Renderer) Render(order *domain.Order) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Order %s", order.ID), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 12, r.companyName)
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Order Confirmation")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Order ID: %s", order.ID))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Customer: %s", order.CustomerName))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", order.CreatedAt.Format("2006-01-02 15:04 MST")))
	pdf.Ln(10)

	// Line item table.
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(80, 8, "Product", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Quantity", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 8, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 8, "Net Price", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range order.Items {
		pdf.CellFormat(80, 8, item.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, item.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, item.NetPrice.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(150, 9, fmt.Sprintf("Total (%s)", order.Currency), "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 9, order.TotalPrice.StringFixed(2), "1", 1, "R", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, "Thank you for your order.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}
