// Package pdf renders invoices for download. The layout is intentionally
// plain: header, addresses, line items, totals.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	customerdomain "github.com/maplebill/maplebill/internal/customer/domain"
	invoicedomain "github.com/maplebill/maplebill/internal/invoice/domain"
)

// Renderer produces a PDF for an invoice.
type Renderer interface {
	RenderInvoice(ctx context.Context, inv *invoicedomain.Invoice, currency string) (io.Reader, error)
}

type renderer struct{}

func New() Renderer {
	return &renderer{}
}

func (r *renderer) RenderInvoice(ctx context.Context, inv *invoicedomain.Invoice, currency string) (io.Reader, error) {
	_ = ctx

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Invoice "+inv.InvoiceNumber, props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(16,
		col.New(6).Add(
			text.New("Date of issue: "+inv.InvoiceDate.Format("2006-01-02"), props.Text{Top: 0}),
			text.New("Date due: "+inv.DueDate.Format("2006-01-02"), props.Text{Top: 4}),
			text.New("Status: "+string(inv.Status), props.Text{Top: 8}),
		),
		col.New(6),
	)

	m.AddRow(30,
		col.New(6).Add(
			text.New("Bill to", props.Text{Style: fontstyle.Bold}),
			text.New(formatAddress(customerdomain.Address(inv.BillingAddress)), props.Text{Top: 5, Size: 9}),
		),
		col.New(6).Add(
			text.New("Ship to", props.Text{Style: fontstyle.Bold}),
			text.New(formatAddress(customerdomain.Address(inv.ShippingAddress)), props.Text{Top: 5, Size: 9}),
		),
	)

	m.AddRow(10,
		text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, li := range inv.OrderedLineItems() {
		m.AddRow(10,
			text.NewCol(6, li.Item.Name, props.Text{Size: 9}),
			text.NewCol(2, li.Quantity.String(), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, li.Item.UnitPrice.StringFixed(2), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, li.Total().StringFixed(2), props.Text{Size: 9, Align: align.Right}),
		)
	}

	totals := []struct {
		label string
		value string
		bold  bool
	}{
		{"Subtotal", inv.Subtotal().StringFixed(2), false},
		{"Discounts", inv.DiscountAmount().Neg().StringFixed(2), false},
		{"Shipping", inv.ShippingAmount().StringFixed(2), false},
		{"Surcharges", inv.SurchargeAmount().StringFixed(2), false},
		{"Tax", inv.TaxAmount().StringFixed(2), false},
		{fmt.Sprintf("Total (%s)", currency), inv.GrandTotal().StringFixed(2), true},
		{"Balance due", inv.Balance().StringFixed(2), true},
	}
	for _, t := range totals {
		style := fontstyle.Normal
		if t.bold {
			style = fontstyle.Bold
		}
		m.AddRow(8,
			col.New(8),
			text.NewCol(2, t.label, props.Text{Size: 9, Style: style}),
			text.NewCol(2, t.value, props.Text{Size: 9, Style: style, Align: align.Right}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

func formatAddress(a customerdomain.Address) string {
	parts := []string{a.Name, a.Line1, a.Line2, a.City, a.Province, a.PostalCode, a.Country}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n")
}
