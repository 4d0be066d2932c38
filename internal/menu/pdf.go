package menu

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/rogerio-castellano/kasir/internal/i18n"
	"github.com/rogerio-castellano/kasir/internal/models"
	"github.com/shopspring/decimal"
)

var (
	colorPrimary = &props.Color{Red: 128, Green: 0, Blue: 0}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// PDF renders an A4 menu sheet: header, product table with rupiah prices and a
// QR code pointing at menuURL.
func PDF(_ context.Context, m models.Menu, menuURL string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle(m.RestaurantName, true).
		WithAuthor(m.RestaurantName, true).
		Build()

	doc := maroto.New(cfg)

	doc.AddRows(headerRow(m))
	doc.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))
	doc.AddRows(tableHeaderRow())
	doc.AddRows(itemRows(m.Items)...)
	doc.AddRows(line.NewRow(4, props.Line{Color: colorGray, Thickness: 0.3}))
	if menuURL != "" {
		doc.AddRows(qrRow(menuURL, m.Contact))
	}

	out, err := doc.Generate()
	if err != nil {
		return nil, fmt.Errorf("menu pdf: %w", err)
	}
	return out.GetBytes(), nil
}

func headerRow(m models.Menu) core.Row {
	return row.New(20).Add(
		col.New(8).Add(
			text.New(m.RestaurantName, props.Text{
				Style: fontstyle.Bold, Size: 18, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Menu", props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 3,
			}),
			text.New(m.GeneratedAt, props.Text{
				Size: 8, Align: align.Right, Top: 11, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(9).Add(
		h("Produk", 7, align.Left),
		h("Harga", 3, align.Right),
		h("Status", 2, align.Center),
	)
}

func itemRows(items []models.MenuItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		status, statusColor := "Tersedia", &props.Color{Red: 0, Green: 110, Blue: 50}
		if !it.Available {
			status, statusColor = "Habis", colorGray
		}
		rows = append(rows, row.New(8).Add(
			col.New(7).Add(text.New(it.Name, props.Text{Size: 10, Top: 1})),
			col.New(3).Add(text.New(formatPrice(it), props.Text{Size: 10, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(status, props.Text{Size: 9, Align: align.Center, Top: 1, Color: statusColor})),
		))
	}
	return rows
}

func qrRow(menuURL, contact string) core.Row {
	return row.New(55).Add(
		col.New(4).Add(code.NewQr(menuURL, props.Rect{
			Percent: 95,
			Center:  true,
		})),
		col.New(8).Add(
			text.New("Pindai kode QR untuk melihat menu terbaru.", props.Text{
				Size: 10, Top: 6, Left: 4,
			}),
			text.New(menuURL, props.Text{
				Size: 8, Top: 14, Left: 4, Color: colorGray,
			}),
			text.New(contact, props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 26, Left: 4, Color: colorPrimary,
			}),
		),
	)
}

func formatPrice(it models.MenuItem) string {
	d, err := decimal.NewFromString(it.Price.String())
	if err != nil {
		return it.Price.String()
	}
	return i18n.FormatIDR(d)
}
