// Package pdf genera la hoja de etiquetas imprimible de un bulto.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: QR del bulto │ código, lote, estilo, cantidad      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  GRILLA: 3 etiquetas por fila (QR + código + talla/color)   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
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

	"github.com/jhoicas/trazabilidad-api/internal/application/production"
	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
)

var _ production.LabelPDFGenerator = (*LabelGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// labelsPerRow etiquetas de pieza por fila; divide las 12 columnas de Maroto.
const labelsPerRow = 3

// LabelGenerator implementa production.LabelPDFGenerator usando Maroto v2.
type LabelGenerator struct{}

// NewLabelGenerator construye el generador.
func NewLabelGenerator() *LabelGenerator { return &LabelGenerator{} }

// GenerateBundleLabels genera el PDF y devuelve sus bytes.
func (g *LabelGenerator) GenerateBundleLabels(bundle *entity.Bundle, labels []entity.UnitLabel) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Etiquetas bulto "+bundle.Code, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(bundle, labels))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(gridRows(labels)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar etiquetas: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: QR del bulto (izq) y datos de producción (der).
func headerRow(bundle *entity.Bundle, labels []entity.UnitLabel) core.Row {
	var info entity.UnitLabel
	if len(labels) > 0 {
		info = labels[0]
	}
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(bundle.Code, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("BULTO "+bundle.Code, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2, Left: 3,
			}),
			text.New("Lote: "+nonEmpty(info.BatchNumber, "-"), props.Text{Size: 9, Top: 12, Left: 3}),
			text.New(nonEmpty(info.Buyer, "-")+" / "+nonEmpty(info.Season, "-")+" / "+nonEmpty(info.Style, "-"),
				props.Text{Size: 9, Top: 18, Left: 3, Color: colorGray}),
			text.New("Material: "+nonEmpty(info.Material, "-"), props.Text{Size: 9, Top: 24, Left: 3}),
			text.New(fmt.Sprintf("Cantidad: %d piezas", bundle.Quantity), props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 30, Left: 3,
			}),
		),
	)
}

// gridRows: una etiqueta por pieza; la última fila se completa con columnas vacías.
func gridRows(labels []entity.UnitLabel) []core.Row {
	rows := make([]core.Row, 0, len(labels)/labelsPerRow+1)
	for start := 0; start < len(labels); start += labelsPerRow {
		cols := make([]core.Col, 0, labelsPerRow)
		for i := start; i < start+labelsPerRow; i++ {
			if i >= len(labels) {
				cols = append(cols, col.New(12/labelsPerRow))
				continue
			}
			cols = append(cols, labelCol(labels[i]))
		}
		rows = append(rows, row.New(55).Add(cols...))
	}
	return rows
}

func labelCol(l entity.UnitLabel) core.Col {
	return col.New(12 / labelsPerRow).Add(
		code.NewQr(l.Code, props.Rect{Percent: 70, Center: false, Left: 8, Top: 2}),
		text.New(l.Code, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Center, Top: 40,
		}),
		text.New(nonEmpty(l.Size, "-")+" / "+nonEmpty(l.Color, "-"), props.Text{
			Size: 8, Align: align.Center, Top: 46, Color: colorGray,
		}),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
