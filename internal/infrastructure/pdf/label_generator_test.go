package pdf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
)

func TestGenerateBundleLabels(t *testing.T) {
	b := &entity.Bundle{ID: 1, Code: "20000001", Quantity: 4}
	labels := make([]entity.UnitLabel, 0, 4)
	for i, c := range []string{"10000001", "10000002", "10000003", "10000004"} {
		labels = append(labels, entity.UnitLabel{
			UnitID: int64(i + 1), BundleID: 1, Code: c,
			Style: "Parka", Size: "M", Color: "Negro", BatchNumber: "L-001",
		})
	}

	doc, err := NewLabelGenerator().GenerateBundleLabels(b, labels)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestGridRows_CompletaUltimaFila(t *testing.T) {
	labels := []entity.UnitLabel{{Code: "a"}, {Code: "b"}, {Code: "c"}, {Code: "d"}}
	assert.Len(t, gridRows(labels), 2)
	assert.Empty(t, gridRows(nil))
}
