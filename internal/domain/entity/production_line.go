package entity

import "time"

// OperationCategory categoría de operación de una línea o de un defecto.
type OperationCategory string

// Categorías de operación de planta.
const (
	OperationCutting     OperationCategory = "CUTTING"
	OperationSewing      OperationCategory = "SEWING"
	OperationFinishing   OperationCategory = "FINISHING"
	OperationPacking     OperationCategory = "PACKING"
	OperationQuilting    OperationCategory = "QUILTING"
	OperationDownfilling OperationCategory = "DOWNFILLING"
)

// Valid indica si la categoría es una de las conocidas.
func (c OperationCategory) Valid() bool {
	switch c {
	case OperationCutting, OperationSewing, OperationFinishing,
		OperationPacking, OperationQuilting, OperationDownfilling:
		return true
	}
	return false
}

// ProductionLine estación física o lógica de la planta. Dato de referencia.
type ProductionLine struct {
	ID            int64
	Name          string
	OperationType OperationCategory
	Location      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}
