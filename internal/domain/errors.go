package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Errores del flujo de escaneo. Todos se detectan antes de escribir eventos.
	ErrScannerNotFound      = errors.New("escáner no encontrado")
	ErrScannerUnassigned    = errors.New("el escáner no está asignado a una línea de producción")
	ErrInvalidCode          = errors.New("código QR inválido")
	ErrEmptyBundle          = errors.New("el bulto no tiene piezas")
	ErrMissingQualityStatus = errors.New("estado de calidad requerido")

	// ErrDuplicateScan no es un fallo: indica que el par (escáner, pieza) ya fue procesado.
	ErrDuplicateScan = errors.New("escaneo ya registrado")

	// ErrDataInconsistency se reporta (no se corrige) cuando el log de escaneos es incoherente.
	ErrDataInconsistency = errors.New("inconsistencia en los datos de producción")
)
