// Package qr renderiza códigos QR en PNG.
package qr

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"

	"github.com/jhoicas/trazabilidad-api/internal/application/tracking"
)

var _ tracking.ImageEncoder = (*Encoder)(nil)

// Encoder genera imágenes cuadradas de sizePx lado con corrección de errores media.
type Encoder struct {
	sizePx int
}

// NewEncoder construye el encoder.
func NewEncoder(sizePx int) *Encoder {
	return &Encoder{sizePx: sizePx}
}

func (e *Encoder) Encode(text string) ([]byte, error) {
	code, err := qr.Encode(text, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("qr: codificar %q: %w", text, err)
	}
	code, err = barcode.Scale(code, e.sizePx, e.sizePx)
	if err != nil {
		return nil, fmt.Errorf("qr: escalar: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, fmt.Errorf("qr: png: %w", err)
	}
	return buf.Bytes(), nil
}
