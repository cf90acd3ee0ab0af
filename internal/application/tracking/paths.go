package tracking

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
)

// slug normaliza un segmento de ruta: sin tildes, espacios como "_" y sin separadores.
func slug(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = s
	}
	out = strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r == '/' || r == '\\' || r == '.':
			return '-'
		case r > unicode.MaxASCII || !unicode.IsPrint(r):
			return -1
		}
		return r
	}, out)
	if out == "" {
		return "sin_dato"
	}
	return out
}

// UnitImageKey ruta de la imagen QR de una pieza: qr_codes/<comprador>/<temporada>/<estilo>/<código>.png
func UnitImageKey(label *entity.UnitLabel, code string) string {
	if label == nil {
		return path.Join("qr_codes", "units", code+".png")
	}
	return path.Join("qr_codes", slug(label.Buyer), slug(label.Season), slug(label.Style), code+".png")
}

// BundleImageKey ruta de la imagen QR de un bulto.
func BundleImageKey(code string) string {
	return path.Join("qr_codes", "bundles", code+".png")
}
