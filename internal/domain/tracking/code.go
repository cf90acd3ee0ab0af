// Package tracking contiene la lógica pura de trazabilidad: espacio de códigos QR,
// transiciones de ubicación por rol de escáner y la conciliación por línea.
// No depende de persistencia ni de transporte.
package tracking

import (
	"crypto/md5"
	"fmt"
	"math/big"
	"strconv"

	"github.com/jhoicas/trazabilidad-api/internal/domain"
)

// Namespace prefijo de un dígito que separa códigos de piezas y de bultos.
type Namespace byte

// Namespaces de código.
const (
	NamespaceUnit   Namespace = '1'
	NamespaceBundle Namespace = '2'
)

const (
	// CodeLength longitud exacta del payload escaneado: prefijo + 7 dígitos.
	CodeLength   = 8
	payloadWidth = 7
	maxDirectID  = 9_999_999
)

// String devuelve un nombre legible del namespace (etiquetas de métricas y logs).
func (n Namespace) String() string {
	switch n {
	case NamespaceUnit:
		return "unit"
	case NamespaceBundle:
		return "bundle"
	}
	return "unknown"
}

// IssueCode calcula el código de 8 dígitos para un identificador numérico.
// Si el id cabe en 7 dígitos se usa con ceros a la izquierda; si no, se toman los primeros
// 7 dígitos de la expansión decimal del MD5 de su representación decimal.
func IssueCode(ns Namespace, id int64) string {
	return string(ns) + payload(id)
}

func payload(id int64) string {
	if id >= 0 && id <= maxDirectID {
		return fmt.Sprintf("%07d", id)
	}
	sum := md5.Sum([]byte(strconv.FormatInt(id, 10)))
	digits := new(big.Int).SetBytes(sum[:]).String()
	for len(digits) < payloadWidth {
		digits = "0" + digits
	}
	return digits[:payloadWidth]
}

// ParseCode valida el formato y devuelve el namespace del código.
func ParseCode(code string) (Namespace, error) {
	if len(code) != CodeLength {
		return 0, domain.ErrInvalidCode
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return 0, domain.ErrInvalidCode
		}
	}
	switch ns := Namespace(code[0]); ns {
	case NamespaceUnit, NamespaceBundle:
		return ns, nil
	}
	return 0, domain.ErrInvalidCode
}
