package tracking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trazabilidad-api/internal/domain"
	"github.com/jhoicas/trazabilidad-api/internal/domain/tracking"
)

func TestIssueCode_IDCorto_RellenaConCeros(t *testing.T) {
	assert.Equal(t, "10000042", tracking.IssueCode(tracking.NamespaceUnit, 42))
	assert.Equal(t, "20000042", tracking.IssueCode(tracking.NamespaceBundle, 42))
	assert.Equal(t, "19999999", tracking.IssueCode(tracking.NamespaceUnit, 9_999_999))
}

// Identificadores de más de 7 dígitos: primeros 7 dígitos decimales del MD5 del id.
func TestIssueCode_IDLargo_UsaMD5(t *testing.T) {
	assert.Equal(t, "12788586", tracking.IssueCode(tracking.NamespaceUnit, 10_000_000))
	assert.Equal(t, "26924234", tracking.IssueCode(tracking.NamespaceBundle, 123456789012))
}

func TestIssueCode_Determinista(t *testing.T) {
	a := tracking.IssueCode(tracking.NamespaceUnit, 987654321)
	b := tracking.IssueCode(tracking.NamespaceUnit, 987654321)
	assert.Equal(t, a, b)
	assert.Len(t, a, tracking.CodeLength)
}

func TestParseCode_NamespacesDisjuntos(t *testing.T) {
	ns, err := tracking.ParseCode(tracking.IssueCode(tracking.NamespaceUnit, 7))
	require.NoError(t, err)
	assert.Equal(t, tracking.NamespaceUnit, ns)

	ns, err = tracking.ParseCode(tracking.IssueCode(tracking.NamespaceBundle, 7))
	require.NoError(t, err)
	assert.Equal(t, tracking.NamespaceBundle, ns)
}

func TestParseCode_Invalidos(t *testing.T) {
	for _, code := range []string{"", "1234567", "123456789", "30000001", "1000000a", " 1000001", "１0000001"} {
		_, err := tracking.ParseCode(code)
		assert.ErrorIs(t, err, domain.ErrInvalidCode, "código %q", code)
	}
}

func TestNamespace_String(t *testing.T) {
	assert.Equal(t, "unit", tracking.NamespaceUnit.String())
	assert.Equal(t, "bundle", tracking.NamespaceBundle.String())
	assert.Equal(t, "unknown", tracking.Namespace('9').String())
}
