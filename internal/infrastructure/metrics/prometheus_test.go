package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Escaneos(t *testing.T) {
	m := New()
	m.ScanRecorded("IN", "processed")
	m.ScanRecorded("IN", "processed")
	m.ScanRecorded("QC", "duplicate")
	m.CodeIssued("unit")
	m.ObserveIngest(20 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.scans.WithLabelValues("IN", "processed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scans.WithLabelValues("QC", "duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.codes.WithLabelValues("unit")))
}

func TestMetrics_MiddlewareUsaRuta(t *testing.T) {
	m := New()
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/units/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("GET", "/units/42", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "/units/:id", "200")))
}
