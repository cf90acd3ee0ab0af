package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trazabilidad-api/internal/application/production"
	"github.com/jhoicas/trazabilidad-api/internal/application/tracking"
	"github.com/jhoicas/trazabilidad-api/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ingest    *tracking.ScanIngestUseCase
	Recon     *tracking.ReconciliationUseCase
	Quality   *tracking.QualityUseCase
	Units     *tracking.UnitQueryUseCase
	Setup     *production.SetupUseCase
	Reference *production.ReferenceUseCase
	Bundles   *production.BundleUseCase
	Labels    *production.LabelUseCase
	Targets   *production.TargetUseCase
	Log       *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log.Component("handlers")
	api := app.Group("/api")

	// Escaneo desde planta
	api.Post("/scan", NewScanHandler(deps.Ingest, log).Scan)

	// Líneas, escáneres y defectos
	setup := NewSetupHandler(deps.Setup, log)
	api.Get("/lines", setup.ListLines)
	api.Post("/lines", setup.CreateLine)
	api.Get("/scanners", setup.ListScanners)
	api.Post("/scanners", setup.CreateScanner)
	api.Get("/scanners/:id", setup.GetScanner)
	api.Get("/defects", setup.ListDefects)
	api.Post("/defects", setup.CreateDefect)

	// Catálogos de estilo
	refs := NewReferenceHandler(deps.Reference, log)
	for path, kind := range map[string]string{
		"/buyers":  entity.ReferenceBuyer,
		"/seasons": entity.ReferenceSeason,
		"/sizes":   entity.ReferenceSize,
		"/colors":  entity.ReferenceColor,
	} {
		api.Get(path, refs.ListNamed(kind))
		api.Post(path, refs.CreateNamed(kind))
	}
	api.Get("/styles", refs.ListStyles)
	api.Post("/styles", refs.CreateStyle)
	api.Get("/materials", refs.ListMaterials)
	api.Post("/materials", refs.CreateMaterial)

	// Lotes y conciliación
	batches := NewBatchHandler(deps.Reference, deps.Recon, log)
	api.Get("/batches", batches.List)
	api.Post("/batches", batches.Create)
	api.Get("/batches/:id/report", batches.Report)
	api.Get("/batches/:id/lines/:lineId/units", batches.LineUnits)

	// Bultos
	bundles := NewBundleHandler(deps.Bundles, deps.Labels, log)
	api.Post("/bundles", bundles.Create)
	api.Get("/bundles/:id", bundles.Get)
	api.Delete("/bundles/:id", bundles.Archive)
	api.Post("/bundles/:id/codes", bundles.ReissueCodes)
	api.Get("/bundles/:id/labels", bundles.Labels)

	// Piezas
	units := NewUnitHandler(deps.Units, log)
	api.Get("/units/by-code/:code", units.GetByCode)
	api.Get("/units/:id", units.Get)

	// Retrabajo
	rework := NewReworkHandler(deps.Quality, log)
	api.Get("/rework", rework.List)
	api.Patch("/rework/:id/complete", rework.Complete)

	// Metas
	targets := NewTargetHandler(deps.Targets, log)
	api.Get("/targets", targets.List)
	api.Put("/targets", targets.Upsert)
}
