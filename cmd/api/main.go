package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/trazabilidad-api/internal/application/production"
	"github.com/jhoicas/trazabilidad-api/internal/application/tracking"
	"github.com/jhoicas/trazabilidad-api/internal/domain/repository"
	"github.com/jhoicas/trazabilidad-api/internal/infrastructure/cache"
	"github.com/jhoicas/trazabilidad-api/internal/infrastructure/memory"
	"github.com/jhoicas/trazabilidad-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/trazabilidad-api/internal/infrastructure/pdf"
	"github.com/jhoicas/trazabilidad-api/internal/infrastructure/postgres"
	"github.com/jhoicas/trazabilidad-api/internal/infrastructure/qr"
	"github.com/jhoicas/trazabilidad-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/trazabilidad-api/internal/interfaces/http"
	"github.com/jhoicas/trazabilidad-api/pkg/config"
	"github.com/jhoicas/trazabilidad-api/pkg/logger"
)

// storeTx TxRunner que sirve a ingesta y a creación de bultos.
type storeTx interface {
	tracking.TxRunner
	production.TxRunner
}

// repos implementaciones elegidas según STORAGE_DRIVER.
type repos struct {
	tx        storeTx
	lines     repository.ProductionLineRepository
	scanners  repository.ScannerRepository
	bundles   repository.BundleRepository
	units     repository.UnitRepository
	events    repository.ScanEventRepository
	defects   repository.DefectRepository
	rework    repository.ReworkRepository
	refs      repository.ReferenceRepository
	targets   repository.TargetRepository
	closeFunc func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	r := openRepos(ctx, cfg, log)
	defer r.closeFunc()

	// Caché de escáneres: opcional, sin Redis se consulta directo al repositorio.
	rdb, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, caché de escáneres desactivada")
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}
	scanners := cache.NewScannerRepo(r.scanners, rdb, cfg.Redis.ScannerTTL, log)

	var imageStore tracking.ImageStore
	var mediaDir string
	switch cfg.Storage.ImageStore {
	case config.ImageStoreS3:
		s3Store, err := storage.NewS3Store(ctx, cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("almacén S3")
		}
		imageStore = s3Store
	default:
		local := storage.NewLocalStore(cfg.Storage.LocalDir, "/media")
		imageStore = local
		mediaDir = local.Dir()
	}

	m := metrics.New()
	registry := tracking.NewIdentityRegistry(r.bundles, r.units, qr.NewEncoder(cfg.QR.SizePx), imageStore, m, log)
	quality := tracking.NewQualityUseCase(r.rework)

	deps := httpRouter.RouterDeps{
		Ingest:    tracking.NewScanIngestUseCase(r.tx, scanners, registry, quality, m, log),
		Recon:     tracking.NewReconciliationUseCase(r.events, r.units, r.lines, r.refs),
		Quality:   quality,
		Units:     tracking.NewUnitQueryUseCase(r.units, r.events),
		Setup:     production.NewSetupUseCase(r.lines, scanners, r.defects),
		Reference: production.NewReferenceUseCase(r.refs, r.lines),
		Bundles:   production.NewBundleUseCase(r.tx, r.bundles, r.units, r.refs, registry, log),
		Labels:    production.NewLabelUseCase(r.bundles, r.units, infrapdf.NewLabelGenerator()),
		Targets:   production.NewTargetUseCase(r.targets, r.lines),
		Log:       log,
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(m.Middleware())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Trazabilidad API",
	}))

	if mediaDir != "" {
		app.Static("/media", mediaDir)
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openRepos abre PostgreSQL (con migraciones opcionales) o el almacenamiento en memoria.
func openRepos(ctx context.Context, cfg *config.Config, log *logger.Logger) repos {
	if cfg.App.StorageDriver == config.StorageDriverMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return repos{
			tx:        memory.NewTxRunner(s),
			lines:     memory.NewProductionLineRepo(s),
			scanners:  memory.NewScannerRepo(s),
			bundles:   memory.NewBundleRepo(s),
			units:     memory.NewUnitRepo(s),
			events:    memory.NewScanEventRepo(s),
			defects:   memory.NewDefectRepo(s),
			rework:    memory.NewReworkRepo(s),
			refs:      memory.NewReferenceRepo(s),
			targets:   memory.NewTargetRepo(s),
			closeFunc: func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.DB.Migrate {
		if err := postgres.NewMigrator(pool, log).Run(ctx); err != nil {
			pool.Close()
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	return repos{
		tx:        postgres.NewTxRunner(pool),
		lines:     postgres.NewProductionLineRepository(pool),
		scanners:  postgres.NewScannerRepository(pool),
		bundles:   postgres.NewBundleRepository(pool),
		units:     postgres.NewUnitRepository(pool),
		events:    postgres.NewScanEventRepository(pool),
		defects:   postgres.NewDefectRepository(pool),
		rework:    postgres.NewReworkRepository(pool),
		refs:      postgres.NewReferenceRepository(pool),
		targets:   postgres.NewTargetRepository(pool),
		closeFunc: pool.Close,
	}
}
