package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/facturasv/dte-api/internal/application/auth"
	"github.com/facturasv/dte-api/internal/application/billing"
	"github.com/facturasv/dte-api/internal/infrastructure/credits"
	"github.com/facturasv/dte-api/internal/infrastructure/hacienda"
	infrapdf "github.com/facturasv/dte-api/internal/infrastructure/pdf"
	"github.com/facturasv/dte-api/internal/infrastructure/postgres"
	httpRouter "github.com/facturasv/dte-api/internal/interfaces/http"
	"github.com/facturasv/dte-api/pkg/config"
	"github.com/facturasv/dte-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("ambiente", cfg.Hacienda.Ambiente).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	contingencyRepo := postgres.NewContingencyRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	mhClient := hacienda.NewClient(cfg.Hacienda, log)
	firmador := hacienda.NewFirmador(cfg.Firmador)
	mhValidator := hacienda.NewValidator(mhClient, firmador)

	builder := billing.NewDocumentBuilder()
	allocator := billing.NewAllocator(invoiceRepo)

	invoiceUC := billing.NewInvoiceUseCase(invoiceRepo, customerRepo, txRunner, log)
	customerUC := billing.NewCustomerUseCase(customerRepo)
	companyUC := billing.NewCompanyUseCase(companyRepo)
	notesUC := billing.NewNotesUseCase(invoiceRepo, customerRepo, txRunner, log)

	syncDeps := billing.SyncDeps{
		InvoiceRepo:  invoiceRepo,
		CompanyRepo:  companyRepo,
		CustomerRepo: customerRepo,
		Builder:      builder,
		Allocator:    allocator,
		Validator:    mhValidator,
		Signer:       firmador,
		Transmitter:  mhClient,
		Voider:       notesUC,
		Log:          log,
		CredTTL:      cfg.Hacienda.CredentialCache,
	}
	// Los adaptadores opcionales solo se asignan si están configurados; un
	// puntero nil dentro de la interfaz pasaría el chequeo != nil del caso de uso.
	if archiver := hacienda.NewArchiver(cfg.Archive); archiver != nil {
		syncDeps.Archiver = archiver
		syncDeps.Renderer = infrapdf.NewMarotoRenderer()
	}
	if gate := credits.NewGate(cfg.Credits); gate != nil {
		syncDeps.Gate = gate
	}
	syncUC := billing.NewSyncUseCase(syncDeps)

	contingencyUC := billing.NewContingencyUseCase(
		invoiceRepo, companyRepo, contingencyRepo,
		allocator, mhClient, syncUC,
		log, cfg.Hacienda.ReplayDelay,
	)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		// El reenvío de contingencia es secuencial y puede tardar varios
		// minutos con lotes grandes.
		WriteTimeout: time.Minute * 5,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "DTE API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		CompanyUC:     companyUC,
		CustomerUC:    customerUC,
		InvoiceUC:     invoiceUC,
		NotesUC:       notesUC,
		SyncUC:        syncUC,
		ContingencyUC: contingencyUC,
		JWTSecret:     cfg.JWT.Secret,
	})

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
