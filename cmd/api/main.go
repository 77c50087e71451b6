// @title                       Invoice Generator API
// @version                     1.0
// @description                 API de facturación: cuentas, onboarding, ciclo de vida de facturas, PDF y reportes.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
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
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	_ "github.com/jhoicas/invoicegen-api/docs"
	"github.com/jhoicas/invoicegen-api/internal/application/analytics"
	"github.com/jhoicas/invoicegen-api/internal/application/auth"
	"github.com/jhoicas/invoicegen-api/internal/application/billing"
	"github.com/jhoicas/invoicegen-api/internal/application/onboarding"
	"github.com/jhoicas/invoicegen-api/internal/infrastructure/mail"
	"github.com/jhoicas/invoicegen-api/internal/infrastructure/oauth"
	"github.com/jhoicas/invoicegen-api/internal/infrastructure/observability"
	infrapdf "github.com/jhoicas/invoicegen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/invoicegen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/invoicegen-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/invoicegen-api/internal/interfaces/http"
	"github.com/jhoicas/invoicegen-api/pkg/config"
	"github.com/jhoicas/invoicegen-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().Str("env", cfg.App.Env).Msg("iniciando aplicación")

	// Importes como números JSON, no como strings.
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.Migrate {
		if err := postgres.Migrate(pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	accountRepo := postgres.NewAccountRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	var mailer auth.Mailer = mail.NewLogMailer(log)
	if cfg.SMTP.User != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTP)
	} else {
		log.Warn().Msg("SMTP sin configurar: los enlaces de verificación solo se registran en el log")
	}

	// Login con Google solo si hay credenciales.
	var idp auth.IdentityProvider
	if cfg.Google.Enabled() {
		idp = oauth.NewGoogleProvider(cfg.Google)
	}

	authUC := auth.NewAuthUseCase(accountRepo, mailer, idp, auth.Config{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		SessionTTL: time.Duration(cfg.JWT.Expiration) * time.Minute,
		BaseURL:    cfg.App.BaseURL,
	})

	signatures, err := storage.NewDiskStore(cfg.Upload)
	if err != nil {
		log.Fatal().Err(err).Msg("directorio de firmas")
	}
	onboardingUC := onboarding.NewOnboardingUseCase(accountRepo, signatures)

	// PDF: motor con cupo y timeout por render
	metrics := observability.NewMetrics()
	engine := infrapdf.NewEngine(
		infrapdf.NewMarotoGenerator(cfg.Upload.Dir, cfg.Upload.PublicURL),
		cfg.Render.Concurrency, cfg.Render.Timeout, metrics,
	)
	invoiceUC := billing.NewInvoiceUseCase(invoiceRepo, txRunner)
	pdfUC := billing.NewPDFUseCase(invoiceRepo, txRunner, engine)
	reportUC := analytics.NewReportUseCase(reportRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Render.Timeout + 10*time.Second,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    storage.MaxSignatureBytes + 1<<20,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(httpRouter.RequestObserver(log, metrics))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))

	app.Static(cfg.Upload.PublicURL, cfg.Upload.Dir)

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Invoice Generator API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		OnboardingUC: onboardingUC,
		InvoiceUC:    invoiceUC,
		PDFUC:        pdfUC,
		ReportUC:     reportUC,
		FrontendURL:  cfg.App.FrontendURL,
		Logger:       log,
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
