package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoicegen-api/internal/application/analytics"
	"github.com/jhoicas/invoicegen-api/internal/application/auth"
	"github.com/jhoicas/invoicegen-api/internal/application/billing"
	"github.com/jhoicas/invoicegen-api/internal/application/onboarding"
	"github.com/jhoicas/invoicegen-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	OnboardingUC *onboarding.OnboardingUseCase
	InvoiceUC    *billing.InvoiceUseCase
	PDFUC        *billing.PDFUseCase
	ReportUC     *analytics.ReportUseCase
	FrontendURL  string
	Logger       *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	protect := AuthMiddleware(deps.AuthUC)

	authHandler := NewAuthHandler(deps.AuthUC, deps.FrontendURL, deps.Logger)
	onboardingHandler := NewOnboardingHandler(deps.OnboardingUC)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC)
	reportHandler := NewReportHandler(deps.ReportUC)

	app.Get("/", protect, func(c *fiber.Ctx) error {
		return c.SendString("Invoice Generator API is running")
	})

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Get("/verify-email/:token", authHandler.VerifyEmail)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/google/callback", authHandler.GoogleCallback)
	api.Get("/google", authHandler.GoogleLogin)

	// Onboarding (protegido)
	app.Post("/onboard", protect, onboardingHandler.Onboard)
	api.Get("/review", protect, onboardingHandler.Review)

	// Invoices (protegido). Las rutas fijas van antes de /:invoiceNumber.
	api.Post("/generate-pdf", protect, invoiceHandler.GeneratePDF)
	invoices := api.Group("/invoices", protect)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/recent", invoiceHandler.Recent)
	invoices.Get("/stats", reportHandler.Stats)
	invoices.Get("/daily-revenue", reportHandler.DailyRevenue)
	invoices.Get("/activity", reportHandler.Activity)
	invoices.Get("/dashboard", reportHandler.Dashboard)
	invoices.Get("/:id/download", invoiceHandler.Download)
	invoices.Patch("/:id/pay", invoiceHandler.MarkPaid)
	invoices.Get("/:invoiceNumber", invoiceHandler.GetByNumber)
	invoices.Delete("/:id", invoiceHandler.Delete)

	// Alias en la raíz con las rutas cortas de reportes y acciones.
	app.Get("/stats", protect, reportHandler.Stats)
	app.Get("/daily-revenue", protect, reportHandler.DailyRevenue)
	app.Get("/activity", protect, reportHandler.Activity)
	app.Patch("/:id/pay", protect, invoiceHandler.MarkPaid)
	app.Delete("/:id", protect, invoiceHandler.Delete)
}
