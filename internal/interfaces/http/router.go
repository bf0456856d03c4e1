package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facturasv/dte-api/internal/application/auth"
	"github.com/facturasv/dte-api/internal/application/billing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	CompanyUC     *billing.CompanyUseCase
	CustomerUC    *billing.CustomerUseCase
	InvoiceUC     *billing.InvoiceUseCase
	NotesUC       *billing.NotesUseCase
	SyncUC        *billing.SyncUseCase
	ContingencyUC *billing.ContingencyUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Alta de empresa (público: el primer usuario se registra contra ella)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	api.Post("/companies", companyHandler.Create)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Empresa del token (protegido; credenciales solo para admin)
	protected.Get("/company", companyHandler.Get)
	protected.Put("/company/credentials", RequireRole("admin"), companyHandler.SetCredentials)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)

	// Invoices (protegido)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.SyncUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Post("/:id/sync", invoiceHandler.Sync)

	// Notas de crédito/débito (protegido)
	noteHandler := NewNoteHandler(deps.NotesUC)
	protected.Post("/notes", noteHandler.Create)

	// Contingencia (protegido)
	contingency := protected.Group("/contingency")
	contingencyHandler := NewContingencyHandler(deps.ContingencyUC)
	contingency.Post("/", contingencyHandler.Submit)
	contingency.Get("/", contingencyHandler.List)
	contingency.Get("/:id", contingencyHandler.GetByID)
}
