package http

import (
	"crediya/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Health    *Handler
	Auth      *AuthHandler
	Loans     *LoanHandler
	Approvals *ApprovalHandler
	Payments  *PaymentHandler
	Customers *CustomerHandler
	Inventory *InventoryHandler
	Admin     *AdminHandler
	Dashboard *DashboardHandler
}

// Register mounts every route. authn guards everything except /health,
// /login and /register; idem guards the mutating routes. Tokens of disabled
// users stop working on the next request.
func Register(e *echo.Echo, h Handlers, tokens middleware.TokenParser, users middleware.UserLookup, idem echo.MiddlewareFunc) {
	active := middleware.RequireActive(users)

	e.GET("/health", h.Health.Health)
	e.POST("/login", h.Auth.Login)
	e.POST("/register", h.Auth.Register, middleware.OptionalAuth(tokens), active)

	api := e.Group("", middleware.RequireAuth(tokens), active)

	api.GET("/loans", h.Loans.ListLoans)
	api.POST("/loans", h.Loans.CreateLoan, idem)
	api.POST("/loans/preview", h.Loans.Preview)
	api.GET("/loans/:loan_id", h.Loans.GetLoan)
	api.GET("/loans/:loan_id/details", h.Loans.Details)
	api.POST("/loans/:loan_id/approve", h.Approvals.ApproveLoan, idem)
	api.POST("/loans/:loan_id/generate-contract", h.Loans.GenerateContract, idem)
	api.POST("/loans/:loan_id/deliver", h.Loans.Deliver, idem)
	api.POST("/loans/:loan_id/activate", h.Loans.Activate, idem)
	api.GET("/loans/:loan_id/statement", h.Payments.Statement)
	api.POST("/make-payment", h.Payments.MakePayment, idem)

	api.GET("/customers", h.Customers.List)
	api.POST("/customers", h.Customers.Create, idem)
	api.GET("/customers/:customer_id", h.Customers.Get)
	api.PUT("/customers/:customer_id", h.Customers.Update, idem)
	api.DELETE("/customers/:customer_id", h.Customers.Delete, idem)

	api.GET("/inventory-items", h.Inventory.List)
	api.POST("/inventory-items", h.Inventory.Create, idem)
	api.GET("/inventory-items/:item_id", h.Inventory.Get)
	api.PUT("/inventory-items/:item_id", h.Inventory.Update, idem)
	api.DELETE("/inventory-items/:item_id", h.Inventory.Delete, idem)

	api.GET("/dashboard-metrics", h.Dashboard.Metrics)

	adm := api.Group("/admin", middleware.RequireRole("admin"))
	adm.GET("/users", h.Admin.ListUsers)
	adm.POST("/users", h.Admin.CreateUser, idem)
	adm.PATCH("/users/:user_id", h.Admin.SetUserActive, idem)
	adm.GET("/stores", h.Admin.ListStores)
	adm.POST("/stores", h.Admin.CreateStore, idem)
	adm.PATCH("/stores/:store_id", h.Admin.UpdateStore, idem)
	adm.POST("/sweep", h.Admin.SweepOverdue)
}
