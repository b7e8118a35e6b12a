package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/safespender/safespender-backend/internal/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handlers groups every HTTP handler the API serves
type Handlers struct {
	Auth         *AuthHandler
	Profile      *ProfileHandler
	Transaction  *TransactionHandler
	Expense      *ExpenseHandler
	SavingsGoal  *SavingsGoalHandler
	Salary       *SalaryHandler
	Summary      *SummaryHandler
	Calendar     *CalendarHandler
	Export       *ExportHandler
	WebSocket    *WebSocketHandler
	OpenAPI      *OpenAPIHandler
	ExportLimits *middleware.RateLimiter
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, h Handlers) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (protected)
	auth := api.Group("/auth")
	auth.Use(authMiddleware.Authenticate())
	auth.POST("/callback", h.Auth.Callback)
	auth.GET("/me", h.Auth.Me)
	auth.PUT("/me", h.Auth.UpdateName)
	auth.POST("/logout", h.Auth.Logout)

	// Financial profile routes (protected)
	profile := api.Group("/profile")
	profile.Use(authMiddleware.Authenticate())
	profile.GET("", h.Profile.GetProfile)
	profile.PUT("", h.Profile.UpdateProfile)
	profile.POST("/onboarding", h.Profile.CompleteOnboarding)
	profile.POST("/feature-tour", h.Profile.CompleteFeatureTour)

	// Transaction routes (protected)
	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate())
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.GET("/:id", h.Transaction.GetTransaction)
	transactions.PUT("/:id", h.Transaction.UpdateTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)

	// Recurring expense routes (protected)
	expenses := api.Group("/expenses")
	expenses.Use(authMiddleware.Authenticate())
	expenses.POST("", h.Expense.CreateExpense)
	expenses.GET("", h.Expense.GetExpenses)
	expenses.GET("/:id", h.Expense.GetExpense)
	expenses.PUT("/:id", h.Expense.UpdateExpense)
	expenses.DELETE("/:id", h.Expense.DeleteExpense)

	// Savings goal routes (protected)
	goals := api.Group("/savings-goals")
	goals.Use(authMiddleware.Authenticate())
	goals.POST("", h.SavingsGoal.CreateGoal)
	goals.GET("", h.SavingsGoal.GetGoals)
	goals.GET("/:id", h.SavingsGoal.GetGoal)
	goals.PUT("/:id", h.SavingsGoal.UpdateGoal)
	goals.DELETE("/:id", h.SavingsGoal.DeleteGoal)
	goals.POST("/:id/contribute", h.SavingsGoal.Contribute)
	goals.POST("/:id/withdraw", h.SavingsGoal.Withdraw)
	goals.PUT("/:id/icon", h.SavingsGoal.UploadIcon)
	goals.GET("/:id/icon", h.SavingsGoal.GetIconURL)

	// Salary schedule routes (protected)
	salary := api.Group("/salary-schedule")
	salary.Use(authMiddleware.Authenticate())
	salary.GET("", h.Salary.GetSchedule)
	salary.PUT("", h.Salary.SaveSchedule)
	salary.DELETE("", h.Salary.DeleteSchedule)

	// Projection routes (protected)
	api.GET("/summary", h.Summary.GetSummary, authMiddleware.Authenticate())

	calendar := api.Group("/calendar")
	calendar.Use(authMiddleware.Authenticate())
	calendar.GET("", h.Calendar.GetCalendar)
	calendar.GET("/:date", h.Calendar.GetDay)
	calendar.DELETE("/items/:id", h.Calendar.DeleteItem)

	exports := api.Group("/exports")
	exports.Use(authMiddleware.Authenticate())
	exports.POST("/calendar", h.Export.ExportCalendar, middleware.RateLimitMiddleware(h.ExportLimits))

	// Event feed authenticates through the token query parameter
	api.GET("/ws", h.WebSocket.HandleWS)

	// API documentation
	e.GET("/openapi.json", h.OpenAPI.ServeSpec)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
