package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"studiohub/internal/config"
	"studiohub/internal/database"
	"studiohub/internal/handlers"
	"studiohub/internal/logger"
	"studiohub/internal/middleware"
	"studiohub/internal/roles"
	"studiohub/internal/services"
	"studiohub/internal/validator"
)

// @title           StudioHub API
// @version         1.0
// @description     StudioHub is a studio management backend covering clients, projects, tasks, deliverables, invoicing, financial reporting, messaging, and file storage.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("APP_ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	validator.Register()

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	adminService := services.NewAdminService(db)
	clientService := services.NewClientService(db)
	projectService := services.NewProjectService(db)
	taskService := services.NewTaskService(db)
	deliverableService := services.NewDeliverableService(db)
	invoiceService := services.NewInvoiceService(db)
	expenseService := services.NewExpenseService(db)
	budgetService := services.NewBudgetService(db)
	reportService := services.NewReportService(db)
	messageService := services.NewMessageService(db)
	notificationService := services.NewNotificationService(db)
	fileService := services.NewFileService(db)
	backupService := services.NewBackupService(db)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	adminHandler := handlers.NewAdminHandler(adminService, notificationService, auditService)
	clientHandler := handlers.NewClientHandler(clientService, auditService)
	projectHandler := handlers.NewProjectHandler(projectService, auditService)
	taskHandler := handlers.NewTaskHandler(taskService, auditService)
	deliverableHandler := handlers.NewDeliverableHandler(deliverableService, auditService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	reportHandler := handlers.NewReportHandler(reportService, auditService)
	messageHandler := handlers.NewMessageHandler(messageService, notificationService, auditService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	fileHandler := handlers.NewFileHandler(fileService, auditService)
	backupHandler := handlers.NewBackupHandler(backupService, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)
	protected.PUT("/profile/password", authHandler.ChangePassword)

	// Admin routes
	admin := protected.Group("/admin")
	admin.Use(middleware.RequirePermission(roles.PermManageUsers))
	admin.GET("/users", adminHandler.GetUsers)
	admin.GET("/users/pending", adminHandler.GetPendingUsers)
	admin.PUT("/users/:id/approve", adminHandler.ApproveUser)
	admin.DELETE("/users/:id/reject", adminHandler.RejectUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.PUT("/users/:id/role", adminHandler.AssignRole)
	admin.GET("/roles", adminHandler.GetRoles)
	admin.GET("/roles/:role/permissions", adminHandler.GetRolePermissions)
	admin.GET("/storage-stats", adminHandler.GetStorageStats)
	admin.GET("/backups", backupHandler.GetAllBackups)

	// Audit log routes
	audit := protected.Group("/audit-logs")
	audit.Use(middleware.RequirePermission(roles.PermViewAuditLogs))
	audit.GET("", adminHandler.GetAuditLogs)

	// Client routes
	clients := protected.Group("/clients")
	clients.Use(middleware.RequirePermission(roles.PermManageClients))
	clients.POST("", clientHandler.CreateClient)
	clients.GET("", clientHandler.GetClients)
	clients.GET("/:id", clientHandler.GetClient)
	clients.PUT("/:id", clientHandler.UpdateClient)
	clients.DELETE("/:id", clientHandler.DeleteClient)

	// Project routes; reads and writes carry different permissions
	projectReads := protected.Group("/projects")
	projectReads.Use(middleware.RequirePermission(roles.PermViewProjects))
	projectReads.GET("", projectHandler.GetProjects)
	projectReads.GET("/:id", projectHandler.GetProject)
	projectReads.GET("/:id/tasks", taskHandler.GetProjectTasks)
	projectReads.GET("/:id/deliverables", deliverableHandler.GetProjectDeliverables)
	projectReads.GET("/:id/budgets", budgetHandler.GetProjectBudgets)
	projectReads.GET("/:id/kanban", taskHandler.GetKanbanBoard)

	projectWrites := protected.Group("/projects")
	projectWrites.Use(middleware.RequirePermission(roles.PermManageProjects))
	projectWrites.POST("", projectHandler.CreateProject)
	projectWrites.PUT("/:id", projectHandler.UpdateProject)
	projectWrites.DELETE("/:id", projectHandler.DeleteProject)
	projectWrites.POST("/:id/tasks", taskHandler.CreateTask)
	projectWrites.POST("/:id/deliverables", deliverableHandler.CreateDeliverable)
	projectWrites.POST("/:id/budgets", budgetHandler.CreateBudget)

	// Task routes
	protected.GET("/tasks/mine", taskHandler.GetMyTasks)
	tasks := protected.Group("/tasks")
	tasks.Use(middleware.RequirePermission(roles.PermUpdateTasks))
	tasks.GET("/:id", taskHandler.GetTask)
	tasks.PUT("/:id", taskHandler.UpdateTask)
	tasks.DELETE("/:id", taskHandler.DeleteTask)

	// Deliverable routes
	deliverables := protected.Group("/deliverables")
	deliverables.GET("/:id", deliverableHandler.GetDeliverable)

	deliverableWrites := protected.Group("/deliverables")
	deliverableWrites.Use(middleware.RequirePermission(roles.PermManageProjects))
	deliverableWrites.PUT("/:id/submit", deliverableHandler.SubmitDeliverable)
	deliverableWrites.DELETE("/:id", deliverableHandler.DeleteDeliverable)

	deliverableReviews := protected.Group("/deliverables")
	deliverableReviews.Use(middleware.RequirePermission(roles.PermApproveDelivery))
	deliverableReviews.PUT("/:id/approve", deliverableHandler.ApproveDeliverable)
	deliverableReviews.PUT("/:id/reject", deliverableHandler.RejectDeliverable)

	// Invoice and payment routes
	invoiceReads := protected.Group("")
	invoiceReads.Use(middleware.RequirePermission(roles.PermViewInvoices))
	invoiceReads.GET("/invoices", invoiceHandler.GetInvoices)
	invoiceReads.GET("/invoices/:id", invoiceHandler.GetInvoice)
	invoiceReads.GET("/invoices/:id/payments", invoiceHandler.GetInvoicePayments)
	invoiceReads.GET("/payments", invoiceHandler.GetPayments)
	invoiceReads.GET("/payments/summary", invoiceHandler.GetPaymentSummary)

	invoiceWrites := protected.Group("")
	invoiceWrites.Use(middleware.RequirePermission(roles.PermManageInvoices))
	invoiceWrites.POST("/invoices", invoiceHandler.CreateInvoice)
	invoiceWrites.PUT("/invoices/:id", invoiceHandler.UpdateInvoice)
	invoiceWrites.PUT("/invoices/:id/send", invoiceHandler.SendInvoice)
	invoiceWrites.DELETE("/invoices/:id", invoiceHandler.DeleteInvoice)
	invoiceWrites.POST("/invoices/:id/payments", invoiceHandler.RecordPayment)
	invoiceWrites.PUT("/payments/:id", invoiceHandler.UpdatePayment)
	invoiceWrites.DELETE("/payments/:id", invoiceHandler.DeletePayment)

	// Expense and budget routes
	finance := protected.Group("")
	finance.Use(middleware.RequirePermission(roles.PermManageInvoices))
	finance.POST("/expenses", expenseHandler.CreateExpense)
	finance.GET("/expenses", expenseHandler.GetExpenses)
	finance.GET("/expenses/:id", expenseHandler.GetExpense)
	finance.PUT("/expenses/:id", expenseHandler.UpdateExpense)
	finance.DELETE("/expenses/:id", expenseHandler.DeleteExpense)
	finance.GET("/budgets", budgetHandler.GetActiveBudgets)
	finance.GET("/budgets/:id", budgetHandler.GetBudget)
	finance.GET("/budgets/:id/status", budgetHandler.GetBudgetStatus)
	finance.PUT("/budgets/:id", budgetHandler.UpdateBudget)
	finance.DELETE("/budgets/:id", budgetHandler.DeleteBudget)

	// Reporting routes
	reports := protected.Group("/reports")
	reports.Use(middleware.RequirePermission(roles.PermViewReports))
	reports.GET("/dashboard", reportHandler.GetDashboard)
	reports.GET("/revenue", reportHandler.GetRevenue)
	reports.GET("/expenses", reportHandler.GetExpenseBreakdown)
	reports.GET("/profitability", reportHandler.GetProjectProfitability)
	reports.GET("/invoice-status", reportHandler.GetInvoiceStatusBreakdown)
	reports.GET("/cashflow", reportHandler.GetCashflow)
	reports.GET("/clients/:id", reportHandler.GetClientHistory)
	reports.GET("/budgets", reportHandler.GetBudgetComparison)
	reports.POST("", reportHandler.GenerateReport)
	reports.GET("", reportHandler.GetReports)
	reports.GET("/:id", reportHandler.GetReport)

	// Messaging routes
	messages := protected.Group("/messages")
	messages.POST("", messageHandler.SendMessage)
	messages.GET("/inbox", messageHandler.GetInbox)
	messages.GET("/sent", messageHandler.GetSent)
	messages.GET("/unread-count", messageHandler.GetUnreadCount)
	messages.GET("/project/:id", messageHandler.GetProjectThread)
	messages.GET("/:id", messageHandler.GetMessage)
	messages.PUT("/:id/read", messageHandler.MarkRead)
	messages.DELETE("/:id", messageHandler.DeleteMessage)

	// Notification routes
	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.GetNotifications)
	notifications.PUT("/read-all", notificationHandler.MarkAllRead)
	notifications.PUT("/:id/read", notificationHandler.MarkRead)
	notifications.DELETE("/:id", notificationHandler.DeleteNotification)

	// File storage routes
	files := protected.Group("/files")
	files.POST("", fileHandler.UploadFile)
	files.GET("", fileHandler.GetFiles)
	files.GET("/usage", fileHandler.GetStorageUsage)
	files.GET("/:id/download", fileHandler.DownloadFile)
	files.DELETE("/:id", fileHandler.DeleteFile)

	// Backup routes
	backups := protected.Group("/backups")
	backups.POST("", backupHandler.CreateBackup)
	backups.GET("", backupHandler.GetBackups)
	backups.DELETE("/:id", backupHandler.DeleteBackup)

	log.Infof("Starting StudioHub backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
