package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"studiohub/internal/handlers"
	"studiohub/internal/logger"
	"studiohub/internal/middleware"
	"studiohub/internal/models"
	"studiohub/internal/roles"
	"studiohub/internal/services"
	"studiohub/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Client{},
		&models.Project{},
		&models.Task{},
		&models.Deliverable{},
		&models.Invoice{},
		&models.Payment{},
		&models.Expense{},
		&models.Budget{},
		&models.FinancialReport{},
		&models.Message{},
		&models.Notification{},
		&models.StoredFile{},
		&models.Backup{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
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

	// Handlers
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

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)
	protected.PUT("/profile/password", authHandler.ChangePassword)

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

	audit := protected.Group("/audit-logs")
	audit.Use(middleware.RequirePermission(roles.PermViewAuditLogs))
	audit.GET("", adminHandler.GetAuditLogs)

	clients := protected.Group("/clients")
	clients.Use(middleware.RequirePermission(roles.PermManageClients))
	clients.POST("", clientHandler.CreateClient)
	clients.GET("", clientHandler.GetClients)
	clients.GET("/:id", clientHandler.GetClient)
	clients.PUT("/:id", clientHandler.UpdateClient)
	clients.DELETE("/:id", clientHandler.DeleteClient)

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

	protected.GET("/tasks/mine", taskHandler.GetMyTasks)
	tasks := protected.Group("/tasks")
	tasks.Use(middleware.RequirePermission(roles.PermUpdateTasks))
	tasks.GET("/:id", taskHandler.GetTask)
	tasks.PUT("/:id", taskHandler.UpdateTask)
	tasks.DELETE("/:id", taskHandler.DeleteTask)

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

	messages := protected.Group("/messages")
	messages.POST("", messageHandler.SendMessage)
	messages.GET("/inbox", messageHandler.GetInbox)
	messages.GET("/sent", messageHandler.GetSent)
	messages.GET("/unread-count", messageHandler.GetUnreadCount)
	messages.GET("/project/:id", messageHandler.GetProjectThread)
	messages.GET("/:id", messageHandler.GetMessage)
	messages.PUT("/:id/read", messageHandler.MarkRead)
	messages.DELETE("/:id", messageHandler.DeleteMessage)

	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.GetNotifications)
	notifications.PUT("/read-all", notificationHandler.MarkAllRead)
	notifications.PUT("/:id/read", notificationHandler.MarkRead)
	notifications.DELETE("/:id", notificationHandler.DeleteNotification)

	files := protected.Group("/files")
	files.POST("", fileHandler.UploadFile)
	files.GET("", fileHandler.GetFiles)
	files.GET("/usage", fileHandler.GetStorageUsage)
	files.GET("/:id/download", fileHandler.DownloadFile)
	files.DELETE("/:id", fileHandler.DeleteFile)

	backups := protected.Group("/backups")
	backups.POST("", backupHandler.CreateBackup)
	backups.GET("", backupHandler.GetBackups)
	backups.DELETE("/:id", backupHandler.DeleteBackup)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new account and returns its ID. The first account
// in a fresh database is auto-approved as administrator; later ones start
// pending.
func (app *testApp) registerUser(t *testing.T, username, email, password string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"email":%q,"password":%q}`, username, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	user := parseJSON(t, rec)["user"].(map[string]interface{})
	return user["id"].(float64)
}

// loginUser logs in and returns the token.
func (app *testApp) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["token"].(string)
}

// bootstrapAdmin registers the first account, which is auto-approved as
// administrator, and returns its token.
func (app *testApp) bootstrapAdmin(t *testing.T) string {
	t.Helper()
	app.registerUser(t, "admin", "admin@studio.test", "password123")
	return app.loginUser(t, "admin@studio.test", "password123")
}

// approveUser approves a pending account through the admin API.
func (app *testApp) approveUser(t *testing.T, adminToken string, userID float64) {
	t.Helper()
	rec := app.request("PUT", fmt.Sprintf("/api/v1/admin/users/%.0f/approve", userID), "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve failed: %d %s", rec.Code, rec.Body.String())
	}
}

// createClient creates a client and returns its ID.
func (app *testApp) createClient(t *testing.T, token, name, email string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"email":%q}`, name, email)
	rec := app.request("POST", "/api/v1/clients", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create client failed: %d %s", rec.Code, rec.Body.String())
	}
	client := parseJSON(t, rec)["client"].(map[string]interface{})
	return client["id"].(float64)
}

// createProject creates a project and returns its ID.
func (app *testApp) createProject(t *testing.T, token, name string, clientID float64) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"client_id":%.0f}`, name, clientID)
	rec := app.request("POST", "/api/v1/projects", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project failed: %d %s", rec.Code, rec.Body.String())
	}
	project := parseJSON(t, rec)["project"].(map[string]interface{})
	return project["id"].(float64)
}
