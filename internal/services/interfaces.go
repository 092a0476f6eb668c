package services

import (
	"io"
	"time"

	"studiohub/internal/models"
	"studiohub/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(username, email, password string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	UpdateProfile(userID uint, updates ProfileUpdate) (*models.User, error)
	ChangePassword(userID uint, currentPassword, newPassword string) error
}

// ProfileUpdate holds optional profile fields for a sparse update.
type ProfileUpdate struct {
	Username   string
	ProfilePic string
	Phone      string
	Address    string
	City       string
	Country    string
	Bio        string
}

// UserStorageStat reports one user's storage consumption against the quota.
type UserStorageStat struct {
	UserID     uint   `json:"user_id"`
	Username   string `json:"username"`
	FileCount  int64  `json:"file_count"`
	BytesUsed  int64  `json:"bytes_used"`
	QuotaBytes int64  `json:"quota_bytes"`
}

// AdminServicer defines the contract for user administration.
type AdminServicer interface {
	ListUsers(page pagination.PageRequest, status *models.UserStatus) (*pagination.PageResponse[models.User], error)
	ListPendingUsers() ([]models.User, error)
	ApproveUser(userID uint) (*models.User, error)
	RejectUser(userID uint) error
	DeleteUser(userID uint) error
	AssignRole(userID uint, role models.Role) (*models.User, error)
	GetStorageStats() ([]UserStorageStat, error)
}

// ClientServicer defines the contract for client-related business logic.
type ClientServicer interface {
	CreateClient(name, email, phone, company, address string) (*models.Client, error)
	GetClients(page pagination.PageRequest, status string) (*pagination.PageResponse[models.Client], error)
	GetClientByID(clientID uint) (*models.Client, error)
	UpdateClient(clientID uint, name, email, phone, company, address, status string) (*models.Client, error)
	DeleteClient(clientID uint) error
}

// ProjectInput holds the fields accepted when creating a project.
type ProjectInput struct {
	Name        string
	Description string
	ClientID    *uint
	Status      models.ProjectStatus
	Priority    models.Priority
	StartDate   *time.Time
	Deadline    *time.Time
	Budget      float64
	AssignedTo  *uint
}

// ProjectUpdate holds optional fields for a sparse project update.
type ProjectUpdate struct {
	Name        string
	Description *string
	ClientID    *uint
	Status      *models.ProjectStatus
	Priority    *models.Priority
	StartDate   *time.Time
	Deadline    *time.Time
	Budget      *float64
	AssignedTo  *uint
	Progress    *int
}

// Viewer identifies the caller for reads and writes whose visibility
// depends on who is asking.
type Viewer struct {
	UserID uint
	Role   models.Role
}

// ProjectServicer defines the contract for project-related business logic.
type ProjectServicer interface {
	CreateProject(createdBy uint, input ProjectInput) (*models.Project, error)
	GetProjects(viewer Viewer, page pagination.PageRequest, status *models.ProjectStatus, clientID *uint) (*pagination.PageResponse[models.Project], error)
	GetProjectByID(viewer Viewer, projectID uint) (*models.Project, error)
	UpdateProject(viewer Viewer, projectID uint, update ProjectUpdate) (*models.Project, error)
	DeleteProject(viewer Viewer, projectID uint) error
}

// TaskUpdate holds optional fields for a sparse task update.
type TaskUpdate struct {
	Title          string
	Description    *string
	Status         *models.TaskStatus
	Priority       *models.Priority
	AssignedTo     *uint
	DueDate        *time.Time
	EstimatedHours *float64
}

// TaskServicer defines the contract for task-related business logic.
type TaskServicer interface {
	CreateTask(projectID uint, title, description string, priority models.Priority, assignedTo *uint, dueDate *time.Time, estimatedHours float64) (*models.Task, error)
	GetProjectTasks(projectID uint, page pagination.PageRequest, status *models.TaskStatus) (*pagination.PageResponse[models.Task], error)
	GetUserTasks(userID uint, page pagination.PageRequest, status *models.TaskStatus) (*pagination.PageResponse[models.Task], error)
	GetTaskByID(taskID uint) (*models.Task, error)
	UpdateTask(taskID uint, update TaskUpdate) (*models.Task, error)
	DeleteTask(taskID uint) error
	GetKanbanBoard(projectID uint) (map[models.TaskStatus][]models.Task, error)
}

// DeliverableServicer defines the contract for deliverable-related business logic.
type DeliverableServicer interface {
	CreateDeliverable(projectID uint, title, description string, dueDate, expectedDeliveryDate *time.Time) (*models.Deliverable, error)
	GetProjectDeliverables(projectID uint, page pagination.PageRequest, status *models.DeliverableStatus) (*pagination.PageResponse[models.Deliverable], error)
	GetDeliverableByID(deliverableID uint) (*models.Deliverable, error)
	SubmitDeliverable(deliverableID uint, notes string) (*models.Deliverable, error)
	ApproveDeliverable(deliverableID uint, notes string) (*models.Deliverable, error)
	RejectDeliverable(deliverableID uint, reason string) (*models.Deliverable, error)
	DeleteDeliverable(deliverableID uint) error
}

// InvoiceInput holds the fields accepted when creating an invoice.
type InvoiceInput struct {
	ClientID    uint
	ProjectID   *uint
	Amount      float64
	IssueDate   *time.Time
	DueDate     *time.Time
	Description string
	Notes       string
}

// InvoiceUpdate holds optional fields for a sparse invoice update.
type InvoiceUpdate struct {
	Amount      *float64
	Status      *models.InvoiceStatus
	IssueDate   *time.Time
	DueDate     *time.Time
	Description *string
	Notes       *string
}

// PaymentUpdate holds optional fields for a sparse payment update.
type PaymentUpdate struct {
	Amount             *float64
	Method             *string
	PaymentDate        *time.Time
	ConfirmationNumber *string
	Notes              *string
}

// PaymentSummary is an aggregate of payments received within one period.
type PaymentSummary struct {
	Period string  `json:"period"`
	Count  int64   `json:"count"`
	Total  float64 `json:"total"`
}

// InvoiceServicer defines the contract for invoice and payment business logic.
type InvoiceServicer interface {
	CreateInvoice(input InvoiceInput) (*models.Invoice, error)
	GetInvoices(viewer Viewer, page pagination.PageRequest, status *models.InvoiceStatus, clientID *uint) (*pagination.PageResponse[models.Invoice], error)
	GetInvoiceByID(invoiceID uint) (*models.Invoice, error)
	UpdateInvoice(invoiceID uint, update InvoiceUpdate) (*models.Invoice, error)
	SendInvoice(invoiceID uint) (*models.Invoice, error)
	DeleteInvoice(invoiceID uint) error
	RecordPayment(invoiceID uint, amount float64, method string, paymentDate *time.Time, confirmationNumber, notes string) (*models.Payment, error)
	GetPayments(page pagination.PageRequest, clientID *uint) (*pagination.PageResponse[models.Payment], error)
	GetInvoicePayments(invoiceID uint) ([]models.Payment, error)
	UpdatePayment(paymentID uint, update PaymentUpdate) (*models.Payment, error)
	GetPaymentSummary(period string) (*PaymentSummary, error)
	DeletePayment(paymentID uint) error
}

// ExpenseUpdate describes a sparse update to an expense. Nil fields are
// left unchanged.
type ExpenseUpdate struct {
	Amount      *float64
	Category    *string
	Description *string
	ExpenseDate *time.Time
	Vendor      *string
	Notes       *string
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(createdBy, projectID uint, category, description string, amount float64, expenseDate *time.Time, vendor, notes string) (*models.Expense, error)
	GetExpenses(page pagination.PageRequest, projectID *uint, category string) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(expenseID uint) (*models.Expense, error)
	UpdateExpense(expenseID uint, update ExpenseUpdate) (*models.Expense, error)
	DeleteExpense(expenseID uint) error
}

// BudgetStatus contains spending vs budget data for a project budget.
type BudgetStatus struct {
	BudgetID     uint    `json:"budget_id"`
	ProjectID    uint    `json:"project_id"`
	Category     string  `json:"category"`
	Status       string  `json:"status"`
	BudgetAmount float64 `json:"budget_amount"`
	Spent        float64 `json:"spent"`
	Remaining    float64 `json:"remaining"`
	PercentUsed  float64 `json:"percent_used"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(projectID uint, budgetAmount float64, category string) (*models.Budget, error)
	GetProjectBudgets(projectID uint) ([]BudgetStatus, error)
	GetAllActiveBudgets() ([]BudgetStatus, error)
	GetBudgetByID(budgetID uint) (*models.Budget, error)
	GetBudgetStatus(budgetID uint) (*BudgetStatus, error)
	UpdateBudget(budgetID uint, budgetAmount *float64, category, status string) (*models.Budget, error)
	DeleteBudget(budgetID uint) error
}

// DashboardSummary contains the headline financial aggregates for one
// year or year-month period.
type DashboardSummary struct {
	Period        string  `json:"period"`
	TotalInvoiced float64 `json:"total_invoiced"`
	TotalPaid     float64 `json:"total_paid"`
	TotalPending  float64 `json:"total_pending"`
	TotalOverdue  float64 `json:"total_overdue"`
	TotalExpenses float64 `json:"total_expenses"`
	Profit        float64 `json:"profit"`
	ProfitMargin  float64 `json:"profit_margin"`
}

// PeriodTotal is an aggregate for a single calendar period.
type PeriodTotal struct {
	Period string  `json:"period"`
	Total  float64 `json:"total"`
}

// CategoryTotal is an aggregate for a single expense category.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// ProjectProfit contains revenue vs cost for a single project.
type ProjectProfit struct {
	ProjectID uint    `json:"project_id"`
	Name      string  `json:"name"`
	Revenue   float64 `json:"revenue"`
	Expenses  float64 `json:"expenses"`
	Profit    float64 `json:"profit"`
}

// StatusCount is an aggregate count and amount for a single invoice status.
type StatusCount struct {
	Status string  `json:"status"`
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

// CashflowEntry contains money in and out for a single month.
type CashflowEntry struct {
	Month   string  `json:"month"`
	Inflow  float64 `json:"inflow"`
	Outflow float64 `json:"outflow"`
	NetFlow float64 `json:"net_flow"`
}

// ClientHistory contains a client's invoice and payment totals.
type ClientHistory struct {
	ClientID     uint    `json:"client_id"`
	Name         string  `json:"name"`
	TotalBilled  float64 `json:"total_billed"`
	TotalPaid    float64 `json:"total_paid"`
	Outstanding  float64 `json:"outstanding"`
	InvoiceCount int64   `json:"invoice_count"`
}

// BudgetComparison contains budgeted vs actual spend for a project.
type BudgetComparison struct {
	ProjectID uint    `json:"project_id"`
	Name      string  `json:"name"`
	Budgeted  float64 `json:"budgeted"`
	Actual    float64 `json:"actual"`
	Variance  float64 `json:"variance"`
}

// ReportServicer defines the contract for financial reporting.
type ReportServicer interface {
	GetDashboard(year int, month *int) (*DashboardSummary, error)
	GetRevenueByPeriod(startDate, endDate *time.Time) ([]PeriodTotal, error)
	GetExpenseBreakdown(startDate, endDate *time.Time) ([]CategoryTotal, error)
	GetProjectProfitability() ([]ProjectProfit, error)
	GetInvoiceStatusBreakdown() ([]StatusCount, error)
	GetCashflow() ([]CashflowEntry, error)
	GetClientHistory(clientID uint) (*ClientHistory, error)
	GetBudgetComparison() ([]BudgetComparison, error)
	GenerateReport(createdBy uint, reportType, period string, startDate, endDate *time.Time) (*models.FinancialReport, error)
	GetReports(page pagination.PageRequest) (*pagination.PageResponse[models.FinancialReport], error)
	GetReportByID(reportID uint) (*models.FinancialReport, error)
}

// MessageServicer defines the contract for messaging business logic.
type MessageServicer interface {
	SendMessage(senderID uint, recipientID, projectID, clientID *uint, subject, content string, msgType models.MessageType) (*models.Message, error)
	GetInbox(userID uint, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Message], error)
	GetSent(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Message], error)
	GetMessageByID(userID, messageID uint) (*models.Message, error)
	GetProjectThread(projectID uint) (map[models.MessageType][]models.Message, error)
	MarkMessageRead(userID, messageID uint) error
	GetUnreadCount(userID uint) (int64, error)
	DeleteMessage(userID, messageID uint) error
}

// NotificationServicer defines the contract for notification business logic.
type NotificationServicer interface {
	Notify(userID uint, notifType, title, message string, relatedID *uint, relatedType string) error
	GetUserNotifications(userID uint, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error)
	MarkNotificationRead(userID, notificationID uint) error
	MarkAllRead(userID uint) error
	DeleteNotification(userID, notificationID uint) error
}

// FileServicer defines the contract for file storage business logic.
type FileServicer interface {
	SaveFile(userID uint, originalName string, size int64, src io.Reader) (*models.StoredFile, error)
	GetUserFiles(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.StoredFile], error)
	GetFileByID(userID, fileID uint) (*models.StoredFile, error)
	DeleteFile(userID, fileID uint) error
	GetStorageUsed(userID uint) (int64, error)
}

// BackupServicer defines the contract for manual file backups.
type BackupServicer interface {
	CreateBackup(userID, fileID uint) (*models.Backup, error)
	GetUserBackups(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Backup], error)
	GetAllBackups(page pagination.PageRequest) (*pagination.PageResponse[models.Backup], error)
	DeleteBackup(userID, backupID uint) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action string, details map[string]interface{})
	GetLogs(page pagination.PageRequest, userID *uint) (*pagination.PageResponse[models.AuditLog], error)
}
