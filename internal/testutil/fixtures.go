package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"studiohub/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates an approved team member with a hashed password and
// unique username and email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := nextID()
	return CreateTestUserWithRole(t, db, fmt.Sprintf("user%d", n), fmt.Sprintf("user%d@test.com", n), models.RoleTeamMember)
}

// CreateTestAdmin creates an approved admin user.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := nextID()
	return CreateTestUserWithRole(t, db, fmt.Sprintf("admin%d", n), fmt.Sprintf("admin%d@test.com", n), models.RoleAdmin)
}

// CreateTestUserWithRole creates an approved user with the given identity and role.
func CreateTestUserWithRole(t *testing.T, db *gorm.DB, username, email string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     role,
		Status:   models.UserStatusApproved,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestPendingUser creates a user still awaiting approval.
func CreateTestPendingUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	n := nextID()
	user := &models.User{
		Username: fmt.Sprintf("pending%d", n),
		Email:    fmt.Sprintf("pending%d@test.com", n),
		Password: string(hash),
		Role:     models.RoleTeamMember,
		Status:   models.UserStatusPending,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test pending user: %v", err)
	}
	return user
}

// CreateTestClient creates an active client with a unique email.
func CreateTestClient(t *testing.T, db *gorm.DB) *models.Client {
	t.Helper()

	n := nextID()
	client := &models.Client{
		Name:   fmt.Sprintf("Test Client %d", n),
		Email:  fmt.Sprintf("client%d@test.com", n),
		Status: "active",
	}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("failed to create test client: %v", err)
	}
	return client
}

// CreateTestProject creates a planning-stage project created by the given user.
func CreateTestProject(t *testing.T, db *gorm.DB, createdBy uint) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:      fmt.Sprintf("Test Project %d", nextID()),
		Status:    models.ProjectStatusPlanning,
		Priority:  models.PriorityMedium,
		CreatedBy: createdBy,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateTestTask creates a todo task in the given project.
func CreateTestTask(t *testing.T, db *gorm.DB, projectID uint) *models.Task {
	t.Helper()

	task := &models.Task{
		ProjectID: projectID,
		Title:     fmt.Sprintf("Test Task %d", nextID()),
		Status:    models.TaskStatusTodo,
		Priority:  models.PriorityMedium,
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}
	return task
}

// CreateTestDeliverable creates a pending deliverable in the given project.
func CreateTestDeliverable(t *testing.T, db *gorm.DB, projectID uint) *models.Deliverable {
	t.Helper()

	deliverable := &models.Deliverable{
		ProjectID: projectID,
		Title:     fmt.Sprintf("Test Deliverable %d", nextID()),
		Status:    models.DeliverableStatusPending,
	}
	if err := db.Create(deliverable).Error; err != nil {
		t.Fatalf("failed to create test deliverable: %v", err)
	}
	return deliverable
}

// CreateTestInvoice creates a sent invoice for the given client and amount.
func CreateTestInvoice(t *testing.T, db *gorm.DB, clientID uint, amount float64) *models.Invoice {
	t.Helper()

	invoice := &models.Invoice{
		ClientID:      clientID,
		InvoiceNumber: fmt.Sprintf("INV-TEST-%d", nextID()),
		Amount:        amount,
		Status:        models.InvoiceStatusSent,
	}
	if err := db.Create(invoice).Error; err != nil {
		t.Fatalf("failed to create test invoice: %v", err)
	}
	return invoice
}

// CreateTestExpense creates a recorded expense against the given project.
func CreateTestExpense(t *testing.T, db *gorm.DB, projectID uint, category string, amount float64) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		ProjectID: projectID,
		Category:  category,
		Amount:    amount,
		Status:    "recorded",
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestBudget creates an active budget line for the given project and category.
func CreateTestBudget(t *testing.T, db *gorm.DB, projectID uint, category string, amount float64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		ProjectID:    projectID,
		BudgetAmount: amount,
		Category:     category,
		Status:       "active",
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestMessage creates an unread message between two users.
func CreateTestMessage(t *testing.T, db *gorm.DB, senderID, recipientID uint) *models.Message {
	t.Helper()

	message := &models.Message{
		SenderID:    senderID,
		RecipientID: &recipientID,
		Subject:     fmt.Sprintf("Test Subject %d", nextID()),
		Content:     "test content",
		Type:        models.MessageTypeMessage,
	}
	if err := db.Create(message).Error; err != nil {
		t.Fatalf("failed to create test message: %v", err)
	}
	return message
}

// CreateTestNotification creates an unread notification for the given user.
func CreateTestNotification(t *testing.T, db *gorm.DB, userID uint) *models.Notification {
	t.Helper()

	notification := &models.Notification{
		UserID: userID,
		Type:   "test",
		Title:  fmt.Sprintf("Test Notification %d", nextID()),
	}
	if err := db.Create(notification).Error; err != nil {
		t.Fatalf("failed to create test notification: %v", err)
	}
	return notification
}
