// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("user_role", validateUserRole)
		_ = v.RegisterValidation("project_status", validateProjectStatus)
		_ = v.RegisterValidation("task_status", validateTaskStatus)
		_ = v.RegisterValidation("invoice_status", validateInvoiceStatus)
		_ = v.RegisterValidation("priority", validatePriority)
		_ = v.RegisterValidation("deliverable_status", validateDeliverableStatus)
		_ = v.RegisterValidation("message_type", validateMessageType)
		_ = v.RegisterValidation("payment_method", validatePaymentMethod)
	}
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "admin", "manager", "team-member", "client", "guest":
		return true
	}
	return false
}

func validateProjectStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "planning", "in-progress", "completed", "on-hold":
		return true
	}
	return false
}

func validateTaskStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "todo", "in-progress", "review", "completed":
		return true
	}
	return false
}

func validateInvoiceStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "draft", "sent", "partial", "paid", "overdue":
		return true
	}
	return false
}

func validatePriority(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "low", "medium", "high":
		return true
	}
	return false
}

func validateDeliverableStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "pending", "submitted", "approved", "rejected":
		return true
	}
	return false
}

func validateMessageType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "message", "approval", "update":
		return true
	}
	return false
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "bank-transfer", "credit-card", "cash", "check", "paypal", "other":
		return true
	}
	return false
}
