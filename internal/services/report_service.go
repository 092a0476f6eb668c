package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "studiohub/internal/errors"
	"studiohub/internal/models"
	"studiohub/internal/pagination"
)

// taxRate is applied to positive profit when generating reports.
const taxRate = 0.10

// reportService computes financial aggregates and persists report snapshots.
// Date bucketing happens in Go so the queries stay portable across the
// sqlite and postgres drivers.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// GetDashboard returns the financial summary for one year, or one month of
// it when month is given. Invoices bucket on their issue date and expenses
// on their expense date, each falling back to the record's creation time,
// the same way the other period reports bucket.
func (s *reportService) GetDashboard(year int, month *int) (*DashboardSummary, error) {
	if year <= 0 {
		year = time.Now().Year()
	}
	period := fmt.Sprintf("%d", year)
	if month != nil {
		if *month < 1 || *month > 12 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
		}
		period = fmt.Sprintf("%d-%02d", year, *month)
	}

	summary := &DashboardSummary{Period: period}

	var invoices []models.Invoice
	if err := s.db.Find(&invoices).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, inv := range invoices {
		when := inv.CreatedAt
		if inv.IssueDate != nil {
			when = *inv.IssueDate
		}
		if !strings.HasPrefix(when.Format("2006-01"), period) {
			continue
		}
		summary.TotalInvoiced += inv.Amount
		switch inv.Status {
		case models.InvoiceStatusPaid:
			summary.TotalPaid += inv.Amount
		case models.InvoiceStatusOverdue:
			summary.TotalOverdue += inv.Amount
		default:
			// Draft, sent, and partially paid invoices still await collection.
			summary.TotalPending += inv.Amount
		}
	}

	var expenses []models.Expense
	if err := s.db.Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, e := range expenses {
		when := e.CreatedAt
		if e.ExpenseDate != nil {
			when = *e.ExpenseDate
		}
		if !strings.HasPrefix(when.Format("2006-01"), period) {
			continue
		}
		summary.TotalExpenses += e.Amount
	}

	summary.Profit = summary.TotalInvoiced - summary.TotalExpenses
	if summary.TotalInvoiced > 0 {
		summary.ProfitMargin = summary.Profit / summary.TotalInvoiced * 100
	}
	return summary, nil
}

// GetRevenueByPeriod returns monthly payment totals within the date range.
func (s *reportService) GetRevenueByPeriod(startDate, endDate *time.Time) ([]PeriodTotal, error) {
	query := s.db.Model(&models.Payment{})
	if startDate != nil {
		query = query.Where("payment_date >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("payment_date <= ?", *endDate)
	}

	var payments []models.Payment
	if err := query.Find(&payments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	buckets := make(map[string]float64)
	for _, p := range payments {
		when := p.CreatedAt
		if p.PaymentDate != nil {
			when = *p.PaymentDate
		}
		buckets[when.Format("2006-01")] += p.Amount
	}

	return sortPeriodTotals(buckets), nil
}

// GetExpenseBreakdown returns expense totals per category within the date range.
func (s *reportService) GetExpenseBreakdown(startDate, endDate *time.Time) ([]CategoryTotal, error) {
	query := s.db.Model(&models.Expense{}).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Group("category").
		Order("total DESC")
	if startDate != nil {
		query = query.Where("expense_date >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("expense_date <= ?", *endDate)
	}

	var breakdown []CategoryTotal
	if err := query.Scan(&breakdown).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return breakdown, nil
}

// GetProjectProfitability returns revenue vs expenses per project. Revenue
// and expense totals come from separate grouped queries merged by project,
// so projects with many invoices and many expenses are never cross-joined.
func (s *reportService) GetProjectProfitability() ([]ProjectProfit, error) {
	var projects []models.Project
	if err := s.db.Find(&projects).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	type grouped struct {
		ProjectID uint
		Total     float64
	}

	var revenues []grouped
	err := s.db.Model(&models.Payment{}).
		Select("invoices.project_id AS project_id, COALESCE(SUM(payments.amount), 0) AS total").
		Joins("JOIN invoices ON invoices.id = payments.invoice_id").
		Where("invoices.project_id IS NOT NULL").
		Group("invoices.project_id").
		Scan(&revenues).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var costs []grouped
	err = s.db.Model(&models.Expense{}).
		Select("project_id, COALESCE(SUM(amount), 0) AS total").
		Group("project_id").
		Scan(&costs).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	revenueByProject := make(map[uint]float64, len(revenues))
	for _, r := range revenues {
		revenueByProject[r.ProjectID] = r.Total
	}
	costByProject := make(map[uint]float64, len(costs))
	for _, c := range costs {
		costByProject[c.ProjectID] = c.Total
	}

	result := make([]ProjectProfit, 0, len(projects))
	for _, p := range projects {
		revenue := revenueByProject[p.ID]
		cost := costByProject[p.ID]
		result = append(result, ProjectProfit{
			ProjectID: p.ID,
			Name:      p.Name,
			Revenue:   revenue,
			Expenses:  cost,
			Profit:    revenue - cost,
		})
	}
	return result, nil
}

// GetInvoiceStatusBreakdown returns invoice counts and amounts per status.
func (s *reportService) GetInvoiceStatusBreakdown() ([]StatusCount, error) {
	var breakdown []StatusCount
	err := s.db.Model(&models.Invoice{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Group("status").
		Scan(&breakdown).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return breakdown, nil
}

// GetCashflow returns money in (payments) and out (expenses) per month for
// the trailing twelve months.
func (s *reportService) GetCashflow() ([]CashflowEntry, error) {
	since := time.Now().AddDate(-1, 0, 0)

	var payments []models.Payment
	if err := s.db.Where("payment_date >= ?", since).Find(&payments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := s.db.Where("expense_date >= ?", since).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	inflows := make(map[string]float64)
	outflows := make(map[string]float64)
	for _, p := range payments {
		when := p.CreatedAt
		if p.PaymentDate != nil {
			when = *p.PaymentDate
		}
		inflows[when.Format("2006-01")] += p.Amount
	}
	for _, e := range expenses {
		when := e.CreatedAt
		if e.ExpenseDate != nil {
			when = *e.ExpenseDate
		}
		outflows[when.Format("2006-01")] += e.Amount
	}

	months := make(map[string]bool)
	for m := range inflows {
		months[m] = true
	}
	for m := range outflows {
		months[m] = true
	}

	result := make([]CashflowEntry, 0, len(months))
	for m := range months {
		result = append(result, CashflowEntry{
			Month:   m,
			Inflow:  inflows[m],
			Outflow: outflows[m],
			NetFlow: inflows[m] - outflows[m],
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result, nil
}

// GetClientHistory returns billing and payment totals for a single client.
func (s *reportService) GetClientHistory(clientID uint) (*ClientHistory, error) {
	var client models.Client
	if err := s.db.First(&client, clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrClientNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var billed float64
	var invoiceCount int64
	base := s.db.Model(&models.Invoice{}).Where("client_id = ?", clientID)
	if err := base.Count(&invoiceCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := base.Select("COALESCE(SUM(amount), 0)").Scan(&billed).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var paid float64
	err := s.db.Model(&models.Payment{}).
		Select("COALESCE(SUM(payments.amount), 0)").
		Joins("JOIN invoices ON invoices.id = payments.invoice_id").
		Where("invoices.client_id = ?", clientID).
		Scan(&paid).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	outstanding := billed - paid
	if outstanding < 0 {
		outstanding = 0
	}

	return &ClientHistory{
		ClientID:     client.ID,
		Name:         client.Name,
		TotalBilled:  billed,
		TotalPaid:    paid,
		Outstanding:  outstanding,
		InvoiceCount: invoiceCount,
	}, nil
}

// GetBudgetComparison returns budgeted vs actual spend for every project
// that has budget lines.
func (s *reportService) GetBudgetComparison() ([]BudgetComparison, error) {
	type grouped struct {
		ProjectID uint
		Total     float64
	}

	var budgeted []grouped
	err := s.db.Model(&models.Budget{}).
		Select("project_id, COALESCE(SUM(budget_amount), 0) AS total").
		Group("project_id").
		Scan(&budgeted).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var actuals []grouped
	err = s.db.Model(&models.Expense{}).
		Select("project_id, COALESCE(SUM(amount), 0) AS total").
		Group("project_id").
		Scan(&actuals).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	actualByProject := make(map[uint]float64, len(actuals))
	for _, a := range actuals {
		actualByProject[a.ProjectID] = a.Total
	}

	result := make([]BudgetComparison, 0, len(budgeted))
	for _, b := range budgeted {
		var project models.Project
		if err := s.db.First(&project, b.ProjectID).Error; err != nil {
			continue
		}
		actual := actualByProject[b.ProjectID]
		result = append(result, BudgetComparison{
			ProjectID: b.ProjectID,
			Name:      project.Name,
			Budgeted:  b.Total,
			Actual:    actual,
			Variance:  b.Total - actual,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ProjectID < result[j].ProjectID })
	return result, nil
}

// GenerateReport computes revenue, expense and profit totals for the given
// range with separate aggregate queries and persists the result as a report
// snapshot.
func (s *reportService) GenerateReport(createdBy uint, reportType, period string, startDate, endDate *time.Time) (*models.FinancialReport, error) {
	if reportType == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "report type is required")
	}

	paymentQuery := s.db.Model(&models.Payment{})
	expenseQuery := s.db.Model(&models.Expense{})
	if startDate != nil {
		paymentQuery = paymentQuery.Where("payment_date >= ?", *startDate)
		expenseQuery = expenseQuery.Where("expense_date >= ?", *startDate)
	}
	if endDate != nil {
		paymentQuery = paymentQuery.Where("payment_date <= ?", *endDate)
		expenseQuery = expenseQuery.Where("expense_date <= ?", *endDate)
	}

	var revenue float64
	if err := paymentQuery.Select("COALESCE(SUM(amount), 0)").Scan(&revenue).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses float64
	if err := expenseQuery.Select("COALESCE(SUM(amount), 0)").Scan(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var projectCount int64
	if err := s.db.Model(&models.Project{}).Count(&projectCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var clientCount int64
	if err := s.db.Model(&models.Client{}).Count(&clientCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	profit := revenue - expenses
	var tax float64
	if profit > 0 {
		tax = profit * taxRate
	}

	snapshot, err := json.Marshal(map[string]interface{}{
		"total_revenue":  revenue,
		"total_expenses": expenses,
		"profit":         profit,
		"tax_amount":     tax,
		"project_count":  projectCount,
		"client_count":   clientCount,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report := &models.FinancialReport{
		ReportType:    reportType,
		Period:        period,
		StartDate:     startDate,
		EndDate:       endDate,
		TotalRevenue:  revenue,
		TotalExpenses: expenses,
		Profit:        profit,
		TaxAmount:     tax,
		ProjectCount:  int(projectCount),
		ClientCount:   int(clientCount),
		Data:          string(snapshot),
		CreatedBy:     createdBy,
	}

	if err := s.db.Create(report).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return report, nil
}

// GetReports returns a paginated list of persisted report snapshots.
func (s *reportService) GetReports(page pagination.PageRequest) (*pagination.PageResponse[models.FinancialReport], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.FinancialReport{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var reports []models.FinancialReport
	if err := s.db.Model(&models.FinancialReport{}).
		Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&reports).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(reports, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetReportByID returns a persisted report snapshot.
func (s *reportService) GetReportByID(reportID uint) (*models.FinancialReport, error) {
	var report models.FinancialReport
	if err := s.db.First(&report, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReportNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &report, nil
}

func sortPeriodTotals(buckets map[string]float64) []PeriodTotal {
	result := make([]PeriodTotal, 0, len(buckets))
	for period, total := range buckets {
		result = append(result, PeriodTotal{Period: period, Total: total})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Period < result[j].Period })
	return result
}
