package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	expenseRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/expense"
	"github.com/m04kA/SMC-SalonBooking/internal/service/finance/models"
)

// Service сервис учёта расходов и финансовой сводки
type Service struct {
	expenseRepo  ExpenseRepository
	revenueRepo  RevenueRepository
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса финансов
func NewService(
	expenseRepo ExpenseRepository,
	revenueRepo RevenueRepository,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}

	return &Service{
		expenseRepo:  expenseRepo,
		revenueRepo:  revenueRepo,
		location:     location,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// CreateExpense добавляет расход
func (s *Service) CreateExpense(ctx context.Context, req *models.CreateExpenseRequest) (*models.ExpenseResponse, error) {
	expense, err := s.toDomainExpense(req)
	if err != nil {
		s.logger.Warn("CreateExpense: validation failed: %v", err)
		return nil, err
	}

	created, err := s.expenseRepo.Create(ctx, expense)
	if err != nil {
		s.logger.Error("CreateExpense: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateExpense - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateExpense: created expense id=%s, category=%s, amount=%.2f",
		created.ID, created.Category, created.Amount)
	return models.FromDomainExpense(created), nil
}

// ListExpenses возвращает расходы за период и их сумму
func (s *Service) ListExpenses(ctx context.Context, req *models.PeriodRequest) (*models.ExpenseListResponse, error) {
	filter, _, err := s.period(req)
	if err != nil {
		s.logger.Warn("ListExpenses: invalid period: %v", err)
		return nil, err
	}

	expenses, err := s.expenseRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListExpenses: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListExpenses - repository error: %v", ErrInternal, err)
	}

	var total float64
	for _, e := range expenses {
		total += e.Amount
	}

	s.logger.Info("ListExpenses: fetched %d expenses", len(expenses))
	return &models.ExpenseListResponse{
		Expenses: models.FromDomainExpenseList(expenses),
		Total:    models.RoundCents(total),
	}, nil
}

// DeleteExpense удаляет расход
func (s *Service) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, expenseRepo.ErrExpenseNotFound) {
			s.logger.Warn("DeleteExpense: expense id=%s not found", id)
			return ErrExpenseNotFound
		}
		s.logger.Error("DeleteExpense: repository error for id=%s: %v", id, err)
		return fmt.Errorf("%w: DeleteExpense - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteExpense: deleted expense id=%s", id)
	return nil
}

// Summary считает выручку подтверждённых записей, расходы и прибыль за период
func (s *Service) Summary(ctx context.Context, req *models.PeriodRequest) (*models.SummaryResponse, error) {
	expensesFilter, revenueFilter, err := s.period(req)
	if err != nil {
		s.logger.Warn("Summary: invalid period: %v", err)
		return nil, err
	}

	revenue, err := s.revenueRepo.ConfirmedRevenue(ctx, revenueFilter)
	if err != nil {
		s.logger.Error("Summary: revenue repository error: %v", err)
		return nil, fmt.Errorf("%w: Summary - revenue error: %v", ErrInternal, err)
	}

	expenses, err := s.expenseRepo.Total(ctx, expensesFilter)
	if err != nil {
		s.logger.Error("Summary: expense repository error: %v", err)
		return nil, fmt.Errorf("%w: Summary - expenses error: %v", ErrInternal, err)
	}

	resp := &models.SummaryResponse{
		Revenue:               models.RoundCents(revenue.Total),
		Expenses:              models.RoundCents(expenses),
		Profit:                models.RoundCents(revenue.Total - expenses),
		ConfirmedAppointments: revenue.Appointments,
	}
	if req.From != nil {
		from := req.From.Format(domain.DateFormat)
		resp.From = &from
	}
	if req.To != nil {
		to := req.To.Format(domain.DateFormat)
		resp.To = &to
	}

	s.logger.Info("Summary: revenue=%.2f, expenses=%.2f, profit=%.2f", resp.Revenue, resp.Expenses, resp.Profit)
	return resp, nil
}

func (s *Service) toDomainExpense(req *models.CreateExpenseRequest) (*domain.Expense, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > domain.MaxExpenseTitleLength {
		return nil, fmt.Errorf("%w: title must be at most %d characters", ErrInvalidInput, domain.MaxExpenseTitleLength)
	}

	amount := models.RoundCents(req.Amount)
	if amount <= 0 || amount > domain.MaxExpenseAmount {
		return nil, fmt.Errorf("%w: amount must be in (0, %.2f]", ErrInvalidInput, domain.MaxExpenseAmount)
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = domain.ExpenseCategoryMaterial
	}
	if !domain.IsExpenseCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, category)
	}

	date := s.timeProvider.Now().In(s.location)
	if req.Date != nil {
		date = *req.Date
	}

	return &domain.Expense{
		Title:       title,
		Amount:      amount,
		Category:    category,
		ExpenseDate: calendarDay(date, time.UTC),
	}, nil
}

// period переводит календарные дни салона в фильтры: расходы по дате, выручка по start_time
func (s *Service) period(req *models.PeriodRequest) (domain.ExpensesFilter, domain.RevenueFilter, error) {
	var (
		expenses domain.ExpensesFilter
		revenue  domain.RevenueFilter
	)

	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		return expenses, revenue, fmt.Errorf("%w: to is before from", ErrInvalidInput)
	}

	if req.From != nil {
		day := calendarDay(*req.From, time.UTC)
		start := calendarDay(*req.From, s.location)
		expenses.StartDate = &day
		revenue.StartDate = &start
	}
	if req.To != nil {
		day := calendarDay(*req.To, time.UTC).AddDate(0, 0, 1)
		end := calendarDay(*req.To, s.location).AddDate(0, 0, 1)
		expenses.EndDate = &day
		revenue.EndDate = &end
	}

	return expenses, revenue, nil
}

func calendarDay(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
}
