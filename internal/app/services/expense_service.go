package services

import (
	"context"
	"fmt"

	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/app/repositories"
	"github.com/yigit/schoolcore/internal/pkg/helpers"
)

// ExpenseService defines the interface for expense operations
type ExpenseService interface {
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest) (*models.Expense, error)
	GetExpenses(ctx context.Context, page, size int) (*dto.ExpenseListResponse, error)
	DeleteExpense(ctx context.Context, id int64) error
}

type expenseServiceImpl struct {
	repos *repositories.Repositories
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(repos *repositories.Repositories) ExpenseService {
	return &expenseServiceImpl{repos: repos}
}

func (s *expenseServiceImpl) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest) (*models.Expense, error) {
	date, err := parseDay(req.ExpenseDate)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		Title:       req.Title,
		Amount:      req.Amount,
		Category:    req.Category,
		ExpenseDate: date,
		Notes:       req.Notes,
	}
	if err := s.repos.Expenses.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("error creating expense: %w", err)
	}
	return expense, nil
}

// GetExpenses retrieves a page of expenses, newest first
func (s *expenseServiceImpl) GetExpenses(ctx context.Context, page, size int) (*dto.ExpenseListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	expenses, total, err := s.repos.Expenses.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error getting expenses: %w", err)
	}
	return &dto.ExpenseListResponse{
		Expenses:       expenses,
		PaginationInfo: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

func (s *expenseServiceImpl) DeleteExpense(ctx context.Context, id int64) error {
	return s.repos.Expenses.Delete(ctx, id)
}
