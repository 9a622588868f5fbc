package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/db"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
	"github.com/yigit/schoolcore/internal/pkg/logger"
)

// PostgresExpenseRepository handles database operations for expenses
type PostgresExpenseRepository struct {
	db *db.PostgresDB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(database *db.PostgresDB) *PostgresExpenseRepository {
	return &PostgresExpenseRepository{db: database}
}

// Create inserts an expense
func (r *PostgresExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	sql, args, err := psql.Insert("expenses").
		Columns("title", "amount", "category", "expense_date", "notes").
		Values(expense.Title, expense.Amount, expense.Category, expense.ExpenseDate, expense.Notes).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create expense SQL")
		return err
	}

	err = r.db.Conn(ctx).QueryRow(ctx, sql, args...).Scan(&expense.ID, &expense.CreatedAt)
	return translateError(err, nil, "expense already exists")
}

// List returns a page of expenses, newest first, and the total count
func (r *PostgresExpenseRepository) List(ctx context.Context, offset uint64, limit int) ([]models.Expense, int64, error) {
	total, err := countRows(ctx, r.db.Conn(ctx), psql.Select("COUNT(*)").From("expenses"))
	if err != nil {
		return nil, 0, err
	}

	sql, args, err := psql.Select("id", "title", "amount", "category", "expense_date", "notes", "created_at").
		From("expenses").
		OrderBy("expense_date DESC", "id DESC").
		Limit(uint64(limit)).Offset(offset).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building expense list SQL")
		return nil, 0, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, translateError(err, nil, "")
	}
	defer rows.Close()

	expenses := make([]models.Expense, 0)
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.Title, &e.Amount, &e.Category, &e.ExpenseDate, &e.Notes, &e.CreatedAt); err != nil {
			return nil, 0, translateError(err, nil, "")
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, translateError(err, nil, "")
	}
	return expenses, total, nil
}

// Delete removes an expense
func (r *PostgresExpenseRepository) Delete(ctx context.Context, id int64) error {
	affected, err := execAffected(ctx, r.db.Conn(ctx), psql.Delete("expenses").Where(squirrel.Eq{"id": id}), "")
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrExpenseNotFound
	}
	return nil
}
