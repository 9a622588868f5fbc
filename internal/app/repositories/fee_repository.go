package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/db"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
	"github.com/yigit/schoolcore/internal/pkg/logger"
)

const feeColumns = `id, student_id, month, status, base_amount, late_fine, late_fine_amount, fine_paid,
	is_advance_payment, payment_date, notes, created_at, updated_at`

var errFeeNotFound = apperrors.NewResourceNotFoundError("fee record not found")

// PostgresFeeRepository is the fee ledger table
type PostgresFeeRepository struct {
	db *db.PostgresDB
}

// NewFeeRepository creates a new fee repository
func NewFeeRepository(database *db.PostgresDB) *PostgresFeeRepository {
	return &PostgresFeeRepository{db: database}
}

func scanFee(row pgx.Row) (models.FeePayment, error) {
	var f models.FeePayment
	err := row.Scan(
		&f.ID, &f.StudentID, &f.Month, &f.Status, &f.BaseAmount, &f.LateFine, &f.LateFineAmount, &f.FinePaid,
		&f.IsAdvancePayment, &f.PaymentDate, &f.Notes, &f.CreatedAt, &f.UpdatedAt,
	)
	return f, err
}

func (r *PostgresFeeRepository) queryFees(ctx context.Context, builder squirrel.SelectBuilder) ([]models.FeePayment, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building fee list SQL")
		return nil, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, translateError(err, nil, "")
	}
	defer rows.Close()

	fees := make([]models.FeePayment, 0)
	for rows.Next() {
		f, err := scanFee(rows)
		if err != nil {
			return nil, translateError(err, nil, "")
		}
		fees = append(fees, f)
	}
	return fees, translateError(rows.Err(), nil, "")
}

// UpsertStatus writes the status of (student, month) in one statement.
// The base amount is only taken on insert; optional fields keep their value when nil.
func (r *PostgresFeeRepository) UpsertStatus(ctx context.Context, in models.FeePaymentUpsert) (*models.FeePayment, error) {
	query := `
		INSERT INTO fee_payments (student_id, month, status, base_amount, payment_date, notes, is_advance_payment, fine_paid)
		VALUES ($1, $2, $3, $4, $5::timestamptz, $6::text, COALESCE($7::boolean, FALSE), COALESCE($8::boolean, FALSE))
		ON CONFLICT (student_id, month) DO UPDATE SET
			status = EXCLUDED.status,
			payment_date = COALESCE($5::timestamptz, fee_payments.payment_date),
			notes = COALESCE($6::text, fee_payments.notes),
			is_advance_payment = COALESCE($7::boolean, fee_payments.is_advance_payment),
			fine_paid = COALESCE($8::boolean, fee_payments.fine_paid),
			updated_at = NOW()
		RETURNING ` + feeColumns

	f, err := scanFee(r.db.Conn(ctx).QueryRow(ctx, query,
		in.StudentID, in.Month, in.Status, in.BaseAmount, in.PaymentDate, in.Notes, in.IsAdvancePayment, in.FinePaid,
	))
	if err != nil {
		return nil, translateError(err, nil, "fee record already exists")
	}
	return &f, nil
}

// AddLateFine increments the late fine of (student, month) atomically, creating the row if needed
func (r *PostgresFeeRepository) AddLateFine(ctx context.Context, in models.LateFineUpsert) (*models.FeePayment, error) {
	query := `
		INSERT INTO fee_payments (student_id, month, base_amount, late_fine, late_fine_amount)
		VALUES ($1, $2, $3, TRUE, $4)
		ON CONFLICT (student_id, month) DO UPDATE SET
			late_fine = TRUE,
			late_fine_amount = fee_payments.late_fine_amount + EXCLUDED.late_fine_amount,
			updated_at = NOW()
		RETURNING ` + feeColumns

	f, err := scanFee(r.db.Conn(ctx).QueryRow(ctx, query, in.StudentID, in.Month, in.BaseAmount, in.Fine))
	if err != nil {
		return nil, translateError(err, nil, "fee record already exists")
	}
	return &f, nil
}

// Get returns the fee row of (student, month)
func (r *PostgresFeeRepository) Get(ctx context.Context, studentID int64, month string) (*models.FeePayment, error) {
	sql, args, err := psql.Select(feeColumns).From("fee_payments").
		Where(squirrel.Eq{"student_id": studentID, "month": month}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get fee SQL")
		return nil, err
	}

	f, err := scanFee(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateError(err, errFeeNotFound, "")
	}
	return &f, nil
}

// ListByStudent returns the fee history of a student, newest first
func (r *PostgresFeeRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.FeePayment, error) {
	return r.queryFees(ctx, psql.Select(feeColumns).From("fee_payments").
		Where(squirrel.Eq{"student_id": studentID}).OrderBy("created_at DESC", "id DESC"))
}

// ListByStudentsMonth returns the fee rows of several students for one month
func (r *PostgresFeeRepository) ListByStudentsMonth(ctx context.Context, studentIDs []int64, month string) ([]models.FeePayment, error) {
	if len(studentIDs) == 0 {
		return []models.FeePayment{}, nil
	}
	return r.queryFees(ctx, psql.Select(feeColumns).From("fee_payments").
		Where(squirrel.Eq{"student_id": studentIDs, "month": month}).OrderBy("student_id"))
}
