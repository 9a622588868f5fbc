package repositories

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/db"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
	"github.com/yigit/schoolcore/internal/pkg/logger"
)

const paymentRecordColumns = `id, teacher_id, month, status, advance_pay_request, advance_amount,
	advance_request_date, advance_status, advance_approval_date, created_at, updated_at`

var errPaymentRecordNotFound = apperrors.NewResourceNotFoundError("payment record not found")

// PostgresPayrollRepository is the payroll ledger table
type PostgresPayrollRepository struct {
	db *db.PostgresDB
}

// NewPayrollRepository creates a new payroll repository
func NewPayrollRepository(database *db.PostgresDB) *PostgresPayrollRepository {
	return &PostgresPayrollRepository{db: database}
}

func scanPaymentRecord(row pgx.Row) (models.PaymentRecord, error) {
	var p models.PaymentRecord
	err := row.Scan(
		&p.ID, &p.TeacherID, &p.Month, &p.Status, &p.AdvancePayRequest, &p.AdvanceAmount,
		&p.AdvanceRequestDate, &p.AdvanceStatus, &p.AdvanceApprovalDate, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// UpsertSalaryStatus writes the salary status of (teacher, month)
func (r *PostgresPayrollRepository) UpsertSalaryStatus(ctx context.Context, teacherID int64, month string, status models.SalaryStatus) (*models.PaymentRecord, error) {
	query := `
		INSERT INTO payment_records (teacher_id, month, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (teacher_id, month) DO UPDATE SET
			status = EXCLUDED.status,
			updated_at = NOW()
		RETURNING ` + paymentRecordColumns

	p, err := scanPaymentRecord(r.db.Conn(ctx).QueryRow(ctx, query, teacherID, month, status))
	if err != nil {
		return nil, translateError(err, nil, "payment record already exists")
	}
	return &p, nil
}

// UpsertAdvanceRequest opens a pending advance on (teacher, month). The update
// branch only fires while the month has no open or granted advance; otherwise
// no row is returned and a conflict is reported. The partial unique index
// rejects a second pending advance for the same teacher.
func (r *PostgresPayrollRepository) UpsertAdvanceRequest(ctx context.Context, teacherID int64, month string, amount int64, at time.Time) (*models.PaymentRecord, error) {
	query := `
		INSERT INTO payment_records (teacher_id, month, advance_pay_request, advance_amount, advance_request_date, advance_status)
		VALUES ($1, $2, TRUE, $3, $4, 'pending')
		ON CONFLICT (teacher_id, month) DO UPDATE SET
			advance_pay_request = TRUE,
			advance_amount = EXCLUDED.advance_amount,
			advance_request_date = EXCLUDED.advance_request_date,
			advance_status = 'pending',
			advance_approval_date = NULL,
			updated_at = NOW()
		WHERE payment_records.advance_status IN ('none', 'rejected')
		RETURNING ` + paymentRecordColumns

	p, err := scanPaymentRecord(r.db.Conn(ctx).QueryRow(ctx, query, teacherID, month, amount, at))
	if err != nil {
		return nil, translateError(err,
			apperrors.NewConflictError("advance already requested for this month"),
			"teacher already has a pending advance request")
	}
	return &p, nil
}

// Get returns the record of (teacher, month)
func (r *PostgresPayrollRepository) Get(ctx context.Context, teacherID int64, month string) (*models.PaymentRecord, error) {
	sql, args, err := psql.Select(paymentRecordColumns).From("payment_records").
		Where(squirrel.Eq{"teacher_id": teacherID, "month": month}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get payment record SQL")
		return nil, err
	}

	p, err := scanPaymentRecord(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateError(err, errPaymentRecordNotFound, "")
	}
	return &p, nil
}

// PendingAdvance returns the teacher's single pending advance, locked for update
func (r *PostgresPayrollRepository) PendingAdvance(ctx context.Context, teacherID int64) (*models.PaymentRecord, error) {
	sql, args, err := psql.Select(paymentRecordColumns).From("payment_records").
		Where(squirrel.Eq{"teacher_id": teacherID, "advance_status": models.AdvancePending}).
		Suffix("FOR UPDATE").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building pending advance SQL")
		return nil, err
	}

	p, err := scanPaymentRecord(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateError(err, apperrors.ErrPendingAdvanceMissing, "")
	}
	return &p, nil
}

// SetAdvanceDecision closes a pending advance
func (r *PostgresPayrollRepository) SetAdvanceDecision(ctx context.Context, id int64, decision models.AdvanceStatus, at time.Time) (*models.PaymentRecord, error) {
	sql, args, err := psql.Update("payment_records").
		Set("advance_status", decision).
		Set("advance_approval_date", at).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "advance_status": models.AdvancePending}).
		Suffix("RETURNING " + paymentRecordColumns).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building advance decision SQL")
		return nil, err
	}

	p, err := scanPaymentRecord(r.db.Conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, translateError(err, apperrors.ErrPendingAdvanceMissing, "")
	}
	return &p, nil
}

// applyPaymentRecordFilter narrows builder by the non-empty fields of filter
func applyPaymentRecordFilter(builder squirrel.SelectBuilder, filter models.PaymentRecordFilter) squirrel.SelectBuilder {
	if filter.TeacherID != nil {
		builder = builder.Where(squirrel.Eq{"teacher_id": *filter.TeacherID})
	}
	if filter.Month != "" {
		builder = builder.Where(squirrel.Eq{"month": filter.Month})
	}
	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.AdvanceStatus != "" {
		builder = builder.Where(squirrel.Eq{"advance_status": filter.AdvanceStatus})
	}
	return builder
}

// List returns every payroll row matching filter, newest month first
func (r *PostgresPayrollRepository) List(ctx context.Context, filter models.PaymentRecordFilter) ([]models.PaymentRecord, error) {
	return r.query(ctx, applyPaymentRecordFilter(psql.Select(paymentRecordColumns).From("payment_records"), filter))
}

// Page returns one page of the rows matching filter and their total count
func (r *PostgresPayrollRepository) Page(ctx context.Context, filter models.PaymentRecordFilter, offset uint64, limit int) ([]models.PaymentRecord, int64, error) {
	total, err := countRows(ctx, r.db.Conn(ctx),
		applyPaymentRecordFilter(psql.Select("COUNT(*)").From("payment_records"), filter))
	if err != nil {
		return nil, 0, err
	}

	builder := applyPaymentRecordFilter(psql.Select(paymentRecordColumns).From("payment_records"), filter).
		Limit(uint64(limit)).Offset(offset)
	records, err := r.query(ctx, builder)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *PostgresPayrollRepository) query(ctx context.Context, builder squirrel.SelectBuilder) ([]models.PaymentRecord, error) {
	sql, args, err := builder.OrderBy("month DESC", "teacher_id").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building payment record list SQL")
		return nil, err
	}

	rows, err := r.db.Conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, translateError(err, nil, "")
	}
	defer rows.Close()

	records := make([]models.PaymentRecord, 0)
	for rows.Next() {
		p, err := scanPaymentRecord(rows)
		if err != nil {
			return nil, translateError(err, nil, "")
		}
		records = append(records, p)
	}
	return records, translateError(rows.Err(), nil, "")
}
