package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/app/repositories"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
	"golang.org/x/sync/errgroup"
)

// AggregationService computes reports over committed state. Reads run outside
// any unit of work.
type AggregationService interface {
	Leaderboard(ctx context.Context, classID, examID int64) ([]dto.LeaderboardEntry, error)
	GenderRatio(ctx context.Context) (*dto.GenderRatioResponse, error)
	FeeSummary(ctx context.Context, classID int64, month string) (*dto.FeeSummaryResponse, error)
	PayrollSummary(ctx context.Context, month string) (*dto.PayrollSummaryResponse, error)
}

type aggregationServiceImpl struct {
	repos *repositories.Repositories
}

// NewAggregationService creates a new AggregationService
func NewAggregationService(repos *repositories.Repositories) AggregationService {
	return &aggregationServiceImpl{repos: repos}
}

// Leaderboard ranks the students of a class by their percentage in one exam.
// A class with no marks yields an empty board.
func (s *aggregationServiceImpl) Leaderboard(ctx context.Context, classID, examID int64) ([]dto.LeaderboardEntry, error) {
	if _, err := s.repos.Classes.GetByID(ctx, classID); err != nil {
		return nil, err
	}
	if _, err := s.repos.Exams.GetByID(ctx, examID); err != nil {
		return nil, err
	}

	totals, err := s.repos.Marks.TotalsByClassExam(ctx, classID, examID)
	if err != nil {
		return nil, fmt.Errorf("error summing marks: %w", err)
	}
	return rankStudents(totals)
}

// rankStudents orders by percentage descending, then student id ascending
func rankStudents(totals []models.MarkTotal) ([]dto.LeaderboardEntry, error) {
	out := make([]dto.LeaderboardEntry, 0, len(totals))
	for _, t := range totals {
		if t.TotalMax == 0 {
			return nil, apperrors.NewZeroDenominatorError("total max marks is zero").
				WithDetails(map[string]interface{}{"studentId": t.StudentID})
		}
		out = append(out, dto.LeaderboardEntry{
			StudentID:     t.StudentID,
			StudentName:   t.StudentName,
			TotalObtained: t.TotalObtained,
			TotalMax:      t.TotalMax,
			Percentage:    percent(t.TotalObtained, t.TotalMax),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		// compare exact fractions so rounding never reorders students
		li := out[i].TotalObtained * out[j].TotalMax
		lj := out[j].TotalObtained * out[i].TotalMax
		if li != lj {
			return li > lj
		}
		return out[i].StudentID < out[j].StudentID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

func percent(part, whole int64) float64 {
	return math.Round(float64(part)/float64(whole)*10000) / 100
}

func ratio(part, whole int64) float64 {
	return math.Round(float64(part)/float64(whole)*10000) / 10000
}

// GenderRatio counts students by gender. The three counts run concurrently.
func (s *aggregationServiceImpl) GenderRatio(ctx context.Context) (*dto.GenderRatioResponse, error) {
	var resp dto.GenderRatioResponse

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repos.Students.Count(gctx)
		resp.Total = n
		return err
	})
	g.Go(func() error {
		n, err := s.repos.Students.CountByGender(gctx, models.GenderMale)
		resp.Male = n
		return err
	})
	g.Go(func() error {
		n, err := s.repos.Students.CountByGender(gctx, models.GenderFemale)
		resp.Female = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("error counting students: %w", err)
	}

	if resp.Total == 0 {
		return nil, apperrors.NewZeroDenominatorError("no students registered")
	}
	resp.MaleRatio = ratio(resp.Male, resp.Total)
	resp.FemaleRatio = ratio(resp.Female, resp.Total)
	return &resp, nil
}

// FeeSummary totals a class's fees for one month. Students without a fee row
// count as unpaid and owe the class fee.
func (s *aggregationServiceImpl) FeeSummary(ctx context.Context, classID int64, month string) (*dto.FeeSummaryResponse, error) {
	canonical, err := canonicalMonth(month)
	if err != nil {
		return nil, err
	}
	class, err := s.repos.Classes.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	students, err := s.repos.Students.ListByClass(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("error getting class students: %w", err)
	}
	if len(students) == 0 {
		return nil, apperrors.NewZeroDenominatorError("class has no students").
			WithDetails(map[string]interface{}{"classId": classID})
	}

	ids := make([]int64, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}
	rows, err := s.repos.Fees.ListByStudentsMonth(ctx, ids, canonical)
	if err != nil {
		return nil, fmt.Errorf("error getting fee rows: %w", err)
	}

	resp := &dto.FeeSummaryResponse{
		ClassID:  classID,
		Month:    canonical,
		Students: int64(len(students)),
	}
	for _, r := range rows {
		if r.Status == models.FeePaid {
			resp.Paid++
			resp.Collected += r.TotalAmount()
		} else {
			resp.Outstanding += r.TotalAmount()
		}
	}
	resp.Unpaid = resp.Students - resp.Paid
	resp.Outstanding += (resp.Students - int64(len(rows))) * class.Fee
	resp.PaidRatio = ratio(resp.Paid, resp.Students)
	return resp, nil
}

// PayrollSummary totals salaries and advances for one "YYYY-MM" month
func (s *aggregationServiceImpl) PayrollSummary(ctx context.Context, month string) (*dto.PayrollSummaryResponse, error) {
	if err := checkYearMonth(month); err != nil {
		return nil, err
	}

	rows, err := s.repos.Payroll.List(ctx, models.PaymentRecordFilter{Month: month})
	if err != nil {
		return nil, fmt.Errorf("error getting payment records: %w", err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewZeroDenominatorError("no payment records for month").
			WithDetails(map[string]interface{}{"month": month})
	}

	resp := &dto.PayrollSummaryResponse{Month: month, Records: int64(len(rows))}
	for _, r := range rows {
		switch r.Status {
		case models.SalaryPaid:
			resp.Paid++
		case models.SalaryPending:
			resp.Pending++
		default:
			resp.Unpaid++
		}
		switch r.AdvanceStatus {
		case models.AdvanceApproved:
			resp.AdvancesApproved++
			resp.TotalAdvanced += r.AdvanceAmount
		case models.AdvancePending:
			resp.AdvancesPending++
		}
	}
	resp.PaidRatio = ratio(resp.Paid, resp.Records)
	return resp, nil
}
