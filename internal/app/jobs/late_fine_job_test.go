package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolcore/internal/app/models"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/app/repositories/memory"
	"github.com/yigit/schoolcore/internal/app/services"
	"github.com/yigit/schoolcore/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

type stubFees struct {
	services.FeeLedgerService
	months []string
	n      int
	err    error
}

func (s *stubFees) ImposeLateFinesForMonth(_ context.Context, month string) (int, error) {
	s.months = append(s.months, month)
	return s.n, s.err
}

func TestRunUsesCurrentMonth(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		n       int
		err     error
		wantMon string
	}{
		{"march", time.Date(2026, 3, 11, 6, 0, 0, 0, time.UTC), 4, nil, "March"},
		{"december", time.Date(2026, 12, 11, 6, 0, 0, 0, time.UTC), 0, nil, "December"},
		{"failure", time.Date(2026, 7, 11, 6, 0, 0, 0, time.UTC), 2, errors.New("boom"), "July"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fees := &stubFees{n: tt.n, err: tt.err}
			job := NewLateFineJob(fees, "0 6 11 * *")
			job.now = func() time.Time { return tt.now }

			imposed, err := job.Run(context.Background())

			assert.Equal(t, []string{tt.wantMon}, fees.months)
			assert.Equal(t, tt.n, imposed)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	job := NewLateFineJob(&stubFees{}, "every tuesday")
	assert.Error(t, job.Start())
	<-job.Stop().Done()
}

func TestStartAndStop(t *testing.T) {
	job := NewLateFineJob(&stubFees{}, "0 6 11 * *")
	require.NoError(t, job.Start())

	select {
	case <-job.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestRunAgainstLedger(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.NewStore())
	svc := services.NewServices(repos, auth.NewPasswordHasher(bcrypt.MinCost))

	class, err := svc.Class.CreateClass(ctx, dto.CreateClassRequest{Name: "Grade 7", Section: "A", Fee: 900, LateFineAmount: 150})
	require.NoError(t, err)
	for _, name := range []string{"asel", "bora"} {
		_, err := svc.Student.CreateStudent(ctx, dto.CreateStudentRequest{
			Name: name, Email: name + "@school.test", Password: "password123",
			Gender: models.GenderFemale, ClassID: class.ID,
		})
		require.NoError(t, err)
	}

	job := NewLateFineJob(svc.FeeLedger, "0 6 11 * *")
	job.now = func() time.Time { return time.Date(2026, 3, 11, 6, 0, 0, 0, time.UTC) }

	imposed, err := job.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, imposed)

	status, err := svc.FeeLedger.FeeStatusByClass(ctx, class.ID, "March")
	require.NoError(t, err)
	require.Len(t, status, 2)
	for _, entry := range status {
		assert.True(t, entry.LateFine)
		assert.Equal(t, int64(1050), entry.TotalAmount)
	}
}
