package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/schoolcore/internal/app/models/dto"
	"github.com/yigit/schoolcore/internal/app/services"
	"github.com/yigit/schoolcore/internal/pkg/apperrors"
)

// DefaultClasses are created on startup when seeding is enabled. Fees start at zero
// and are set by the principal afterwards.
var DefaultClasses = []dto.CreateClassRequest{
	{Name: "Nursery", Section: "A"},
	{Name: "Kindergarten", Section: "A"},
	{Name: "Grade 1", Section: "A"},
	{Name: "Grade 2", Section: "A"},
	{Name: "Grade 3", Section: "A"},
	{Name: "Grade 4", Section: "A"},
	{Name: "Grade 5", Section: "A"},
}

// CreateDefaultData creates the default classes that don't exist yet and
// returns how many were created. Existing classes are left untouched.
func CreateDefaultData(ctx context.Context, classes services.ClassService, lgr zerolog.Logger) (int, error) {
	lgr.Info().Msg("Checking/Creating default data (Classes)...")

	var (
		finalErr error // collects errors without stopping the process
		created  int
	)
	for _, req := range DefaultClasses {
		_, err := classes.CreateClass(ctx, req)
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperrors.ErrConflict):
			lgr.Debug().Str("class", req.Name).Msg("Default class already exists")
		default:
			lgr.Error().Err(err).Str("class", req.Name).Msg("Error creating default class")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Int("created", created).Msg("Default data check complete")
	return created, finalErr
}
