package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schoolcore/internal/app/repositories/memory"
	"github.com/yigit/schoolcore/internal/app/services"
	"github.com/yigit/schoolcore/internal/pkg/auth"
	"github.com/yigit/schoolcore/internal/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := services.NewServices(memory.NewRepositories(memory.NewStore()), auth.NewPasswordHasher(bcrypt.MinCost))

	created, err := CreateDefaultData(ctx, svc.Class, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, len(DefaultClasses), created)

	created, err = CreateDefaultData(ctx, svc.Class, logger.Nop())
	require.NoError(t, err)
	assert.Zero(t, created)

	all, err := svc.Class.GetAllClasses(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(DefaultClasses))
}
