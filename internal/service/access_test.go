package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundverse/fundverse-server/internal/models"
	"github.com/fundverse/fundverse-server/internal/repository"
)

func seedUser(t *testing.T, repo repository.Repository, role models.Role) string {
	t.Helper()
	user := &models.User{
		ID:    uuid.New().String(),
		Email: uuid.New().String() + "@example.com",
		Name:  "Test User",
		Role:  role,
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user.ID
}

func TestLastAdminCannotBeRemoved(t *testing.T) {
	repo := repository.NewMemoryRepository()
	access := NewAccessService(repo)
	ctx := context.Background()

	admin := seedUser(t, repo, models.RoleAdmin)

	// Sole-admin self-removal is refused before any mutation.
	err := access.RemoveAdmin(ctx, admin, admin)
	require.Error(t, err)
	assert.Equal(t, models.CodeInvalidInput, models.CodeOf(err))

	role, err := access.RoleOf(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)

	// Demotion through SetRole hits the same guard.
	err = access.SetRole(ctx, admin, admin, models.RoleUser)
	require.Error(t, err)
	assert.Equal(t, models.CodeInvalidInput, models.CodeOf(err))

	// With a second admin in place removal succeeds.
	second := seedUser(t, repo, models.RoleUser)
	require.NoError(t, access.AddAdmin(ctx, admin, second))
	require.NoError(t, access.RemoveAdmin(ctx, admin, admin))

	role, err = access.RoleOf(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, role)
}

func TestConcurrentAdminDemotionsKeepOneAdmin(t *testing.T) {
	repo := repository.NewMemoryRepository()
	access := NewAccessService(repo)
	ctx := context.Background()

	first := seedUser(t, repo, models.RoleAdmin)
	second := seedUser(t, repo, models.RoleAdmin)

	// Two admins demoting each other at the same time; the guard and the
	// role update are atomic, so only one demotion can go through.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		errs[0] = access.RemoveAdmin(ctx, first, second)
	}()
	go func() {
		defer wg.Done()
		errs[1] = access.RemoveAdmin(ctx, second, first)
	}()
	wg.Wait()

	count, err := repo.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "exactly one admin must survive")

	failures := 0
	for _, e := range errs {
		if e != nil {
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactly one demotion must be refused")
}

func TestAccessControlRequiresAdminCaller(t *testing.T) {
	repo := repository.NewMemoryRepository()
	access := NewAccessService(repo)
	ctx := context.Background()

	admin := seedUser(t, repo, models.RoleAdmin)
	user := seedUser(t, repo, models.RoleUser)
	target := seedUser(t, repo, models.RoleUser)

	err := access.AddAdmin(ctx, user, target)
	assert.Equal(t, models.CodeNotAuthorized, models.CodeOf(err))

	err = access.AddInnovator(ctx, user, target)
	assert.Equal(t, models.CodeNotAuthorized, models.CodeOf(err))

	_, err = access.ListUsers(ctx, user)
	assert.Equal(t, models.CodeNotAuthorized, models.CodeOf(err))

	require.NoError(t, access.AddInnovator(ctx, admin, target))
	role, err := access.RoleOf(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, models.RoleInnovator, role)
}

func TestRemoveAdminOnNonAdminIsNoop(t *testing.T) {
	repo := repository.NewMemoryRepository()
	access := NewAccessService(repo)
	ctx := context.Background()

	admin := seedUser(t, repo, models.RoleAdmin)
	innovator := seedUser(t, repo, models.RoleInnovator)

	require.NoError(t, access.RemoveAdmin(ctx, admin, innovator))

	role, err := access.RoleOf(ctx, innovator)
	require.NoError(t, err)
	assert.Equal(t, models.RoleInnovator, role)

	// Unknown identities read as plain users.
	role, err = access.RoleOf(ctx, uuid.New().String())
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, role)
}
