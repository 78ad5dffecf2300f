package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserGet(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	created := createTestUser(t, db, "alice")

	user, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserList(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	for _, name := range []string{"alice", "bob", "carol"} {
		createTestUser(t, db, name)
	}

	users, total, err := svc.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, users, 2)

	users, _, err = svc.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
