package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/saradnja-api/internal/domain"
	"github.com/jhoicas/saradnja-api/internal/domain/entity"
	"github.com/jhoicas/saradnja-api/internal/infrastructure/memory"
)

func TestSeed_AdminYDemo_Idempotente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	opts := seedOptions{
		AdminEmail:    " Admin@Example.com ",
		AdminPassword: "secreto123",
		AdminName:     "Admin",
		Demo:          true,
		DemoPassword:  "demo1234",
		HashCost:      bcrypt.MinCost,
	}

	report, err := seed(ctx, store.Repos(), opts)
	require.NoError(t, err)
	assert.Equal(t, 3, report.UsersCreated)
	assert.Equal(t, len(demoCategories), report.CategoriesCreated)

	admin, err := store.Users().GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	require.NotNil(t, admin, "el email se normaliza")
	assert.Equal(t, entity.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("secreto123")))

	again, err := seed(ctx, store.Repos(), opts)
	require.NoError(t, err)
	assert.Zero(t, again.UsersCreated)
	assert.Equal(t, 3, again.UsersSkipped)
	assert.Zero(t, again.CategoriesCreated)
}

func TestSeed_ContrasenaCorta(t *testing.T) {
	_, err := seed(context.Background(), memory.NewStore().Repos(), seedOptions{
		AdminEmail: "admin@example.com", AdminPassword: "123",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRootCommand_Subcomandos(t *testing.T) {
	root := newRootCommand()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"migrate", "seed"}, names)
}
