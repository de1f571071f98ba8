package backend_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/saradnja-api/internal/domain/entity"
	"github.com/jhoicas/saradnja-api/internal/infrastructure/backend"
	"github.com/jhoicas/saradnja-api/pkg/config"
	"github.com/jhoicas/saradnja-api/pkg/logger"
)

func TestOpen_Memoria(t *testing.T) {
	ctx := context.Background()
	b, err := backend.Open(ctx, config.DBConfig{Driver: config.DriverMemory}, logger.Nop())
	require.NoError(t, err)
	defer b.Close()

	assert.Nil(t, b.Pool, "el driver en memoria no abre pool")
	u := &entity.User{FullName: "Admin", Email: "admin@example.com", Role: entity.RoleAdmin, Active: true}
	require.NoError(t, b.Repos.Users.Create(ctx, u))
	got, err := b.Repos.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
}

func TestOpen_DriverDesconocido(t *testing.T) {
	_, err := backend.Open(context.Background(), config.DBConfig{Driver: "sqlite"}, logger.Nop())
	assert.Error(t, err)
}
