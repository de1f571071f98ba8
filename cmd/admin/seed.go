package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/saradnja-api/internal/application/auth"
	"github.com/jhoicas/saradnja-api/internal/domain"
	"github.com/jhoicas/saradnja-api/internal/domain/entity"
	"github.com/jhoicas/saradnja-api/internal/domain/repository"
)

type seedOptions struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
	Demo          bool
	DemoPassword  string
	// HashCost 0 = bcrypt.DefaultCost.
	HashCost int
}

type seedReport struct {
	UsersCreated      int
	UsersSkipped      int
	CategoriesCreated int
}

type seedUser struct {
	name, email, password string
	role                  entity.Role
}

var demoCategories = []string{"Nameštaj", "Rasveta", "Tekstil"}

// seed es idempotente: usuarios y categorías existentes se omiten.
func seed(ctx context.Context, repos repository.Repos, opts seedOptions) (seedReport, error) {
	var report seedReport
	if len(opts.AdminPassword) < auth.MinPasswordLength {
		return report, fmt.Errorf("%w: la contraseña del admin debe tener al menos %d caracteres", domain.ErrValidation, auth.MinPasswordLength)
	}
	users := []seedUser{{opts.AdminName, opts.AdminEmail, opts.AdminPassword, entity.RoleAdmin}}
	if opts.Demo {
		users = append(users,
			seedUser{"Demo Uvoznik", "uvoznik@demo.local", opts.DemoPassword, entity.RoleImporter},
			seedUser{"Demo Dobavljač", "dobavljac@demo.local", opts.DemoPassword, entity.RoleSupplier},
		)
	}

	cost := opts.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	for _, u := range users {
		email := auth.NormalizeEmail(u.email)
		if email == "" || !strings.Contains(email, "@") {
			return report, fmt.Errorf("%w: email inválido %q", domain.ErrValidation, u.email)
		}
		existing, err := repos.Users.GetByEmail(ctx, email)
		if err != nil {
			return report, err
		}
		if existing != nil {
			report.UsersSkipped++
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), cost)
		if err != nil {
			return report, fmt.Errorf("hash contraseña: %w", err)
		}
		err = repos.Users.Create(ctx, &entity.User{
			FullName:     u.name,
			Email:        email,
			PasswordHash: string(hash),
			Role:         u.role,
			Active:       true,
		})
		if err != nil {
			return report, fmt.Errorf("crear %s: %w", email, err)
		}
		report.UsersCreated++
	}

	if !opts.Demo {
		return report, nil
	}
	for _, name := range demoCategories {
		err := repos.Categories.Create(ctx, &entity.Category{Name: name})
		if errors.Is(err, domain.ErrDuplicate) {
			continue
		}
		if err != nil {
			return report, fmt.Errorf("crear categoría %s: %w", name, err)
		}
		report.CategoriesCreated++
	}
	return report, nil
}
