package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hrapp/internal/domain/access"
	"hrapp/internal/domain/auth"
	"hrapp/internal/domain/profile"
	"hrapp/internal/platform/config"
)

// DefaultPassword is used for demo accounts outside production when
// SEED_PASSWORD is unset.
const DefaultPassword = "password"

type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (auth.User, error)
	CreateUser(ctx context.Context, user auth.User) (string, error)
}

type ProfileStore interface {
	GetByUserID(ctx context.Context, userID string) (profile.Profile, error)
	Create(ctx context.Context, p profile.Profile) (string, error)
}

type account struct {
	email      string
	role       access.Role
	firstName  string
	lastName   string
	employeeID string
	department string
	position   string
	hireDate   string
	reportsTo  string
}

var accounts = []account{
	{email: "manager@company.com", role: access.RoleManager, firstName: "Morgan", lastName: "Manager", employeeID: "EMP001", department: "Operations", position: "Team Manager", hireDate: "2019-03-01"},
	{email: "john.doe@company.com", role: access.RoleEmployee, firstName: "John", lastName: "Doe", employeeID: "EMP002", department: "Engineering", position: "Software Engineer", hireDate: "2021-06-14", reportsTo: "manager@company.com"},
	{email: "jane.smith@company.com", role: access.RoleEmployee, firstName: "Jane", lastName: "Smith", employeeID: "EMP003", department: "Engineering", position: "QA Engineer", hireDate: "2022-01-10", reportsTo: "manager@company.com"},
}

// Seed creates the demo users and their profiles. Existing rows are left alone,
// so it is safe to run on every start.
func Seed(ctx context.Context, users UserStore, profiles ProfileStore, cfg config.Config) error {
	password := cfg.SeedPassword
	if password == "" {
		if cfg.IsProduction() {
			return fmt.Errorf("seed: SEED_PASSWORD is required in production")
		}
		password = DefaultPassword
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("seed: hash password: %w", err)
	}

	ids := map[string]string{}
	for _, acc := range accounts {
		id, err := ensureUser(ctx, users, acc, hash)
		if err != nil {
			return err
		}
		ids[acc.email] = id
	}
	for _, acc := range accounts {
		if err := ensureProfile(ctx, profiles, acc, ids[acc.email], ids[acc.reportsTo]); err != nil {
			return err
		}
	}
	return nil
}

func ensureUser(ctx context.Context, users UserStore, acc account, hash string) (string, error) {
	existing, err := users.FindUserByEmail(ctx, acc.email)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, auth.ErrUserNotFound) {
		return "", fmt.Errorf("seed: find user %s: %w", acc.email, err)
	}
	id, err := users.CreateUser(ctx, auth.User{
		Email:        acc.email,
		Role:         acc.role,
		FirstName:    acc.firstName,
		LastName:     acc.lastName,
		PasswordHash: hash,
	})
	if err != nil {
		return "", fmt.Errorf("seed: create user %s: %w", acc.email, err)
	}
	slog.Info("seeded user", "email", acc.email, "role", acc.role)
	return id, nil
}

func ensureProfile(ctx context.Context, profiles ProfileStore, acc account, userID, managerID string) error {
	_, err := profiles.GetByUserID(ctx, userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, profile.ErrProfileNotFound) {
		return fmt.Errorf("seed: find profile %s: %w", acc.email, err)
	}
	_, err = profiles.Create(ctx, profile.Profile{
		Basic: profile.Basic{
			UserID:     userID,
			EmployeeID: acc.employeeID,
			FirstName:  acc.firstName,
			LastName:   acc.lastName,
			Department: acc.department,
			Position:   acc.position,
			ManagerID:  managerID,
		},
		Detail: &profile.Detail{HireDate: acc.hireDate},
	})
	if err != nil {
		return fmt.Errorf("seed: create profile %s: %w", acc.email, err)
	}
	return nil
}
