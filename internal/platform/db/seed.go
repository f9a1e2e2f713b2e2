package db

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffhub/internal/domain/auth"
	"staffhub/internal/platform/config"
)

// Seed bootstraps an initial company and admin account so deployments with
// self-signup disabled still have a way in.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	name := strings.TrimSpace(cfg.SeedCompanyName)
	username := strings.TrimSpace(cfg.SeedAdminUsername)
	if name == "" || username == "" {
		return nil
	}

	companyID, err := ensureCompany(ctx, pool, name)
	if err != nil {
		return err
	}
	return ensureAdminUser(ctx, pool, companyID, username, cfg.SeedAdminPassword, cfg.SeedAdminEmail)
}

func ensureCompany(ctx context.Context, pool *pgxpool.Pool, name string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM companies WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	if err := pool.QueryRow(ctx, "INSERT INTO companies (name) VALUES ($1) RETURNING id", name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, companyID, username, password, email string) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE username = $1", username).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (company_id, username, password_hash, full_name, email, role)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, companyID, username, hash, "Administrator", email, auth.RoleAdmin)
	return err
}
