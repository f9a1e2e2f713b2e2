package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) FindCredentialsByUsername(ctx context.Context, username string) (Credentials, error) {
	var out Credentials
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, role, password_hash, mfa_enabled, mfa_secret_enc
    FROM users
    WHERE username = $1
  `, username).Scan(&out.ID, &out.CompanyID, &out.Role, &out.PasswordHash, &out.MFAEnabled, &out.MFASecretEnc)
	if errors.Is(err, pgx.ErrNoRows) {
		return Credentials{}, ErrNotFound
	}
	return out, err
}

func (s *Store) GetUser(ctx context.Context, userID string) (User, error) {
	var u User
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, username, full_name, email, role, COALESCE(avatar, ''), created_at, last_login
    FROM users
    WHERE id = $1
  `, userID).Scan(&u.ID, &u.CompanyID, &u.Username, &u.FullName, &u.Email, &u.Role, &u.Avatar, &u.CreatedAt, &u.LastLogin)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// RegisterCompany creates the tenant and its first admin user atomically.
func (s *Store) RegisterCompany(ctx context.Context, companyName, username, passwordHash, fullName, email string) (User, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return User{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var companyID string
	if err := tx.QueryRow(ctx, "INSERT INTO companies (name) VALUES ($1) RETURNING id", companyName).Scan(&companyID); err != nil {
		return User{}, err
	}

	var u User
	err = tx.QueryRow(ctx, `
    INSERT INTO users (company_id, username, password_hash, full_name, email, role)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id, company_id, username, full_name, email, role, COALESCE(avatar, ''), created_at
  `, companyID, username, passwordHash, fullName, email, RoleAdmin).Scan(
		&u.ID, &u.CompanyID, &u.Username, &u.FullName, &u.Email, &u.Role, &u.Avatar, &u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrUsernameTaken
		}
		return User{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return User{}, err
	}
	return u, nil
}

// CreateUser adds a user to an existing company. Role is caller-validated.
func (s *Store) CreateUser(ctx context.Context, companyID, username, passwordHash, fullName, email, role string) (User, error) {
	var u User
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (company_id, username, password_hash, full_name, email, role)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id, company_id, username, full_name, email, role, COALESCE(avatar, ''), created_at
  `, companyID, username, passwordHash, fullName, email, role).Scan(
		&u.ID, &u.CompanyID, &u.Username, &u.FullName, &u.Email, &u.Role, &u.Avatar, &u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrUsernameTaken
		}
		return User{}, err
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context, companyID string) ([]User, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, username, full_name, email, role, COALESCE(avatar, ''), created_at, last_login
    FROM users
    WHERE company_id = $1
    ORDER BY created_at
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.CompanyID, &u.Username, &u.FullName, &u.Email, &u.Role, &u.Avatar, &u.CreatedAt, &u.LastLogin); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) UpdateProfile(ctx context.Context, userID, fullName, email, avatar string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE users SET full_name = $1, email = $2, avatar = $3 WHERE id = $4
  `, fullName, email, avatar, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login = now() WHERE id = $1", userID)
	return err
}

func (s *Store) CreateSession(ctx context.Context, userID, tokenHash string, expires time.Time) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO sessions (user_id, token_hash, expires_at)
    VALUES ($1,$2,$3)
  `, userID, tokenHash, expires)
	return err
}

func (s *Store) RevokeSession(ctx context.Context, userID, tokenHash string) error {
	_, err := s.DB.Exec(ctx, "UPDATE sessions SET revoked_at = now() WHERE user_id = $1 AND token_hash = $2", userID, tokenHash)
	return err
}

func (s *Store) SessionValid(ctx context.Context, userID, tokenHash string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM sessions
    WHERE user_id = $1 AND token_hash = $2 AND expires_at > now() AND revoked_at IS NULL
  `, userID, tokenHash).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) GetCompanyName(ctx context.Context, companyID string) (string, error) {
	var name string
	err := s.DB.QueryRow(ctx, "SELECT name FROM companies WHERE id = $1", companyID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return name, err
}

func (s *Store) UpdateMFASecret(ctx context.Context, userID string, secretEnc []byte) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET mfa_secret_enc = $1, mfa_enabled = false WHERE id = $2", secretEnc, userID)
	return err
}

func (s *Store) GetMFASecret(ctx context.Context, userID string) ([]byte, error) {
	var secretEnc []byte
	if err := s.DB.QueryRow(ctx, "SELECT mfa_secret_enc FROM users WHERE id = $1", userID).Scan(&secretEnc); err != nil {
		return nil, err
	}
	return secretEnc, nil
}

func (s *Store) SetMFAEnabled(ctx context.Context, userID string, enabled bool) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET mfa_enabled = $1 WHERE id = $2", enabled, userID)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
