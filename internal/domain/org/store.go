package org

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListDepartments(ctx context.Context, companyID string) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, name, COALESCE(description, ''), created_at
    FROM departments
    WHERE company_id = $1
    ORDER BY name
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.Name, &d.Description, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) GetDepartment(ctx context.Context, id string) (Department, error) {
	var d Department
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, name, COALESCE(description, ''), created_at
    FROM departments
    WHERE id = $1
  `, id).Scan(&d.ID, &d.CompanyID, &d.Name, &d.Description, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Department{}, ErrNotFound
	}
	return d, err
}

func (s *Store) CreateDepartment(ctx context.Context, companyID, name, description string) (Department, error) {
	var d Department
	err := s.DB.QueryRow(ctx, `
    INSERT INTO departments (company_id, name, description)
    VALUES ($1,$2,$3)
    RETURNING id, company_id, name, COALESCE(description, ''), created_at
  `, companyID, name, description).Scan(&d.ID, &d.CompanyID, &d.Name, &d.Description, &d.CreatedAt)
	if isUniqueViolation(err) {
		return Department{}, fmt.Errorf("%w: a department with this name already exists", ErrConflict)
	}
	return d, err
}

func (s *Store) UpdateDepartment(ctx context.Context, id, name, description string) (Department, error) {
	var d Department
	err := s.DB.QueryRow(ctx, `
    UPDATE departments SET name = $1, description = $2
    WHERE id = $3
    RETURNING id, company_id, name, COALESCE(description, ''), created_at
  `, name, description, id).Scan(&d.ID, &d.CompanyID, &d.Name, &d.Description, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Department{}, ErrNotFound
	}
	if isUniqueViolation(err) {
		return Department{}, fmt.Errorf("%w: a department with this name already exists", ErrConflict)
	}
	return d, err
}

// DeleteDepartment checks for dependents and deletes inside one transaction
// so a concurrent insert cannot slip between the check and the delete.
func (s *Store) DeleteDepartment(ctx context.Context, companyID, id string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var employees int
	if err := tx.QueryRow(ctx, `
    SELECT COUNT(1) FROM employees WHERE company_id = $1 AND department_id = $2
  `, companyID, id).Scan(&employees); err != nil {
		return err
	}
	if employees > 0 {
		return fmt.Errorf("%w: cannot delete department with assigned employees", ErrConflict)
	}

	var designations int
	if err := tx.QueryRow(ctx, `
    SELECT COUNT(1) FROM designations WHERE company_id = $1 AND department_id = $2
  `, companyID, id).Scan(&designations); err != nil {
		return err
	}
	if designations > 0 {
		return fmt.Errorf("%w: cannot delete department with designations", ErrConflict)
	}

	tag, err := tx.Exec(ctx, "DELETE FROM departments WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func (s *Store) ListDesignations(ctx context.Context, companyID string) ([]Designation, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, department_id, name, created_at
    FROM designations
    WHERE company_id = $1
    ORDER BY name
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Designation
	for rows.Next() {
		var d Designation
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.DepartmentID, &d.Name, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) GetDesignation(ctx context.Context, id string) (Designation, error) {
	var d Designation
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, department_id, name, created_at
    FROM designations
    WHERE id = $1
  `, id).Scan(&d.ID, &d.CompanyID, &d.DepartmentID, &d.Name, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Designation{}, ErrNotFound
	}
	return d, err
}

func (s *Store) CreateDesignation(ctx context.Context, companyID, departmentID, name string) (Designation, error) {
	var d Designation
	err := s.DB.QueryRow(ctx, `
    INSERT INTO designations (company_id, department_id, name)
    VALUES ($1,$2,$3)
    RETURNING id, company_id, department_id, name, created_at
  `, companyID, departmentID, name).Scan(&d.ID, &d.CompanyID, &d.DepartmentID, &d.Name, &d.CreatedAt)
	if isUniqueViolation(err) {
		return Designation{}, fmt.Errorf("%w: a designation with this name already exists", ErrConflict)
	}
	return d, err
}

func (s *Store) UpdateDesignation(ctx context.Context, id, departmentID, name string) (Designation, error) {
	var d Designation
	err := s.DB.QueryRow(ctx, `
    UPDATE designations SET department_id = $1, name = $2
    WHERE id = $3
    RETURNING id, company_id, department_id, name, created_at
  `, departmentID, name, id).Scan(&d.ID, &d.CompanyID, &d.DepartmentID, &d.Name, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Designation{}, ErrNotFound
	}
	if isUniqueViolation(err) {
		return Designation{}, fmt.Errorf("%w: a designation with this name already exists", ErrConflict)
	}
	return d, err
}

func (s *Store) DeleteDesignation(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM designations WHERE id = $1", id)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: cannot delete designation with assigned employees", ErrConflict)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}
