package org

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

func (s *Store) ListEmployeeTypes(ctx context.Context, companyID string) ([]EmployeeType, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, name, created_at
    FROM employee_types
    WHERE company_id = $1
    ORDER BY name
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EmployeeType
	for rows.Next() {
		var t EmployeeType
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) GetEmployeeType(ctx context.Context, id string) (EmployeeType, error) {
	var t EmployeeType
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, name, created_at FROM employee_types WHERE id = $1
  `, id).Scan(&t.ID, &t.CompanyID, &t.Name, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return EmployeeType{}, ErrNotFound
	}
	return t, err
}

func (s *Store) CreateEmployeeType(ctx context.Context, companyID, name string) (EmployeeType, error) {
	var t EmployeeType
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employee_types (company_id, name)
    VALUES ($1,$2)
    RETURNING id, company_id, name, created_at
  `, companyID, name).Scan(&t.ID, &t.CompanyID, &t.Name, &t.CreatedAt)
	if isUniqueViolation(err) {
		return EmployeeType{}, fmt.Errorf("%w: an employee type with this name already exists", ErrConflict)
	}
	return t, err
}

func (s *Store) UpdateEmployeeType(ctx context.Context, id, name string) (EmployeeType, error) {
	var t EmployeeType
	err := s.DB.QueryRow(ctx, `
    UPDATE employee_types SET name = $1 WHERE id = $2
    RETURNING id, company_id, name, created_at
  `, name, id).Scan(&t.ID, &t.CompanyID, &t.Name, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return EmployeeType{}, ErrNotFound
	}
	if isUniqueViolation(err) {
		return EmployeeType{}, fmt.Errorf("%w: an employee type with this name already exists", ErrConflict)
	}
	return t, err
}

func (s *Store) DeleteEmployeeType(ctx context.Context, companyID, id string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var employees int
	if err := tx.QueryRow(ctx, `
    SELECT COUNT(1) FROM employees WHERE company_id = $1 AND employee_type_id = $2
  `, companyID, id).Scan(&employees); err != nil {
		return err
	}
	if employees > 0 {
		return fmt.Errorf("%w: cannot delete employee type with assigned employees", ErrConflict)
	}

	tag, err := tx.Exec(ctx, "DELETE FROM employee_types WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func (s *Store) ListShifts(ctx context.Context, companyID string) ([]Shift, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, name, start_time, end_time, created_at
    FROM shifts
    WHERE company_id = $1
    ORDER BY name
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Shift
	for rows.Next() {
		var sh Shift
		if err := rows.Scan(&sh.ID, &sh.CompanyID, &sh.Name, &sh.StartTime, &sh.EndTime, &sh.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

func (s *Store) GetShift(ctx context.Context, id string) (Shift, error) {
	var sh Shift
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, name, start_time, end_time, created_at FROM shifts WHERE id = $1
  `, id).Scan(&sh.ID, &sh.CompanyID, &sh.Name, &sh.StartTime, &sh.EndTime, &sh.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Shift{}, ErrNotFound
	}
	return sh, err
}

func (s *Store) CreateShift(ctx context.Context, companyID, name, startTime, endTime string) (Shift, error) {
	var sh Shift
	err := s.DB.QueryRow(ctx, `
    INSERT INTO shifts (company_id, name, start_time, end_time)
    VALUES ($1,$2,$3,$4)
    RETURNING id, company_id, name, start_time, end_time, created_at
  `, companyID, name, startTime, endTime).Scan(&sh.ID, &sh.CompanyID, &sh.Name, &sh.StartTime, &sh.EndTime, &sh.CreatedAt)
	if isUniqueViolation(err) {
		return Shift{}, fmt.Errorf("%w: a shift with this name already exists", ErrConflict)
	}
	return sh, err
}

func (s *Store) UpdateShift(ctx context.Context, id, name, startTime, endTime string) (Shift, error) {
	var sh Shift
	err := s.DB.QueryRow(ctx, `
    UPDATE shifts SET name = $1, start_time = $2, end_time = $3 WHERE id = $4
    RETURNING id, company_id, name, start_time, end_time, created_at
  `, name, startTime, endTime, id).Scan(&sh.ID, &sh.CompanyID, &sh.Name, &sh.StartTime, &sh.EndTime, &sh.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Shift{}, ErrNotFound
	}
	if isUniqueViolation(err) {
		return Shift{}, fmt.Errorf("%w: a shift with this name already exists", ErrConflict)
	}
	return sh, err
}

func (s *Store) DeleteShift(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM shifts WHERE id = $1", id)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: cannot delete shift with assigned employees", ErrConflict)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListLocations(ctx context.Context, companyID string) ([]Location, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, name, COALESCE(address, ''), created_at
    FROM locations
    WHERE company_id = $1
    ORDER BY name
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Location
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.Name, &l.Address, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) GetLocation(ctx context.Context, id string) (Location, error) {
	var l Location
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, name, COALESCE(address, ''), created_at FROM locations WHERE id = $1
  `, id).Scan(&l.ID, &l.CompanyID, &l.Name, &l.Address, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Location{}, ErrNotFound
	}
	return l, err
}

func (s *Store) CreateLocation(ctx context.Context, companyID, name, address string) (Location, error) {
	var l Location
	err := s.DB.QueryRow(ctx, `
    INSERT INTO locations (company_id, name, address)
    VALUES ($1,$2,$3)
    RETURNING id, company_id, name, COALESCE(address, ''), created_at
  `, companyID, name, address).Scan(&l.ID, &l.CompanyID, &l.Name, &l.Address, &l.CreatedAt)
	if isUniqueViolation(err) {
		return Location{}, fmt.Errorf("%w: a location with this name already exists", ErrConflict)
	}
	return l, err
}

func (s *Store) UpdateLocation(ctx context.Context, id, name, address string) (Location, error) {
	var l Location
	err := s.DB.QueryRow(ctx, `
    UPDATE locations SET name = $1, address = $2 WHERE id = $3
    RETURNING id, company_id, name, COALESCE(address, ''), created_at
  `, name, address, id).Scan(&l.ID, &l.CompanyID, &l.Name, &l.Address, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Location{}, ErrNotFound
	}
	if isUniqueViolation(err) {
		return Location{}, fmt.Errorf("%w: a location with this name already exists", ErrConflict)
	}
	return l, err
}

func (s *Store) DeleteLocation(ctx context.Context, companyID, id string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var employees int
	if err := tx.QueryRow(ctx, `
    SELECT COUNT(1) FROM employees WHERE company_id = $1 AND location_id = $2
  `, companyID, id).Scan(&employees); err != nil {
		return err
	}
	if employees > 0 {
		return fmt.Errorf("%w: cannot delete location with assigned employees", ErrConflict)
	}

	tag, err := tx.Exec(ctx, "DELETE FROM locations WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}
