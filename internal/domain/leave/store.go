package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrCompanyMismatch = errors.New("resource belongs to another company")
	ErrConflict        = errors.New("conflict")
	ErrBadReference    = errors.New("invalid reference")
	ErrInvalidStatus   = errors.New("invalid status transition")
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListTypes(ctx context.Context, companyID string) ([]LeaveType, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, name, allowed_days, created_at
    FROM leave_types
    WHERE company_id = $1
    ORDER BY name
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaveType
	for rows.Next() {
		var t LeaveType
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.Name, &t.AllowedDays, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) GetType(ctx context.Context, id string) (LeaveType, error) {
	var t LeaveType
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, name, allowed_days, created_at FROM leave_types WHERE id = $1
  `, id).Scan(&t.ID, &t.CompanyID, &t.Name, &t.AllowedDays, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveType{}, ErrNotFound
	}
	return t, err
}

func (s *Store) CreateType(ctx context.Context, companyID, name string, allowedDays int) (LeaveType, error) {
	var t LeaveType
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_types (company_id, name, allowed_days)
    VALUES ($1,$2,$3)
    RETURNING id, company_id, name, allowed_days, created_at
  `, companyID, name, allowedDays).Scan(&t.ID, &t.CompanyID, &t.Name, &t.AllowedDays, &t.CreatedAt)
	if isUniqueViolation(err) {
		return LeaveType{}, fmt.Errorf("%w: a leave type with this name already exists", ErrConflict)
	}
	return t, err
}

func (s *Store) UpdateType(ctx context.Context, id, name string, allowedDays int) (LeaveType, error) {
	var t LeaveType
	err := s.DB.QueryRow(ctx, `
    UPDATE leave_types SET name = $1, allowed_days = $2 WHERE id = $3
    RETURNING id, company_id, name, allowed_days, created_at
  `, name, allowedDays, id).Scan(&t.ID, &t.CompanyID, &t.Name, &t.AllowedDays, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveType{}, ErrNotFound
	}
	if isUniqueViolation(err) {
		return LeaveType{}, fmt.Errorf("%w: a leave type with this name already exists", ErrConflict)
	}
	return t, err
}

func (s *Store) DeleteType(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM leave_types WHERE id = $1", id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("%w: cannot delete leave type with existing leave requests", ErrConflict)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const requestColumns = `
    id, company_id, employee_id, leave_type_id, start_date, end_date,
    COALESCE(reason, ''), status, COALESCE(approved_by::text, ''), created_at`

func scanRequest(row pgx.Row) (Request, error) {
	var req Request
	err := row.Scan(&req.ID, &req.CompanyID, &req.EmployeeID, &req.LeaveTypeID, &req.StartDate, &req.EndDate,
		&req.Reason, &req.Status, &req.ApprovedBy, &req.CreatedAt)
	return req, err
}

func (s *Store) ListRequests(ctx context.Context, companyID, status, employeeID string) ([]Request, error) {
	query := "SELECT" + requestColumns + " FROM leaves WHERE company_id = $1"
	args := []any{companyID}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, status)
	}
	if employeeID != "" {
		query += fmt.Sprintf(" AND employee_id = $%d", len(args)+1)
		args = append(args, employeeID)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (s *Store) GetRequest(ctx context.Context, id string) (Request, error) {
	req, err := scanRequest(s.DB.QueryRow(ctx, "SELECT"+requestColumns+" FROM leaves WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	return req, err
}

func (s *Store) CreateRequest(ctx context.Context, companyID string, req Request) (Request, error) {
	created, err := scanRequest(s.DB.QueryRow(ctx, `
    INSERT INTO leaves (company_id, employee_id, leave_type_id, start_date, end_date, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING`+requestColumns+`
  `, companyID, req.EmployeeID, req.LeaveTypeID, req.StartDate, req.EndDate, req.Reason, StatusPending))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return Request{}, fmt.Errorf("%w: %s", ErrBadReference, pgErr.ConstraintName)
		}
		return Request{}, err
	}
	return created, nil
}

// UpdateRequestStatus moves a pending request to a terminal status and stamps
// the approver. The WHERE clause keeps the transition atomic: a request that
// already left pending is not touched.
func (s *Store) UpdateRequestStatus(ctx context.Context, id, status, approverID string) (Request, error) {
	req, err := scanRequest(s.DB.QueryRow(ctx, `
    UPDATE leaves SET status = $1, approved_by = $2
    WHERE id = $3 AND status = $4
    RETURNING`+requestColumns+`
  `, status, approverID, id, StatusPending))
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrInvalidStatus
	}
	return req, err
}

func (s *Store) DeleteRequest(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM leaves WHERE id = $1", id)
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
