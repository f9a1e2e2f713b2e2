package attendance

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
	ErrNotFound        = errors.New("attendance record not found")
	ErrCompanyMismatch = errors.New("attendance record belongs to another company")
	ErrConflict        = errors.New("conflict")
	ErrBadReference    = errors.New("invalid reference")
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const recordColumns = "id, company_id, employee_id, date, status, check_in, check_out, created_at"

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.CompanyID, &rec.EmployeeID, &rec.Date, &rec.Status, &rec.CheckIn, &rec.CheckOut, &rec.CreatedAt)
	return rec, err
}

func (s *Store) List(ctx context.Context, companyID string, filter Filter) ([]Record, error) {
	query := "SELECT " + recordColumns + " FROM attendance WHERE company_id = $1"
	args := []any{companyID}
	if filter.Date != nil {
		query += fmt.Sprintf(" AND date = $%d", len(args)+1)
		args = append(args, *filter.Date)
	}
	if filter.EmployeeID != "" {
		query += fmt.Sprintf(" AND employee_id = $%d", len(args)+1)
		args = append(args, filter.EmployeeID)
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	rec, err := scanRecord(s.DB.QueryRow(ctx, "SELECT "+recordColumns+" FROM attendance WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

func (s *Store) Create(ctx context.Context, companyID string, rec Record) (Record, error) {
	created, err := scanRecord(s.DB.QueryRow(ctx, `
    INSERT INTO attendance (company_id, employee_id, date, status, check_in, check_out)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING `+recordColumns+`
  `, companyID, rec.EmployeeID, rec.Date, rec.Status, rec.CheckIn, rec.CheckOut))
	if err != nil {
		return Record{}, classifyWriteError(err)
	}
	return created, nil
}

func (s *Store) Update(ctx context.Context, id string, rec Record) (Record, error) {
	updated, err := scanRecord(s.DB.QueryRow(ctx, `
    UPDATE attendance
    SET employee_id = $1, date = $2, status = $3, check_in = $4, check_out = $5
    WHERE id = $6
    RETURNING `+recordColumns+`
  `, rec.EmployeeID, rec.Date, rec.Status, rec.CheckIn, rec.CheckOut, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, classifyWriteError(err)
	}
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM attendance WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func classifyWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return fmt.Errorf("%w: attendance already recorded for this employee and date", ErrConflict)
	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w: employeeId", ErrBadReference)
	}
	return err
}
