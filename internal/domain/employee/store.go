package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	cryptoutil "staffhub/internal/platform/crypto"
)

type Store struct {
	DB     *pgxpool.Pool
	Crypto *cryptoutil.Sealer
}

func NewStore(db *pgxpool.Pool, crypto *cryptoutil.Sealer) *Store {
	return &Store{DB: db, Crypto: crypto}
}

const employeeColumns = `
    id, company_id, employee_id, first_name, last_name, email,
    COALESCE(phone, ''),
    department_id, designation_id, employee_type_id, shift_id, location_id,
    date_of_joining, date_of_birth,
    COALESCE(address, ''),
    COALESCE(national_id, ''), national_id_enc,
    COALESCE(bank_account, ''), bank_account_enc,
    is_active, created_at, updated_at`

func (s *Store) scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	var nationalPlain, bankPlain string
	var nationalEnc, bankEnc []byte
	err := row.Scan(
		&emp.ID, &emp.CompanyID, &emp.EmployeeID, &emp.FirstName, &emp.LastName, &emp.Email,
		&emp.Phone,
		&emp.DepartmentID, &emp.DesignationID, &emp.EmployeeTypeID, &emp.ShiftID, &emp.LocationID,
		&emp.DateOfJoining, &emp.DateOfBirth,
		&emp.Address,
		&nationalPlain, &nationalEnc,
		&bankPlain, &bankEnc,
		&emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return Employee{}, err
	}
	emp.NationalID = s.Crypto.OpenFallback(nationalEnc, nationalPlain)
	emp.BankAccount = s.Crypto.OpenFallback(bankEnc, bankPlain)
	return emp, nil
}

func (s *Store) List(ctx context.Context, companyID string) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+employeeColumns+`
    FROM employees
    WHERE company_id = $1
    ORDER BY last_name, first_name
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := s.scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Employee, error) {
	emp, err := s.scanEmployee(s.DB.QueryRow(ctx, `
    SELECT`+employeeColumns+`
    FROM employees
    WHERE id = $1
  `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return emp, err
}

func (s *Store) Create(ctx context.Context, companyID string, emp Employee) (Employee, error) {
	nationalEnc, bankEnc, err := s.encryptSensitive(emp)
	if err != nil {
		return Employee{}, err
	}
	created, err := s.scanEmployee(s.DB.QueryRow(ctx, `
    INSERT INTO employees (
      company_id, employee_id, first_name, last_name, email, phone,
      department_id, designation_id, employee_type_id, shift_id, location_id,
      date_of_joining, date_of_birth, address, national_id_enc, bank_account_enc, is_active
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
    RETURNING`+employeeColumns+`
  `, companyID, emp.EmployeeID, emp.FirstName, emp.LastName, emp.Email, emp.Phone,
		emp.DepartmentID, emp.DesignationID, emp.EmployeeTypeID, emp.ShiftID, emp.LocationID,
		emp.DateOfJoining, emp.DateOfBirth, emp.Address, nationalEnc, bankEnc, emp.IsActive))
	if err != nil {
		return Employee{}, classifyWriteError(err)
	}
	return created, nil
}

// Update is a full-record replace, matching the create surface.
func (s *Store) Update(ctx context.Context, id string, emp Employee) (Employee, error) {
	nationalEnc, bankEnc, err := s.encryptSensitive(emp)
	if err != nil {
		return Employee{}, err
	}
	updated, err := s.scanEmployee(s.DB.QueryRow(ctx, `
    UPDATE employees SET
      employee_id = $1, first_name = $2, last_name = $3, email = $4, phone = $5,
      department_id = $6, designation_id = $7, employee_type_id = $8, shift_id = $9, location_id = $10,
      date_of_joining = $11, date_of_birth = $12, address = $13,
      national_id_enc = $14, bank_account_enc = $15, is_active = $16, updated_at = now()
    WHERE id = $17
    RETURNING`+employeeColumns+`
  `, emp.EmployeeID, emp.FirstName, emp.LastName, emp.Email, emp.Phone,
		emp.DepartmentID, emp.DesignationID, emp.EmployeeTypeID, emp.ShiftID, emp.LocationID,
		emp.DateOfJoining, emp.DateOfBirth, emp.Address, nationalEnc, bankEnc, emp.IsActive, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	if err != nil {
		return Employee{}, classifyWriteError(err)
	}
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("%w: employee has dependent records", ErrConflict)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, companyID, id string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE company_id = $1 AND id = $2", companyID, id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DisplayName returns "First Last" for activity-log details. Failures degrade
// to "Unknown" at the caller.
func (s *Store) DisplayName(ctx context.Context, companyID, id string) (string, error) {
	var first, last string
	err := s.DB.QueryRow(ctx, `
    SELECT first_name, last_name FROM employees WHERE company_id = $1 AND id = $2
  `, companyID, id).Scan(&first, &last)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(first + " " + last), nil
}

func (s *Store) encryptSensitive(emp Employee) ([]byte, []byte, error) {
	nationalEnc, err := s.Crypto.Seal(emp.NationalID)
	if err != nil {
		return nil, nil, err
	}
	bankEnc, err := s.Crypto.Seal(emp.BankAccount)
	if err != nil {
		return nil, nil, err
	}
	return nationalEnc, bankEnc, nil
}

func classifyWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		if strings.Contains(pgErr.ConstraintName, "email") {
			return fmt.Errorf("%w: an employee with this email already exists", ErrConflict)
		}
		return fmt.Errorf("%w: an employee with this employee id already exists", ErrConflict)
	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w: %s", ErrBadReference, pgErr.ConstraintName)
	}
	return err
}
