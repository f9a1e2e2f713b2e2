package payroll

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
	ErrNotFound        = errors.New("salary record not found")
	ErrCompanyMismatch = errors.New("salary record belongs to another company")
	ErrConflict        = errors.New("conflict")
	ErrBadReference    = errors.New("invalid reference")
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const salaryColumns = `
    id, company_id, employee_id, month, year,
    basic_salary, house_rent, medical_allowance, transport_allowance, bonus,
    tax_deduction, provident_fund, insurance, loan_deduction, net_salary, created_at`

func scanSalary(row pgx.Row) (Salary, error) {
	var s Salary
	err := row.Scan(&s.ID, &s.CompanyID, &s.EmployeeID, &s.Month, &s.Year,
		&s.BasicSalary, &s.HouseRent, &s.MedicalAllowance, &s.TransportAllowance, &s.Bonus,
		&s.TaxDeduction, &s.ProvidentFund, &s.Insurance, &s.LoanDeduction, &s.NetSalary, &s.CreatedAt)
	return s, err
}

func (st *Store) List(ctx context.Context, companyID string, filter Filter) ([]Salary, error) {
	query := "SELECT" + salaryColumns + " FROM salaries WHERE company_id = $1"
	args := []any{companyID}
	if filter.Month > 0 {
		query += fmt.Sprintf(" AND month = $%d", len(args)+1)
		args = append(args, filter.Month)
	}
	if filter.Year > 0 {
		query += fmt.Sprintf(" AND year = $%d", len(args)+1)
		args = append(args, filter.Year)
	}
	if filter.EmployeeID != "" {
		query += fmt.Sprintf(" AND employee_id = $%d", len(args)+1)
		args = append(args, filter.EmployeeID)
	}
	query += " ORDER BY year DESC, month DESC"

	rows, err := st.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Salary
	for rows.Next() {
		s, err := scanSalary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (st *Store) Get(ctx context.Context, id string) (Salary, error) {
	s, err := scanSalary(st.DB.QueryRow(ctx, "SELECT"+salaryColumns+" FROM salaries WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Salary{}, ErrNotFound
	}
	return s, err
}

func (st *Store) Create(ctx context.Context, companyID string, s Salary) (Salary, error) {
	created, err := scanSalary(st.DB.QueryRow(ctx, `
    INSERT INTO salaries (
      company_id, employee_id, month, year,
      basic_salary, house_rent, medical_allowance, transport_allowance, bonus,
      tax_deduction, provident_fund, insurance, loan_deduction, net_salary
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
    RETURNING`+salaryColumns+`
  `, companyID, s.EmployeeID, s.Month, s.Year,
		s.BasicSalary, s.HouseRent, s.MedicalAllowance, s.TransportAllowance, s.Bonus,
		s.TaxDeduction, s.ProvidentFund, s.Insurance, s.LoanDeduction, s.NetSalary))
	if err != nil {
		return Salary{}, classifyWriteError(err)
	}
	return created, nil
}

func (st *Store) Update(ctx context.Context, id string, s Salary) (Salary, error) {
	updated, err := scanSalary(st.DB.QueryRow(ctx, `
    UPDATE salaries SET
      employee_id = $1, month = $2, year = $3,
      basic_salary = $4, house_rent = $5, medical_allowance = $6, transport_allowance = $7, bonus = $8,
      tax_deduction = $9, provident_fund = $10, insurance = $11, loan_deduction = $12, net_salary = $13
    WHERE id = $14
    RETURNING`+salaryColumns+`
  `, s.EmployeeID, s.Month, s.Year,
		s.BasicSalary, s.HouseRent, s.MedicalAllowance, s.TransportAllowance, s.Bonus,
		s.TaxDeduction, s.ProvidentFund, s.Insurance, s.LoanDeduction, s.NetSalary, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Salary{}, ErrNotFound
	}
	if err != nil {
		return Salary{}, classifyWriteError(err)
	}
	return updated, nil
}

func (st *Store) Delete(ctx context.Context, id string) error {
	tag, err := st.DB.Exec(ctx, "DELETE FROM salaries WHERE id = $1", id)
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
		return fmt.Errorf("%w: a salary record already exists for this employee and month", ErrConflict)
	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w: employeeId", ErrBadReference)
	}
	return err
}
