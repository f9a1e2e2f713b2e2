package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Stats struct {
	TotalEmployees       int `json:"totalEmployees"`
	PresentToday         int `json:"presentToday"`
	OnLeaveToday         int `json:"onLeaveToday"`
	PendingLeaveRequests int `json:"pendingLeaveRequests"`
}

type DepartmentShare struct {
	DepartmentID string `json:"departmentId"`
	Name         string `json:"name"`
	Count        int    `json:"count"`
	Percentage   int    `json:"percentage"`
}

type RecentEmployee struct {
	ID            string    `json:"id"`
	EmployeeID    string    `json:"employeeId"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Email         string    `json:"email"`
	DateOfJoining time.Time `json:"dateOfJoining"`
}

type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

// Stats produces the headline counters. Present today counts any attendance
// record for today whose status is not absent, so late and half-day both count
// as present.
func (s *Service) Stats(ctx context.Context, companyID string) (Stats, error) {
	var st Stats
	today := time.Now().Format("2006-01-02")
	err := s.DB.QueryRow(ctx, `
    SELECT
      (SELECT COUNT(*) FROM employees WHERE company_id = $1),
      (SELECT COUNT(*) FROM attendance WHERE company_id = $1 AND date = $2 AND status <> 'absent'),
      (SELECT COUNT(*) FROM leaves WHERE company_id = $1 AND status = 'approved' AND start_date <= $2 AND end_date >= $2),
      (SELECT COUNT(*) FROM leaves WHERE company_id = $1 AND status = 'pending')
  `, companyID, today).Scan(&st.TotalEmployees, &st.PresentToday, &st.OnLeaveToday, &st.PendingLeaveRequests)
	return st, err
}

func (s *Service) DepartmentDistribution(ctx context.Context, companyID string) ([]DepartmentShare, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT d.id, d.name, COUNT(e.id)
    FROM departments d
    LEFT JOIN employees e ON e.department_id = d.id
    WHERE d.company_id = $1
    GROUP BY d.id, d.name
    ORDER BY d.name
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []DepartmentShare
	total := 0
	for rows.Next() {
		var sh DepartmentShare
		if err := rows.Scan(&sh.DepartmentID, &sh.Name, &sh.Count); err != nil {
			return nil, err
		}
		total += sh.Count
		shares = append(shares, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range shares {
		if total > 0 {
			shares[i].Percentage = int(float64(shares[i].Count)/float64(total)*100 + 0.5)
		}
	}
	return shares, nil
}

func (s *Service) RecentEmployees(ctx context.Context, companyID string, limit int) ([]RecentEmployee, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, first_name, last_name, email, date_of_joining
    FROM employees
    WHERE company_id = $1
    ORDER BY date_of_joining DESC, created_at DESC
    LIMIT $2
  `, companyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecentEmployee
	for rows.Next() {
		var e RecentEmployee
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.FirstName, &e.LastName, &e.Email, &e.DateOfJoining); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
