package events

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound        = errors.New("event not found")
	ErrCompanyMismatch = errors.New("event belongs to another company")
)

type Event struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"companyId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	StartTime   string    `json:"startTime,omitempty"`
	EndTime     string    `json:"endTime,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

const eventColumns = `
    id, company_id, title, COALESCE(description, ''), start_date, end_date,
    COALESCE(start_time, ''), COALESCE(end_time, ''), created_by, created_at`

func scanEvent(row pgx.Row) (Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.CompanyID, &e.Title, &e.Description, &e.StartDate, &e.EndDate,
		&e.StartTime, &e.EndTime, &e.CreatedBy, &e.CreatedAt)
	return e, err
}

func (s *Service) List(ctx context.Context, companyID string) ([]Event, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+eventColumns+`
    FROM events
    WHERE company_id = $1
    ORDER BY start_date
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Service) Get(ctx context.Context, companyID, id string) (Event, error) {
	e, err := scanEvent(s.DB.QueryRow(ctx, "SELECT"+eventColumns+" FROM events WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Event{}, ErrNotFound
	}
	if err != nil {
		return Event{}, err
	}
	if e.CompanyID != companyID {
		return Event{}, ErrCompanyMismatch
	}
	return e, nil
}

func (s *Service) Create(ctx context.Context, companyID, createdBy string, e Event) (Event, error) {
	return scanEvent(s.DB.QueryRow(ctx, `
    INSERT INTO events (company_id, title, description, start_date, end_date, start_time, end_time, created_by)
    VALUES ($1,$2,$3,$4,$5,NULLIF($6,''),NULLIF($7,''),$8)
    RETURNING`+eventColumns+`
  `, companyID, e.Title, e.Description, e.StartDate, e.EndDate, e.StartTime, e.EndTime, createdBy))
}

func (s *Service) Update(ctx context.Context, companyID, id string, e Event) (Event, error) {
	if _, err := s.Get(ctx, companyID, id); err != nil {
		return Event{}, err
	}
	return scanEvent(s.DB.QueryRow(ctx, `
    UPDATE events
    SET title = $1, description = $2, start_date = $3, end_date = $4,
        start_time = NULLIF($5,''), end_time = NULLIF($6,'')
    WHERE id = $7
    RETURNING`+eventColumns+`
  `, e.Title, e.Description, e.StartDate, e.EndDate, e.StartTime, e.EndTime, id))
}

func (s *Service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := s.Get(ctx, companyID, id); err != nil {
		return err
	}
	tag, err := s.DB.Exec(ctx, "DELETE FROM events WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
