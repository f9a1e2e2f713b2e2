package attendance

import (
	"context"
	"fmt"

	"staffhub/internal/domain/employee"
)

type Service struct {
	store     *Store
	employees *employee.Service
}

func NewService(store *Store, employees *employee.Service) *Service {
	return &Service{store: store, employees: employees}
}

func (s *Service) List(ctx context.Context, companyID string, filter Filter) ([]Record, error) {
	return s.store.List(ctx, companyID, filter)
}

func (s *Service) Get(ctx context.Context, companyID, id string) (Record, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if rec.CompanyID != companyID {
		return Record{}, ErrCompanyMismatch
	}
	return rec, nil
}

func (s *Service) Create(ctx context.Context, companyID string, rec Record) (Record, error) {
	if err := s.checkEmployeeRef(ctx, companyID, rec.EmployeeID); err != nil {
		return Record{}, err
	}
	return s.store.Create(ctx, companyID, rec)
}

func (s *Service) Update(ctx context.Context, companyID, id string, rec Record) (Record, error) {
	if _, err := s.Get(ctx, companyID, id); err != nil {
		return Record{}, err
	}
	if err := s.checkEmployeeRef(ctx, companyID, rec.EmployeeID); err != nil {
		return Record{}, err
	}
	return s.store.Update(ctx, id, rec)
}

func (s *Service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := s.Get(ctx, companyID, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func (s *Service) checkEmployeeRef(ctx context.Context, companyID, employeeID string) error {
	ok, err := s.employees.Exists(ctx, companyID, employeeID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: employeeId", ErrBadReference)
	}
	return nil
}
