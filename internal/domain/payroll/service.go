package payroll

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

func (s *Service) List(ctx context.Context, companyID string, filter Filter) ([]Salary, error) {
	return s.store.List(ctx, companyID, filter)
}

func (s *Service) Get(ctx context.Context, companyID, id string) (Salary, error) {
	sal, err := s.store.Get(ctx, id)
	if err != nil {
		return Salary{}, err
	}
	if sal.CompanyID != companyID {
		return Salary{}, ErrCompanyMismatch
	}
	return sal, nil
}

func (s *Service) Create(ctx context.Context, companyID string, sal Salary) (Salary, error) {
	if err := s.checkEmployeeRef(ctx, companyID, sal.EmployeeID); err != nil {
		return Salary{}, err
	}
	sal.NetSalary = ComputeNet(sal)
	return s.store.Create(ctx, companyID, sal)
}

func (s *Service) Update(ctx context.Context, companyID, id string, sal Salary) (Salary, error) {
	if _, err := s.Get(ctx, companyID, id); err != nil {
		return Salary{}, err
	}
	if err := s.checkEmployeeRef(ctx, companyID, sal.EmployeeID); err != nil {
		return Salary{}, err
	}
	sal.NetSalary = ComputeNet(sal)
	return s.store.Update(ctx, id, sal)
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
