package employee

import (
	"context"
	"fmt"

	"staffhub/internal/domain/org"
)

// Service re-validates every foreign key against the caller's company before
// any write reaches the store. A dangling or cross-company reference fails
// the whole operation.
type Service struct {
	store *Store
	orgs  *org.Service
}

func NewService(store *Store, orgs *org.Service) *Service {
	return &Service{store: store, orgs: orgs}
}

func (s *Service) List(ctx context.Context, companyID string) ([]Employee, error) {
	return s.store.List(ctx, companyID)
}

func (s *Service) Get(ctx context.Context, companyID, id string) (Employee, error) {
	emp, err := s.store.Get(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	if emp.CompanyID != companyID {
		return Employee{}, ErrCompanyMismatch
	}
	return emp, nil
}

func (s *Service) Create(ctx context.Context, companyID string, emp Employee) (Employee, error) {
	if err := s.checkReferences(ctx, companyID, emp); err != nil {
		return Employee{}, err
	}
	return s.store.Create(ctx, companyID, emp)
}

func (s *Service) Update(ctx context.Context, companyID, id string, emp Employee) (Employee, error) {
	if _, err := s.Get(ctx, companyID, id); err != nil {
		return Employee{}, err
	}
	if err := s.checkReferences(ctx, companyID, emp); err != nil {
		return Employee{}, err
	}
	return s.store.Update(ctx, id, emp)
}

func (s *Service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := s.Get(ctx, companyID, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func (s *Service) Exists(ctx context.Context, companyID, id string) (bool, error) {
	return s.store.Exists(ctx, companyID, id)
}

func (s *Service) DisplayName(ctx context.Context, companyID, id string) (string, error) {
	return s.store.DisplayName(ctx, companyID, id)
}

func (s *Service) checkReferences(ctx context.Context, companyID string, emp Employee) error {
	if _, err := s.orgs.GetDepartment(ctx, companyID, emp.DepartmentID); err != nil {
		return fmt.Errorf("%w: departmentId", ErrBadReference)
	}
	designation, err := s.orgs.GetDesignation(ctx, companyID, emp.DesignationID)
	if err != nil {
		return fmt.Errorf("%w: designationId", ErrBadReference)
	}
	if designation.DepartmentID != emp.DepartmentID {
		return fmt.Errorf("%w: designationId does not belong to departmentId", ErrBadReference)
	}
	if _, err := s.orgs.GetEmployeeType(ctx, companyID, emp.EmployeeTypeID); err != nil {
		return fmt.Errorf("%w: employeeTypeId", ErrBadReference)
	}
	if _, err := s.orgs.GetShift(ctx, companyID, emp.ShiftID); err != nil {
		return fmt.Errorf("%w: shiftId", ErrBadReference)
	}
	if _, err := s.orgs.GetLocation(ctx, companyID, emp.LocationID); err != nil {
		return fmt.Errorf("%w: locationId", ErrBadReference)
	}
	return nil
}
