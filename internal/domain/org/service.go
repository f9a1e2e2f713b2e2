package org

import (
	"context"
	"fmt"
)

// Service enforces the tenancy rules on top of the store: a row fetched by
// primary key must belong to the caller's company before it is returned,
// updated, or deleted.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) ListDepartments(ctx context.Context, companyID string) ([]Department, error) {
	return s.store.ListDepartments(ctx, companyID)
}

func (s *Service) GetDepartment(ctx context.Context, companyID, id string) (Department, error) {
	d, err := s.store.GetDepartment(ctx, id)
	if err != nil {
		return Department{}, err
	}
	if d.CompanyID != companyID {
		return Department{}, ErrCompanyMismatch
	}
	return d, nil
}

func (s *Service) CreateDepartment(ctx context.Context, companyID, name, description string) (Department, error) {
	return s.store.CreateDepartment(ctx, companyID, name, description)
}

func (s *Service) UpdateDepartment(ctx context.Context, companyID, id, name, description string) (Department, error) {
	if _, err := s.GetDepartment(ctx, companyID, id); err != nil {
		return Department{}, err
	}
	return s.store.UpdateDepartment(ctx, id, name, description)
}

func (s *Service) DeleteDepartment(ctx context.Context, companyID, id string) error {
	if _, err := s.GetDepartment(ctx, companyID, id); err != nil {
		return err
	}
	return s.store.DeleteDepartment(ctx, companyID, id)
}

func (s *Service) ListDesignations(ctx context.Context, companyID string) ([]Designation, error) {
	return s.store.ListDesignations(ctx, companyID)
}

func (s *Service) GetDesignation(ctx context.Context, companyID, id string) (Designation, error) {
	d, err := s.store.GetDesignation(ctx, id)
	if err != nil {
		return Designation{}, err
	}
	if d.CompanyID != companyID {
		return Designation{}, ErrCompanyMismatch
	}
	return d, nil
}

func (s *Service) CreateDesignation(ctx context.Context, companyID, departmentID, name string) (Designation, error) {
	if err := s.checkDepartmentRef(ctx, companyID, departmentID); err != nil {
		return Designation{}, err
	}
	return s.store.CreateDesignation(ctx, companyID, departmentID, name)
}

func (s *Service) UpdateDesignation(ctx context.Context, companyID, id, departmentID, name string) (Designation, error) {
	if _, err := s.GetDesignation(ctx, companyID, id); err != nil {
		return Designation{}, err
	}
	if err := s.checkDepartmentRef(ctx, companyID, departmentID); err != nil {
		return Designation{}, err
	}
	return s.store.UpdateDesignation(ctx, id, departmentID, name)
}

func (s *Service) DeleteDesignation(ctx context.Context, companyID, id string) error {
	if _, err := s.GetDesignation(ctx, companyID, id); err != nil {
		return err
	}
	return s.store.DeleteDesignation(ctx, id)
}

func (s *Service) ListEmployeeTypes(ctx context.Context, companyID string) ([]EmployeeType, error) {
	return s.store.ListEmployeeTypes(ctx, companyID)
}

func (s *Service) GetEmployeeType(ctx context.Context, companyID, id string) (EmployeeType, error) {
	t, err := s.store.GetEmployeeType(ctx, id)
	if err != nil {
		return EmployeeType{}, err
	}
	if t.CompanyID != companyID {
		return EmployeeType{}, ErrCompanyMismatch
	}
	return t, nil
}

func (s *Service) CreateEmployeeType(ctx context.Context, companyID, name string) (EmployeeType, error) {
	return s.store.CreateEmployeeType(ctx, companyID, name)
}

func (s *Service) UpdateEmployeeType(ctx context.Context, companyID, id, name string) (EmployeeType, error) {
	if _, err := s.GetEmployeeType(ctx, companyID, id); err != nil {
		return EmployeeType{}, err
	}
	return s.store.UpdateEmployeeType(ctx, id, name)
}

func (s *Service) DeleteEmployeeType(ctx context.Context, companyID, id string) error {
	if _, err := s.GetEmployeeType(ctx, companyID, id); err != nil {
		return err
	}
	return s.store.DeleteEmployeeType(ctx, companyID, id)
}

func (s *Service) ListShifts(ctx context.Context, companyID string) ([]Shift, error) {
	return s.store.ListShifts(ctx, companyID)
}

func (s *Service) GetShift(ctx context.Context, companyID, id string) (Shift, error) {
	sh, err := s.store.GetShift(ctx, id)
	if err != nil {
		return Shift{}, err
	}
	if sh.CompanyID != companyID {
		return Shift{}, ErrCompanyMismatch
	}
	return sh, nil
}

func (s *Service) CreateShift(ctx context.Context, companyID, name, startTime, endTime string) (Shift, error) {
	return s.store.CreateShift(ctx, companyID, name, startTime, endTime)
}

func (s *Service) UpdateShift(ctx context.Context, companyID, id, name, startTime, endTime string) (Shift, error) {
	if _, err := s.GetShift(ctx, companyID, id); err != nil {
		return Shift{}, err
	}
	return s.store.UpdateShift(ctx, id, name, startTime, endTime)
}

func (s *Service) DeleteShift(ctx context.Context, companyID, id string) error {
	if _, err := s.GetShift(ctx, companyID, id); err != nil {
		return err
	}
	return s.store.DeleteShift(ctx, id)
}

func (s *Service) ListLocations(ctx context.Context, companyID string) ([]Location, error) {
	return s.store.ListLocations(ctx, companyID)
}

func (s *Service) GetLocation(ctx context.Context, companyID, id string) (Location, error) {
	l, err := s.store.GetLocation(ctx, id)
	if err != nil {
		return Location{}, err
	}
	if l.CompanyID != companyID {
		return Location{}, ErrCompanyMismatch
	}
	return l, nil
}

func (s *Service) CreateLocation(ctx context.Context, companyID, name, address string) (Location, error) {
	return s.store.CreateLocation(ctx, companyID, name, address)
}

func (s *Service) UpdateLocation(ctx context.Context, companyID, id, name, address string) (Location, error) {
	if _, err := s.GetLocation(ctx, companyID, id); err != nil {
		return Location{}, err
	}
	return s.store.UpdateLocation(ctx, id, name, address)
}

func (s *Service) DeleteLocation(ctx context.Context, companyID, id string) error {
	if _, err := s.GetLocation(ctx, companyID, id); err != nil {
		return err
	}
	return s.store.DeleteLocation(ctx, companyID, id)
}

func (s *Service) ChartTree(ctx context.Context, companyID string) ([]*ChartTreeNode, error) {
	nodes, err := s.store.ListChartNodes(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return BuildChartTree(nodes), nil
}

func (s *Service) ListChartNodes(ctx context.Context, companyID string) ([]ChartNode, error) {
	return s.store.ListChartNodes(ctx, companyID)
}

func (s *Service) GetChartNode(ctx context.Context, companyID, id string) (ChartNode, error) {
	n, err := s.store.GetChartNode(ctx, id)
	if err != nil {
		return ChartNode{}, err
	}
	if n.CompanyID != companyID {
		return ChartNode{}, ErrCompanyMismatch
	}
	return n, nil
}

func (s *Service) CreateChartNode(ctx context.Context, companyID string, n ChartNode) (ChartNode, error) {
	if err := s.checkChartRefs(ctx, companyID, n); err != nil {
		return ChartNode{}, err
	}
	return s.store.CreateChartNode(ctx, companyID, n)
}

func (s *Service) UpdateChartNode(ctx context.Context, companyID, id string, n ChartNode) (ChartNode, error) {
	if _, err := s.GetChartNode(ctx, companyID, id); err != nil {
		return ChartNode{}, err
	}
	if n.ParentID == id {
		return ChartNode{}, fmt.Errorf("%w: a node cannot be its own parent", ErrConflict)
	}
	if err := s.checkChartRefs(ctx, companyID, n); err != nil {
		return ChartNode{}, err
	}
	return s.store.UpdateChartNode(ctx, id, n)
}

func (s *Service) DeleteChartNode(ctx context.Context, companyID, id string) error {
	if _, err := s.GetChartNode(ctx, companyID, id); err != nil {
		return err
	}
	return s.store.DeleteChartNode(ctx, id)
}

func (s *Service) checkDepartmentRef(ctx context.Context, companyID, departmentID string) error {
	d, err := s.store.GetDepartment(ctx, departmentID)
	if err != nil || d.CompanyID != companyID {
		return fmt.Errorf("%w: departmentId", ErrBadReference)
	}
	return nil
}

func (s *Service) checkChartRefs(ctx context.Context, companyID string, n ChartNode) error {
	if n.ParentID != "" {
		parent, err := s.store.GetChartNode(ctx, n.ParentID)
		if err != nil || parent.CompanyID != companyID {
			return fmt.Errorf("%w: parentId", ErrBadReference)
		}
	}
	if n.EmployeeID != "" {
		var count int
		err := s.store.DB.QueryRow(ctx, `
      SELECT COUNT(1) FROM employees WHERE company_id = $1 AND id = $2
    `, companyID, n.EmployeeID).Scan(&count)
		if err != nil || count == 0 {
			return fmt.Errorf("%w: employeeId", ErrBadReference)
		}
	}
	return nil
}
