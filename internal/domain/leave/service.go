package leave

import (
	"context"
	"errors"
	"fmt"

	"staffhub/internal/domain/employee"
)

var ErrValidation = errors.New("validation failed")

type Service struct {
	store     *Store
	employees *employee.Service
}

func NewService(store *Store, employees *employee.Service) *Service {
	return &Service{store: store, employees: employees}
}

func (s *Service) ListTypes(ctx context.Context, companyID string) ([]LeaveType, error) {
	return s.store.ListTypes(ctx, companyID)
}

func (s *Service) GetType(ctx context.Context, companyID, id string) (LeaveType, error) {
	t, err := s.store.GetType(ctx, id)
	if err != nil {
		return LeaveType{}, err
	}
	if t.CompanyID != companyID {
		return LeaveType{}, ErrCompanyMismatch
	}
	return t, nil
}

func (s *Service) CreateType(ctx context.Context, companyID, name string, allowedDays int) (LeaveType, error) {
	return s.store.CreateType(ctx, companyID, name, allowedDays)
}

func (s *Service) UpdateType(ctx context.Context, companyID, id, name string, allowedDays int) (LeaveType, error) {
	if _, err := s.GetType(ctx, companyID, id); err != nil {
		return LeaveType{}, err
	}
	return s.store.UpdateType(ctx, id, name, allowedDays)
}

func (s *Service) DeleteType(ctx context.Context, companyID, id string) error {
	if _, err := s.GetType(ctx, companyID, id); err != nil {
		return err
	}
	return s.store.DeleteType(ctx, id)
}

func (s *Service) ListRequests(ctx context.Context, companyID, status, employeeID string) ([]Request, error) {
	return s.store.ListRequests(ctx, companyID, status, employeeID)
}

func (s *Service) GetRequest(ctx context.Context, companyID, id string) (Request, error) {
	req, err := s.store.GetRequest(ctx, id)
	if err != nil {
		return Request{}, err
	}
	if req.CompanyID != companyID {
		return Request{}, ErrCompanyMismatch
	}
	return req, nil
}

// CreateRequest validates both references and the requested duration against
// the leave type allowance before persisting. New requests always enter at
// pending.
func (s *Service) CreateRequest(ctx context.Context, companyID string, req Request) (Request, error) {
	ok, err := s.employees.Exists(ctx, companyID, req.EmployeeID)
	if err != nil {
		return Request{}, err
	}
	if !ok {
		return Request{}, fmt.Errorf("%w: employeeId", ErrBadReference)
	}

	leaveType, err := s.GetType(ctx, companyID, req.LeaveTypeID)
	if err != nil {
		return Request{}, fmt.Errorf("%w: leaveTypeId", ErrBadReference)
	}

	if _, err := ValidateDuration(req.StartDate, req.EndDate, leaveType.AllowedDays); err != nil {
		return Request{}, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	req.Status = StatusPending
	return s.store.CreateRequest(ctx, companyID, req)
}

// SetStatus performs the pending -> approved/rejected transition and stamps
// the acting user as approver. Terminal states never move again.
func (s *Service) SetStatus(ctx context.Context, companyID, id, to, approverID string) (Request, error) {
	req, err := s.GetRequest(ctx, companyID, id)
	if err != nil {
		return Request{}, err
	}
	if !CanTransition(req.Status, to) {
		return Request{}, fmt.Errorf("%w: cannot move %s to %s", ErrInvalidStatus, req.Status, to)
	}
	return s.store.UpdateRequestStatus(ctx, id, to, approverID)
}

func (s *Service) DeleteRequest(ctx context.Context, companyID, id string) error {
	if _, err := s.GetRequest(ctx, companyID, id); err != nil {
		return err
	}
	return s.store.DeleteRequest(ctx, id)
}
