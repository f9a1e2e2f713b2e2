package employee

import "errors"

var (
	ErrNotFound        = errors.New("employee not found")
	ErrCompanyMismatch = errors.New("employee belongs to another company")
	ErrConflict        = errors.New("conflict")
	ErrBadReference    = errors.New("invalid reference")
)
