package org

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrCompanyMismatch = errors.New("resource belongs to another company")
	ErrConflict        = errors.New("conflict")
	ErrBadReference    = errors.New("invalid reference")
)
