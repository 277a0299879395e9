package main

import (
	"errors"

	"github.com/gcdevops/geds-sync/modules/directory/services"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitValidation = 2
	exitUsage      = 3
	exitFetch      = 4
	exitDB         = 5
	exitIndex      = 6
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if ok := errors.As(err, &ce); ok {
		return ce.code
	}
	return 1
}

// syncExitCode classifies an error coming out of the sync pipeline.
func syncExitCode(err error) int {
	switch {
	case errors.Is(err, services.ErrStoreFailed):
		return exitDB
	case errors.Is(err, services.ErrIndexFailed):
		return exitIndex
	case errors.Is(err, services.ErrDatasetEmpty),
		errors.Is(err, services.ErrMissingColumn),
		errors.Is(err, services.ErrDepartmentNotFound):
		return exitValidation
	default:
		return exitFetch
	}
}
