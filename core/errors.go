package core

import (
	"fmt"

	"github.com/go-faster/errors"
)

var (
	ErrConfig = errors.New("invalid configuration")
	ErrShape  = errors.New("shape mismatch")
	ErrOracle = errors.New("measurement oracle failure")
)

// ConfigError reports an invalid run parameter (N, K, n, ensemble, ...).
// It is raised before any sampling happens.
type ConfigError struct {
	Field  string
	Reason string
}

func NewConfigError(field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{
		Field:  field,
		Reason: fmt.Sprintf(format, args...),
	}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// ShapeError reports an outcome, unitary or basis assignment whose dimensions
// do not match the qubit count. It is never coerced.
type ShapeError struct {
	What   string
	Reason string
}

func NewShapeError(what, format string, args ...interface{}) *ShapeError {
	return &ShapeError{
		What:   what,
		Reason: fmt.Sprintf(format, args...),
	}
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("shape mismatch in %s: %s", e.What, e.Reason)
}

func (e *ShapeError) Is(target error) bool {
	return target == ErrShape
}

// OracleFailure wraps an error returned by the measurement oracle for one
// shot. The run that produced it is invalid; nothing retries it.
type OracleFailure struct {
	Shot int
	Err  error
}

func NewOracleFailure(shot int, err error) *OracleFailure {
	return &OracleFailure{Shot: shot, Err: err}
}

func (e *OracleFailure) Error() string {
	return fmt.Sprintf("oracle failed at shot %d: %s", e.Shot, e.Err)
}

func (e *OracleFailure) Unwrap() error {
	return e.Err
}

func (e *OracleFailure) Is(target error) bool {
	return target == ErrOracle
}
