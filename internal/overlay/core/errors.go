package core

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownMode     = errors.New("unknown filter mode")
	ErrNoActiveMode    = errors.New("no filter mode switched on")
	ErrCellOutOfRange  = errors.New("cell index out of range")
	ErrTablesLoad      = errors.New("lookup tables could not be loaded")
	ErrNoCellProvider  = errors.New("no cell provider")
	ErrInvalidSettings = errors.New("invalid overlay settings")
)

// CellError records which cell and operation an error came from.
type CellError struct {
	Cell      int
	Operation string
	Err       error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("cell %d %s: %v", e.Cell, e.Operation, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}

// WrapCellError attaches cell context to err. A nil err stays nil.
func WrapCellError(cell int, operation string, err error) error {
	if err == nil {
		return nil
	}
	return &CellError{Cell: cell, Operation: operation, Err: err}
}

// WrapModeError attaches the mode that was being processed.
func WrapModeError(mode FilterMode, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("mode %s %s: %w", mode, operation, err)
}
