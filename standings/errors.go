/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package standings

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when no row survives filtering and scoring.
var ErrEmptyInput = errors.New("no usable match rows")

// EmptyInputError carries the per-row problems that left the input empty.
type EmptyInputError struct {
	RowErrors []RowError
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%v (%d rows rejected)", ErrEmptyInput, len(e.RowErrors))
}

func (e *EmptyInputError) Unwrap() error {
	return ErrEmptyInput
}

// InvalidDateError reports an unparseable date field while a date window is
// active.
type InvalidDateError struct {
	Value string
	Err   error
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("unparseable match date %q: %v", e.Value, e.Err)
}

func (e *InvalidDateError) Unwrap() error {
	return e.Err
}

// RowError ties a skipped row to its 1-based position in the folded input.
type RowError struct {
	Row   int
	TeamB string
	TeamC string
	Err   error
}

func (e RowError) Error() string {
	if e.TeamB == "" && e.TeamC == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d (%v vs %v): %v", e.Row, e.TeamB, e.TeamC, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}
