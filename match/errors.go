/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package match

import "fmt"

// StructuralRowError reports a row with too few fields to be scored.
type StructuralRowError struct {
	Fields int
	Want   int
}

func (e *StructuralRowError) Error() string {
	return fmt.Sprintf("row has %d fields; need at least %d", e.Fields, e.Want)
}

// InvalidFlagError reports a role flag that is neither "Yes" nor "No".
type InvalidFlagError struct {
	Value string
}

func (e *InvalidFlagError) Error() string {
	return fmt.Sprintf("role flag %q is neither %q nor %q", e.Value, FlagYes,
		FlagNo)
}
