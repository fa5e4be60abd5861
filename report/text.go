/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// TextRenderer writes one plain text table per section with the section title
// above it and the footer lines after the last table.
type TextRenderer struct {
	// NoFooter omits the footer lines, e.g. for chat output.
	NoFooter bool
}

func (tr TextRenderer) Render(w io.Writer, r *Report) error {
	if r.Title != "" {
		fmt.Fprintf(w, "%v\n\n", r.Title)
	}

	for idx, sec := range r.Sections {
		if idx > 0 {
			fmt.Fprintln(w)
		}
		if sec.Title != "" {
			fmt.Fprintf(w, "%v\n", sec.Title)
		}

		table := NewTable(w)
		table.Header(r.Columns)
		for _, e := range sec.Entries {
			if err := table.Append(r.cells(e)); err != nil {
				return fmt.Errorf("unable to add %v: %w", e.Team, err)
			}
		}
		if err := table.Render(); err != nil {
			return fmt.Errorf("unable to render table: %w", err)
		}
	}

	if !tr.NoFooter && len(r.Footer) > 0 {
		fmt.Fprintln(w)
		for _, line := range r.Footer {
			fmt.Fprintln(w, line)
		}
	}

	return nil
}

// NewTable returns a table writer with the project's default look.
func NewTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w)
}
