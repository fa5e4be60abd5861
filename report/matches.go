/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/mikeb26/leaguetable/standings"
)

// WriteMatches prints one table line per scored match.
func WriteMatches(w io.Writer, matches []standings.ScoredMatch) error {
	table := NewTable(w)
	table.Header([]string{"Row", "Team B", "Team C", "Flag", "B Hunter",
		"B Survivor", "C Hunter", "C Survivor", "B", "C", "Winner"})

	for _, m := range matches {
		res := m.Result
		winner := "-"
		if s := res.Winner.String(); s != "" {
			winner = s
		}
		err := table.Append([]string{
			strconv.Itoa(m.Row),
			res.TeamB,
			res.TeamC,
			res.Flag,
			strconv.Itoa(res.HunterB),
			strconv.Itoa(res.SurvivorB),
			strconv.Itoa(res.HunterC),
			strconv.Itoa(res.SurvivorC),
			strconv.Itoa(res.SmallB),
			strconv.Itoa(res.SmallC),
			winner,
		})
		if err != nil {
			return fmt.Errorf("unable to add row %v: %w", m.Row, err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("unable to render matches: %w", err)
	}

	return nil
}
