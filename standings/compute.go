/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package standings

import (
	"github.com/sirupsen/logrus"

	"github.com/mikeb26/leaguetable/match"
)

type Options struct {
	Scorer match.Scorer
	Filter Filter
	// Groups, when non-empty, also produces per-group tables.
	Groups []Group
}

// Standings is the outcome of one Compute run.
type Standings struct {
	Entries   []RankedEntry
	Groups    []GroupStanding
	RowErrors []RowError
}

// Compute runs the whole fold, rank and group pipeline over rows. Row level
// problems do not fail the run; they are returned in Standings.RowErrors.
// When nothing usable remains the error is an *EmptyInputError.
func Compute(rows []match.Row, opts Options,
	logger logrus.FieldLogger) (*Standings, error) {

	agg, rowErrs := NewAggregator(opts.Scorer, opts.Filter, logger).Fold(rows)
	if len(agg) == 0 {
		return nil, &EmptyInputError{RowErrors: rowErrs}
	}

	st := &Standings{
		Entries:   Rank(agg),
		RowErrors: rowErrs,
	}
	if len(opts.Groups) > 0 {
		st.Groups = RankGroups(st.Entries, opts.Groups)
	}

	return st, nil
}
