/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package standings

import (
	"math/big"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/sirupsen/logrus"

	"github.com/mikeb26/leaguetable/match"
)

// PointsPerWin is awarded to the winner of each decided match.
const PointsPerWin = 3

// TeamAggregate holds one team's running totals.
type TeamAggregate struct {
	Points        int
	SmallScore    int
	SurvivorTotal int
	HunterTotal   int
	Appearances   int
	MatchesPlayed int

	// computed once the fold completes
	SurvivorAvg float64
	HunterAvg   float64
}

// Aggregate maps team name to its totals.
type Aggregate map[string]*TeamAggregate

// Filter decides which rows count toward the table.
type Filter struct {
	// MinFields below match.MinFields is raised to match.MinFields.
	MinFields int

	StatusField int
	// ConcludedStatus is the status value of a finished match. Empty
	// disables the status check.
	ConcludedStatus string

	// DateField is only read when Since or Until is set.
	DateField int
	Since     time.Time
	Until     time.Time
}

// DefaultFilter keeps every row with a readable layout and a "Finished"
// status.
func DefaultFilter() Filter {
	return Filter{
		MinFields:       match.MinFields,
		StatusField:     match.FieldStatus,
		ConcludedStatus: "Finished",
	}
}

func (f Filter) minFields() int {
	want := f.MinFields
	if want < match.MinFields {
		want = match.MinFields
	}
	if f.ConcludedStatus != "" && f.StatusField >= want {
		want = f.StatusField + 1
	}
	if f.hasWindow() && f.DateField >= want {
		want = f.DateField + 1
	}
	return want
}

func (f Filter) hasWindow() bool {
	return !f.Since.IsZero() || !f.Until.IsZero()
}

// Aggregator folds match rows into an Aggregate.
type Aggregator struct {
	Scorer match.Scorer
	Filter Filter

	log logrus.FieldLogger
}

func NewAggregator(scorer match.Scorer, filter Filter,
	logger logrus.FieldLogger) *Aggregator {

	if logger == nil {
		nl := logrus.New()
		nl.SetLevel(logrus.PanicLevel)
		logger = nl
	}

	return &Aggregator{
		Scorer: scorer,
		Filter: filter,
		log:    logger,
	}
}

// ScoredMatch is a retained row and its result. Row is the 1-based position
// of the row in the input.
type ScoredMatch struct {
	Row    int
	Result match.Result
}

// Fold scores every retained row and accumulates per-team totals. Rows that
// cannot be used are logged, reported in the returned slice and otherwise
// ignored. The returned Aggregate belongs to the caller.
func (a *Aggregator) Fold(rows []match.Row) (Aggregate, []RowError) {
	agg := make(Aggregate)
	matches, rowErrs := a.Matches(rows)
	for _, m := range matches {
		res := m.Result
		agg.add(res.TeamB, res.SmallB, res.SurvivorB, res.HunterB,
			res.Winner == match.WinnerB)
		agg.add(res.TeamC, res.SmallC, res.SurvivorC, res.HunterC,
			res.Winner == match.WinnerC)
	}

	agg.finalize()

	return agg, rowErrs
}

// Matches applies the filter and scores every retained row, in input order.
func (a *Aggregator) Matches(rows []match.Row) ([]ScoredMatch, []RowError) {
	var matches []ScoredMatch
	var rowErrs []RowError
	minFields := a.Filter.minFields()

	for idx, row := range rows {
		rowNum := idx + 1
		if len(row) < minFields {
			rowErrs = a.reject(rowErrs, rowNum, row,
				&match.StructuralRowError{Fields: len(row), Want: minFields})
			continue
		}
		if a.Filter.ConcludedStatus != "" &&
			strings.TrimSpace(row[a.Filter.StatusField]) != a.Filter.ConcludedStatus {

			a.log.WithFields(logrus.Fields{
				"row":    rowNum,
				"status": row[a.Filter.StatusField],
			}).Debug("standings.fold: skipping unfinished match")
			continue
		}
		if a.Filter.hasWindow() {
			inWindow, err := a.Filter.inWindow(row[a.Filter.DateField])
			if err != nil {
				rowErrs = a.reject(rowErrs, rowNum, row, err)
				continue
			}
			if !inWindow {
				a.log.WithFields(logrus.Fields{
					"row":  rowNum,
					"date": row[a.Filter.DateField],
				}).Debug("standings.fold: skipping match outside date window")
				continue
			}
		}

		res, err := a.Scorer.Score(row)
		if err != nil {
			rowErrs = a.reject(rowErrs, rowNum, row, err)
			continue
		}
		matches = append(matches, ScoredMatch{Row: rowNum, Result: res})
	}

	return matches, rowErrs
}

func (a *Aggregator) reject(rowErrs []RowError, rowNum int, row match.Row,
	err error) []RowError {

	rowErr := RowError{
		Row:   rowNum,
		TeamB: row.Field(match.FieldTeamB),
		TeamC: row.Field(match.FieldTeamC),
		Err:   err,
	}
	a.log.WithFields(logrus.Fields{
		"row":    rowNum,
		"team_b": rowErr.TeamB,
		"team_c": rowErr.TeamC,
	}).WithError(err).Warn("standings.fold: skipping row")

	return append(rowErrs, rowErr)
}

func (f Filter) inWindow(raw string) (bool, error) {
	when, err := dateparse.ParseAny(strings.TrimSpace(raw))
	if err != nil {
		return false, &InvalidDateError{Value: raw, Err: err}
	}
	if !f.Since.IsZero() && when.Before(f.Since) {
		return false, nil
	}
	if !f.Until.IsZero() && when.After(f.Until) {
		return false, nil
	}

	return true, nil
}

func (agg Aggregate) add(team string, small, survivor, hunter int, won bool) {
	t, ok := agg[team]
	if !ok {
		t = &TeamAggregate{}
		agg[team] = t
	}

	t.Appearances++
	t.MatchesPlayed++
	t.SmallScore += small
	t.SurvivorTotal += survivor
	t.HunterTotal += hunter
	if won {
		t.Points += PointsPerWin
	}
}

func (agg Aggregate) finalize() {
	for _, t := range agg {
		if t.Appearances == 0 {
			t.SurvivorAvg = 0
			t.HunterAvg = 0
			continue
		}
		t.SurvivorAvg = roundAvg(float64(t.SurvivorTotal) / float64(t.Appearances))
		t.HunterAvg = roundAvg(float64(t.HunterTotal) / float64(t.Appearances))
	}
}

// roundAvg keeps 3 fraction digits. It rounds the exact binary value of v
// and breaks exact ties upward, so 3/80 gives 0.037 and 1/16 gives 0.063.
func roundAvg(v float64) float64 {
	q := new(big.Rat).SetFloat64(v)
	if q == nil {
		return v
	}
	q.Mul(q, big.NewRat(1000, 1))
	q.Add(q, big.NewRat(1, 2))
	n := new(big.Int).Div(q.Num(), q.Denom())
	r, _ := new(big.Rat).SetFrac(n, big.NewInt(1000)).Float64()
	return r
}
