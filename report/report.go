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

const (
	DefaultTitle     = "League Table"
	DefaultSheetName = "Rankings"
	DefaultXLSXName  = "ranking_table.xlsx"
	DefaultTextName  = "ranking_table.txt"
	DefaultDBName    = "standings.db"
)

var DefaultFooter = []string{
	"Rankings compiled by: TO",
	"Please contact the on-site referee about any data issues",
}

// Layout holds the presentation choices shared by every renderer.
type Layout struct {
	Title     string
	SheetName string
	// Footer lines are printed below the table, in order.
	Footer            []string
	ShowMatchesPlayed bool
}

func DefaultLayout() Layout {
	return Layout{
		Title:     DefaultTitle,
		SheetName: DefaultSheetName,
		Footer:    append([]string(nil), DefaultFooter...),
	}
}

// Section is one ranked table. Flat reports have a single untitled section.
type Section struct {
	Title   string
	Entries []standings.RankedEntry
}

type Report struct {
	Title             string
	SheetName         string
	Columns           []string
	Sections          []Section
	Footer            []string
	ShowMatchesPlayed bool
}

// Renderer writes a report in one output format.
type Renderer interface {
	Render(w io.Writer, r *Report) error
}

func NewFlat(entries []standings.RankedEntry, layout Layout) *Report {
	r := newReport(layout)
	r.Sections = []Section{{Entries: entries}}

	return r
}

func NewGrouped(groups []standings.GroupStanding, layout Layout) *Report {
	r := newReport(layout)
	r.Sections = make([]Section, 0, len(groups))
	for _, g := range groups {
		r.Sections = append(r.Sections, Section{Title: g.Name, Entries: g.Entries})
	}

	return r
}

func newReport(layout Layout) *Report {
	r := &Report{
		Title:             layout.Title,
		SheetName:         layout.SheetName,
		Footer:            layout.Footer,
		ShowMatchesPlayed: layout.ShowMatchesPlayed,
		Columns: []string{"Rank", "School/Team", "Points", "Small Score",
			"Survivor Avg", "Hunter Avg"},
	}
	if r.SheetName == "" {
		r.SheetName = DefaultSheetName
	}
	if r.ShowMatchesPlayed {
		r.Columns = append(r.Columns, "Matches Played")
	}

	return r
}

// Grouped reports whether r has titled sections.
func (r *Report) Grouped() bool {
	for _, s := range r.Sections {
		if s.Title != "" {
			return true
		}
	}
	return false
}

// cells returns e as display strings, one per column of r.
func (r *Report) cells(e standings.RankedEntry) []string {
	ret := []string{
		strconv.Itoa(e.Rank),
		e.Team,
		strconv.Itoa(e.Points),
		strconv.Itoa(e.SmallScore),
		FormatAvg(e.SurvivorAvg),
		FormatAvg(e.HunterAvg),
	}
	if r.ShowMatchesPlayed {
		ret = append(ret, strconv.Itoa(e.MatchesPlayed))
	}

	return ret
}

// FormatAvg prints an average with 3 fraction digits.
func FormatAvg(avg float64) string {
	return fmt.Sprintf("%.3f", avg)
}
