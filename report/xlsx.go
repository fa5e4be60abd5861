/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mikeb26/leaguetable/standings"
)

const (
	avgNumFmt   = "0.000"
	footerColor = "FF0000"
)

// XLSXRenderer writes the report as a single-sheet workbook. Each section
// gets a header row; grouped sections are preceded by a merged bold title row
// and separated by a blank row. Footer lines are merged across all columns.
type XLSXRenderer struct{}

type xlsxStyles struct {
	title   int
	avg     int
	footer1 int
	footer2 int
}

func (XLSXRenderer) Render(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := r.SheetName
	if sheet == "" {
		sheet = DefaultSheetName
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("unable to name sheet %v: %w", sheet, err)
	}
	if r.Title != "" {
		err := f.SetDocProps(&excelize.DocProperties{Title: r.Title})
		if err != nil {
			return fmt.Errorf("unable to set workbook title: %w", err)
		}
	}

	styles, err := newXLSXStyles(f)
	if err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(len(r.Columns))
	if err != nil {
		return fmt.Errorf("unable to compute last column: %w", err)
	}

	rowNum := 1
	grouped := r.Grouped()
	for idx, sec := range r.Sections {
		if idx > 0 {
			// blank separator row
			rowNum++
		}
		if grouped {
			err = writeMergedRow(f, sheet, rowNum, lastCol, sec.Title, styles.title)
			if err != nil {
				return err
			}
			rowNum++
		}
		if err := writeRow(f, sheet, rowNum, toAny(r.Columns)); err != nil {
			return err
		}
		rowNum++

		if len(sec.Entries) > 0 {
			first := rowNum
			for _, e := range sec.Entries {
				if err := writeRow(f, sheet, rowNum, r.values(e)); err != nil {
					return err
				}
				rowNum++
			}
			// averages live in columns E and F
			err = f.SetCellStyle(sheet, fmt.Sprintf("E%v", first),
				fmt.Sprintf("F%v", rowNum-1), styles.avg)
			if err != nil {
				return fmt.Errorf("unable to style averages: %w", err)
			}
		}
	}

	for idx, line := range r.Footer {
		style := styles.footer2
		if idx == 0 {
			style = styles.footer1
		}
		if err := writeMergedRow(f, sheet, rowNum, lastCol, line, style); err != nil {
			return err
		}
		rowNum++
	}

	if err := f.SetColWidth(sheet, "B", "B", 28); err != nil {
		return fmt.Errorf("unable to size team column: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("unable to write workbook: %w", err)
	}

	return nil
}

func newXLSXStyles(f *excelize.File) (xlsxStyles, error) {
	var ret xlsxStyles
	var err error
	numFmt := avgNumFmt
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	ret.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return ret, fmt.Errorf("unable to create title style: %w", err)
	}
	ret.avg, err = f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return ret, fmt.Errorf("unable to create average style: %w", err)
	}
	ret.footer1, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: center,
	})
	if err != nil {
		return ret, fmt.Errorf("unable to create footer style: %w", err)
	}
	ret.footer2, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Color: footerColor},
		Alignment: center,
	})
	if err != nil {
		return ret, fmt.Errorf("unable to create footer style: %w", err)
	}

	return ret, nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, vals []any) error {
	cell := fmt.Sprintf("A%v", rowNum)
	if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
		return fmt.Errorf("unable to write row %v: %w", rowNum, err)
	}

	return nil
}

func writeMergedRow(f *excelize.File, sheet string, rowNum int, lastCol string,
	text string, style int) error {

	first := fmt.Sprintf("A%v", rowNum)
	last := fmt.Sprintf("%v%v", lastCol, rowNum)
	if err := f.SetCellValue(sheet, first, text); err != nil {
		return fmt.Errorf("unable to write row %v: %w", rowNum, err)
	}
	if err := f.MergeCell(sheet, first, last); err != nil {
		return fmt.Errorf("unable to merge %v:%v: %w", first, last, err)
	}
	if err := f.SetCellStyle(sheet, first, last, style); err != nil {
		return fmt.Errorf("unable to style %v:%v: %w", first, last, err)
	}

	return nil
}

// values returns e as typed cell values so numbers stay numeric in the sheet.
func (r *Report) values(e standings.RankedEntry) []any {
	ret := []any{e.Rank, e.Team, e.Points, e.SmallScore, e.SurvivorAvg,
		e.HunterAvg}
	if r.ShowMatchesPlayed {
		ret = append(ret, e.MatchesPlayed)
	}

	return ret
}

func toAny(ss []string) []any {
	ret := make([]any, len(ss))
	for i, s := range ss {
		ret[i] = s
	}
	return ret
}
