/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ingest

import (
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"

	"github.com/mikeb26/leaguetable/match"
)

const DefaultHTMLSelector = "table"

// ReadHTML extracts the rows of the first table matching selector, e.g. a
// published results sheet. Header cells (th) count as fields.
func ReadHTML(r io.Reader, selector string) ([]match.Row, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse html: %w", err)
	}
	if selector == "" {
		selector = DefaultHTMLSelector
	}

	table := doc.Find(selector).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no table matching %q", selector)
	}

	var rows []match.Row
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		// skip rows belonging to a nested table
		if tr.Closest("table").Get(0) != table.Get(0) {
			return
		}
		cells := tr.ChildrenFiltered("th, td")
		if cells.Length() == 0 {
			return
		}
		fields := make([]string, 0, cells.Length())
		cells.Each(func(_ int, cell *goquery.Selection) {
			fields = append(fields, cell.Text())
		})
		if row := cleanRow(fields); row != nil {
			rows = append(rows, row)
		}
	})

	return rows, nil
}
