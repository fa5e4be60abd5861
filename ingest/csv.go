/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mikeb26/leaguetable/match"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV decodes every record of r. Records may have differing lengths;
// fields are trimmed and records with only empty fields are dropped.
func ReadCSV(r io.Reader) ([]match.Row, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows []match.Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to parse csv: %w", err)
		}
		if row := cleanRow(rec); row != nil {
			rows = append(rows, row)
		}
	}

	return rows, nil
}

// cleanRow trims each field and returns nil for a blank record. Flags, status
// values and team names are therefore compared without surrounding spaces.
func cleanRow(fields []string) match.Row {
	row := make(match.Row, len(fields))
	blank := true
	for i, f := range fields {
		row[i] = strings.TrimSpace(f)
		if row[i] != "" {
			blank = false
		}
	}
	if blank {
		return nil
	}

	return row
}
