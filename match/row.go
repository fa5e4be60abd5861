/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package match

import (
	"strconv"
	"strings"
)

// Row is one raw input record; fields are addressed by position.
type Row []string

// Positional layout of a match record. The raw score columns only acquire a
// hunter/survivor meaning once the role flag is known.
const (
	FieldTeamB  = 1
	FieldTeamC  = 2
	FieldStatus = 4
	FieldFlag   = 7
	FieldScore1 = 8
	FieldScore2 = 9
	FieldTie1   = 10
	FieldScore3 = 11
	FieldScore4 = 12
	FieldTie2   = 13

	// MinFields is the shortest row the scorer accepts.
	MinFields = FieldTie2 + 1
)

const (
	FlagYes = "Yes"
	FlagNo  = "No"
)

// Field returns the value at idx or "" when the row is too short.
func (r Row) Field(idx int) string {
	if idx < 0 || idx >= len(r) {
		return ""
	}
	return r[idx]
}

// parseScore reads a raw score the lenient way: surrounding whitespace is
// ignored, a trailing non-digit suffix is dropped and anything unparseable
// counts as 0.
func parseScore(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0
	}
	if v, err := strconv.Atoi(s[:end]); err == nil {
		return v
	}

	return 0
}
