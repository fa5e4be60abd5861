/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package match

import (
	"fmt"
	"strings"
)

type Winner int

const (
	WinnerNone Winner = iota
	WinnerB
	WinnerC
)

func (w Winner) String() string {
	if w == WinnerB {
		return "B"
	} else if w == WinnerC {
		return "C"
	} else {
		return ""
	}
}

// TieBreakKey selects which raw column is checked against tieBreakKeyValue
// when both sides finish on the same small score.
type TieBreakKey int

const (
	// TieBreakFixed always reads FieldScore1.
	TieBreakFixed TieBreakKey = iota
	// TieBreakByRole reads FieldScore1 when the flag is "Yes" and
	// FieldScore2 when it is "No".
	TieBreakByRole
)

const tieBreakKeyValue = 5

func (k TieBreakKey) String() string {
	if k == TieBreakFixed {
		return "fixed"
	} else if k == TieBreakByRole {
		return "role"
	} else {
		return "?"
	}
}

// ParseTieBreakKey maps a configuration value onto a TieBreakKey. The empty
// string selects TieBreakFixed.
func ParseTieBreakKey(s string) (TieBreakKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fixed":
		return TieBreakFixed, nil
	case "role":
		return TieBreakByRole, nil
	}

	return TieBreakFixed, fmt.Errorf("unknown tie-break key %q (want fixed or role)",
		s)
}

// Result is the scored outcome of one match row.
type Result struct {
	TeamB     string
	TeamC     string
	Flag      string
	HunterB   int
	SurvivorB int
	HunterC   int
	SurvivorC int
	SmallB    int
	SmallC    int
	Winner    Winner
}

// Scorer turns raw rows into match results.
type Scorer struct {
	TieBreak TieBreakKey
}

// Score computes per-side scores and the winner for row. The row is never
// modified.
func (s Scorer) Score(row Row) (Result, error) {
	if len(row) < MinFields {
		return Result{}, &StructuralRowError{Fields: len(row), Want: MinFields}
	}

	score1 := parseScore(row[FieldScore1])
	score2 := parseScore(row[FieldScore2])
	score3 := parseScore(row[FieldScore3])
	score4 := parseScore(row[FieldScore4])
	tie1 := parseScore(row[FieldTie1])
	tie2 := parseScore(row[FieldTie2])

	res := Result{
		TeamB: row[FieldTeamB],
		TeamC: row[FieldTeamC],
		Flag:  row[FieldFlag],
	}

	switch res.Flag {
	case FlagYes:
		res.HunterB = score1
		res.SurvivorB = score3
		res.HunterC = score4
		res.SurvivorC = score2
	case FlagNo:
		res.HunterB = score3
		res.SurvivorB = score1
		res.HunterC = score2
		res.SurvivorC = score4
	default:
		return Result{}, &InvalidFlagError{Value: res.Flag}
	}

	res.SmallB = res.HunterB + res.SurvivorB
	res.SmallC = res.HunterC + res.SurvivorC

	if res.SmallB > res.SmallC {
		res.Winner = WinnerB
	} else if res.SmallC > res.SmallB {
		res.Winner = WinnerC
	} else {
		key := score1
		if s.TieBreak == TieBreakByRole && res.Flag == FlagNo {
			key = score2
		}
		res.Winner = breakTie(res.Flag, key == tieBreakKeyValue, tie1, tie2)
	}

	return res, nil
}

// breakTie settles equal small scores. With flag "Yes" and the key column
// at tieBreakKeyValue the side with the lower FieldTie1 value is B; each of
// a "No" flag and a key mismatch flips the outcome once.
func breakTie(flag string, keyMatches bool, tie1, tie2 int) Winner {
	if tie1 == tie2 {
		return WinnerNone
	}

	favorB := tie1 < tie2
	if !keyMatches {
		favorB = !favorB
	}
	if flag == FlagNo {
		favorB = !favorB
	}

	if favorB {
		return WinnerB
	}
	return WinnerC
}
