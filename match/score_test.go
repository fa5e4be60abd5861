/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package match

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeRow builds a 16 field row with scores in fields 8 through 13.
func makeRow(teamB, teamC, flag string, scores ...int) Row {
	row := make(Row, 16)
	row[0] = "2025/05/01 19:00:00"
	row[FieldTeamB] = teamB
	row[FieldTeamC] = teamC
	row[FieldStatus] = "Finished"
	row[FieldFlag] = flag
	for i, s := range scores {
		row[FieldScore1+i] = strconv.Itoa(s)
	}
	return row
}

func TestScoreRoleAssignment(t *testing.T) {
	cases := []struct {
		name      string
		flag      string
		scores    []int
		hunterB   int
		survivorB int
		hunterC   int
		survivorC int
	}{
		{
			name:   "yes",
			flag:   FlagYes,
			scores: []int{5, 3, 1, 2, 4, 6},
			// hunterB=f8 survivorB=f11 hunterC=f12 survivorC=f9
			hunterB: 5, survivorB: 2, hunterC: 4, survivorC: 3,
		},
		{
			name:   "no",
			flag:   FlagNo,
			scores: []int{5, 3, 1, 2, 4, 6},
			// hunterB=f11 survivorB=f8 hunterC=f9 survivorC=f12
			hunterB: 2, survivorB: 5, hunterC: 3, survivorC: 4,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res, err := Scorer{}.Score(makeRow("Alpha", "Beta", c.flag, c.scores...))
			require.NoError(t, err)
			assert.Equal(t, "Alpha", res.TeamB)
			assert.Equal(t, "Beta", res.TeamC)
			assert.Equal(t, c.hunterB, res.HunterB)
			assert.Equal(t, c.survivorB, res.SurvivorB)
			assert.Equal(t, c.hunterC, res.HunterC)
			assert.Equal(t, c.survivorC, res.SurvivorC)
			assert.Equal(t, c.hunterB+c.survivorB, res.SmallB)
			assert.Equal(t, c.hunterC+c.survivorC, res.SmallC)
		})
	}
}

func TestScoreOutrightWinner(t *testing.T) {
	res, err := Scorer{}.Score(makeRow("Alpha", "Beta", FlagYes, 5, 1, 0, 4, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, 9, res.SmallB)
	assert.Equal(t, 2, res.SmallC)
	assert.Equal(t, WinnerB, res.Winner)

	res, err = Scorer{}.Score(makeRow("Alpha", "Beta", FlagYes, 0, 4, 0, 1, 5, 0))
	require.NoError(t, err)
	assert.Equal(t, WinnerC, res.Winner)
}

// Equal small scores (3+2 against 2+3) leave the winner to the tie break.
func TestScoreTieBreakTable(t *testing.T) {
	cases := []struct {
		flag     string
		keyIs5   bool
		tie1Less bool
		want     Winner
	}{
		{FlagYes, true, true, WinnerB},
		{FlagYes, true, false, WinnerC},
		{FlagYes, false, true, WinnerC},
		{FlagYes, false, false, WinnerB},
		{FlagNo, true, true, WinnerC},
		{FlagNo, true, false, WinnerB},
		{FlagNo, false, true, WinnerB},
		{FlagNo, false, false, WinnerC},
	}
	for _, c := range cases {
		name := c.flag + "/key5=" + strconv.FormatBool(c.keyIs5) +
			"/less=" + strconv.FormatBool(c.tie1Less)
		t.Run(name, func(t *testing.T) {
			key := 4
			if c.keyIs5 {
				key = 5
			}
			tie1, tie2 := 9, 2
			if c.tie1Less {
				tie1, tie2 = 2, 9
			}
			// f8=key f9=key f11=key f12=key keeps both small scores at 2*key
			row := makeRow("Alpha", "Beta", c.flag, key, key, tie1, key, key, tie2)
			for _, tb := range []TieBreakKey{TieBreakFixed, TieBreakByRole} {
				res, err := Scorer{TieBreak: tb}.Score(row)
				require.NoError(t, err)
				require.Equal(t, res.SmallB, res.SmallC)
				assert.Equal(t, c.want, res.Winner, "tie-break key %v", tb)
			}
		})
	}
}

func TestScoreTieBreakUnresolved(t *testing.T) {
	res, err := Scorer{}.Score(makeRow("Alpha", "Beta", FlagYes, 5, 5, 3, 5, 5, 3))
	require.NoError(t, err)
	assert.Equal(t, WinnerNone, res.Winner)
	assert.Equal(t, "", res.Winner.String())
}

func TestScoreSpecExample(t *testing.T) {
	res, err := Scorer{}.Score(makeRow("Alpha", "Beta", FlagYes, 5, 3, 1, 2, 4, 6))
	require.NoError(t, err)
	assert.Equal(t, 7, res.SmallB)
	assert.Equal(t, 7, res.SmallC)
	assert.Equal(t, WinnerB, res.Winner)
}

// With flag "No" the fixed key reads f8 while the role key reads f9; the
// two variants disagree when only one of them is 5.
func TestScoreTieBreakKeyVariants(t *testing.T) {
	// f8=5 f9=4 f10=1 f11=4 f12=5 f13=6: B = 4+5, C = 4+5
	row := makeRow("Alpha", "Beta", FlagNo, 5, 4, 1, 4, 5, 6)

	fixed, err := Scorer{TieBreak: TieBreakFixed}.Score(row)
	require.NoError(t, err)
	require.Equal(t, fixed.SmallB, fixed.SmallC)
	assert.Equal(t, WinnerC, fixed.Winner)

	byRole, err := Scorer{TieBreak: TieBreakByRole}.Score(row)
	require.NoError(t, err)
	assert.Equal(t, WinnerB, byRole.Winner)

	// flag "Yes" reads f8 under both variants
	row[FieldFlag] = FlagYes
	fixed, err = Scorer{TieBreak: TieBreakFixed}.Score(row)
	require.NoError(t, err)
	byRole, err = Scorer{TieBreak: TieBreakByRole}.Score(row)
	require.NoError(t, err)
	assert.Equal(t, fixed.Winner, byRole.Winner)
}

func TestScoreInvalidFlag(t *testing.T) {
	for _, flag := range []string{"", "yes", "Maybe", " No"} {
		_, err := Scorer{}.Score(makeRow("Alpha", "Beta", flag, 1, 1, 1, 1, 1, 1))
		var flagErr *InvalidFlagError
		require.True(t, errors.As(err, &flagErr), "flag %q", flag)
		assert.Equal(t, flag, flagErr.Value)
		assert.Contains(t, err.Error(), strconv.Quote(flag))
	}
}

func TestScoreShortRow(t *testing.T) {
	_, err := Scorer{}.Score(Row{"a", "b", "c"})
	var structErr *StructuralRowError
	require.True(t, errors.As(err, &structErr))
	assert.Equal(t, 3, structErr.Fields)
	assert.Equal(t, MinFields, structErr.Want)
}

func TestScoreDoesNotModifyRow(t *testing.T) {
	row := makeRow("Alpha", "Beta", FlagYes, 5, 3, 1, 2, 4, 6)
	orig := append(Row(nil), row...)
	_, err := Scorer{}.Score(row)
	require.NoError(t, err)
	assert.Equal(t, orig, row)
}

func TestParseScore(t *testing.T) {
	cases := map[string]int{
		"":      0,
		"7":     7,
		" 12 ":  12,
		"-3":    -3,
		"+4":    4,
		"5.9":   5,
		"8pts":  8,
		"abc":   0,
		"-":     0,
		"N/A":   0,
		"00042": 42,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseScore(in), "parseScore(%q)", in)
	}
}

func TestParseTieBreakKey(t *testing.T) {
	k, err := ParseTieBreakKey("")
	require.NoError(t, err)
	assert.Equal(t, TieBreakFixed, k)

	k, err = ParseTieBreakKey(" Role ")
	require.NoError(t, err)
	assert.Equal(t, TieBreakByRole, k)
	assert.Equal(t, "role", k.String())

	_, err = ParseTieBreakKey("field9")
	assert.Error(t, err)
}
