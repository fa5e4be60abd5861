/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package standings

import "sort"

// RankedEntry is one line of the league table.
type RankedEntry struct {
	Rank          int
	Team          string
	Points        int
	SmallScore    int
	SurvivorAvg   float64
	HunterAvg     float64
	MatchesPlayed int
}

// Rank orders the teams of agg and assigns competition ranks.
func Rank(agg Aggregate) []RankedEntry {
	entries := make([]RankedEntry, 0, len(agg))
	for team, t := range agg {
		entries = append(entries, RankedEntry{
			Team:          team,
			Points:        t.Points,
			SmallScore:    t.SmallScore,
			SurvivorAvg:   t.SurvivorAvg,
			HunterAvg:     t.HunterAvg,
			MatchesPlayed: t.MatchesPlayed,
		})
	}

	sortAndRank(entries)

	return entries
}

// sortAndRank sorts descending by points, small score, survivor average and
// hunter average, then assigns ranks in place. Equal keys share a rank and
// the next distinct entry takes its 1-based position.
func sortAndRank(entries []RankedEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.SmallScore != b.SmallScore {
			return a.SmallScore > b.SmallScore
		}
		if a.SurvivorAvg != b.SurvivorAvg {
			return a.SurvivorAvg > b.SurvivorAvg
		}
		if a.HunterAvg != b.HunterAvg {
			return a.HunterAvg > b.HunterAvg
		}
		// keeps output stable across runs; not a ranking criterion
		return a.Team < b.Team
	})

	for idx := range entries {
		if idx == 0 {
			entries[idx].Rank = 1
		} else if sameRankKeys(entries[idx], entries[idx-1]) {
			entries[idx].Rank = entries[idx-1].Rank
		} else {
			entries[idx].Rank = idx + 1
		}
	}
}

func sameRankKeys(a, b RankedEntry) bool {
	return a.Points == b.Points &&
		a.SmallScore == b.SmallScore &&
		a.SurvivorAvg == b.SurvivorAvg &&
		a.HunterAvg == b.HunterAvg
}
