/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package standings

// Group is a named, caller supplied subset of teams.
type Group struct {
	Name  string   `mapstructure:"name" json:"name"`
	Teams []string `mapstructure:"teams" json:"teams"`
}

// GroupStanding is a group's table, ranked within the group.
type GroupStanding struct {
	Name    string
	Entries []RankedEntry
}

// RankGroups partitions ranked into groups, re-ranking inside each group.
// Members missing from ranked get a zero-valued entry so every configured
// team is listed. Groups keep the order they were supplied in.
func RankGroups(ranked []RankedEntry, groups []Group) []GroupStanding {
	byTeam := make(map[string]RankedEntry, len(ranked))
	for _, e := range ranked {
		byTeam[e.Team] = e
	}

	ret := make([]GroupStanding, 0, len(groups))
	for _, g := range groups {
		seen := make(map[string]bool, len(g.Teams))
		entries := make([]RankedEntry, 0, len(g.Teams))
		for _, team := range g.Teams {
			if seen[team] {
				continue
			}
			seen[team] = true

			e, ok := byTeam[team]
			if !ok {
				e = RankedEntry{Team: team}
			}
			e.Rank = 0
			entries = append(entries, e)
		}
		sortAndRank(entries)
		ret = append(ret, GroupStanding{Name: g.Name, Entries: entries})
	}

	return ret
}
