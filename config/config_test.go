/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeb26/leaguetable/ingest"
	"github.com/mikeb26/leaguetable/internal"
	"github.com/mikeb26/leaguetable/match"
	"github.com/mikeb26/leaguetable/report"
	"github.com/mikeb26/leaguetable/standings"
)

const sampleYAML = `
scoring:
  tiebreak_key: role
input:
  min_fields: 16
  concluded_status: ""
  since: "2025-04-01"
  until: "2025-06-30"
report:
  title: Spring League
  matches_played: true
  footer:
    - Compiled by the league office
  groups:
    - name: North
      teams: [Alpha, Beta]
    - name: South
      teams: [Gamma]
sources:
  - week1.csv
  - html:https://example.com/pubhtml
cache:
  bucket: league-cache
  max_age: 30m
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leaguetable.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestReadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	conf, err := Read("")
	require.NoError(t, err)

	assert.Equal(t, "fixed", conf.Scoring.TieBreakKey)
	assert.True(t, conf.Input.SkipHeader)
	assert.Equal(t, match.MinFields, conf.Input.MinFields)
	assert.Equal(t, "Finished", conf.Input.ConcludedStatus)
	assert.Equal(t, report.DefaultFooter, conf.Report.Footer)
	assert.Equal(t, internal.DefaultCacheMaxAge, conf.Cache.MaxAge)
	assert.Equal(t, ":8080", conf.Discord.Listen)
	assert.Empty(t, conf.Sources)

	opts, err := conf.StandingsOptions(true)
	require.NoError(t, err)
	assert.Equal(t, match.TieBreakFixed, opts.Scorer.TieBreak)
	assert.Equal(t, standings.DefaultFilter(), opts.Filter)
	assert.Empty(t, opts.Groups)
}

func TestReadFile(t *testing.T) {
	conf, err := Read(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "Spring League", conf.Report.Title)
	assert.Equal(t, report.DefaultSheetName, conf.Report.SheetName)
	assert.Equal(t, 30*time.Minute, conf.Cache.MaxAge)
	require.Len(t, conf.Report.Groups, 2)
	assert.Equal(t, standings.Group{Name: "North", Teams: []string{"Alpha", "Beta"}},
		conf.Report.Groups[0])

	opts, err := conf.StandingsOptions(true)
	require.NoError(t, err)
	assert.Equal(t, match.TieBreakByRole, opts.Scorer.TieBreak)
	assert.Equal(t, 16, opts.Filter.MinFields)
	assert.Empty(t, opts.Filter.ConcludedStatus)
	assert.Equal(t, time.April, opts.Filter.Since.Month())
	assert.Equal(t, time.June, opts.Filter.Until.Month())
	assert.Len(t, opts.Groups, 2)

	opts, err = conf.StandingsOptions(false)
	require.NoError(t, err)
	assert.Empty(t, opts.Groups)

	layout := conf.Layout()
	assert.True(t, layout.ShowMatchesPlayed)
	assert.Equal(t, []string{"Compiled by the league office"}, layout.Footer)

	assert.Equal(t, []ingest.Source{
		{Location: "week1.csv"},
		{Location: "https://example.com/pubhtml", Format: ingest.FormatHTML},
	}, conf.SourceList(nil))
	assert.Equal(t, []ingest.Source{{Location: "other.csv"}},
		conf.SourceList([]string{"other.csv", " "}))

	cacheOpts := conf.CacheOptions()
	assert.Equal(t, "league-cache", cacheOpts.Bucket)
	assert.Equal(t, Name, cacheOpts.Prefix)
}

func TestReadEnvOverride(t *testing.T) {
	t.Setenv("LEAGUETABLE_SCORING_TIEBREAK_KEY", "role")
	t.Setenv("LEAGUETABLE_DISCORD_TOKEN", "sekrit")
	t.Setenv("LEAGUETABLE_CACHE_MAX_AGE", "2m")

	conf, err := Read(writeConfig(t, "log:\n  level: debug\n"))
	require.NoError(t, err)
	assert.Equal(t, "role", conf.Scoring.TieBreakKey)
	assert.Equal(t, "sekrit", conf.Discord.Token)
	assert.Equal(t, 2*time.Minute, conf.Cache.MaxAge)
	assert.Equal(t, "debug", conf.Log.Level)
}

func TestReadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"tiebreak", "scoring:\n  tiebreak_key: coinflip\n"},
		{"min fields", "input:\n  min_fields: 9\n"},
		{"since", "input:\n  since: whenever\n"},
		{"window order", "input:\n  since: \"2025-06-01\"\n  until: \"2025-05-01\"\n"},
		{"unnamed group", "report:\n  groups:\n    - teams: [Alpha]\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Read(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}

	_, err := Read(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSourceAllowed(t *testing.T) {
	conf, err := Read(writeConfig(t, `
sources:
  - https://league.example.com/results.csv
  - ./local.csv
discord:
  allowed_hosts:
    - Scores.Example.org
    - stats.example.net:8443
`))
	require.NoError(t, err)

	tests := []struct {
		loc  string
		want bool
	}{
		{"https://league.example.com/week2.csv", true},
		{"https://LEAGUE.example.com/results.csv", true},
		{"http://league.example.com:8080/results.csv", false},
		{"https://scores.example.org/a.csv", true},
		{"https://scores.example.org:444/a.csv", true},
		{"https://stats.example.net:8443/a.csv", true},
		{"https://stats.example.net/a.csv", false},
		{"http://127.0.0.1:8080/latest/meta-data/iam", false},
		{"http://169.254.169.254/latest/meta-data/", false},
		{"https://user@league.example.com/results.csv", false},
		{"ftp://league.example.com/results.csv", false},
		{"./local.csv", false},
		{"", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, conf.SourceAllowed(tc.loc), tc.loc)
	}

	assert.False(t, (&Config{}).SourceAllowed("https://league.example.com/results.csv"))
}
