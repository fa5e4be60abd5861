/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikeb26/leaguetable/config"
)

const resultsCSV = "Timestamp,B,C,Round,Status,Ref,Map,Flag,S1,S2,T1,S3,S4,T2\n" +
	"2025/05/01 19:00,Alpha,Beta,1,Finished,Ann,Lakeside,Yes,5,1,0,4,1,0\n" +
	"2025/05/08 19:00,Beta,Gamma,2,Finished,Bob,Harbor,Yes,5,3,1,2,4,6\n"

func setupRunner(t *testing.T, cfg string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter,
		r *http.Request) {

		if r.URL.Path == "/empty.csv" {
			w.Header().Set("Content-Type", "text/csv")
			fmt.Fprint(w, "header\n")
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		fmt.Fprint(w, resultsCSV)
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "leaguetable.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))
	conf, err := config.Read(path)
	require.NoError(t, err)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	conf.Discord.AllowedHosts = append(conf.Discord.AllowedHosts, u.Host)

	logger, _ := test.NewNullLogger()
	log = logger
	runner = newRunner(context.Background(), conf, logger)

	return srv.URL
}

func standingsInteraction(opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.Interaction {
	return &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{
			Name: string(LeagueCmd),
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{
					Name:    string(LeagueStandingsCmd),
					Type:    discordgo.ApplicationCommandOptionSubCommand,
					Options: opts,
				},
			},
		},
	}
}

func strOpt(name, val string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: val,
	}
}

func boolOpt(name string, val bool) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionBoolean,
		Value: val,
	}
}

func TestLeagueStandingsCmdHandler(t *testing.T) {
	base := setupRunner(t, "")
	ctx := context.Background()

	resp := leagueCmdHandler(ctx, standingsInteraction(
		strOpt("source", base+"/results.csv")))
	require.NotNil(t, resp)
	require.NotNil(t, resp.Data)
	assert.Equal(t, discordgo.InteractionResponseChannelMessageWithSource, resp.Type)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)
	assert.True(t, strings.HasPrefix(resp.Data.Content, "```\n"))
	assert.Less(t, strings.Index(resp.Data.Content, "Alpha"),
		strings.Index(resp.Data.Content, "Gamma"))
	assert.NotContains(t, resp.Data.Content, "Rankings compiled by")

	resp = leagueCmdHandler(ctx, standingsInteraction(
		strOpt("source", base+"/results.csv"), boolOpt("broadcast", true)))
	assert.Equal(t, discordgo.MessageFlags(0), resp.Data.Flags)
}

func TestLeagueStandingsRefusesUnlistedHost(t *testing.T) {
	var hits atomic.Int32
	internalSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter,
		r *http.Request) {

		hits.Add(1)
		fmt.Fprint(w, "header\n")
	}))
	t.Cleanup(internalSrv.Close)

	base := setupRunner(t, "sources:\n  - https://league.example.com/results.csv\n")
	ctx := context.Background()

	target := internalSrv.URL + "/latest/meta-data/iam"
	resp := leagueCmdHandler(ctx, standingsInteraction(strOpt("source", target)))
	require.NotNil(t, resp.Data)
	assert.Equal(t, "Source host is not allowed: "+target, resp.Data.Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)
	assert.Equal(t, int32(0), hits.Load())

	// an allowed host may not bounce the fetch to an unlisted one
	redirector := httptest.NewServer(http.RedirectHandler(target, http.StatusFound))
	t.Cleanup(redirector.Close)
	ru, err := url.Parse(redirector.URL)
	require.NoError(t, err)
	runner.Conf.Discord.AllowedHosts = append(runner.Conf.Discord.AllowedHosts,
		ru.Host)

	resp = leagueCmdHandler(ctx, standingsInteraction(
		strOpt("source", redirector.URL+"/results.csv")))
	assert.Contains(t, resp.Data.Content, "Error computing standings")
	assert.Equal(t, int32(0), hits.Load())

	resp = leagueCmdHandler(ctx, standingsInteraction(
		strOpt("source", base+"/results.csv")))
	assert.True(t, strings.HasPrefix(resp.Data.Content, "```\n"))
}

func TestLeagueStandingsCmdHandlerErrors(t *testing.T) {
	base := setupRunner(t, "")
	ctx := context.Background()

	tests := []struct {
		name string
		opts []*discordgo.ApplicationCommandInteractionDataOption
		want string
	}{
		{"no source", nil, "Please provide a source URL."},
		{"local file", []*discordgo.ApplicationCommandInteractionDataOption{
			strOpt("source", "/etc/passwd")}, "must be an http(s) URL"},
		{"empty sheet", []*discordgo.ApplicationCommandInteractionDataOption{
			strOpt("source", base+"/empty.csv")}, "No finished matches"},
		{"no groups", []*discordgo.ApplicationCommandInteractionDataOption{
			strOpt("source", base+"/results.csv"), boolOpt("grouped", true)},
			"no groups configured"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := leagueStandingsCmdHandler(ctx, standingsInteraction(tc.opts...))
			require.NotNil(t, resp.Data)
			assert.Contains(t, resp.Data.Content, tc.want)
			assert.Equal(t, discordgo.MessageFlagsEphemeral, resp.Data.Flags)
		})
	}
}

func TestLeagueStandingsGrouped(t *testing.T) {
	base := setupRunner(t, `
report:
  groups:
    - name: North
      teams: [Alpha, Zeta]
`)
	resp := leagueStandingsCmdHandler(context.Background(), standingsInteraction(
		strOpt("source", base+"/results.csv"), boolOpt("grouped", true)))
	assert.Contains(t, resp.Data.Content, "North")
	assert.Contains(t, resp.Data.Content, "Zeta")
	assert.NotContains(t, resp.Data.Content, "Gamma")
}

func TestLeagueHelpAndAbout(t *testing.T) {
	ctx := context.Background()
	inter := &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{
			Name: string(LeagueCmd),
		},
	}
	resp := leagueCmdHandler(ctx, inter)
	assert.Equal(t, helpText, resp.Data.Content)

	resp = leagueAboutCmdHandler(ctx, inter)
	assert.Contains(t, resp.Data.Content, "leaguetable")
}

func TestTruncateContent(t *testing.T) {
	assert.Equal(t, "short", truncateContent("short"))
	long := strings.Repeat("é", 3000)
	got := truncateContent(long)
	assert.Equal(t, 1988+3, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestInteractionHandlerVerifiesSignature(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	botPubKey = pub
	logger, _ := test.NewNullLogger()
	log = logger

	body := `{"type":1}`
	req := httptest.NewRequest("POST", "/DiscordBot/Interaction",
		strings.NewReader(body))
	rec := httptest.NewRecorder()
	interactionHandler(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	ts := "1700000000"
	sig := ed25519.Sign(priv, []byte(ts+body))
	req = httptest.NewRequest("POST", "/DiscordBot/Interaction",
		strings.NewReader(body))
	req.Header.Set("X-Signature-Ed25519", hex.EncodeToString(sig))
	req.Header.Set("X-Signature-Timestamp", ts)
	rec = httptest.NewRecorder()
	interactionHandler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"type":1}`, rec.Body.String())
}

func TestLeagueCommandDefinition(t *testing.T) {
	cmd := leagueCommand()
	assert.Equal(t, "league", cmd.Name)
	var names []string
	for _, o := range cmd.Options {
		names = append(names, o.Name)
	}
	assert.ElementsMatch(t, []string{"help", "about", "standings"}, names)
}
