/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/mikeb26/leaguetable/config"
	"github.com/mikeb26/leaguetable/internal"
	"github.com/mikeb26/leaguetable/league"
	"github.com/mikeb26/leaguetable/report"
	"github.com/mikeb26/leaguetable/standings"
)

type LeagueSubCommand string

const (
	LeagueAboutCmd     LeagueSubCommand = "about"
	LeagueHelpCmd      LeagueSubCommand = "help"
	LeagueStandingsCmd LeagueSubCommand = "standings"
)

var leagueSubCmdHdlrs = map[LeagueSubCommand]CmdHandler{
	LeagueAboutCmd:     leagueAboutCmdHandler,
	LeagueHelpCmd:      leagueHelpCmdHandler,
	LeagueStandingsCmd: leagueStandingsCmdHandler,
}

func leagueCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := leagueHelpCmdHandler
	if len(data.Options) > 0 {
		if subName := data.Options[0].Name; subName != "" {
			h, ok := leagueSubCmdHdlrs[LeagueSubCommand(subName)]
			if ok {
				hdlr = h
			}
		}
	}
	return hdlr(ctx, inter)
}

func newResponse() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
}

//go:embed about.txt
var aboutText string

func leagueAboutCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	resp.Data.Content = truncateContent(aboutText)

	return resp
}

//go:embed help.md
var helpText string

func leagueHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	resp.Data.Content = truncateContent(helpText)

	return resp
}

func leagueStandingsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	data := inter.ApplicationCommandData()
	broadcast := false // default
	grouped := false   // default
	var source string

	if len(data.Options) > 0 {
		for _, opt := range data.Options[0].Options {
			if opt.Name == "source" {
				source = strings.TrimSpace(opt.StringValue())
			} else if opt.Name == "grouped" {
				grouped = opt.BoolValue()
			} else if opt.Name == "broadcast" {
				broadcast = opt.BoolValue()
			}
		}
	}
	if source == "" {
		resp.Data.Content = "Please provide a source URL."
		log.Infof("discordbot.standings: %v", resp.Data.Content)
		return resp
	}
	// never read local files on behalf of a chat user
	if !internal.IsURL(source) {
		resp.Data.Content = fmt.Sprintf("Source must be an http(s) URL; got %v",
			source)
		log.Infof("discordbot.standings: %v", resp.Data.Content)
		return resp
	}
	if !runner.Conf.SourceAllowed(source) {
		resp.Data.Content = fmt.Sprintf("Source host is not allowed: %v", source)
		log.Warnf("discordbot.standings: %v", resp.Data.Content)
		return resp
	}

	st, err := runner.Standings(ctx, []string{source}, grouped)
	if err != nil {
		if errors.Is(err, standings.ErrEmptyInput) {
			resp.Data.Content = fmt.Sprintf("No finished matches found in %v.",
				source)
		} else if errors.Is(err, league.ErrNoGroups) {
			resp.Data.Content = "This league has no groups configured."
		} else {
			resp.Data.Content = fmt.Sprintf("Error computing standings for %v: %v",
				source, err)
		}
		log.Infof("discordbot.standings: %v", resp.Data.Content)
		return resp
	}

	var buf bytes.Buffer
	err = report.TextRenderer{NoFooter: true}.Render(&buf,
		runner.Report(st, grouped))
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error rendering standings: %v", err)
		log.Warnf("discordbot.standings: %v", resp.Data.Content)
		return resp
	}
	if len(st.RowErrors) > 0 {
		buf.WriteString(fmt.Sprintf("\n%v row(s) skipped\n", len(st.RowErrors)))
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("```\n%s```", truncateContent(buf.String()))
	if broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// newRunner builds the runner used for chat requests. Its client only
// follows redirects that stay on allowed source hosts.
func newRunner(ctx context.Context, conf *config.Config,
	logger *logrus.Logger) *league.Runner {

	r := league.NewRunner(ctx, conf, logger)
	client := *r.Loader.Client
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= 10 {
			return errors.New("stopped after 10 redirects")
		}
		if !conf.SourceAllowed(req.URL.String()) {
			return fmt.Errorf("redirect to %v is not allowed", req.URL.Host)
		}
		return nil
	}
	r.Loader.Client = &client

	return r
}

func truncateContent(s string) string {
	const MsgLimit = 1988 // keep space for newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}
