/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/mikeb26/leaguetable/config"
	"github.com/mikeb26/leaguetable/internal"
	"github.com/mikeb26/leaguetable/league"
)

type TopLevelCommand string

const (
	LeagueCmd TopLevelCommand = "league"
)

type CmdHandler func(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse

var topLevelCmdHdlrs = map[TopLevelCommand]CmdHandler{
	LeagueCmd: leagueCmdHandler,
}

var (
	botPubKey ed25519.PublicKey
	client    *discordgo.Session
	runner    *league.Runner
	log       logrus.FieldLogger = logrus.StandardLogger()
)

func interactionHandler(w http.ResponseWriter, r *http.Request) {
	if !discordgo.VerifyInteraction(r, botPubKey) {
		log.Warn("discordbot.int: failed to verify")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.WithError(err).Warn("discordbot.int: failed to read request body")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var inter discordgo.Interaction
	if err := inter.UnmarshalJSON(body); err != nil {
		log.WithError(err).WithField("body", string(body)).
			Warn("discordbot.int: failed to unmarshal interaction")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp := &discordgo.InteractionResponse{}
	if inter.Type == discordgo.InteractionPing {
		resp.Type = discordgo.InteractionResponsePong
	} else if inter.Type == discordgo.InteractionApplicationCommand {
		hdlr, ok :=
			topLevelCmdHdlrs[TopLevelCommand(inter.ApplicationCommandData().Name)]
		if !ok {
			resp.Type = discordgo.InteractionResponseChannelMessageWithSource
			resp.Data = &discordgo.InteractionResponseData{
				Content: fmt.Sprintf("unknown command '%v'",
					inter.ApplicationCommandData().Name),
				Flags: discordgo.MessageFlagsEphemeral,
			}
		} else {
			resp = hdlr(r.Context(), &inter)
		}
	} else {
		log.WithField("type", inter.Type).
			Warn("discordbot.int: unimplemented interaction type")
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	rawResp, err := json.Marshal(resp)
	if err != nil {
		log.WithError(err).Error("discordbot.int: failed to marshal resp")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err = w.Write(rawResp); err != nil {
		log.WithError(err).Warn("discordbot.int: failed to write resp")
	}
}

//go:embed lastupdate.hash
var lastCmdUpdateHash string

func shouldUpdateCmdRegistration(cmd *discordgo.ApplicationCommand) bool {
	cmdJson, err := json.Marshal(cmd)
	if err != nil {
		log.WithError(err).Error("discordbot.reg: failed to marshal cmd")
		return false
	}
	hasher := sha256.New()
	hasher.Write(cmdJson)
	hexString := hex.EncodeToString(hasher.Sum(nil))

	shouldUpdate := (hexString != strings.TrimSpace(lastCmdUpdateHash))
	if shouldUpdate {
		log.WithField("hash", hexString).
			Info("discordbot.reg: updating cmd reg; please update lastupdate.hash")
	}

	return shouldUpdate
}

func leagueCommand() *discordgo.ApplicationCommand {
	broadcastOpt := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        "broadcast",
		Description: "Share with the rest of the channel instead of only to you (default is false)",
		Required:    false,
	}

	return &discordgo.ApplicationCommand{
		Name:        string(LeagueCmd),
		Description: "League table commands; try /league help to start",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(LeagueHelpCmd),
				Description: "Show usage for league",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(LeagueAboutCmd),
				Description: "Show information about the league table bot",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(LeagueStandingsCmd),
				Description: "Rank the teams of a published results sheet",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "source",
						Description: "URL of the results sheet (CSV export or HTML table)",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "grouped",
						Description: "Rank inside the configured groups (default is false)",
						Required:    false,
					},
					broadcastOpt,
				},
			},
		},
	}
}

func registerSlashCommands(conf *config.Discord) {
	cmdDef := leagueCommand()

	if conf.CommandID == "" {
		cmd, err := client.ApplicationCommandCreate(conf.AppID, "", cmdDef)
		if err != nil {
			log.WithError(err).WithField("cmd", cmdDef.Name).
				Error("discordbot.reg: failed to register")
			return
		}

		log.WithField("cmd_id", cmd.ID).Infof("discordbot.reg: registered %v",
			cmd.Name)
	} else if shouldUpdateCmdRegistration(cmdDef) {
		cmd, err := client.ApplicationCommandEdit(conf.AppID, "", conf.CommandID,
			cmdDef)
		if err != nil {
			log.WithError(err).WithField("cmd", cmdDef.Name).
				Error("discordbot.reg: failed to update")
			return
		}

		log.WithField("cmd_id", cmd.ID).Infof("discordbot.reg: updated %v",
			cmd.Name)
	}
}

func main() {
	cfgFile := flag.String("config", "", "Configuration file")
	flag.Parse()

	conf, err := config.Read(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading configuration: %v\n", err)
		os.Exit(1)
	}
	logger, err := internal.NewLogger(conf.Log.Level, conf.Log.JSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logging: %v\n", err)
		os.Exit(1)
	}
	log = logger

	pubKeyBytes, err := hex.DecodeString(strings.TrimSpace(conf.Discord.PublicKey))
	if err != nil || len(pubKeyBytes) != ed25519.PublicKeySize {
		logger.Fatalf("discordbot.main: invalid discord.public_key: %v", err)
	}
	botPubKey = ed25519.PublicKey(pubKeyBytes)

	client, err = discordgo.New("Bot " + conf.Discord.Token)
	if err != nil {
		logger.Fatalf("discordbot.main: failed to initialize discord client: %v",
			err)
	}

	ctx := context.Background()
	runner = newRunner(ctx, conf, logger)
	go registerSlashCommands(&conf.Discord)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	logger.Infof("discordbot.main: starting server on %v%v", hostname,
		conf.Discord.Listen)

	http.HandleFunc("/DiscordBot/Interaction", interactionHandler)
	if err := http.ListenAndServe(conf.Discord.Listen, nil); err != nil {
		logger.Fatalf("discordbot.main: Serve failed: %v", err)
	}

	logger.Info("discordbot.main: exiting")
}
