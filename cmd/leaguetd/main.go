/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mikeb26/leaguetable/config"
	"github.com/mikeb26/leaguetable/internal"
	"github.com/mikeb26/leaguetable/league"
	"github.com/mikeb26/leaguetable/report"
)

//go:embed help.txt
var helpText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, args []string)

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":    handleHelp,
	"rank":    handleRank,
	"groups":  handleGroups,
	"matches": handleMatches,
}

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if handler, ok := commands[cmd]; ok {
		handler(ctx, os.Args[2:])
	} else {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf("%v", helpText)
}

func handleHelp(ctx context.Context, args []string) {
	usage()
}

// setup reads the configuration and returns a runner logging per its
// settings.
func setup(ctx context.Context, cfgFile string, verbose bool) *league.Runner {
	conf, err := config.Read(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading configuration: %v\n", err)
		os.Exit(1)
	}
	if verbose {
		conf.Log.Level = "debug"
	}
	logger, err := internal.NewLogger(conf.Log.Level, conf.Log.JSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logging: %v\n", err)
		os.Exit(1)
	}

	return league.NewRunner(ctx, conf, logger)
}

func handleRank(ctx context.Context, args []string) {
	runReport(ctx, "rank", args, false)
}

func handleGroups(ctx context.Context, args []string) {
	runReport(ctx, "groups", args, true)
}

func runReport(ctx context.Context, name string, args []string, grouped bool) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	cfgFile := fs.String("config", "", "Configuration file")
	format := fs.String("format", "xlsx", "Output format: xlsx, text or sqlite")
	out := fs.String("out", "", "Output file")
	publish := fs.Bool("publish", false, "Upload the output to publish.bucket")
	matchesPlayed := fs.Bool("matches-played", false,
		"Add a Matches Played column")
	verbose := fs.Bool("v", false, "Debug logging")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	r := setup(ctx, *cfgFile, *verbose)
	log := r.Log()
	if *matchesPlayed {
		r.Conf.Report.MatchesPlayed = true
	}

	st, err := r.Standings(ctx, fs.Args(), grouped)
	if err != nil {
		league.WriteRowErrors(os.Stderr, league.FailedRowErrors(err))
		log.Fatalf("Error computing standings: %v", err)
	}

	res, err := league.WriteOutput(ctx, r.Report(st, grouped), *format, *out,
		os.Stdout)
	if errors.Is(err, league.ErrUnknownFormat) {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		fs.Usage()
		os.Exit(1)
	} else if err != nil {
		log.Fatalf("Error writing report: %v", err)
	}
	if res.Path != "" {
		fmt.Printf("Wrote %v\n", res.Path)
	}

	if *publish {
		loc, err := r.Publish(ctx, res.PublishName(), res.Body, res.ContentType)
		if err != nil {
			log.Fatalf("Error publishing report: %v", err)
		}
		fmt.Printf("Published %v\n", loc)
	}

	league.WriteRowErrors(os.Stderr, st.RowErrors)
}

func handleMatches(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("matches", flag.ExitOnError)
	cfgFile := fs.String("config", "", "Configuration file")
	verbose := fs.Bool("v", false, "Debug logging")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	r := setup(ctx, *cfgFile, *verbose)
	matches, rowErrs, err := r.Matches(ctx, fs.Args())
	if err != nil {
		r.Log().WithError(err).Fatal("leaguetd.matches: unable to load matches")
	}
	if len(matches) == 0 {
		fmt.Println("No concluded matches found.")
	} else if err := report.WriteMatches(os.Stdout, matches); err != nil {
		r.Log().WithError(err).Fatal("leaguetd.matches: unable to print matches")
	}

	league.WriteRowErrors(os.Stderr, rowErrs)
}
