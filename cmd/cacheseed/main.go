/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mikeb26/leaguetable/config"
	"github.com/mikeb26/leaguetable/ingest"
	"github.com/mikeb26/leaguetable/internal"
	"github.com/mikeb26/leaguetable/league"
)

// this program exists just to seed the http cache with the league's result
// sheets

func main() {
	cfgFile := flag.String("config", "", "Configuration file")
	pause := flag.Duration("pause", 2*time.Second,
		"Delay between fetches to avoid pegging the sheet host")
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

	ctx := context.Background()
	r := league.NewRunner(ctx, conf, logger)
	seeded := seed(ctx, r.Loader, conf.SourceList(flag.Args()), *pause)
	fmt.Printf("seeded %v source(s)\n", seeded)
}

// seed loads every URL source once; failures are logged and skipped.
func seed(ctx context.Context, l *ingest.Loader, srcs []ingest.Source,
	pause time.Duration) int {

	seeded := 0
	for idx, src := range srcs {
		if !internal.IsURL(src.Location) {
			continue
		}
		if idx > 0 && pause > 0 {
			time.Sleep(pause)
		}
		rows, err := l.Load(ctx, src)
		if err != nil {
			// best effort
			l.Log().WithError(err).WithField("source", src.Location).
				Warn("cacheseed: unable to seed")
			continue
		}

		seeded++
		fmt.Printf("seeded %v (%v rows)\n", src.Location, len(rows))
	}

	return seeded
}
