/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mikeb26/leaguetable/config"
	"github.com/mikeb26/leaguetable/ingest"
	"github.com/mikeb26/leaguetable/internal"
	"github.com/mikeb26/leaguetable/match"
	"github.com/mikeb26/leaguetable/report"
	"github.com/mikeb26/leaguetable/s3store"
	"github.com/mikeb26/leaguetable/standings"
)

var (
	ErrNoSources = errors.New("no sources given and none configured")
	ErrNoGroups  = errors.New("no groups configured (report.groups)")
	ErrNoPublish = errors.New("no publish bucket configured (publish.bucket)")
)

// Runner ties the configured sources, the scoring pipeline and the report
// outputs together for the command line tools.
type Runner struct {
	Conf   *config.Config
	Loader *ingest.Loader

	log *logrus.Logger
}

func NewRunner(ctx context.Context, conf *config.Config,
	logger *logrus.Logger) *Runner {

	client := internal.NewCachedHttpClient(ctx, conf.CacheOptions(), logger)

	return &Runner{
		Conf: conf,
		Loader: ingest.NewLoader(client, conf.Input.SkipHeader,
			conf.Input.HTMLSelector, logger),
		log: logger,
	}
}

func (r *Runner) Log() *logrus.Logger {
	return r.log
}

// Load reads every row of locs, or of the configured sources when locs is
// empty.
func (r *Runner) Load(ctx context.Context, locs []string) ([]match.Row, error) {
	srcs := r.Conf.SourceList(locs)
	if len(srcs) == 0 {
		return nil, ErrNoSources
	}

	return r.Loader.LoadAll(ctx, srcs)
}

func (r *Runner) Standings(ctx context.Context, locs []string,
	grouped bool) (*standings.Standings, error) {

	if grouped && len(r.Conf.Report.Groups) == 0 {
		return nil, ErrNoGroups
	}
	opts, err := r.Conf.StandingsOptions(grouped)
	if err != nil {
		return nil, err
	}
	rows, err := r.Load(ctx, locs)
	if err != nil {
		return nil, err
	}

	st, err := standings.Compute(rows, opts, r.log)
	if err != nil {
		return nil, err
	}
	if len(st.RowErrors) > 0 {
		r.log.WithField("rejected", len(st.RowErrors)).
			Warn("league.standings: some rows were skipped")
	}

	return st, nil
}

func (r *Runner) Report(st *standings.Standings, grouped bool) *report.Report {
	if grouped {
		return report.NewGrouped(st.Groups, r.Conf.Layout())
	}
	return report.NewFlat(st.Entries, r.Conf.Layout())
}

// Matches scores the retained rows of locs without aggregating them.
func (r *Runner) Matches(ctx context.Context,
	locs []string) ([]standings.ScoredMatch, []standings.RowError, error) {

	opts, err := r.Conf.StandingsOptions(false)
	if err != nil {
		return nil, nil, err
	}
	rows, err := r.Load(ctx, locs)
	if err != nil {
		return nil, nil, err
	}

	matches, rowErrs := standings.NewAggregator(opts.Scorer, opts.Filter, r.log).
		Matches(rows)

	return matches, rowErrs, nil
}

// Publish uploads a rendered report to the configured publish bucket.
func (r *Runner) Publish(ctx context.Context, name string, body []byte,
	contentType string) (string, error) {

	if r.Conf.Publish.Bucket == "" {
		return "", ErrNoPublish
	}
	store := s3store.New(ctx, r.Conf.Publish.Bucket, r.Conf.Publish.Prefix,
		false, r.log)
	if err := store.Init(); err != nil {
		return "", fmt.Errorf("unable to publish %v: %w", name, err)
	}

	return store.Publish(ctx, name, body, contentType)
}

// WriteRowErrors lists rejected rows, one per line, after a short summary.
func WriteRowErrors(w io.Writer, rowErrs []standings.RowError) {
	if len(rowErrs) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%v row(s) skipped:\n", len(rowErrs)))
	for _, e := range rowErrs {
		sb.WriteString(fmt.Sprintf("  %v\n", e.Error()))
	}
	fmt.Fprint(w, sb.String())
}
