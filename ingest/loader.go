/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mikeb26/leaguetable/internal"
	"github.com/mikeb26/leaguetable/match"
)

type Format int

const (
	FormatAuto Format = iota
	FormatCSV
	FormatHTML
)

func (f Format) String() string {
	if f == FormatCSV {
		return "csv"
	} else if f == FormatHTML {
		return "html"
	} else {
		return "auto"
	}
}

// Source names one results sheet: a local path or an http(s) URL.
type Source struct {
	Location string
	Format   Format
}

// ParseSource accepts "path", "url", or either one prefixed with "csv:" or
// "html:" to force the format.
func ParseSource(s string) Source {
	s = strings.TrimSpace(s)
	for _, f := range []Format{FormatCSV, FormatHTML} {
		prefix := f.String() + ":"
		if strings.HasPrefix(strings.ToLower(s), prefix) {
			return Source{Location: s[len(prefix):], Format: f}
		}
	}

	return Source{Location: s, Format: FormatAuto}
}

// Loader reads match rows from sources.
type Loader struct {
	// Client fetches URL sources; nil means http.DefaultClient.
	Client *http.Client
	// SkipHeader drops the first row of every source.
	SkipHeader   bool
	HTMLSelector string

	log logrus.FieldLogger
}

func NewLoader(client *http.Client, skipHeader bool, htmlSelector string,
	logger logrus.FieldLogger) *Loader {

	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Loader{
		Client:       client,
		SkipHeader:   skipHeader,
		HTMLSelector: htmlSelector,
		log:          logger,
	}
}

func (l *Loader) Log() logrus.FieldLogger {
	return l.log
}

// Load reads all rows of one source.
func (l *Loader) Load(ctx context.Context, src Source) ([]match.Row, error) {
	var rdr io.ReadCloser
	format := src.Format

	if internal.IsURL(src.Location) {
		body, contentType, err := l.fetch(ctx, src.Location)
		if err != nil {
			return nil, err
		}
		rdr = body
		if format == FormatAuto {
			format = formatFromContentType(contentType, src.Location)
		}
	} else {
		f, err := os.Open(src.Location)
		if err != nil {
			return nil, fmt.Errorf("unable to open %v: %w", src.Location, err)
		}
		rdr = f
		if format == FormatAuto {
			format = formatFromPath(src.Location)
		}
	}
	defer rdr.Close()

	var rows []match.Row
	var err error
	if format == FormatHTML {
		rows, err = ReadHTML(rdr, l.HTMLSelector)
	} else {
		rows, err = ReadCSV(rdr)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read %v: %w", src.Location, err)
	}

	if l.SkipHeader && len(rows) > 0 {
		rows = rows[1:]
	}
	l.log.WithFields(logrus.Fields{
		"source": src.Location,
		"format": format.String(),
		"rows":   len(rows),
	}).Debug("ingest.load: loaded source")

	return rows, nil
}

// LoadAll loads every source concurrently and concatenates the rows in the
// order the sources were given. Any failing source fails the whole load.
func (l *Loader) LoadAll(ctx context.Context, srcs []Source) ([]match.Row, error) {
	perSource := make([][]match.Row, len(srcs))
	g, gctx := errgroup.WithContext(ctx)

	for idx, src := range srcs {
		idx, src := idx, src
		g.Go(func() error {
			rows, err := l.Load(gctx, src)
			if err != nil {
				return err
			}
			perSource[idx] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var rows []match.Row
	for _, r := range perSource {
		rows = append(rows, r...)
	}

	return rows, nil
}

// fetch gets url with the configured User-Agent and returns the open body.
func (l *Loader) fetch(ctx context.Context, url string) (io.ReadCloser, string,
	error) {

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("unable to fetch %v (new): %w", url, err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("unable to fetch %v (do): %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", fmt.Errorf("status %d fetching %s", resp.StatusCode, url)
	}
	if resp.Header.Get("X-From-Cache") == "1" {
		l.log.WithField("source", url).Debug("ingest.fetch: served from cache")
	}

	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func formatFromPath(p string) Format {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".html", ".htm":
		return FormatHTML
	}
	return FormatCSV
}

func formatFromContentType(contentType string, url string) Format {
	if strings.Contains(strings.ToLower(contentType), "html") {
		return FormatHTML
	}
	if contentType == "" {
		// strip any query before looking at the extension
		if idx := strings.IndexAny(url, "?#"); idx != -1 {
			url = url[:idx]
		}
		return formatFromPath(url)
	}
	return FormatCSV
}
