/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mikeb26/leaguetable/internal"
	"github.com/mikeb26/leaguetable/report"
	"github.com/mikeb26/leaguetable/standings"
)

var ErrUnknownFormat = errors.New("unknown output format")

const (
	FormatXLSX   = "xlsx"
	FormatText   = "text"
	FormatSQLite = "sqlite"
)

// Output is a rendered report along with what publishing it needs.
type Output struct {
	// Path is empty when the report was written to stdout.
	Path        string
	Body        []byte
	ContentType string
}

// PublishName is the object name the output is uploaded under.
func (o *Output) PublishName() string {
	if o.Path == "" {
		return report.DefaultTextName
	}
	return filepath.Base(o.Path)
}

// WriteOutput renders rep in format. An empty out selects the format's
// default file name, except for text which then goes to stdout.
func WriteOutput(ctx context.Context, rep *report.Report, format string,
	out string, stdout io.Writer) (*Output, error) {

	var buf bytes.Buffer
	switch format {
	case FormatXLSX:
		if out == "" {
			out = report.DefaultXLSXName
		}
		if err := (report.XLSXRenderer{}).Render(&buf, rep); err != nil {
			return nil, fmt.Errorf("failed to render workbook: %w", err)
		}
		if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %v: %w", out, err)
		}
		return &Output{Path: out, Body: buf.Bytes(),
			ContentType: internal.XLSXContentType}, nil
	case FormatText:
		if err := (report.TextRenderer{}).Render(&buf, rep); err != nil {
			return nil, fmt.Errorf("failed to render table: %w", err)
		}
		if out == "" {
			if _, err := stdout.Write(buf.Bytes()); err != nil {
				return nil, err
			}
		} else if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %v: %w", out, err)
		}
		return &Output{Path: out, Body: buf.Bytes(),
			ContentType: internal.TextContentType}, nil
	case FormatSQLite:
		if out == "" {
			out = report.DefaultDBName
		}
		if err := report.ExportSQLite(ctx, out, rep); err != nil {
			return nil, fmt.Errorf("failed to export %v: %w", out, err)
		}
		body, err := os.ReadFile(out)
		if err != nil {
			return nil, fmt.Errorf("failed to read %v: %w", out, err)
		}
		return &Output{Path: out, Body: body,
			ContentType: internal.SQLiteContentType}, nil
	}

	return nil, fmt.Errorf("%w %q; want %v, %v or %v", ErrUnknownFormat,
		format, FormatXLSX, FormatText, FormatSQLite)
}

// FailedRowErrors returns the rejected rows carried by a standings error, so
// they can still be shown when nothing usable was left.
func FailedRowErrors(err error) []standings.RowError {
	var emptyErr *standings.EmptyInputError
	if errors.As(err, &emptyErr) {
		return emptyErr.RowErrors
	}
	return nil
}
