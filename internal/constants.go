/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import "time"

const (
	UserAgent          = "leaguetable/0.3.0 (+https://github.com/mikeb26/leaguetable)"
	DefaultCacheMaxAge = 10 * time.Minute
	XLSXContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	TextContentType    = "text/plain; charset=utf-8"
	SQLiteContentType  = "application/vnd.sqlite3"
)
