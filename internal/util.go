/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseDateOrZero returns a parsed time or zero if input is empty or "null".
func ParseDateOrZero(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return time.Time{}, nil
	}
	return dateparse.ParseAny(s)
}

// IsURL reports whether loc should be fetched over http rather than opened
// as a local file.
func IsURL(loc string) bool {
	lower := strings.ToLower(loc)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://")
}
