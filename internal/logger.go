/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a stderr logger at the given level. An empty level means
// info.
func NewLogger(level string, json bool) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(lvl)

	if json {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
	}

	return logger, nil
}
