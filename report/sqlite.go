/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package report

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const standingsSchema = `
	CREATE TABLE IF NOT EXISTS standings (
		section TEXT NOT NULL,
		rank INTEGER NOT NULL,
		team TEXT NOT NULL,
		points INTEGER NOT NULL,
		small_score INTEGER NOT NULL,
		survivor_avg REAL NOT NULL,
		hunter_avg REAL NOT NULL,
		matches_played INTEGER NOT NULL,
		PRIMARY KEY (section, team)
	)
`

// ExportSQLite replaces the contents of the standings table in the sqlite
// database at path with r. Flat reports use an empty section name.
func ExportSQLite(ctx context.Context, path string, r *Report) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database %v: %w", path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, standingsSchema); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM standings"); err != nil {
		return fmt.Errorf("failed to clear standings: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO standings (section, rank, team, points, small_score,
			survivor_avg, hunter_avg, matches_played)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, sec := range r.Sections {
		for _, e := range sec.Entries {
			_, err := stmt.ExecContext(ctx, sec.Title, e.Rank, e.Team, e.Points,
				e.SmallScore, e.SurvivorAvg, e.HunterAvg, e.MatchesPlayed)
			if err != nil {
				return fmt.Errorf("failed to insert %v: %w", e.Team, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit standings: %w", err)
	}

	return nil
}
