package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/izzyreal/pagehist/internal/protocol"
)

// RecordBuild stores outcomes as the next build of project, creating the
// project on first use. Build numbers start at 1 and increase per project.
func (s *Store) RecordBuild(project string, startedUTC time.Time, outcomes []protocol.ChildOutcome) (protocol.BuildResult, error) {
	project = strings.TrimSpace(project)
	if project == "" {
		return protocol.BuildResult{}, fmt.Errorf("project name is required")
	}
	for i, o := range outcomes {
		if strings.TrimSpace(o.Page) == "" {
			return protocol.BuildResult{}, fmt.Errorf("%w: outcome %d has no page name", ErrInvalidOutcome, i)
		}
	}
	if startedUTC.IsZero() {
		startedUTC = time.Now()
	}
	startedUTC = startedUTC.UTC()

	build := protocol.BuildResult{
		Project:    project,
		StartedUTC: startedUTC,
		Outcomes:   append([]protocol.ChildOutcome(nil), outcomes...),
	}
	err := retrySQLiteBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		now := formatTime(time.Now())
		projectID, err := upsertProject(tx, project, now)
		if err != nil {
			return err
		}

		var number int64
		if err := tx.QueryRow(`SELECT COALESCE(MAX(number), 0) + 1 FROM builds WHERE project_id = ?`, projectID).Scan(&number); err != nil {
			return fmt.Errorf("next build number: %w", err)
		}
		res, err := tx.Exec(`
			INSERT INTO builds (project_id, number, started_utc, created_utc)
			VALUES (?, ?, ?, ?)
		`, projectID, number, formatTime(startedUTC), now)
		if err != nil {
			return fmt.Errorf("insert build: %w", err)
		}
		buildID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("build id: %w", err)
		}

		for i, o := range outcomes {
			if _, err := tx.Exec(`
				INSERT INTO build_outcomes (build_id, position, page, status, right_count, wrong_count, ignores_count, exceptions_count, duration_seconds)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, buildID, i, o.Page, protocol.NormalizeOutcomeStatus(o.Status), o.Right, o.Wrong, o.Ignores, o.Exceptions, o.DurationSeconds); err != nil {
				return fmt.Errorf("insert build outcome: %w", err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		build.Number = number
		return nil
	})
	if err != nil {
		return protocol.BuildResult{}, err
	}
	for i := range build.Outcomes {
		build.Outcomes[i].Status = protocol.NormalizeOutcomeStatus(build.Outcomes[i].Status)
	}
	return build, nil
}

// ListBuilds returns the most recent limit builds of project (all when limit
// <= 0), oldest first.
func (s *Store) ListBuilds(project string, limit int) ([]protocol.BuildResult, error) {
	projectID, err := s.projectID(project)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Query(`
		SELECT b.id, b.number, b.started_utc, o.page, o.status, o.right_count, o.wrong_count, o.ignores_count, o.exceptions_count, o.duration_seconds
		FROM builds b
		LEFT JOIN build_outcomes o ON o.build_id = b.id
		WHERE b.id IN (SELECT id FROM builds WHERE project_id = ? ORDER BY number DESC LIMIT ?)
		ORDER BY b.number, o.position
	`, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	defer rows.Close()

	builds := make([]protocol.BuildResult, 0)
	index := map[int64]int{}
	for rows.Next() {
		var (
			buildID, number                  int64
			startedUTC                       string
			page, status                     sql.NullString
			right, wrong, ignores, exception sql.NullInt64
			duration                         sql.NullFloat64
		)
		if err := rows.Scan(&buildID, &number, &startedUTC, &page, &status, &right, &wrong, &ignores, &exception, &duration); err != nil {
			return nil, fmt.Errorf("scan build row: %w", err)
		}
		pos, ok := index[buildID]
		if !ok {
			builds = append(builds, protocol.BuildResult{
				Number:     number,
				Project:    strings.TrimSpace(project),
				StartedUTC: parseTime(startedUTC),
				Outcomes:   []protocol.ChildOutcome{},
			})
			pos = len(builds) - 1
			index[buildID] = pos
		}
		if page.Valid {
			builds[pos].Outcomes = append(builds[pos].Outcomes, protocol.ChildOutcome{
				Page:            page.String,
				Status:          status.String,
				Right:           int(right.Int64),
				Wrong:           int(wrong.Int64),
				Ignores:         int(ignores.Int64),
				Exceptions:      int(exception.Int64),
				DurationSeconds: duration.Float64,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate build rows: %w", err)
	}
	return builds, nil
}

// PruneBuilds keeps only the newest keep builds of project and returns how
// many were removed.
func (s *Store) PruneBuilds(project string, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	projectID, err := s.projectID(project)
	if err != nil {
		return 0, err
	}

	var removed int64
	err = retrySQLiteBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		const stale = `SELECT id FROM builds WHERE project_id = ? AND number <= (SELECT COALESCE(MAX(number), 0) FROM builds WHERE project_id = ?) - ?`
		if _, err := tx.Exec(`DELETE FROM build_outcomes WHERE build_id IN (`+stale+`)`, projectID, projectID, keep); err != nil {
			return fmt.Errorf("delete build outcomes: %w", err)
		}
		res, err := tx.Exec(`DELETE FROM builds WHERE id IN (`+stale+`)`, projectID, projectID, keep)
		if err != nil {
			return fmt.Errorf("delete builds: %w", err)
		}
		removed, _ = res.RowsAffected()
		return tx.Commit()
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
