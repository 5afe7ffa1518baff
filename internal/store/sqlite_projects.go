package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/izzyreal/pagehist/internal/protocol"
)

func (s *Store) UpsertProject(name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("project name is required")
	}
	var id int64
	err := retrySQLiteBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		id, err = upsertProject(tx, name, formatTime(time.Now()))
		if err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func upsertProject(tx *sql.Tx, name, now string) (int64, error) {
	if _, err := tx.Exec(`
		INSERT INTO projects (name, created_utc, updated_utc)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET updated_utc=excluded.updated_utc
	`, name, now, now); err != nil {
		return 0, fmt.Errorf("upsert project: %w", err)
	}

	var id int64
	if err := tx.QueryRow(`SELECT id FROM projects WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("fetch project id: %w", err)
	}
	return id, nil
}

const projectSummaryQuery = `
	SELECT p.id, p.name, p.updated_utc, COUNT(b.id), COALESCE(MAX(b.number), 0)
	FROM projects p
	LEFT JOIN builds b ON b.project_id = p.id
`

func scanProjectSummary(scanner interface{ Scan(dest ...any) error }) (protocol.ProjectSummary, error) {
	var p protocol.ProjectSummary
	var updatedUTC string
	if err := scanner.Scan(&p.ID, &p.Name, &updatedUTC, &p.Builds, &p.LastBuild); err != nil {
		return protocol.ProjectSummary{}, err
	}
	p.UpdatedUTC = parseTime(updatedUTC)
	return p, nil
}

func (s *Store) ListProjects() ([]protocol.ProjectSummary, error) {
	rows, err := s.db.Query(projectSummaryQuery + ` GROUP BY p.id ORDER BY p.name`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]protocol.ProjectSummary, 0)
	for rows.Next() {
		p, err := scanProjectSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project rows: %w", err)
	}
	return projects, nil
}

func (s *Store) GetProject(name string) (protocol.ProjectSummary, error) {
	row := s.db.QueryRow(projectSummaryQuery+` WHERE p.name = ? GROUP BY p.id`, strings.TrimSpace(name))
	p, err := scanProjectSummary(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return protocol.ProjectSummary{}, fmt.Errorf("%w: %s", ErrProjectNotFound, name)
		}
		return protocol.ProjectSummary{}, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (s *Store) projectID(name string) (int64, error) {
	var id int64
	if err := s.db.QueryRow(`SELECT id FROM projects WHERE name = ?`, strings.TrimSpace(name)).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: %s", ErrProjectNotFound, name)
		}
		return 0, fmt.Errorf("get project id: %w", err)
	}
	return id, nil
}
