package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/baiirun/board/internal/model"
)

// GetProject retrieves a project by ID.
func (db *DB) GetProject(id string) (*model.Project, error) {
	p := &model.Project{}
	err := db.QueryRow(`
		SELECT id, slug, name, color, icon
		FROM projects WHERE id = ?`, id).Scan(&p.ID, &p.Slug, &p.Name, &p.Color, &p.Icon)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("project", id, "projects")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

// ListProjects returns all projects ordered by ID.
func (db *DB) ListProjects() ([]model.Project, error) {
	rows, err := db.Query(`SELECT id, slug, name, color, icon FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Slug, &p.Name, &p.Color, &p.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
