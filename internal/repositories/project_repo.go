package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/taskflow/taskflow/internal/database"
	"github.com/taskflow/taskflow/internal/models"
)

type ProjectRepository struct {
	db *database.DB
}

func NewProjectRepository(db *database.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func scanProjectRow(scanner rowScanner) (*models.Project, error) {
	var project models.Project
	err := scanner.Scan(
		&project.ID, &project.Name, &project.Description, &project.OwnerID,
		&project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &project, nil
}

func scanProjectRows(rows pgx.Rows) ([]*models.Project, error) {
	defer rows.Close()

	projects := make([]*models.Project, 0)
	for rows.Next() {
		project, err := scanProjectRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return projects, nil
}

func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	project.ID = uuid.New().String()

	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now

	query := `
		INSERT INTO projects (id, name, description, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Pool.Exec(ctx, query,
		project.ID, project.Name, project.Description, project.OwnerID,
		project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return project, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := `
		SELECT id, name, description, owner_id, created_at, updated_at
		FROM projects WHERE id = $1
	`
	return scanProjectRow(r.db.Pool.QueryRow(ctx, query, id))
}

func (r *ProjectRepository) ListByOwnerEmail(ctx context.Context, email string) ([]*models.Project, error) {
	query := `
		SELECT p.id, p.name, p.description, p.owner_id, p.created_at, p.updated_at
		FROM projects p
		JOIN users u ON u.id = p.owner_id
		WHERE u.email = $1
		ORDER BY p.created_at DESC
	`
	rows, err := r.db.Pool.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	return scanProjectRows(rows)
}

func (r *ProjectRepository) GetByIDAndOwnerEmail(ctx context.Context, id, email string) (*models.Project, error) {
	query := `
		SELECT p.id, p.name, p.description, p.owner_id, p.created_at, p.updated_at
		FROM projects p
		JOIN users u ON u.id = p.owner_id
		WHERE p.id = $1 AND u.email = $2
	`
	return scanProjectRow(r.db.Pool.QueryRow(ctx, query, id, email))
}

func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) (*models.Project, error) {
	project.UpdatedAt = time.Now()

	query := `
		UPDATE projects SET name = $1, description = $2, updated_at = $3
		WHERE id = $4
	`
	tag, err := r.db.Pool.Exec(ctx, query,
		project.Name, project.Description, project.UpdatedAt, project.ID,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, models.ErrNotFound
	}

	return project, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
