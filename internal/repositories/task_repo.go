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

type TaskRepository struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `
	t.id, t.title, t.description, t.priority, t.status,
	t.assigned_to, u.email, t.project_id, t.deadline, t.created_at, t.updated_at
`

func scanTaskRow(scanner rowScanner) (*models.Task, error) {
	var task models.Task
	err := scanner.Scan(
		&task.ID, &task.Title, &task.Description, &task.Priority, &task.Status,
		&task.AssigneeID, &task.AssigneeEmail, &task.ProjectID, &task.Deadline,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &task, nil
}

func scanTaskRows(rows pgx.Rows) ([]*models.Task, error) {
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanTaskRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	task.ID = uuid.New().String()

	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	query := `
		INSERT INTO tasks (id, title, description, priority, status, assigned_to, project_id, deadline, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Pool.Exec(ctx, query,
		task.ID, task.Title, task.Description, task.Priority, task.Status,
		task.AssigneeID, task.ProjectID, task.Deadline, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return task, nil
}

func (r *TaskRepository) ListByAssigneeEmail(ctx context.Context, email string) ([]*models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		JOIN users u ON u.id = t.assigned_to
		WHERE u.email = $1
		ORDER BY t.created_at DESC
	`
	rows, err := r.db.Pool.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	return scanTaskRows(rows)
}

func (r *TaskRepository) GetByIDAndAssigneeEmail(ctx context.Context, id, email string) (*models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		JOIN users u ON u.id = t.assigned_to
		WHERE t.id = $1 AND u.email = $2
	`
	return scanTaskRow(r.db.Pool.QueryRow(ctx, query, id, email))
}

// ListByDeadlineBetween selects tasks whose deadline falls inside the
// half-open window [from, to). A deadline exactly at the upper bound is
// left for the next window, so two adjacent windows never pick up the
// same boundary timestamp.
func (r *TaskRepository) ListByDeadlineBetween(ctx context.Context, from, to time.Time) ([]*models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks t
		JOIN users u ON u.id = t.assigned_to
		WHERE t.deadline >= $1 AND t.deadline < $2
		ORDER BY t.deadline
	`
	rows, err := r.db.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query due tasks: %w", err)
	}
	return scanTaskRows(rows)
}

func (r *TaskRepository) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	task.UpdatedAt = time.Now()

	query := `
		UPDATE tasks SET title = $1, description = $2, priority = $3, status = $4, deadline = $5, updated_at = $6
		WHERE id = $7
	`
	tag, err := r.db.Pool.Exec(ctx, query,
		task.Title, task.Description, task.Priority, task.Status, task.Deadline,
		task.UpdatedAt, task.ID,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, models.ErrNotFound
	}

	return task, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CountByStatusForProject returns task counts grouped by status for one project.
func (r *TaskRepository) CountByStatusForProject(ctx context.Context, projectID string) (map[string]int64, error) {
	query := `SELECT status, COUNT(*) FROM tasks WHERE project_id = $1 GROUP BY status`
	return r.countByStatus(ctx, query, projectID)
}

// CountByStatusForUser returns task counts grouped by status for one assignee.
func (r *TaskRepository) CountByStatusForUser(ctx context.Context, userID string) (map[string]int64, error) {
	query := `SELECT status, COUNT(*) FROM tasks WHERE assigned_to = $1 GROUP BY status`
	return r.countByStatus(ctx, query, userID)
}

func (r *TaskRepository) countByStatus(ctx context.Context, query, arg string) (map[string]int64, error) {
	rows, err := r.db.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query status counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return counts, nil
}

// AverageCompletionDaysForProject returns the mean number of days between
// task creation and deadline for one project, or nil when the project has
// no tasks with deadlines.
func (r *TaskRepository) AverageCompletionDaysForProject(ctx context.Context, projectID string) (*float64, error) {
	query := `
		SELECT AVG(EXTRACT(EPOCH FROM (deadline - created_at)) / 86400)
		FROM tasks WHERE project_id = $1 AND deadline IS NOT NULL
	`
	return r.averageDays(ctx, query, projectID)
}

// AverageCompletionDaysForUser is the per-assignee counterpart.
func (r *TaskRepository) AverageCompletionDaysForUser(ctx context.Context, userID string) (*float64, error) {
	query := `
		SELECT AVG(EXTRACT(EPOCH FROM (deadline - created_at)) / 86400)
		FROM tasks WHERE assigned_to = $1 AND deadline IS NOT NULL
	`
	return r.averageDays(ctx, query, userID)
}

func (r *TaskRepository) averageDays(ctx context.Context, query, arg string) (*float64, error) {
	var avg *float64
	if err := r.db.Pool.QueryRow(ctx, query, arg).Scan(&avg); err != nil {
		return nil, fmt.Errorf("failed to query average completion time: %w", err)
	}
	return avg, nil
}
