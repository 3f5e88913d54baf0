package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/learnhub/learnhub/internal/catalog/domain"
)

// PostgresLessonRepository implements LessonRepository using PostgreSQL
type PostgresLessonRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresLessonRepository creates a new PostgresLessonRepository
func NewPostgresLessonRepository(pool *pgxpool.Pool) *PostgresLessonRepository {
	return &PostgresLessonRepository{pool: pool}
}

// Create inserts a new lesson
func (r *PostgresLessonRepository) Create(ctx context.Context, lesson *domain.Lesson) error {
	query := `
		INSERT INTO lessons (id, course_id, title, video_id, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		lesson.ID,
		lesson.CourseID,
		lesson.Title,
		lesson.VideoID,
		lesson.Position,
		lesson.CreatedAt,
	)
	return err
}

// ListByCourse retrieves all lessons of a course in position order
func (r *PostgresLessonRepository) ListByCourse(ctx context.Context, courseID string) ([]*domain.Lesson, error) {
	query := `
		SELECT id, course_id, title, video_id, position, created_at
		FROM lessons
		WHERE course_id = $1
		ORDER BY position ASC, created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lessons []*domain.Lesson
	for rows.Next() {
		lesson := &domain.Lesson{}
		if err := rows.Scan(
			&lesson.ID,
			&lesson.CourseID,
			&lesson.Title,
			&lesson.VideoID,
			&lesson.Position,
			&lesson.CreatedAt,
		); err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}
	return lessons, rows.Err()
}

// Delete removes a lesson
func (r *PostgresLessonRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLessonNotFound
	}
	return nil
}
