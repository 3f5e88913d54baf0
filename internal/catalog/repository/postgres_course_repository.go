package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/learnhub/learnhub/internal/catalog/domain"
)

// PostgresCourseRepository implements CourseRepository using PostgreSQL
type PostgresCourseRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCourseRepository creates a new PostgresCourseRepository
func NewPostgresCourseRepository(pool *pgxpool.Pool) *PostgresCourseRepository {
	return &PostgresCourseRepository{pool: pool}
}

// Create inserts a new course
func (r *PostgresCourseRepository) Create(ctx context.Context, course *domain.Course) error {
	query := `
		INSERT INTO courses (id, title, description, category, price, professor_email, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		course.ID,
		course.Title,
		course.Description,
		course.Category,
		course.Price,
		course.ProfessorEmail,
		course.Published,
		course.CreatedAt,
		course.UpdatedAt,
	)
	return err
}

// GetByID retrieves a course by ID
func (r *PostgresCourseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	query := `
		SELECT id, title, description, category, price, professor_email, published, created_at, updated_at
		FROM courses
		WHERE id = $1
	`
	course := &domain.Course{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.Title,
		&course.Description,
		&course.Category,
		&course.Price,
		&course.ProfessorEmail,
		&course.Published,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return course, nil
}

// List retrieves courses matching the filter, with total count
func (r *PostgresCourseRepository) List(ctx context.Context, filter *CourseFilter, limit, offset int) ([]*domain.Course, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	argPos := 1

	if filter != nil {
		if filter.Search != "" {
			where += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", argPos, argPos)
			args = append(args, "%"+filter.Search+"%")
			argPos++
		}
		if filter.Category != "" {
			where += fmt.Sprintf(" AND category = $%d", argPos)
			args = append(args, filter.Category)
			argPos++
		}
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM courses " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, title, description, category, price, professor_email, published, created_at, updated_at
		FROM courses %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var courses []*domain.Course
	for rows.Next() {
		course := &domain.Course{}
		if err := rows.Scan(
			&course.ID,
			&course.Title,
			&course.Description,
			&course.Category,
			&course.Price,
			&course.ProfessorEmail,
			&course.Published,
			&course.CreatedAt,
			&course.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		courses = append(courses, course)
	}
	return courses, total, rows.Err()
}

// Update updates a course
func (r *PostgresCourseRepository) Update(ctx context.Context, course *domain.Course) error {
	query := `
		UPDATE courses
		SET title = $2, description = $3, category = $4, price = $5, published = $6, updated_at = $7
		WHERE id = $1
	`
	course.UpdatedAt = time.Now()
	tag, err := r.pool.Exec(ctx, query,
		course.ID,
		course.Title,
		course.Description,
		course.Category,
		course.Price,
		course.Published,
		course.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

// Delete removes a course and its lessons
func (r *PostgresCourseRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}
