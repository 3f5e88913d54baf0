package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/learnhub/learnhub/internal/enrollment/domain"
)

const uniqueViolationCode = "23505"

// PostgresEnrollmentRepository implements EnrollmentRepository using PostgreSQL
type PostgresEnrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEnrollmentRepository creates a new PostgresEnrollmentRepository
func NewPostgresEnrollmentRepository(pool *pgxpool.Pool) *PostgresEnrollmentRepository {
	return &PostgresEnrollmentRepository{pool: pool}
}

// Create inserts an enrollment. The unique index on
// (student_email, course_id) is the final arbiter of duplicates.
func (r *PostgresEnrollmentRepository) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	query := `
		INSERT INTO enrollments (id, student_email, course_id, progress, enrolled_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		enrollment.ID,
		enrollment.StudentEmail,
		enrollment.CourseID,
		enrollment.Progress,
		enrollment.EnrolledAt,
		enrollment.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return domain.ErrAlreadyEnrolled
		}
		return err
	}
	return nil
}

// GetByID retrieves an enrollment by ID
func (r *PostgresEnrollmentRepository) GetByID(ctx context.Context, id string) (*domain.Enrollment, error) {
	query := `
		SELECT id, student_email, course_id, progress, enrolled_at, updated_at
		FROM enrollments
		WHERE id = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetByStudentAndCourse retrieves an enrollment by its natural key
func (r *PostgresEnrollmentRepository) GetByStudentAndCourse(ctx context.Context, studentEmail, courseID string) (*domain.Enrollment, error) {
	query := `
		SELECT id, student_email, course_id, progress, enrolled_at, updated_at
		FROM enrollments
		WHERE student_email = $1 AND course_id = $2
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, studentEmail, courseID))
}

// ListByStudent retrieves all enrollments of a student
func (r *PostgresEnrollmentRepository) ListByStudent(ctx context.Context, studentEmail string) ([]*domain.Enrollment, error) {
	query := `
		SELECT id, student_email, course_id, progress, enrolled_at, updated_at
		FROM enrollments
		WHERE student_email = $1
		ORDER BY enrolled_at DESC
	`
	rows, err := r.pool.Query(ctx, query, studentEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []*domain.Enrollment
	for rows.Next() {
		e := &domain.Enrollment{}
		if err := rows.Scan(&e.ID, &e.StudentEmail, &e.CourseID, &e.Progress, &e.EnrolledAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

// UpdateProgress sets the progress of an enrollment
func (r *PostgresEnrollmentRepository) UpdateProgress(ctx context.Context, id string, progress int) error {
	query := `UPDATE enrollments SET progress = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, progress, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEnrollmentNotFound
	}
	return nil
}

// Delete removes an enrollment
func (r *PostgresEnrollmentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEnrollmentNotFound
	}
	return nil
}

func (r *PostgresEnrollmentRepository) scanOne(row pgx.Row) (*domain.Enrollment, error) {
	e := &domain.Enrollment{}
	err := row.Scan(&e.ID, &e.StudentEmail, &e.CourseID, &e.Progress, &e.EnrolledAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}
