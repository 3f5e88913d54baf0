package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/learnhub/learnhub/internal/enrollment/client"
	"github.com/learnhub/learnhub/internal/enrollment/domain"
	"github.com/learnhub/learnhub/internal/enrollment/dto"
	"github.com/learnhub/learnhub/internal/enrollment/repository"
	"github.com/learnhub/learnhub/pkg/logger"
	"github.com/learnhub/learnhub/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// EnrollmentService defines enrollment operations
type EnrollmentService interface {
	// Enroll creates an enrollment for the student in the course
	Enroll(ctx context.Context, studentEmail string, req *dto.EnrollRequest) (*domain.Enrollment, error)
	// GetStudentEnrollments lists the student's enrollments enriched
	// with catalog detail; catalog failures degrade individual entries
	// instead of failing the list
	GetStudentEnrollments(ctx context.Context, studentEmail string) ([]*dto.EnrollmentView, error)
	// UpdateProgress records the student's progress in [0,100]
	UpdateProgress(ctx context.Context, studentEmail, enrollmentID string, progress int) (*domain.Enrollment, error)
	// Unenroll removes the student's enrollment
	Unenroll(ctx context.Context, studentEmail, enrollmentID string) error
}

type enrollmentService struct {
	repo      repository.EnrollmentRepository
	catalog   client.CatalogClient
	directory client.StudentDirectory
	publisher EventPublisher
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(
	repo repository.EnrollmentRepository,
	catalog client.CatalogClient,
	directory client.StudentDirectory,
	publisher EventPublisher,
) EnrollmentService {
	if publisher == nil {
		publisher = NewNoOpEventPublisher()
	}
	return &enrollmentService{
		repo:      repo,
		catalog:   catalog,
		directory: directory,
		publisher: publisher,
	}
}

// Enroll creates an enrollment. Checks run in a fixed order: the
// student account, then the course, then the duplicate guard. The
// unique index backs the duplicate guard so a lost race still comes
// back as ErrAlreadyEnrolled, leaving no record behind.
func (s *enrollmentService) Enroll(ctx context.Context, studentEmail string, req *dto.EnrollRequest) (*domain.Enrollment, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.enrollment.enroll")
	defer span.End()

	span.SetAttributes(
		attribute.String("student_email", studentEmail),
		attribute.String("course_id", req.CourseID),
	)

	exists, err := s.directory.Exists(ctx, studentEmail)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if !exists {
		span.SetStatus(codes.Error, "student not found")
		return nil, domain.ErrStudentNotFound
	}

	if _, err := s.catalog.GetCourse(ctx, req.CourseID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	existing, err := s.repo.GetByStudentAndCourse(ctx, studentEmail, req.CourseID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if existing != nil {
		span.SetStatus(codes.Error, "already enrolled")
		return nil, domain.ErrAlreadyEnrolled
	}

	now := time.Now()
	enrollment := &domain.Enrollment{
		ID:           uuid.New().String(),
		StudentEmail: studentEmail,
		CourseID:     req.CourseID,
		Progress:     domain.MinProgress,
		EnrolledAt:   now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, enrollment); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.publisher.PublishEnrollmentCreated(ctx, enrollment); err != nil {
		// The enrollment is committed; a lost event must not undo it
		logger.Get().Warn("failed to publish enrollment created event",
			zap.String("enrollment_id", enrollment.ID),
			zap.Error(err),
		)
	}

	span.SetAttributes(attribute.String("enrollment_id", enrollment.ID))
	span.SetStatus(codes.Ok, "")
	return enrollment, nil
}

// GetStudentEnrollments lists enrollments with catalog enrichment
func (s *enrollmentService) GetStudentEnrollments(ctx context.Context, studentEmail string) ([]*dto.EnrollmentView, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.enrollment.list_by_student")
	defer span.End()

	span.SetAttributes(attribute.String("student_email", studentEmail))

	enrollments, err := s.repo.ListByStudent(ctx, studentEmail)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	views := make([]*dto.EnrollmentView, 0, len(enrollments))
	for _, e := range enrollments {
		view := &dto.EnrollmentView{
			ID:           e.ID,
			StudentEmail: e.StudentEmail,
			CourseID:     e.CourseID,
			Progress:     e.Progress,
			EnrolledAt:   e.EnrolledAt.Format(time.RFC3339),
		}
		course, err := s.catalog.GetCourse(ctx, e.CourseID)
		if err == nil {
			view.Course = &dto.CourseSummary{
				ID:       course.ID,
				Title:    course.Title,
				Category: course.Category,
				Price:    course.Price,
			}
		} else {
			// Degrade this entry rather than failing the whole list
			logger.Get().Warn("catalog lookup failed for enrollment",
				zap.String("enrollment_id", e.ID),
				zap.String("course_id", e.CourseID),
				zap.Error(err),
			)
		}
		views = append(views, view)
	}

	span.SetAttributes(attribute.Int("count", len(views)))
	span.SetStatus(codes.Ok, "")
	return views, nil
}

// UpdateProgress records progress, enforcing the [0,100] bounds
func (s *enrollmentService) UpdateProgress(ctx context.Context, studentEmail, enrollmentID string, progress int) (*domain.Enrollment, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.enrollment.update_progress")
	defer span.End()

	span.SetAttributes(
		attribute.String("enrollment_id", enrollmentID),
		attribute.Int("progress", progress),
	)

	if !domain.ValidProgress(progress) {
		span.SetStatus(codes.Error, "progress out of range")
		return nil, domain.ErrInvalidProgress
	}

	enrollment, err := s.ownedEnrollment(ctx, studentEmail, enrollmentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.repo.UpdateProgress(ctx, enrollmentID, progress); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	enrollment.Progress = progress
	enrollment.UpdatedAt = time.Now()

	span.SetStatus(codes.Ok, "")
	return enrollment, nil
}

// Unenroll removes the enrollment and publishes a cancellation event
func (s *enrollmentService) Unenroll(ctx context.Context, studentEmail, enrollmentID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.enrollment.unenroll")
	defer span.End()

	span.SetAttributes(attribute.String("enrollment_id", enrollmentID))

	enrollment, err := s.ownedEnrollment(ctx, studentEmail, enrollmentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.repo.Delete(ctx, enrollmentID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.publisher.PublishEnrollmentCancelled(ctx, enrollment); err != nil {
		logger.Get().Warn("failed to publish enrollment cancelled event",
			zap.String("enrollment_id", enrollment.ID),
			zap.Error(err),
		)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *enrollmentService) ownedEnrollment(ctx context.Context, studentEmail, enrollmentID string) (*domain.Enrollment, error) {
	enrollment, err := s.repo.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, domain.ErrEnrollmentNotFound
	}
	if enrollment.StudentEmail != studentEmail {
		return nil, domain.ErrNotEnrollmentOwner
	}
	return enrollment, nil
}
