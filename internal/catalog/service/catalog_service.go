package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/learnhub/learnhub/internal/catalog/domain"
	"github.com/learnhub/learnhub/internal/catalog/dto"
	"github.com/learnhub/learnhub/internal/catalog/repository"
	"github.com/learnhub/learnhub/pkg/identity"
	"github.com/learnhub/learnhub/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// CourseWithLessons is a course detail view including its lessons
type CourseWithLessons struct {
	domain.Course
	Lessons []*domain.Lesson `json:"lessons"`
}

// CourseList is a paginated course listing
type CourseList struct {
	Courses []*domain.Course `json:"courses"`
	Total   int              `json:"total"`
	Page    int              `json:"page"`
}

// CatalogService defines catalog operations
type CatalogService interface {
	// CreateCourse creates a course owned by the caller
	CreateCourse(ctx context.Context, caller *identity.Identity, req *dto.CreateCourseRequest) (*domain.Course, error)
	// GetCourse retrieves a course with its lessons
	GetCourse(ctx context.Context, id string) (*CourseWithLessons, error)
	// ListCourses lists courses with optional search and category filters
	ListCourses(ctx context.Context, query *dto.ListCoursesQuery) (*CourseList, error)
	// UpdateCourse updates a course; only the owner or an admin may
	UpdateCourse(ctx context.Context, caller *identity.Identity, id string, req *dto.UpdateCourseRequest) (*domain.Course, error)
	// DeleteCourse removes a course; only the owner or an admin may
	DeleteCourse(ctx context.Context, caller *identity.Identity, id string) error
	// AddLesson appends a lesson to a course owned by the caller
	AddLesson(ctx context.Context, caller *identity.Identity, courseID string, req *dto.AddLessonRequest) (*domain.Lesson, error)
	// DeleteLesson removes a lesson from a course owned by the caller
	DeleteLesson(ctx context.Context, caller *identity.Identity, courseID, lessonID string) error
}

type catalogService struct {
	courseRepo repository.CourseRepository
	lessonRepo repository.LessonRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(courseRepo repository.CourseRepository, lessonRepo repository.LessonRepository) CatalogService {
	return &catalogService{courseRepo: courseRepo, lessonRepo: lessonRepo}
}

func (s *catalogService) CreateCourse(ctx context.Context, caller *identity.Identity, req *dto.CreateCourseRequest) (*domain.Course, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.create_course")
	defer span.End()

	now := time.Now()
	course := &domain.Course{
		ID:             uuid.New().String(),
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Price:          req.Price,
		ProfessorEmail: caller.Email,
		Published:      req.Published,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("course_id", course.ID))
	span.SetStatus(codes.Ok, "")
	return course, nil
}

func (s *catalogService) GetCourse(ctx context.Context, id string) (*CourseWithLessons, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.get_course")
	defer span.End()

	span.SetAttributes(attribute.String("course_id", id))

	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if course == nil {
		span.SetStatus(codes.Error, "course not found")
		return nil, domain.ErrCourseNotFound
	}

	lessons, err := s.lessonRepo.ListByCourse(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return &CourseWithLessons{Course: *course, Lessons: lessons}, nil
}

func (s *catalogService) ListCourses(ctx context.Context, query *dto.ListCoursesQuery) (*CourseList, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.list_courses")
	defer span.End()

	query.Normalize()
	filter := &repository.CourseFilter{
		Search:   query.Search,
		Category: query.Category,
	}

	courses, total, err := s.courseRepo.List(ctx, filter, query.PageSize, query.Offset())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("total", total))
	span.SetStatus(codes.Ok, "")
	return &CourseList{Courses: courses, Total: total, Page: query.Page}, nil
}

func (s *catalogService) UpdateCourse(ctx context.Context, caller *identity.Identity, id string, req *dto.UpdateCourseRequest) (*domain.Course, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.update_course")
	defer span.End()

	span.SetAttributes(attribute.String("course_id", id))

	course, err := s.ownedCourse(ctx, caller, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if req.Title != "" {
		course.Title = req.Title
	}
	if req.Description != "" {
		course.Description = req.Description
	}
	if req.Category != "" {
		course.Category = req.Category
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.Published != nil {
		course.Published = *req.Published
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return course, nil
}

func (s *catalogService) DeleteCourse(ctx context.Context, caller *identity.Identity, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.delete_course")
	defer span.End()

	span.SetAttributes(attribute.String("course_id", id))

	if _, err := s.ownedCourse(ctx, caller, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.courseRepo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *catalogService) AddLesson(ctx context.Context, caller *identity.Identity, courseID string, req *dto.AddLessonRequest) (*domain.Lesson, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.add_lesson")
	defer span.End()

	span.SetAttributes(attribute.String("course_id", courseID))

	if _, err := s.ownedCourse(ctx, caller, courseID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	lesson := &domain.Lesson{
		ID:        uuid.New().String(),
		CourseID:  courseID,
		Title:     req.Title,
		VideoID:   req.VideoID,
		Position:  req.Position,
		CreatedAt: time.Now(),
	}

	if err := s.lessonRepo.Create(ctx, lesson); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("lesson_id", lesson.ID))
	span.SetStatus(codes.Ok, "")
	return lesson, nil
}

func (s *catalogService) DeleteLesson(ctx context.Context, caller *identity.Identity, courseID, lessonID string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.delete_lesson")
	defer span.End()

	span.SetAttributes(
		attribute.String("course_id", courseID),
		attribute.String("lesson_id", lessonID),
	)

	if _, err := s.ownedCourse(ctx, caller, courseID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.lessonRepo.Delete(ctx, lessonID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// ownedCourse loads a course and checks the caller may modify it.
// Admins may modify any course.
func (s *catalogService) ownedCourse(ctx context.Context, caller *identity.Identity, id string) (*domain.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, domain.ErrCourseNotFound
	}
	if !caller.HasRole(identity.RoleAdmin) && course.ProfessorEmail != caller.Email {
		return nil, domain.ErrNotCourseOwner
	}
	return course, nil
}
