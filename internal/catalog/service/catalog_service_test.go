package service

import (
	"context"
	"testing"

	"github.com/learnhub/learnhub/internal/catalog/domain"
	"github.com/learnhub/learnhub/internal/catalog/dto"
	"github.com/learnhub/learnhub/internal/catalog/repository"
	"github.com/learnhub/learnhub/pkg/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCourseRepo struct {
	createFn  func(ctx context.Context, course *domain.Course) error
	getByIDFn func(ctx context.Context, id string) (*domain.Course, error)
	listFn    func(ctx context.Context, filter *repository.CourseFilter, limit, offset int) ([]*domain.Course, int, error)
	updateFn  func(ctx context.Context, course *domain.Course) error
	deleteFn  func(ctx context.Context, id string) error
}

func (m *mockCourseRepo) Create(ctx context.Context, course *domain.Course) error {
	return m.createFn(ctx, course)
}
func (m *mockCourseRepo) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	return m.getByIDFn(ctx, id)
}
func (m *mockCourseRepo) List(ctx context.Context, filter *repository.CourseFilter, limit, offset int) ([]*domain.Course, int, error) {
	return m.listFn(ctx, filter, limit, offset)
}
func (m *mockCourseRepo) Update(ctx context.Context, course *domain.Course) error {
	return m.updateFn(ctx, course)
}
func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

type mockLessonRepo struct {
	createFn       func(ctx context.Context, lesson *domain.Lesson) error
	listByCourseFn func(ctx context.Context, courseID string) ([]*domain.Lesson, error)
	deleteFn       func(ctx context.Context, id string) error
}

func (m *mockLessonRepo) Create(ctx context.Context, lesson *domain.Lesson) error {
	return m.createFn(ctx, lesson)
}
func (m *mockLessonRepo) ListByCourse(ctx context.Context, courseID string) ([]*domain.Lesson, error) {
	return m.listByCourseFn(ctx, courseID)
}
func (m *mockLessonRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func professor(email string) *identity.Identity {
	return &identity.Identity{Email: email, Roles: []string{identity.RoleProfessor}}
}

func TestCreateCourse_SetsOwner(t *testing.T) {
	var created *domain.Course
	courses := &mockCourseRepo{
		createFn: func(ctx context.Context, course *domain.Course) error {
			created = course
			return nil
		},
	}
	svc := NewCatalogService(courses, &mockLessonRepo{})

	course, err := svc.CreateCourse(context.Background(), professor("prof@example.com"), &dto.CreateCourseRequest{
		Title:    "Distributed Systems",
		Category: "CS",
		Price:    49.99,
	})
	require.NoError(t, err)
	assert.Equal(t, "prof@example.com", course.ProfessorEmail)
	assert.Equal(t, 49.99, course.Price)
	assert.NotEmpty(t, created.ID)
}

func TestUpdateCourse_PriceChange(t *testing.T) {
	courses := &mockCourseRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Course, error) {
			return &domain.Course{ID: id, ProfessorEmail: "owner@example.com", Price: 30}, nil
		},
		updateFn: func(ctx context.Context, course *domain.Course) error { return nil },
	}
	svc := NewCatalogService(courses, &mockLessonRepo{})

	// Omitted price leaves the current one alone
	course, err := svc.UpdateCourse(context.Background(), professor("owner@example.com"), "c1", &dto.UpdateCourseRequest{Title: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, float64(30), course.Price)

	// An explicit zero makes the course free
	free := 0.0
	course, err = svc.UpdateCourse(context.Background(), professor("owner@example.com"), "c1", &dto.UpdateCourseRequest{Price: &free})
	require.NoError(t, err)
	assert.Equal(t, float64(0), course.Price)
}

func TestGetCourse_NotFound(t *testing.T) {
	courses := &mockCourseRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Course, error) {
			return nil, nil
		},
	}
	svc := NewCatalogService(courses, &mockLessonRepo{})

	_, err := svc.GetCourse(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
}

func TestUpdateCourse_OwnershipEnforced(t *testing.T) {
	courses := &mockCourseRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Course, error) {
			return &domain.Course{ID: id, ProfessorEmail: "owner@example.com"}, nil
		},
		updateFn: func(ctx context.Context, course *domain.Course) error { return nil },
	}
	svc := NewCatalogService(courses, &mockLessonRepo{})

	_, err := svc.UpdateCourse(context.Background(), professor("intruder@example.com"), "c1", &dto.UpdateCourseRequest{Title: "Hijacked"})
	assert.ErrorIs(t, err, domain.ErrNotCourseOwner)

	_, err = svc.UpdateCourse(context.Background(), professor("owner@example.com"), "c1", &dto.UpdateCourseRequest{Title: "Renamed"})
	assert.NoError(t, err)
}

func TestUpdateCourse_AdminBypassesOwnership(t *testing.T) {
	courses := &mockCourseRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Course, error) {
			return &domain.Course{ID: id, ProfessorEmail: "owner@example.com"}, nil
		},
		updateFn: func(ctx context.Context, course *domain.Course) error { return nil },
	}
	svc := NewCatalogService(courses, &mockLessonRepo{})

	admin := &identity.Identity{Email: "root@example.com", Roles: []string{identity.RoleAdmin}}
	_, err := svc.UpdateCourse(context.Background(), admin, "c1", &dto.UpdateCourseRequest{Title: "Moderated"})
	assert.NoError(t, err)
}

func TestAddLesson_ChecksOwnershipFirst(t *testing.T) {
	lessonCreated := false
	courses := &mockCourseRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Course, error) {
			return &domain.Course{ID: id, ProfessorEmail: "owner@example.com"}, nil
		},
	}
	lessons := &mockLessonRepo{
		createFn: func(ctx context.Context, lesson *domain.Lesson) error {
			lessonCreated = true
			return nil
		},
	}
	svc := NewCatalogService(courses, lessons)

	_, err := svc.AddLesson(context.Background(), professor("intruder@example.com"), "c1", &dto.AddLessonRequest{
		Title:   "Intro",
		VideoID: "yt-123",
	})
	assert.ErrorIs(t, err, domain.ErrNotCourseOwner)
	assert.False(t, lessonCreated)

	lesson, err := svc.AddLesson(context.Background(), professor("owner@example.com"), "c1", &dto.AddLessonRequest{
		Title:   "Intro",
		VideoID: "yt-123",
	})
	require.NoError(t, err)
	assert.Equal(t, "c1", lesson.CourseID)
	assert.True(t, lessonCreated)
}

func TestListCourses_PaginationNormalized(t *testing.T) {
	var gotLimit, gotOffset int
	courses := &mockCourseRepo{
		listFn: func(ctx context.Context, filter *repository.CourseFilter, limit, offset int) ([]*domain.Course, int, error) {
			gotLimit, gotOffset = limit, offset
			return nil, 0, nil
		},
	}
	svc := NewCatalogService(courses, &mockLessonRepo{})

	_, err := svc.ListCourses(context.Background(), &dto.ListCoursesQuery{Page: -3, PageSize: 5000})
	require.NoError(t, err)
	assert.Equal(t, 20, gotLimit)
	assert.Equal(t, 0, gotOffset)
}
