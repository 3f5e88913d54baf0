package service

import (
	"context"
	"testing"
	"time"

	"github.com/learnhub/learnhub/internal/enrollment/client"
	"github.com/learnhub/learnhub/internal/enrollment/domain"
	"github.com/learnhub/learnhub/internal/enrollment/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockEnrollmentRepo struct {
	createFn                func(ctx context.Context, e *domain.Enrollment) error
	getByIDFn               func(ctx context.Context, id string) (*domain.Enrollment, error)
	getByStudentAndCourseFn func(ctx context.Context, studentEmail, courseID string) (*domain.Enrollment, error)
	listByStudentFn         func(ctx context.Context, studentEmail string) ([]*domain.Enrollment, error)
	updateProgressFn        func(ctx context.Context, id string, progress int) error
	deleteFn                func(ctx context.Context, id string) error
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, e *domain.Enrollment) error {
	return m.createFn(ctx, e)
}
func (m *mockEnrollmentRepo) GetByID(ctx context.Context, id string) (*domain.Enrollment, error) {
	return m.getByIDFn(ctx, id)
}
func (m *mockEnrollmentRepo) GetByStudentAndCourse(ctx context.Context, studentEmail, courseID string) (*domain.Enrollment, error) {
	return m.getByStudentAndCourseFn(ctx, studentEmail, courseID)
}
func (m *mockEnrollmentRepo) ListByStudent(ctx context.Context, studentEmail string) ([]*domain.Enrollment, error) {
	return m.listByStudentFn(ctx, studentEmail)
}
func (m *mockEnrollmentRepo) UpdateProgress(ctx context.Context, id string, progress int) error {
	return m.updateProgressFn(ctx, id, progress)
}
func (m *mockEnrollmentRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

type mockCatalog struct {
	getCourseFn func(ctx context.Context, courseID string) (*client.CourseInfo, error)
}

func (m *mockCatalog) GetCourse(ctx context.Context, courseID string) (*client.CourseInfo, error) {
	return m.getCourseFn(ctx, courseID)
}

type mockDirectory struct {
	existsFn func(ctx context.Context, email string) (bool, error)
}

func (m *mockDirectory) Exists(ctx context.Context, email string) (bool, error) {
	return m.existsFn(ctx, email)
}

type recordingPublisher struct {
	created   []*domain.Enrollment
	cancelled []*domain.Enrollment
}

func (p *recordingPublisher) PublishEnrollmentCreated(ctx context.Context, e *domain.Enrollment) error {
	p.created = append(p.created, e)
	return nil
}
func (p *recordingPublisher) PublishEnrollmentCancelled(ctx context.Context, e *domain.Enrollment) error {
	p.cancelled = append(p.cancelled, e)
	return nil
}
func (p *recordingPublisher) Close() error { return nil }

func knownStudent() *mockDirectory {
	return &mockDirectory{existsFn: func(ctx context.Context, email string) (bool, error) {
		return true, nil
	}}
}

func knownCourse() *mockCatalog {
	return &mockCatalog{getCourseFn: func(ctx context.Context, courseID string) (*client.CourseInfo, error) {
		return &client.CourseInfo{ID: courseID, Title: "Go Basics", Category: "CS"}, nil
	}}
}

func TestEnroll_Success(t *testing.T) {
	var created *domain.Enrollment
	repo := &mockEnrollmentRepo{
		getByStudentAndCourseFn: func(ctx context.Context, studentEmail, courseID string) (*domain.Enrollment, error) {
			return nil, nil
		},
		createFn: func(ctx context.Context, e *domain.Enrollment) error {
			created = e
			return nil
		},
	}
	publisher := &recordingPublisher{}
	svc := NewEnrollmentService(repo, knownCourse(), knownStudent(), publisher)

	enrollment, err := svc.Enroll(context.Background(), "alice@example.com", &dto.EnrollRequest{CourseID: "c-1"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", enrollment.StudentEmail)
	assert.Equal(t, domain.MinProgress, enrollment.Progress)
	assert.NotNil(t, created)
	require.Len(t, publisher.created, 1)
	assert.Equal(t, enrollment.ID, publisher.created[0].ID)
}

func TestEnroll_UnknownStudentStopsBeforeCatalog(t *testing.T) {
	catalogCalled := false
	catalog := &mockCatalog{getCourseFn: func(ctx context.Context, courseID string) (*client.CourseInfo, error) {
		catalogCalled = true
		return nil, nil
	}}
	directory := &mockDirectory{existsFn: func(ctx context.Context, email string) (bool, error) {
		return false, nil
	}}
	svc := NewEnrollmentService(&mockEnrollmentRepo{}, catalog, directory, nil)

	_, err := svc.Enroll(context.Background(), "ghost@example.com", &dto.EnrollRequest{CourseID: "c-1"})
	assert.ErrorIs(t, err, domain.ErrStudentNotFound)
	assert.False(t, catalogCalled)
}

func TestEnroll_UnknownCourseLeavesNoRecord(t *testing.T) {
	recordCreated := false
	repo := &mockEnrollmentRepo{
		createFn: func(ctx context.Context, e *domain.Enrollment) error {
			recordCreated = true
			return nil
		},
	}
	catalog := &mockCatalog{getCourseFn: func(ctx context.Context, courseID string) (*client.CourseInfo, error) {
		return nil, domain.ErrCourseNotFound
	}}
	svc := NewEnrollmentService(repo, catalog, knownStudent(), nil)

	_, err := svc.Enroll(context.Background(), "alice@example.com", &dto.EnrollRequest{CourseID: "missing"})
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
	assert.False(t, recordCreated)
}

func TestEnroll_CatalogOutagePropagates(t *testing.T) {
	catalog := &mockCatalog{getCourseFn: func(ctx context.Context, courseID string) (*client.CourseInfo, error) {
		return nil, domain.ErrCatalogUnavailable
	}}
	svc := NewEnrollmentService(&mockEnrollmentRepo{}, catalog, knownStudent(), nil)

	_, err := svc.Enroll(context.Background(), "alice@example.com", &dto.EnrollRequest{CourseID: "c-1"})
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestEnroll_DuplicateDetectedBeforeInsert(t *testing.T) {
	repo := &mockEnrollmentRepo{
		getByStudentAndCourseFn: func(ctx context.Context, studentEmail, courseID string) (*domain.Enrollment, error) {
			return &domain.Enrollment{ID: "existing"}, nil
		},
	}
	svc := NewEnrollmentService(repo, knownCourse(), knownStudent(), nil)

	_, err := svc.Enroll(context.Background(), "alice@example.com", &dto.EnrollRequest{CourseID: "c-1"})
	assert.ErrorIs(t, err, domain.ErrAlreadyEnrolled)
}

func TestEnroll_InsertRaceSurfacesAsDuplicate(t *testing.T) {
	repo := &mockEnrollmentRepo{
		getByStudentAndCourseFn: func(ctx context.Context, studentEmail, courseID string) (*domain.Enrollment, error) {
			return nil, nil
		},
		createFn: func(ctx context.Context, e *domain.Enrollment) error {
			// A concurrent enroll won the unique index
			return domain.ErrAlreadyEnrolled
		},
	}
	publisher := &recordingPublisher{}
	svc := NewEnrollmentService(repo, knownCourse(), knownStudent(), publisher)

	_, err := svc.Enroll(context.Background(), "alice@example.com", &dto.EnrollRequest{CourseID: "c-1"})
	assert.ErrorIs(t, err, domain.ErrAlreadyEnrolled)
	assert.Empty(t, publisher.created)
}

func TestUpdateProgress_Bounds(t *testing.T) {
	repo := &mockEnrollmentRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Enrollment, error) {
			return &domain.Enrollment{ID: id, StudentEmail: "alice@example.com"}, nil
		},
		updateProgressFn: func(ctx context.Context, id string, progress int) error {
			return nil
		},
	}
	svc := NewEnrollmentService(repo, knownCourse(), knownStudent(), nil)
	ctx := context.Background()

	for _, p := range []int{-1, 101} {
		_, err := svc.UpdateProgress(ctx, "alice@example.com", "e-1", p)
		assert.ErrorIs(t, err, domain.ErrInvalidProgress, "progress %d", p)
	}

	for _, p := range []int{0, 100} {
		enrollment, err := svc.UpdateProgress(ctx, "alice@example.com", "e-1", p)
		require.NoError(t, err, "progress %d", p)
		assert.Equal(t, p, enrollment.Progress)
	}
}

func TestUpdateProgress_OwnershipEnforced(t *testing.T) {
	repo := &mockEnrollmentRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Enrollment, error) {
			return &domain.Enrollment{ID: id, StudentEmail: "alice@example.com"}, nil
		},
	}
	svc := NewEnrollmentService(repo, knownCourse(), knownStudent(), nil)

	_, err := svc.UpdateProgress(context.Background(), "mallory@example.com", "e-1", 50)
	assert.ErrorIs(t, err, domain.ErrNotEnrollmentOwner)
}

func TestUnenroll_PublishesCancellation(t *testing.T) {
	repo := &mockEnrollmentRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Enrollment, error) {
			return &domain.Enrollment{ID: id, StudentEmail: "alice@example.com", CourseID: "c-1"}, nil
		},
		deleteFn: func(ctx context.Context, id string) error { return nil },
	}
	publisher := &recordingPublisher{}
	svc := NewEnrollmentService(repo, knownCourse(), knownStudent(), publisher)

	err := svc.Unenroll(context.Background(), "alice@example.com", "e-1")
	require.NoError(t, err)
	require.Len(t, publisher.cancelled, 1)
	assert.Equal(t, "e-1", publisher.cancelled[0].ID)
}

func TestUnenroll_NotFound(t *testing.T) {
	repo := &mockEnrollmentRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Enrollment, error) {
			return nil, nil
		},
	}
	svc := NewEnrollmentService(repo, knownCourse(), knownStudent(), nil)

	err := svc.Unenroll(context.Background(), "alice@example.com", "missing")
	assert.ErrorIs(t, err, domain.ErrEnrollmentNotFound)
}

func TestGetStudentEnrollments_DegradesOnCatalogFailure(t *testing.T) {
	now := time.Now()
	repo := &mockEnrollmentRepo{
		listByStudentFn: func(ctx context.Context, studentEmail string) ([]*domain.Enrollment, error) {
			return []*domain.Enrollment{
				{ID: "e-1", StudentEmail: studentEmail, CourseID: "c-good", Progress: 40, EnrolledAt: now},
				{ID: "e-2", StudentEmail: studentEmail, CourseID: "c-gone", Progress: 10, EnrolledAt: now},
			}, nil
		},
	}
	catalog := &mockCatalog{getCourseFn: func(ctx context.Context, courseID string) (*client.CourseInfo, error) {
		if courseID == "c-good" {
			return &client.CourseInfo{ID: courseID, Title: "Go Basics", Price: 19.99}, nil
		}
		return nil, domain.ErrCatalogUnavailable
	}}
	svc := NewEnrollmentService(repo, catalog, knownStudent(), nil)

	views, err := svc.GetStudentEnrollments(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.NotNil(t, views[0].Course)
	assert.Equal(t, "Go Basics", views[0].Course.Title)
	assert.Equal(t, 19.99, views[0].Course.Price)
	assert.Nil(t, views[1].Course)
	assert.Equal(t, 10, views[1].Progress)
}
