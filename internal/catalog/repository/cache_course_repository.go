package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/learnhub/learnhub/internal/catalog/domain"
	"github.com/learnhub/learnhub/pkg/redis"
)

const (
	courseDetailKeyPrefix = "course:detail:"
	courseListKeyPrefix   = "course:list:"

	courseCacheTTL = 5 * time.Minute
)

// CachedCourseRepository wraps CourseRepository with Redis caching.
// Course detail reads dominate traffic; writes invalidate.
type CachedCourseRepository struct {
	repo  CourseRepository
	cache *redis.Client
}

// NewCachedCourseRepository creates a new CachedCourseRepository
func NewCachedCourseRepository(repo CourseRepository, cache *redis.Client) *CachedCourseRepository {
	return &CachedCourseRepository{repo: repo, cache: cache}
}

// Create creates a course and invalidates list caches
func (r *CachedCourseRepository) Create(ctx context.Context, course *domain.Course) error {
	if err := r.repo.Create(ctx, course); err != nil {
		return err
	}
	r.invalidateListCaches(ctx)
	return nil
}

// GetByID retrieves a course by ID with caching
func (r *CachedCourseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	cacheKey := courseDetailKeyPrefix + id
	cached, err := r.cache.Get(ctx, cacheKey).Result()
	if err == nil && cached != "" {
		var course domain.Course
		if err := json.Unmarshal([]byte(cached), &course); err == nil {
			return &course, nil
		}
	}

	course, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, nil
	}

	r.cacheCourse(ctx, cacheKey, course)
	return course, nil
}

// List retrieves courses; only unfiltered pages are cached
func (r *CachedCourseRepository) List(ctx context.Context, filter *CourseFilter, limit, offset int) ([]*domain.Course, int, error) {
	if filter == nil || (filter.Search == "" && filter.Category == "") {
		cacheKey := fmt.Sprintf("%sall:%d:%d", courseListKeyPrefix, limit, offset)
		cached, err := r.cache.Get(ctx, cacheKey).Result()
		if err == nil && cached != "" {
			var result cachedCourseList
			if err := json.Unmarshal([]byte(cached), &result); err == nil {
				return result.Courses, result.Total, nil
			}
		}

		courses, total, err := r.repo.List(ctx, filter, limit, offset)
		if err != nil {
			return nil, 0, err
		}

		r.cacheCourseList(ctx, cacheKey, courses, total)
		return courses, total, nil
	}

	// Filtered queries bypass cache
	return r.repo.List(ctx, filter, limit, offset)
}

// Update updates a course and invalidates caches
func (r *CachedCourseRepository) Update(ctx context.Context, course *domain.Course) error {
	if err := r.repo.Update(ctx, course); err != nil {
		return err
	}
	r.cache.Del(ctx, courseDetailKeyPrefix+course.ID)
	r.invalidateListCaches(ctx)
	return nil
}

// Delete removes a course and invalidates caches
func (r *CachedCourseRepository) Delete(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}
	r.cache.Del(ctx, courseDetailKeyPrefix+id)
	r.invalidateListCaches(ctx)
	return nil
}

type cachedCourseList struct {
	Courses []*domain.Course `json:"courses"`
	Total   int              `json:"total"`
}

func (r *CachedCourseRepository) cacheCourse(ctx context.Context, key string, course *domain.Course) {
	data, err := json.Marshal(course)
	if err != nil {
		return
	}
	r.cache.Set(ctx, key, string(data), courseCacheTTL)
}

func (r *CachedCourseRepository) cacheCourseList(ctx context.Context, key string, courses []*domain.Course, total int) {
	data, err := json.Marshal(cachedCourseList{Courses: courses, Total: total})
	if err != nil {
		return
	}
	r.cache.Set(ctx, key, string(data), courseCacheTTL)
}

func (r *CachedCourseRepository) invalidateListCaches(ctx context.Context) {
	iter := r.cache.Client().Scan(ctx, 0, courseListKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		r.cache.Del(ctx, iter.Val())
	}
}
