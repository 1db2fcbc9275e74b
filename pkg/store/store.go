package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coursehub/pkg/domain"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("duplicate record")
	ErrAlreadyPublished = errors.New("course already published")
	ErrNotOwner         = errors.New("not the creator of the course")
	// ErrNotInList is returned when a reference to remove is absent from its list.
	ErrNotInList = errors.New("reference not in list")
	// ErrConcurrentUpdate is returned when optimistic retries are exhausted.
	ErrConcurrentUpdate = errors.New("concurrent update, retry later")
	// ErrUserNotFound is the ErrNotFound returned for a missing user row.
	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
)

// errStaleVersion marks a lost optimistic-concurrency race inside a transaction.
var errStaleVersion = errors.New("stale version")

// CourseFilter selects courses for listings.
type CourseFilter struct {
	Category      string
	PublishedOnly bool
}

// PublishParams carries the values written by the publish transition.
type PublishParams struct {
	CourseID string
	ActorID  string
	Price    float64
	Duration int
	Category string
	At       time.Time
}

// Store defines persistence for users, courses, lectures and categories.
//
// Multi-record mutations (PublishCourse, AttachLecture, DetachLecture and the
// user reference list operations) are atomic: either every record reflects the
// change or none does.
type Store interface {
	// users
	SaveUser(ctx context.Context, u domain.User) error
	GetUser(ctx context.Context, id string) (domain.User, bool, error)
	ListUsersByIDs(ctx context.Context, ids []string) ([]domain.User, error)
	SetUserRole(ctx context.Context, id string, role domain.UserRole) (domain.User, error)
	SearchTeachers(ctx context.Context, query string, limit int) ([]domain.User, error)
	AddCourseRef(ctx context.Context, userID string, list domain.CourseList, courseID string) (domain.User, bool, error)
	RemoveCourseRef(ctx context.Context, userID string, list domain.CourseList, courseID string) (domain.User, error)

	// categories
	CreateCategory(ctx context.Context, c domain.Category) error
	GetCategoryByName(ctx context.Context, name string) (domain.Category, bool, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// courses
	CreateCourse(ctx context.Context, c domain.Course) error
	GetCourse(ctx context.Context, id string) (domain.Course, bool, error)
	HasCourseTitle(ctx context.Context, title string) (bool, error)
	ListCourses(ctx context.Context, filter CourseFilter) ([]domain.Course, error)
	ListCoursesByIDs(ctx context.Context, ids []string) ([]domain.Course, error)
	PublishCourse(ctx context.Context, p PublishParams) (domain.Course, error)
	AttachLecture(ctx context.Context, actorID string, lecture domain.Lecture) (domain.Course, error)
	DetachLecture(ctx context.Context, courseID, lectureID, actorID string) (domain.Lecture, error)

	// lectures
	ListLecturesByIDs(ctx context.Context, ids []string) ([]domain.Lecture, error)
}

const maxVersionRetries = 5

// retryStale re-runs fn while it loses optimistic-concurrency races.
func retryStale(ctx context.Context, fn func() error) error {
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		err := fn()
		if !errors.Is(err, errStaleVersion) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return ErrConcurrentUpdate
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func withoutIndex(ids []string, idx int) []string {
	out := make([]string, 0, len(ids)-1)
	out = append(out, ids[:idx]...)
	return append(out, ids[idx+1:]...)
}

func appendCopy(ids []string, id string) []string {
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids...)
	return append(out, id)
}
