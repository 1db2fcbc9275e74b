package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"coursehub/internal/util"
	"coursehub/pkg/domain"
)

// MemoryStore is an in-memory Store. A single mutex serializes every
// mutation, so multi-record operations are trivially atomic.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[string]domain.User
	courses    map[string]domain.Course
	lectures   map[string]domain.Lecture
	categories map[string]domain.Category // keyed by name
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[string]domain.User),
		courses:    make(map[string]domain.Course),
		lectures:   make(map[string]domain.Lecture),
		categories: make(map[string]domain.Category),
	}
}

func (s *MemoryStore) SaveUser(_ context.Context, u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.users[u.ID]; ok {
		existing.Username = u.Username
		existing.Name = u.Name
		existing.Email = u.Email
		existing.Role = u.Role
		existing.Expertise = u.Expertise
		existing.UpdatedAt = time.Now().UTC()
		s.users[u.ID] = existing
		return nil
	}
	u.Cart = cloneIDs(u.Cart)
	u.Wishlist = cloneIDs(u.Wishlist)
	u.CreatedCourse = cloneIDs(u.CreatedCourse)
	s.users[u.ID] = u
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (domain.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, false, nil
	}
	return cloneUser(u), true, nil
}

func (s *MemoryStore) ListUsersByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(ids))
	for _, id := range uniqueIDs(ids) {
		if u, ok := s.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (s *MemoryStore) SetUserRole(_ context.Context, id string, role domain.UserRole) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	return cloneUser(u), nil
}

func (s *MemoryStore) SearchTeachers(_ context.Context, query string, limit int) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(query)
	out := make([]domain.User, 0)
	for _, u := range s.users {
		if u.Role != domain.RoleTeacher {
			continue
		}
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Expertise), q) {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) AddCourseRef(_ context.Context, userID string, list domain.CourseList, courseID string) (domain.User, bool, error) {
	if _, ok := listColumn(list); !ok {
		return domain.User{}, false, fmt.Errorf("unknown course list %q", list)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return domain.User{}, false, ErrUserNotFound
	}
	ids := u.Courses(list)
	if domain.Contains(ids, courseID) {
		return cloneUser(u), false, nil
	}
	setUserList(&u, list, appendCopy(ids, courseID))
	u.UpdatedAt = time.Now().UTC()
	s.users[userID] = u
	return cloneUser(u), true, nil
}

func (s *MemoryStore) RemoveCourseRef(_ context.Context, userID string, list domain.CourseList, courseID string) (domain.User, error) {
	if _, ok := listColumn(list); !ok {
		return domain.User{}, fmt.Errorf("unknown course list %q", list)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	ids := u.Courses(list)
	idx := domain.IndexOf(ids, courseID)
	if idx < 0 {
		return domain.User{}, ErrNotInList
	}
	setUserList(&u, list, withoutIndex(ids, idx))
	u.UpdatedAt = time.Now().UTC()
	s.users[userID] = u
	return cloneUser(u), nil
}

func (s *MemoryStore) CreateCategory(_ context.Context, c domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[c.Name]; ok {
		return ErrDuplicate
	}
	c.Courses = cloneIDs(c.Courses)
	s.categories[c.Name] = c
	return nil
}

func (s *MemoryStore) GetCategoryByName(_ context.Context, name string) (domain.Category, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[name]
	if !ok {
		return domain.Category{}, false, nil
	}
	c.Courses = cloneIDs(c.Courses)
	return c, true, nil
}

func (s *MemoryStore) ListCategories(_ context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		c.Courses = cloneIDs(c.Courses)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) CreateCourse(_ context.Context, c domain.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[c.ID]; ok {
		return ErrDuplicate
	}
	for _, existing := range s.courses {
		if existing.Title == c.Title {
			return ErrDuplicate
		}
	}
	s.courses[c.ID] = cloneCourse(c)
	return nil
}

func (s *MemoryStore) GetCourse(_ context.Context, id string) (domain.Course, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[id]
	if !ok {
		return domain.Course{}, false, nil
	}
	return cloneCourse(c), true, nil
}

func (s *MemoryStore) HasCourseTitle(_ context.Context, title string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.courses {
		if c.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ListCourses(_ context.Context, filter CourseFilter) ([]domain.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Course, 0, len(s.courses))
	for _, c := range s.courses {
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		if filter.PublishedOnly && !c.IsPublished {
			continue
		}
		out = append(out, cloneCourse(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) ListCoursesByIDs(_ context.Context, ids []string) ([]domain.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Course, 0, len(ids))
	for _, id := range uniqueIDs(ids) {
		if c, ok := s.courses[id]; ok {
			out = append(out, cloneCourse(c))
		}
	}
	return out, nil
}

func (s *MemoryStore) PublishCourse(_ context.Context, p PublishParams) (domain.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[p.CourseID]
	if !ok {
		return domain.Course{}, ErrNotFound
	}
	if c.CreatedBy != p.ActorID {
		return domain.Course{}, ErrNotOwner
	}
	if c.IsPublished {
		return domain.Course{}, ErrAlreadyPublished
	}
	creator, ok := s.users[p.ActorID]
	if !ok {
		return domain.Course{}, ErrUserNotFound
	}

	at := p.At.UTC()
	c.IsPublished = true
	c.PublishedAt = &at
	c.Price = p.Price
	c.Duration = p.Duration
	c.Category = p.Category
	c.UpdatedAt = at
	c.Version++
	s.courses[c.ID] = c

	if !domain.Contains(creator.CreatedCourse, c.ID) {
		creator.CreatedCourse = appendCopy(creator.CreatedCourse, c.ID)
		creator.UpdatedAt = at
		s.users[creator.ID] = creator
	}

	cat, ok := s.categories[p.Category]
	if !ok {
		cat = domain.Category{ID: util.NewID(), Name: p.Category, CreatedAt: at}
	}
	if !domain.Contains(cat.Courses, c.ID) {
		cat.Courses = appendCopy(cat.Courses, c.ID)
	}
	s.categories[p.Category] = cat
	return cloneCourse(c), nil
}

func (s *MemoryStore) AttachLecture(_ context.Context, actorID string, lecture domain.Lecture) (domain.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[lecture.CourseID]
	if !ok {
		return domain.Course{}, ErrNotFound
	}
	if c.CreatedBy != actorID {
		return domain.Course{}, ErrNotOwner
	}
	if c.IsPublished {
		return domain.Course{}, ErrAlreadyPublished
	}
	if _, ok := s.lectures[lecture.ID]; ok {
		return domain.Course{}, ErrDuplicate
	}
	s.lectures[lecture.ID] = lecture
	c.Videos = appendCopy(c.Videos, lecture.ID)
	c.UpdatedAt = time.Now().UTC()
	c.Version++
	s.courses[c.ID] = c
	return cloneCourse(c), nil
}

func (s *MemoryStore) DetachLecture(_ context.Context, courseID, lectureID, actorID string) (domain.Lecture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[courseID]
	if !ok {
		return domain.Lecture{}, ErrNotFound
	}
	if c.CreatedBy != actorID {
		return domain.Lecture{}, ErrNotOwner
	}
	idx := domain.IndexOf(c.Videos, lectureID)
	if idx < 0 {
		return domain.Lecture{}, ErrNotInList
	}
	removed, ok := s.lectures[lectureID]
	if !ok {
		removed = domain.Lecture{ID: lectureID, CourseID: courseID}
	}
	c.Videos = withoutIndex(c.Videos, idx)
	c.UpdatedAt = time.Now().UTC()
	c.Version++
	s.courses[c.ID] = c
	delete(s.lectures, lectureID)
	return removed, nil
}

func (s *MemoryStore) ListLecturesByIDs(_ context.Context, ids []string) ([]domain.Lecture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Lecture, 0, len(ids))
	for _, id := range uniqueIDs(ids) {
		if l, ok := s.lectures[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func cloneIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return append([]string{}, ids...)
}

func cloneUser(u domain.User) domain.User {
	u.Cart = cloneIDs(u.Cart)
	u.Wishlist = cloneIDs(u.Wishlist)
	u.CreatedCourse = cloneIDs(u.CreatedCourse)
	return u
}

func cloneCourse(c domain.Course) domain.Course {
	c.Videos = cloneIDs(c.Videos)
	return c
}
