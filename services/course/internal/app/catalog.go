package app

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"coursehub/internal/util"
	"coursehub/pkg/domain"
	"coursehub/pkg/store"
)

// ListCourses returns course summaries newest first. Lectures and creators
// are expanded with one bulk lookup each.
func (a *App) ListCourses(ctx context.Context, filter store.CourseFilter) ([]domain.CourseSummary, error) {
	filter.Category = NormalizeCategory(filter.Category)
	cacheKey := "list:" + filter.Category + ":" + strconv.FormatBool(filter.PublishedOnly)

	var cached []domain.CourseSummary
	if a.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	courses, err := a.store.ListCourses(ctx, filter)
	if err != nil {
		return nil, storeError("list courses", err)
	}
	out, err := a.summarize(ctx, courses)
	if err != nil {
		return nil, err
	}
	a.cacheSet(ctx, cacheKey, out)
	return out, nil
}

// GetCourse returns one expanded course.
func (a *App) GetCourse(ctx context.Context, id string) (domain.CourseSummary, error) {
	if err := checkCourseID(id); err != nil {
		return domain.CourseSummary{}, err
	}
	cacheKey := "course:" + id
	var cached domain.CourseSummary
	if a.cacheGet(ctx, cacheKey, &cached) {
		return cached, nil
	}

	course, ok, err := a.store.GetCourse(ctx, id)
	if err != nil {
		return domain.CourseSummary{}, storeError("get course", err)
	}
	if !ok {
		return domain.CourseSummary{}, notFound(msgCourseNotFound)
	}
	out, err := a.summarize(ctx, []domain.Course{course})
	if err != nil {
		return domain.CourseSummary{}, err
	}
	a.cacheSet(ctx, cacheKey, out[0])
	return out[0], nil
}

// summarize expands lectures and creators for courses, preserving order.
func (a *App) summarize(ctx context.Context, courses []domain.Course) ([]domain.CourseSummary, error) {
	out := make([]domain.CourseSummary, 0, len(courses))
	if len(courses) == 0 {
		return out, nil
	}

	var lectureIDs, creatorIDs []string
	for _, c := range courses {
		lectureIDs = append(lectureIDs, c.Videos...)
		creatorIDs = append(creatorIDs, c.CreatedBy)
	}

	var (
		lectures []domain.Lecture
		creators []domain.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lectures, err = a.store.ListLecturesByIDs(gctx, lectureIDs)
		if err != nil {
			return fmt.Errorf("load lectures: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		creators, err = a.store.ListUsersByIDs(gctx, creatorIDs)
		if err != nil {
			return fmt.Errorf("load creators: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, storeError("expand courses", err)
	}

	lectureByID := make(map[string]domain.Lecture, len(lectures))
	for _, l := range lectures {
		lectureByID[l.ID] = l
	}
	creatorByID := make(map[string]domain.User, len(creators))
	for _, u := range creators {
		creatorByID[u.ID] = u
	}

	for _, c := range courses {
		summary := domain.CourseSummary{
			ID:            c.ID,
			Title:         c.Title,
			Description:   c.Description,
			Category:      c.Category,
			Price:         c.Price,
			Duration:      c.Duration,
			Rating:        c.Rating,
			TotalStudents: c.TotalStudents,
			Thumbnail:     c.Thumbnail,
			IsPublished:   c.IsPublished,
			Videos:        make([]domain.LectureRef, 0, len(c.Videos)),
			CreatedAt:     c.CreatedAt,
		}
		for _, id := range c.Videos {
			if l, ok := lectureByID[id]; ok {
				summary.Videos = append(summary.Videos, domain.LectureRef{ID: l.ID, Title: l.Title, MediaURL: l.MediaURL})
			}
		}
		if u, ok := creatorByID[c.CreatedBy]; ok {
			summary.CreatedBy = &domain.CreatorRef{ID: u.ID, Username: u.Username, Name: u.Name}
		}
		out = append(out, summary)
	}
	return out, nil
}

func (a *App) cacheGet(ctx context.Context, key string, dst any) bool {
	if a.cache == nil {
		return false
	}
	hit, err := a.cache.Get(ctx, key, dst)
	if err != nil {
		util.LoggerFromContext(ctx).Warn("listing cache read failed", "key", key, "err", err)
		return false
	}
	return hit
}

func (a *App) cacheSet(ctx context.Context, key string, v any) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Set(ctx, key, v); err != nil {
		util.LoggerFromContext(ctx).Warn("listing cache write failed", "key", key, "err", err)
	}
}
