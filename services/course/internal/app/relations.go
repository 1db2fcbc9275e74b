package app

import (
	"context"
	"errors"

	"coursehub/internal/util"
	"coursehub/pkg/domain"
	"coursehub/pkg/store"
)

func (a *App) AddToCart(ctx context.Context, actor domain.User, courseID string) (domain.User, error) {
	return a.addRef(ctx, actor, domain.ListCart, courseID)
}

func (a *App) RemoveFromCart(ctx context.Context, actor domain.User, courseID string) (domain.User, error) {
	return a.removeRef(ctx, actor, domain.ListCart, courseID)
}

func (a *App) GetCart(ctx context.Context, actor domain.User) ([]domain.CourseSummary, error) {
	return a.expandList(ctx, actor, domain.ListCart)
}

func (a *App) AddToWishlist(ctx context.Context, actor domain.User, courseID string) (domain.User, error) {
	return a.addRef(ctx, actor, domain.ListWishlist, courseID)
}

func (a *App) RemoveFromWishlist(ctx context.Context, actor domain.User, courseID string) (domain.User, error) {
	return a.removeRef(ctx, actor, domain.ListWishlist, courseID)
}

func (a *App) GetWishlist(ctx context.Context, actor domain.User) ([]domain.CourseSummary, error) {
	return a.expandList(ctx, actor, domain.ListWishlist)
}

// ListCreatedCourses expands the courses the actor has published.
func (a *App) ListCreatedCourses(ctx context.Context, actor domain.User) ([]domain.CourseSummary, error) {
	return a.expandList(ctx, actor, domain.ListCreatedCourse)
}

// addRef appends courseID to the list unless it is already there.
func (a *App) addRef(ctx context.Context, actor domain.User, list domain.CourseList, courseID string) (domain.User, error) {
	if err := checkCourseID(courseID); err != nil {
		return domain.User{}, err
	}
	_, ok, err := a.store.GetCourse(ctx, courseID)
	if err != nil {
		return domain.User{}, storeError("get course", err)
	}
	if !ok {
		return domain.User{}, notFound(msgCourseNotFound)
	}
	user, added, err := a.store.AddCourseRef(ctx, actor.ID, list, courseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, notFound(msgUserNotFound)
		}
		return domain.User{}, translate("update "+string(list), err)
	}
	if !added {
		util.LoggerFromContext(ctx).Debug("course already in list", "list", list, "course_id", courseID)
	}
	return user, nil
}

func (a *App) removeRef(ctx context.Context, actor domain.User, list domain.CourseList, courseID string) (domain.User, error) {
	if err := checkCourseID(courseID); err != nil {
		return domain.User{}, err
	}
	user, err := a.store.RemoveCourseRef(ctx, actor.ID, list, courseID)
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, store.ErrNotInList):
		return domain.User{}, notFound("course not found in " + string(list))
	case errors.Is(err, store.ErrNotFound):
		return domain.User{}, notFound(msgUserNotFound)
	default:
		return domain.User{}, translate("update "+string(list), err)
	}
}

// expandList reads the actor's list fresh from the store and returns its
// courses in list order. Dangling references are skipped.
func (a *App) expandList(ctx context.Context, actor domain.User, list domain.CourseList) ([]domain.CourseSummary, error) {
	user, ok, err := a.store.GetUser(ctx, actor.ID)
	if err != nil {
		return nil, storeError("get user", err)
	}
	if !ok {
		return nil, notFound(msgUserNotFound)
	}
	ids := user.Courses(list)
	courses, err := a.store.ListCoursesByIDs(ctx, ids)
	if err != nil {
		return nil, storeError("list courses", err)
	}
	byID := make(map[string]domain.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}
	ordered := make([]domain.Course, 0, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			util.LoggerFromContext(ctx).Warn("skipping missing course", "list", list, "course_id", id, "user_id", user.ID)
			continue
		}
		ordered = append(ordered, c)
	}
	return a.summarize(ctx, ordered)
}
