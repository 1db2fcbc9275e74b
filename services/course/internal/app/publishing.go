package app

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"coursehub/internal/util"
	"coursehub/pkg/domain"
	"coursehub/pkg/events"
	"coursehub/pkg/storage"
	"coursehub/pkg/store"
)

// PublishInput holds the values fixed when a course is published. Price and
// Duration are pointers so an absent value is told apart from zero.
type PublishInput struct {
	Price    *float64 `json:"price" validate:"required,gte=0"`
	Category string   `json:"category" validate:"required,category"`
	Duration *int     `json:"duration" validate:"required,gte=0"`
}

// CourseDraft holds the fields of a new course.
type CourseDraft struct {
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Category    string `json:"category" validate:"omitempty,category"`
}

// Upload is a file received from a client.
type Upload struct {
	Filename string
	Body     io.Reader
	Size     int64
}

type categoryInput struct {
	Name string `json:"name" validate:"required,category"`
}

// Publish moves a draft course to published, registering it under its
// category and its creator's created courses in one store transaction.
func (a *App) Publish(ctx context.Context, actor domain.User, courseID string, in PublishInput) (domain.Course, error) {
	if err := a.CheckDraftOwnership(ctx, actor, courseID); err != nil {
		return domain.Course{}, err
	}
	in.Category = NormalizeCategory(in.Category)
	if err := check("invalid publish request", in); err != nil {
		return domain.Course{}, err
	}

	published, err := a.store.PublishCourse(ctx, store.PublishParams{
		CourseID: courseID,
		ActorID:  actor.ID,
		Price:    *in.Price,
		Duration: *in.Duration,
		Category: in.Category,
		At:       a.now(),
	})
	if err != nil {
		return domain.Course{}, translate("publish course", err)
	}

	util.LoggerFromContext(ctx).Info("course published", "course_id", courseID, "category", in.Category)
	a.emit(ctx, events.TypeCoursePublished, events.CoursePublished{
		CourseID:  published.ID,
		CreatedBy: published.CreatedBy,
		Category:  published.Category,
		Price:     published.Price,
	})
	a.invalidateListings(ctx)
	return published, nil
}

// CreateCourse creates a draft course owned by actor. The thumbnail is optional.
func (a *App) CreateCourse(ctx context.Context, actor domain.User, draft CourseDraft, thumbnail *Upload) (domain.Course, error) {
	if actor.Role != domain.RoleTeacher {
		return domain.Course{}, forbidden("only teachers can create courses")
	}
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Description = plainDescription(draft.Description)
	draft.Category = NormalizeCategory(draft.Category)
	if err := check("invalid course", draft); err != nil {
		return domain.Course{}, err
	}
	taken, err := a.store.HasCourseTitle(ctx, draft.Title)
	if err != nil {
		return domain.Course{}, storeError("check course title", err)
	}
	if taken {
		return domain.Course{}, conflict("please select a different course title")
	}

	now := a.now()
	course := domain.Course{
		ID:          util.NewID(),
		Title:       draft.Title,
		Description: draft.Description,
		Category:    draft.Category,
		Videos:      []string{},
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var thumbKey string
	if thumbnail != nil && thumbnail.Body != nil {
		thumbKey = storage.ThumbnailKey(course.ID, thumbnail.Filename)
		if err := a.objects.Put(ctx, thumbKey, thumbnail.Body, thumbnail.Size, contentTypeFor(thumbnail.Filename)); err != nil {
			return domain.Course{}, storeError("save thumbnail", err)
		}
		course.Thumbnail = a.objects.URL(thumbKey)
	}

	if err := a.store.CreateCourse(ctx, course); err != nil {
		if thumbKey != "" {
			a.deleteObject(ctx, thumbKey)
		}
		if errors.Is(err, store.ErrDuplicate) {
			return domain.Course{}, conflict("please select a different course title")
		}
		return domain.Course{}, storeError("create course", err)
	}
	util.LoggerFromContext(ctx).Info("course created", "course_id", course.ID, "created_by", actor.ID)
	a.invalidateListings(ctx)
	return course, nil
}

// CreateCategory registers an empty category. Courses join categories only
// through Publish.
func (a *App) CreateCategory(ctx context.Context, actor domain.User, name string) (domain.Category, error) {
	if actor.Role != domain.RoleTeacher {
		return domain.Category{}, forbidden("only teachers can create categories")
	}
	in := categoryInput{Name: NormalizeCategory(name)}
	if err := check("invalid category", in); err != nil {
		return domain.Category{}, err
	}
	cat := domain.Category{
		ID:        util.NewID(),
		Name:      in.Name,
		Courses:   []string{},
		CreatedAt: a.now(),
	}
	if err := a.store.CreateCategory(ctx, cat); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return domain.Category{}, conflict("this category already exists")
		}
		return domain.Category{}, storeError("create category", err)
	}
	return cat, nil
}

func (a *App) ListCategories(ctx context.Context) ([]domain.Category, error) {
	cats, err := a.store.ListCategories(ctx)
	if err != nil {
		return nil, storeError("list categories", err)
	}
	return cats, nil
}

func (a *App) deleteObject(ctx context.Context, key string) {
	if err := a.objects.Delete(ctx, key); err != nil {
		util.LoggerFromContext(ctx).Warn("delete stored object failed", "key", key, "err", err)
	}
}

func contentTypeFor(filename string) string {
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return contentType
}
