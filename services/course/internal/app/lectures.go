package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"coursehub/internal/util"
	"coursehub/pkg/domain"
	"coursehub/pkg/events"
	"coursehub/pkg/queue"
	"coursehub/pkg/storage"
	"coursehub/pkg/store"
)

const msgLectureNotFound = "lecture not found in the course"

// LectureUpload is a lecture title plus its media file.
type LectureUpload struct {
	Title    string    `json:"videoTitle" validate:"required,max=200"`
	Filename string    `json:"-"`
	Body     io.Reader `json:"-" validate:"-"`
	Size     int64     `json:"-"`
}

// AddLecture probes, stores and attaches a lecture to a draft course.
func (a *App) AddLecture(ctx context.Context, actor domain.User, courseID string, up LectureUpload) (domain.Lecture, error) {
	if err := a.CheckDraftOwnership(ctx, actor, courseID); err != nil {
		return domain.Lecture{}, err
	}
	up.Title = strings.TrimSpace(up.Title)
	if err := check("invalid lecture", up); err != nil {
		return domain.Lecture{}, err
	}
	if up.Body == nil {
		return domain.Lecture{}, validationError("invalid lecture", map[string]string{"video": "required"})
	}

	spooled, size, err := a.spool(up.Body, up.Filename)
	if err != nil {
		return domain.Lecture{}, storeError("spool upload", err)
	}
	defer func() {
		_ = spooled.Close()
		_ = os.Remove(spooled.Name())
	}()

	duration, err := a.prober.ProbeDuration(ctx, spooled.Name())
	if err != nil {
		return domain.Lecture{}, probeError(err)
	}
	if _, err := spooled.Seek(0, io.SeekStart); err != nil {
		return domain.Lecture{}, storeError("rewind upload", err)
	}

	lecture := domain.Lecture{
		ID:        util.NewID(),
		CourseID:  courseID,
		Title:     up.Title,
		Duration:  duration,
		CreatedAt: a.now(),
	}
	lecture.MediaKey = storage.LectureKey(courseID, lecture.ID, up.Filename)
	if err := a.objects.Put(ctx, lecture.MediaKey, spooled, size, contentTypeFor(up.Filename)); err != nil {
		return domain.Lecture{}, storeError("save lecture media", err)
	}
	lecture.MediaURL = a.objects.URL(lecture.MediaKey)

	if _, err := a.store.AttachLecture(ctx, actor.ID, lecture); err != nil {
		a.deleteObject(ctx, lecture.MediaKey)
		return domain.Lecture{}, translate("attach lecture", err)
	}
	util.LoggerFromContext(ctx).Info("lecture added", "course_id", courseID, "lecture_id", lecture.ID, "duration", duration)
	a.invalidateListings(ctx)
	return lecture, nil
}

// RemoveLecture unlinks a lecture from its course and deletes it. Removal is
// allowed after publish. The media object is removed by the cleanup worker.
func (a *App) RemoveLecture(ctx context.Context, actor domain.User, courseID, lectureID string) (domain.Lecture, error) {
	if err := checkCourseID(courseID); err != nil {
		return domain.Lecture{}, err
	}
	if !util.IsID(lectureID) {
		return domain.Lecture{}, validationError("invalid lecture id", map[string]string{"lectureId": "objectid"})
	}
	course, ok, err := a.store.GetCourse(ctx, courseID)
	if err != nil {
		return domain.Lecture{}, storeError("get course", err)
	}
	if !ok {
		return domain.Lecture{}, notFound(msgCourseNotFound)
	}
	if course.CreatedBy != actor.ID {
		return domain.Lecture{}, forbidden(msgNotCreator)
	}
	if !domain.Contains(course.Videos, lectureID) {
		return domain.Lecture{}, notFound(msgLectureNotFound)
	}

	removed, err := a.store.DetachLecture(ctx, courseID, lectureID, actor.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotInList) {
			return domain.Lecture{}, notFound(msgLectureNotFound)
		}
		return domain.Lecture{}, translate("remove lecture", err)
	}

	logger := util.LoggerFromContext(ctx)
	logger.Info("lecture removed", "course_id", courseID, "lecture_id", lectureID)
	if removed.MediaKey != "" {
		a.scheduleCleanup(ctx, removed.MediaKey)
	}
	a.emit(ctx, events.TypeLectureRemoved, events.LectureRemoved{
		CourseID:  courseID,
		LectureID: lectureID,
		MediaKey:  removed.MediaKey,
	})
	a.invalidateListings(ctx)
	return removed, nil
}

// CheckDraftOwnership applies the guards shared by Publish and AddLecture, in
// order: existence, ownership, draft state. Handlers call it before reading
// the request body.
func (a *App) CheckDraftOwnership(ctx context.Context, actor domain.User, courseID string) error {
	if err := checkCourseID(courseID); err != nil {
		return err
	}
	course, ok, err := a.store.GetCourse(ctx, courseID)
	if err != nil {
		return storeError("get course", err)
	}
	if !ok {
		return notFound(msgCourseNotFound)
	}
	if course.CreatedBy != actor.ID {
		return forbidden(msgNotCreator)
	}
	if course.IsPublished {
		return conflict(msgAlreadyPublished)
	}
	return nil
}

// spool copies an upload into a temp file so the prober can read it by path.
func (a *App) spool(r io.Reader, filename string) (*os.File, int64, error) {
	ext := strings.ToLower(filepath.Ext(storage.SafeFilename(filename)))
	f, err := os.CreateTemp(a.spoolDir, "lecture-*"+ext)
	if err != nil {
		return nil, 0, fmt.Errorf("create spool file: %w", err)
	}
	n, err := io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, 0, fmt.Errorf("write spool file: %w", err)
	}
	return f, n, nil
}

// scheduleCleanup hands key to the cleanup worker, or deletes it inline when
// no queue is configured.
func (a *App) scheduleCleanup(ctx context.Context, key string) {
	if a.cleanup == nil {
		a.deleteObject(ctx, key)
		return
	}
	job, err := a.cleanup.Enqueue(ctx, queue.KindDeleteObject, key)
	if err != nil {
		util.LoggerFromContext(ctx).Warn("enqueue media cleanup failed", "key", key, "err", err)
		return
	}
	util.LoggerFromContext(ctx).Debug("media cleanup enqueued", "job_id", job.ID, "key", key)
}
