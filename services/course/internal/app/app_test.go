package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"coursehub/internal/util"
	"coursehub/pkg/cache"
	"coursehub/pkg/domain"
	"coursehub/pkg/events"
	"coursehub/pkg/queue"
	"coursehub/pkg/storage"
	"coursehub/pkg/store"
)

type fakeProber struct {
	duration float64
	err      error
}

func (p *fakeProber) ProbeDuration(_ context.Context, path string) (float64, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, err
	}
	return p.duration, p.err
}

type recordingCleanup struct {
	mu   sync.Mutex
	keys []string
}

func (r *recordingCleanup) Enqueue(_ context.Context, kind, key string) (queue.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
	return queue.Job{ID: "job-" + key, Kind: kind, Key: key, Status: queue.StatusQueued}, nil
}

// stepClock advances one second per call so creation order is strict.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	app     *App
	store   *store.MemoryStore
	objects *storage.FileStore
	events  *events.MemoryPublisher
	prober  *fakeProber
	teacher domain.User
	other   domain.User
	student domain.User
}

func newFixture(t *testing.T, mutate func(*Config)) *fixture {
	t.Helper()
	objects, err := storage.NewFileStore(t.TempDir(), "")
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	f := &fixture{
		store:   store.NewMemoryStore(),
		objects: objects,
		events:  &events.MemoryPublisher{},
		prober:  &fakeProber{duration: 93.5},
		teacher: domain.User{ID: util.NewID(), Username: "ada", Name: "Ada Lovelace", Role: domain.RoleTeacher, Expertise: "Backend engineering"},
		other:   domain.User{ID: util.NewID(), Username: "alan", Name: "Alan Turing", Role: domain.RoleTeacher, Expertise: "Computability"},
		student: domain.User{ID: util.NewID(), Username: "sam", Name: "Sam Student", Role: domain.RoleStudent},
	}
	ctx := context.Background()
	for _, u := range []domain.User{f.teacher, f.other, f.student} {
		if err := f.store.SaveUser(ctx, u); err != nil {
			t.Fatalf("save user: %v", err)
		}
	}
	clock := &stepClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cfg := Config{
		Store:    f.store,
		Objects:  objects,
		Prober:   f.prober,
		Events:   f.events,
		SpoolDir: t.TempDir(),
		Now:      clock.Now,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	f.app, err = New(cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return f
}

func publishInput(price float64, category string, duration int) PublishInput {
	return PublishInput{Price: &price, Category: category, Duration: &duration}
}

func (f *fixture) createCourse(t *testing.T, title string) domain.Course {
	t.Helper()
	c, err := f.app.CreateCourse(context.Background(), f.teacher, CourseDraft{Title: title, Description: "about " + title}, nil)
	if err != nil {
		t.Fatalf("create course %q: %v", title, err)
	}
	return c
}

func (f *fixture) addLecture(t *testing.T, courseID, title string) domain.Lecture {
	t.Helper()
	l, err := f.app.AddLecture(context.Background(), f.teacher, courseID, LectureUpload{
		Title:    title,
		Filename: "intro.mp4",
		Body:     strings.NewReader("fake video bytes"),
		Size:     16,
	})
	if err != nil {
		t.Fatalf("add lecture: %v", err)
	}
	return l
}

func requireKind(t *testing.T, err error, want Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := KindOf(err); got != want {
		t.Fatalf("expected %s error, got %s (%v)", want, got, err)
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected missing store to fail")
	}
	if _, err := New(Config{Store: store.NewMemoryStore()}); err == nil {
		t.Fatalf("expected missing object store to fail")
	}
}

func TestPublishRegistersCategoryAndCreator(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	course := f.createCourse(t, "Go Services")

	published, err := f.app.Publish(ctx, f.teacher, course.ID, publishInput(49, " Backend ", 120))
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !published.IsPublished || published.Price != 49 || published.Duration != 120 || published.Category != "backend" {
		t.Fatalf("unexpected published course: %+v", published)
	}
	if published.PublishedAt == nil {
		t.Fatalf("expected publishedAt to be set")
	}

	cat, ok, err := f.store.GetCategoryByName(ctx, "backend")
	if err != nil || !ok {
		t.Fatalf("get category: ok=%v err=%v", ok, err)
	}
	if len(cat.Courses) != 1 || cat.Courses[0] != course.ID {
		t.Fatalf("expected category to hold course once, got %v", cat.Courses)
	}
	teacher, _, _ := f.store.GetUser(ctx, f.teacher.ID)
	if len(teacher.CreatedCourse) != 1 || teacher.CreatedCourse[0] != course.ID {
		t.Fatalf("expected created course list to hold course, got %v", teacher.CreatedCourse)
	}

	evts := f.events.Events()
	if len(evts) != 1 || evts[0].Type != events.TypeCoursePublished {
		t.Fatalf("expected one course.published event, got %+v", evts)
	}
}

func TestPublishGuardsApplyInOrder(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	draft := f.createCourse(t, "Draft Course")
	done := f.createCourse(t, "Done Course")
	if _, err := f.app.Publish(ctx, f.teacher, done.ID, publishInput(10, "backend", 0)); err != nil {
		t.Fatalf("publish: %v", err)
	}

	tests := []struct {
		name     string
		actor    domain.User
		courseID string
		input    PublishInput
		want     Kind
	}{
		{"malformed id", f.teacher, "nope", publishInput(0, "backend", 0), KindValidation},
		{"missing course", f.teacher, util.NewID(), publishInput(0, "backend", 0), KindNotFound},
		{"not the creator", f.other, draft.ID, publishInput(0, "!!", 0), KindForbidden},
		{"already published", f.teacher, done.ID, publishInput(0, "!!", 0), KindConflict},
		{"empty category", f.teacher, draft.ID, publishInput(0, "  ", 0), KindValidation},
		{"bad category", f.teacher, draft.ID, publishInput(0, "<script>", 0), KindValidation},
		{"negative price", f.teacher, draft.ID, publishInput(-1, "backend", 0), KindValidation},
		{"missing price and duration", f.teacher, draft.ID, PublishInput{Category: "backend"}, KindValidation},
		{"empty body from non-creator", f.other, draft.ID, PublishInput{}, KindForbidden},
		{"empty body on published course", f.teacher, done.ID, PublishInput{}, KindConflict},
		{"empty body on missing course", f.teacher, util.NewID(), PublishInput{}, KindNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.app.Publish(ctx, tc.actor, tc.courseID, tc.input)
			requireKind(t, err, tc.want)
		})
	}

	got, _, _ := f.store.GetCourse(ctx, draft.ID)
	if got.IsPublished {
		t.Fatalf("rejected publish must leave course in draft")
	}
}

func TestPublishReportsMissingCreatorRow(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	ghost := domain.User{ID: util.NewID(), Username: "ghost", Role: domain.RoleTeacher}
	now := time.Now().UTC()
	course := domain.Course{ID: util.NewID(), Title: "Orphaned", Videos: []string{}, CreatedBy: ghost.ID, CreatedAt: now, UpdatedAt: now}
	if err := f.store.CreateCourse(ctx, course); err != nil {
		t.Fatalf("create course: %v", err)
	}

	_, err := f.app.Publish(ctx, ghost, course.ID, publishInput(10, "backend", 60))
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Kind != KindNotFound || appErr.Message != msgUserNotFound {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestPublishTwiceFailsWithoutReapplying(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	course := f.createCourse(t, "Once Only")
	if _, err := f.app.Publish(ctx, f.teacher, course.ID, publishInput(49, "backend", 120)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	_, err := f.app.Publish(ctx, f.teacher, course.ID, publishInput(99, "frontend", 5))
	requireKind(t, err, KindConflict)

	got, _, _ := f.store.GetCourse(ctx, course.ID)
	if got.Price != 49 || got.Category != "backend" || got.Duration != 120 {
		t.Fatalf("second publish changed the course: %+v", got)
	}
	if _, ok, _ := f.store.GetCategoryByName(ctx, "frontend"); ok {
		t.Fatalf("second publish must not create a category")
	}
}

func TestConcurrentPublishHasSingleWinner(t *testing.T) {
	f := newFixture(t, nil)
	course := f.createCourse(t, "Race Course")

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.app.Publish(context.Background(), f.teacher, course.ID, publishInput(49, "backend", 120))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		if err == nil {
			wins++
			continue
		}
		requireKind(t, err, KindConflict)
	}
	if wins != 1 {
		t.Fatalf("expected exactly one successful publish, got %d", wins)
	}
	cat, _, _ := f.store.GetCategoryByName(context.Background(), "backend")
	if len(cat.Courses) != 1 {
		t.Fatalf("expected course once in category, got %v", cat.Courses)
	}
	if n := len(f.events.Events()); n != 1 {
		t.Fatalf("expected one publish event, got %d", n)
	}
}

func TestAddLectureOnlyWhileDraft(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	course := f.createCourse(t, "Lectured")

	lecture := f.addLecture(t, course.ID, "Intro")
	if lecture.Duration != 93.5 {
		t.Fatalf("expected probed duration, got %v", lecture.Duration)
	}
	if want := "/media/" + lecture.MediaKey; lecture.MediaURL != want {
		t.Fatalf("expected media url %q, got %q", want, lecture.MediaURL)
	}
	if !strings.HasPrefix(lecture.MediaKey, "lectures/"+course.ID+"/"+lecture.ID+"/") {
		t.Fatalf("unexpected media key %q", lecture.MediaKey)
	}
	if _, err := os.Stat(filepath.Join(f.objects.Root(), filepath.FromSlash(lecture.MediaKey))); err != nil {
		t.Fatalf("expected stored media: %v", err)
	}

	got, _, _ := f.store.GetCourse(ctx, course.ID)
	if len(got.Videos) != 1 || got.Videos[0] != lecture.ID {
		t.Fatalf("expected exactly one lecture id appended, got %v", got.Videos)
	}

	if _, err := f.app.Publish(ctx, f.teacher, course.ID, publishInput(0, "backend", 0)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	_, err := f.app.AddLecture(ctx, f.teacher, course.ID, LectureUpload{Title: "Late", Filename: "late.mp4", Body: strings.NewReader("x")})
	requireKind(t, err, KindConflict)

	got, _, _ = f.store.GetCourse(ctx, course.ID)
	if len(got.Videos) != 1 {
		t.Fatalf("published course videos changed: %v", got.Videos)
	}
}

func TestAddLectureRejectsBadInput(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	course := f.createCourse(t, "Inputs")

	_, err := f.app.AddLecture(ctx, f.other, course.ID, LectureUpload{Title: "x", Body: strings.NewReader("x")})
	requireKind(t, err, KindForbidden)
	_, err = f.app.AddLecture(ctx, f.teacher, util.NewID(), LectureUpload{Title: "x", Body: strings.NewReader("x")})
	requireKind(t, err, KindNotFound)
	_, err = f.app.AddLecture(ctx, f.teacher, course.ID, LectureUpload{Title: "  ", Body: strings.NewReader("x")})
	requireKind(t, err, KindValidation)
	_, err = f.app.AddLecture(ctx, f.teacher, course.ID, LectureUpload{Title: "No file"})
	requireKind(t, err, KindValidation)
}

func TestAddLectureProbeFailureStoresNothing(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	course := f.createCourse(t, "Probe Fails")
	f.prober.err = errors.New("invalid data found when processing input")

	_, err := f.app.AddLecture(ctx, f.teacher, course.ID, LectureUpload{Title: "Broken", Filename: "broken.mp4", Body: strings.NewReader("garbage")})
	requireKind(t, err, KindProbe)

	got, _, _ := f.store.GetCourse(ctx, course.ID)
	if len(got.Videos) != 0 {
		t.Fatalf("expected no lectures, got %v", got.Videos)
	}
	if _, err := os.Stat(filepath.Join(f.objects.Root(), "lectures")); !os.IsNotExist(err) {
		t.Fatalf("expected no stored media, stat err=%v", err)
	}
}

func TestRemoveLectureAfterPublish(t *testing.T) {
	cleanup := &recordingCleanup{}
	f := newFixture(t, func(cfg *Config) { cfg.Cleanup = cleanup })
	ctx := context.Background()
	course := f.createCourse(t, "Removable")
	first := f.addLecture(t, course.ID, "First")
	second := f.addLecture(t, course.ID, "Second")
	if _, err := f.app.Publish(ctx, f.teacher, course.ID, publishInput(0, "backend", 0)); err != nil {
		t.Fatalf("publish: %v", err)
	}

	_, err := f.app.RemoveLecture(ctx, f.other, course.ID, first.ID)
	requireKind(t, err, KindForbidden)

	removed, err := f.app.RemoveLecture(ctx, f.teacher, course.ID, first.ID)
	if err != nil {
		t.Fatalf("remove lecture: %v", err)
	}
	if removed.ID != first.ID || removed.MediaKey != first.MediaKey {
		t.Fatalf("unexpected removed lecture: %+v", removed)
	}
	got, _, _ := f.store.GetCourse(ctx, course.ID)
	if len(got.Videos) != 1 || got.Videos[0] != second.ID {
		t.Fatalf("expected only second lecture left, got %v", got.Videos)
	}
	lectures, _ := f.store.ListLecturesByIDs(ctx, []string{first.ID})
	if len(lectures) != 0 {
		t.Fatalf("expected lecture record deleted")
	}
	if len(cleanup.keys) != 1 || cleanup.keys[0] != first.MediaKey {
		t.Fatalf("expected cleanup job for %q, got %v", first.MediaKey, cleanup.keys)
	}

	_, err = f.app.RemoveLecture(ctx, f.teacher, course.ID, first.ID)
	requireKind(t, err, KindNotFound)
	got, _, _ = f.store.GetCourse(ctx, course.ID)
	if len(got.Videos) != 1 {
		t.Fatalf("failed remove changed videos: %v", got.Videos)
	}
}

func TestRemoveLectureWithoutQueueDeletesInline(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	course := f.createCourse(t, "Inline Cleanup")
	lecture := f.addLecture(t, course.ID, "Only")
	path := filepath.Join(f.objects.Root(), filepath.FromSlash(lecture.MediaKey))

	if _, err := f.app.RemoveLecture(ctx, f.teacher, course.ID, lecture.ID); err != nil {
		t.Fatalf("remove lecture: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected media deleted, stat err=%v", err)
	}
}

func TestCartAddIsIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	course := f.createCourse(t, "Cart Course")

	for i := 0; i < 2; i++ {
		if _, err := f.app.AddToCart(ctx, f.student, course.ID); err != nil {
			t.Fatalf("add to cart: %v", err)
		}
	}
	u, _, _ := f.store.GetUser(ctx, f.student.ID)
	if len(u.Cart) != 1 || u.Cart[0] != course.ID {
		t.Fatalf("expected course once in cart, got %v", u.Cart)
	}

	_, err := f.app.AddToCart(ctx, f.student, "not-an-id")
	requireKind(t, err, KindValidation)
	_, err = f.app.AddToCart(ctx, f.student, util.NewID())
	requireKind(t, err, KindNotFound)
}

func TestRemoveFromListsRequiresPresence(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	a := f.createCourse(t, "Course A")
	b := f.createCourse(t, "Course B")

	_, err := f.app.RemoveFromCart(ctx, f.student, a.ID)
	requireKind(t, err, KindNotFound)
	_, err = f.app.RemoveFromWishlist(ctx, f.student, a.ID)
	requireKind(t, err, KindNotFound)

	for _, id := range []string{a.ID, b.ID} {
		if _, err := f.app.AddToWishlist(ctx, f.student, id); err != nil {
			t.Fatalf("add to wishlist: %v", err)
		}
	}
	u, err := f.app.RemoveFromWishlist(ctx, f.student, a.ID)
	if err != nil {
		t.Fatalf("remove from wishlist: %v", err)
	}
	if len(u.Wishlist) != 1 || u.Wishlist[0] != b.ID {
		t.Fatalf("expected only %s left, got %v", b.ID, u.Wishlist)
	}
}

func TestGetListsExpandInOrderAndSkipMissing(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	first := f.createCourse(t, "First Course")
	second := f.createCourse(t, "Second Course")
	f.addLecture(t, second.ID, "Welcome")

	if _, err := f.app.AddToCart(ctx, f.student, second.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := f.app.AddToCart(ctx, f.student, first.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	// A dangling reference left behind by a deleted course.
	if _, _, err := f.store.AddCourseRef(ctx, f.student.ID, domain.ListCart, util.NewID()); err != nil {
		t.Fatalf("add dangling ref: %v", err)
	}

	cart, err := f.app.GetCart(ctx, f.student)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(cart) != 2 || cart[0].ID != second.ID || cart[1].ID != first.ID {
		t.Fatalf("unexpected cart: %+v", cart)
	}
	if len(cart[0].Videos) != 1 || cart[0].Videos[0].Title != "Welcome" {
		t.Fatalf("expected lecture projection, got %+v", cart[0].Videos)
	}
	if cart[0].CreatedBy == nil || cart[0].CreatedBy.Username != "ada" {
		t.Fatalf("expected creator projection, got %+v", cart[0].CreatedBy)
	}
}

func TestGetWishlistIsReadOnly(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	course := f.createCourse(t, "Wished")
	if _, err := f.app.AddToWishlist(ctx, f.student, course.ID); err != nil {
		t.Fatalf("add to wishlist: %v", err)
	}
	before, _, _ := f.store.GetUser(ctx, f.student.ID)
	for i := 0; i < 2; i++ {
		list, err := f.app.GetWishlist(ctx, f.student)
		if err != nil || len(list) != 1 {
			t.Fatalf("get wishlist: len=%d err=%v", len(list), err)
		}
	}
	after, _, _ := f.store.GetUser(ctx, f.student.ID)
	if len(after.Wishlist) != 1 || !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Fatalf("wishlist read mutated the user: before=%+v after=%+v", before, after)
	}
}

func TestListCoursesByCategoryPublishedNewestFirst(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	older := f.createCourse(t, "Older Backend")
	newer := f.createCourse(t, "Newer Backend")
	frontend := f.createCourse(t, "Frontend Course")
	draft, err := f.app.CreateCourse(ctx, f.teacher, CourseDraft{Title: "Draft Backend", Category: "backend"}, nil)
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	for _, c := range []domain.Course{older, newer} {
		if _, err := f.app.Publish(ctx, f.teacher, c.ID, publishInput(0, "backend", 0)); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}
	if _, err := f.app.Publish(ctx, f.teacher, frontend.ID, publishInput(0, "frontend", 0)); err != nil {
		t.Fatalf("publish: %v", err)
	}

	got, err := f.app.ListCourses(ctx, store.CourseFilter{Category: "Backend", PublishedOnly: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != newer.ID || got[1].ID != older.ID {
		t.Fatalf("unexpected listing: %+v", got)
	}

	all, err := f.app.ListCourses(ctx, store.CourseFilter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 4 || all[0].ID != draft.ID {
		t.Fatalf("expected all four courses newest first, got %d", len(all))
	}

	none, err := f.app.ListCourses(ctx, store.CourseFilter{Category: "cooking", PublishedOnly: true})
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil listing, got %v err=%v", none, err)
	}
}

func TestGetCourse(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	course := f.createCourse(t, "Single")
	lecture := f.addLecture(t, course.ID, "Part 1")

	got, err := f.app.GetCourse(ctx, course.ID)
	if err != nil {
		t.Fatalf("get course: %v", err)
	}
	if got.Title != "Single" || len(got.Videos) != 1 || got.Videos[0].MediaURL != lecture.MediaURL {
		t.Fatalf("unexpected course: %+v", got)
	}
	_, err = f.app.GetCourse(ctx, util.NewID())
	requireKind(t, err, KindNotFound)
}

func TestListingCacheInvalidatedByMutations(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	f := newFixture(t, func(cfg *Config) { cfg.Cache = cache.NewCourseCache(client, "test", time.Minute) })
	ctx := context.Background()
	f.createCourse(t, "Cached One")

	first, err := f.app.ListCourses(ctx, store.CourseFilter{})
	if err != nil || len(first) != 1 {
		t.Fatalf("list: len=%d err=%v", len(first), err)
	}

	// Written behind the app's back, so only a cache miss would reveal it.
	sneaky := domain.Course{ID: util.NewID(), Title: "Sneaky", Videos: []string{}, CreatedBy: f.teacher.ID, CreatedAt: time.Now().UTC()}
	if err := f.store.CreateCourse(ctx, sneaky); err != nil {
		t.Fatalf("create course: %v", err)
	}
	cached, err := f.app.ListCourses(ctx, store.CourseFilter{})
	if err != nil || len(cached) != 1 {
		t.Fatalf("expected cached listing, len=%d err=%v", len(cached), err)
	}

	f.createCourse(t, "Cached Two")
	fresh, err := f.app.ListCourses(ctx, store.CourseFilter{})
	if err != nil || len(fresh) != 3 {
		t.Fatalf("expected invalidated listing with 3 courses, len=%d err=%v", len(fresh), err)
	}
}

func TestListingCacheFailureFallsBackToStore(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	f := newFixture(t, func(cfg *Config) { cfg.Cache = cache.NewCourseCache(client, "test", time.Minute) })
	f.createCourse(t, "Still Listed")
	srv.Close()

	got, err := f.app.ListCourses(context.Background(), store.CourseFilter{})
	if err != nil || len(got) != 1 {
		t.Fatalf("expected store fallback, len=%d err=%v", len(got), err)
	}
}

func TestCreateCourse(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.app.CreateCourse(ctx, f.student, CourseDraft{Title: "Nope"}, nil)
	requireKind(t, err, KindForbidden)
	_, err = f.app.CreateCourse(ctx, f.teacher, CourseDraft{Title: "ab"}, nil)
	requireKind(t, err, KindValidation)

	course, err := f.app.CreateCourse(ctx, f.teacher, CourseDraft{
		Title:       "  Intro to Go ",
		Description: "<p>Learn <b>Go</b> &amp; more</p><script>alert(1)</script><p>Second</p>",
		Category:    "Backend",
	}, &Upload{Filename: "../cover.png", Body: strings.NewReader("png"), Size: 3})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	if course.Title != "Intro to Go" || course.IsPublished || course.CreatedBy != f.teacher.ID {
		t.Fatalf("unexpected course: %+v", course)
	}
	if course.Description != "Learn Go & more\nSecond" {
		t.Fatalf("unexpected description %q", course.Description)
	}
	if want := "/media/thumbnails/" + course.ID + "/cover.png"; course.Thumbnail != want {
		t.Fatalf("expected thumbnail %q, got %q", want, course.Thumbnail)
	}

	_, err = f.app.CreateCourse(ctx, f.other, CourseDraft{Title: "Intro to Go"}, nil)
	requireKind(t, err, KindConflict)
}

func TestCategories(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.app.CreateCategory(ctx, f.student, "backend")
	requireKind(t, err, KindForbidden)
	_, err = f.app.CreateCategory(ctx, f.teacher, "x")
	requireKind(t, err, KindValidation)

	cat, err := f.app.CreateCategory(ctx, f.teacher, " Data Science ")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if cat.Name != "data science" || len(cat.Courses) != 0 {
		t.Fatalf("unexpected category: %+v", cat)
	}
	_, err = f.app.CreateCategory(ctx, f.other, "DATA SCIENCE")
	requireKind(t, err, KindConflict)

	cats, err := f.app.ListCategories(ctx)
	if err != nil || len(cats) != 1 {
		t.Fatalf("list categories: %v err=%v", cats, err)
	}
}

func TestChangeRoleAndSearchTeachers(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.app.ChangeRole(ctx, f.student, "admin")
	requireKind(t, err, KindValidation)
	u, err := f.app.ChangeRole(ctx, f.student, "Teacher")
	if err != nil || u.Role != domain.RoleTeacher {
		t.Fatalf("become teacher: role=%s err=%v", u.Role, err)
	}

	_, err = f.app.SearchTeachers(ctx, " ", 0)
	requireKind(t, err, KindValidation)

	got, err := f.app.SearchTeachers(ctx, "BACKEND", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].ID != f.teacher.ID {
		t.Fatalf("expected expertise match on ada, got %+v", got)
	}
	got, err = f.app.SearchTeachers(ctx, "student", 0)
	if err != nil || len(got) != 1 || got[0].ID != f.student.ID {
		t.Fatalf("expected promoted student in results, got %+v err=%v", got, err)
	}
}

func TestListCreatedCourses(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	course := f.createCourse(t, "Mine")
	f.createCourse(t, "Unpublished Mine")
	if _, err := f.app.Publish(ctx, f.teacher, course.ID, publishInput(0, "backend", 0)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	got, err := f.app.ListCreatedCourses(ctx, f.teacher)
	if err != nil {
		t.Fatalf("list created: %v", err)
	}
	if len(got) != 1 || got[0].ID != course.ID {
		t.Fatalf("expected published course only, got %+v", got)
	}
}

func TestResolveActorRegistersOnFirstSight(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.app.ResolveActor(ctx, Profile{ID: "user-1"})
	requireKind(t, err, KindValidation)

	id := util.NewID()
	u, err := f.app.ResolveActor(ctx, Profile{ID: id, Username: " grace ", Role: "TEACHER"})
	if err != nil {
		t.Fatalf("resolve new actor: %v", err)
	}
	if u.Role != domain.RoleTeacher || u.Username != "grace" || u.Cart == nil {
		t.Fatalf("unexpected registered user: %+v", u)
	}

	if _, err := f.app.ChangeRole(ctx, u, "student"); err != nil {
		t.Fatalf("change role: %v", err)
	}
	again, err := f.app.ResolveActor(ctx, Profile{ID: id, Role: "teacher"})
	if err != nil {
		t.Fatalf("resolve existing actor: %v", err)
	}
	if again.Role != domain.RoleStudent {
		t.Fatalf("stored role must win over token role, got %s", again.Role)
	}
}
