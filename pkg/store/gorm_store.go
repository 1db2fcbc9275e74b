package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"coursehub/internal/util"
	"coursehub/pkg/domain"
)

const migrateLockID int64 = 51842207

type GormStoreOptions struct {
	MaxOpenConns int
	Logger       gormlogger.Interface
}

type GormStoreOption func(*GormStoreOptions)

// WithMaxOpenConns caps the connection pool size.
func WithMaxOpenConns(n int) GormStoreOption {
	return func(opts *GormStoreOptions) {
		opts.MaxOpenConns = n
	}
}

// WithLogger replaces the default slog-backed GORM logger.
func WithLogger(l gormlogger.Interface) GormStoreOption {
	return func(opts *GormStoreOptions) {
		opts.Logger = l
	}
}

// GormStore implements Store using GORM. Postgres is the production dialect.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the Postgres DB and runs auto-migrations.
func NewGormStore(dsn string, options ...GormStoreOption) (*GormStore, error) {
	return OpenGormStore(postgres.Open(dsn), options...)
}

// OpenGormStore opens any GORM dialector and runs auto-migrations.
func OpenGormStore(dialector gorm.Dialector, options ...GormStoreOption) (*GormStore, error) {
	opts := GormStoreOptions{}
	for _, option := range options {
		if option != nil {
			option(&opts)
		}
	}
	if opts.Logger == nil {
		opts.Logger = gormlogger.New(
			slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
			gormlogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		)
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: opts.Logger, TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql db: %w", err)
		}
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	migrate := func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(&UserModel{}, &CourseModel{}, &LectureModel{}, &CategoryModel{}); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		return nil
	}
	if db.Dialector.Name() == "postgres" {
		err = withMigrationLock(db, migrate)
	} else {
		err = migrate(db)
	}
	if err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks database connectivity.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func withMigrationLock(db *gorm.DB, fn func(*gorm.DB) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("open sql conn: %w", err)
	}
	defer conn.Close()
	if err := execAdvisory(ctx, conn, "SELECT pg_advisory_lock($1)", migrateLockID); err != nil {
		return fmt.Errorf("acquire migrate lock: %w", err)
	}
	defer func() {
		_ = execAdvisory(ctx, conn, "SELECT pg_advisory_unlock($1)", migrateLockID)
	}()
	return fn(db)
}

func execAdvisory(ctx context.Context, conn *sql.Conn, query string, lockID int64) error {
	_, err := conn.ExecContext(ctx, query, lockID)
	return err
}

// SaveUser registers a user or refreshes its profile fields. Reference lists
// are only changed through AddCourseRef and RemoveCourseRef.
func (s *GormStore) SaveUser(ctx context.Context, u domain.User) error {
	model := userToModel(u)
	if model.UpdatedAt.IsZero() {
		model.UpdatedAt = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "name", "email", "role", "expertise", "updated_at"}),
	}).Create(&model).Error
}

func (s *GormStore) GetUser(ctx context.Context, id string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

func (s *GormStore) ListUsersByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	var models []UserModel
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(models))
	for _, m := range models {
		out = append(out, userFromModel(m))
	}
	return out, nil
}

func (s *GormStore) SetUserRole(ctx context.Context, id string, role domain.UserRole) (domain.User, error) {
	res := s.db.WithContext(ctx).Model(&UserModel{}).Where("id = ?", id).Updates(map[string]any{
		"role":       string(role),
		"updated_at": time.Now().UTC(),
		"version":    gorm.Expr("version + 1"),
	})
	if res.Error != nil {
		return domain.User{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.User{}, ErrUserNotFound
	}
	u, ok, err := s.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return u, nil
}

// SearchTeachers matches teachers whose name or expertise contains query,
// case-insensitively.
func (s *GormStore) SearchTeachers(ctx context.Context, query string, limit int) ([]domain.User, error) {
	pattern := likePattern(query)
	var models []UserModel
	q := s.db.WithContext(ctx).
		Where("role = ?", string(domain.RoleTeacher)).
		Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(expertise) LIKE ? ESCAPE '\')`, pattern, pattern).
		Order("name ASC").Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(models))
	for _, m := range models {
		out = append(out, userFromModel(m))
	}
	return out, nil
}

// AddCourseRef appends courseID to the user's list unless already present.
// The returned bool reports whether the list changed.
func (s *GormStore) AddCourseRef(ctx context.Context, userID string, list domain.CourseList, courseID string) (domain.User, bool, error) {
	column, ok := listColumn(list)
	if !ok {
		return domain.User{}, false, fmt.Errorf("unknown course list %q", list)
	}
	var (
		user  domain.User
		added bool
	)
	err := retryStale(ctx, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			model, err := loadUser(tx, userID)
			if err != nil {
				return err
			}
			current := userFromModel(model)
			ids := current.Courses(list)
			if domain.Contains(ids, courseID) {
				user, added = current, false
				return nil
			}
			next := appendCopy(ids, courseID)
			if err := updateUserList(tx, model, column, next); err != nil {
				return err
			}
			setUserList(&current, list, next)
			current.UpdatedAt = time.Now().UTC()
			user, added = current, true
			return nil
		})
	})
	if err != nil {
		return domain.User{}, false, err
	}
	return user, added, nil
}

// RemoveCourseRef removes courseID from the user's list. ErrNotInList is
// returned when the id is absent.
func (s *GormStore) RemoveCourseRef(ctx context.Context, userID string, list domain.CourseList, courseID string) (domain.User, error) {
	column, ok := listColumn(list)
	if !ok {
		return domain.User{}, fmt.Errorf("unknown course list %q", list)
	}
	var user domain.User
	err := retryStale(ctx, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			model, err := loadUser(tx, userID)
			if err != nil {
				return err
			}
			current := userFromModel(model)
			ids := current.Courses(list)
			idx := domain.IndexOf(ids, courseID)
			if idx < 0 {
				return ErrNotInList
			}
			next := withoutIndex(ids, idx)
			if err := updateUserList(tx, model, column, next); err != nil {
				return err
			}
			setUserList(&current, list, next)
			current.UpdatedAt = time.Now().UTC()
			user = current
			return nil
		})
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *GormStore) CreateCategory(ctx context.Context, c domain.Category) error {
	model := categoryToModel(c)
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *GormStore) GetCategoryByName(ctx context.Context, name string) (domain.Category, bool, error) {
	var model CategoryModel
	if err := s.db.WithContext(ctx).First(&model, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Category{}, false, nil
		}
		return domain.Category{}, false, err
	}
	return categoryFromModel(model), true, nil
}

func (s *GormStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var models []CategoryModel
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(models))
	for _, m := range models {
		out = append(out, categoryFromModel(m))
	}
	return out, nil
}

func (s *GormStore) CreateCourse(ctx context.Context, c domain.Course) error {
	model := courseToModel(c)
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *GormStore) GetCourse(ctx context.Context, id string) (domain.Course, bool, error) {
	var model CourseModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Course{}, false, nil
		}
		return domain.Course{}, false, err
	}
	return courseFromModel(model), true, nil
}

func (s *GormStore) HasCourseTitle(ctx context.Context, title string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&CourseModel{}).Where("title = ?", title).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListCourses returns matching courses newest first; ties are broken by id
// descending so the order is stable.
func (s *GormStore) ListCourses(ctx context.Context, filter CourseFilter) ([]domain.Course, error) {
	q := s.db.WithContext(ctx).Model(&CourseModel{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.PublishedOnly {
		q = q.Where("is_published = ?", true)
	}
	var models []CourseModel
	if err := q.Order("created_at DESC").Order("id DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Course, 0, len(models))
	for _, m := range models {
		out = append(out, courseFromModel(m))
	}
	return out, nil
}

func (s *GormStore) ListCoursesByIDs(ctx context.Context, ids []string) ([]domain.Course, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []domain.Course{}, nil
	}
	var models []CourseModel
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Course, 0, len(models))
	for _, m := range models {
		out = append(out, courseFromModel(m))
	}
	return out, nil
}

// PublishCourse applies the publish transition in one transaction: the course
// becomes published, its id is appended to the creator's created list and to
// the category's course list (creating the category when missing).
func (s *GormStore) PublishCourse(ctx context.Context, p PublishParams) (domain.Course, error) {
	var published domain.Course
	err := retryStale(ctx, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			model, err := loadCourse(tx, p.CourseID)
			if err != nil {
				return err
			}
			if model.CreatedBy != p.ActorID {
				return ErrNotOwner
			}
			if model.IsPublished {
				return ErrAlreadyPublished
			}
			at := p.At.UTC()
			res := tx.Model(&CourseModel{}).
				Where("id = ? AND version = ? AND is_published = ?", model.ID, model.Version, false).
				Updates(map[string]any{
					"is_published": true,
					"published_at": at,
					"price":        p.Price,
					"duration":     p.Duration,
					"category":     p.Category,
					"updated_at":   at,
					"version":      model.Version + 1,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errStaleVersion
			}

			creator, err := loadUser(tx, p.ActorID)
			if err != nil {
				return err
			}
			created := []string(creator.CreatedCourses)
			if !domain.Contains(created, model.ID) {
				if err := updateUserList(tx, creator, "created_courses", appendCopy(created, model.ID)); err != nil {
					return err
				}
			}
			if err := upsertCategoryCourse(tx, p.Category, model.ID, at); err != nil {
				return err
			}

			model.IsPublished = true
			model.PublishedAt = &at
			model.Price = p.Price
			model.Duration = p.Duration
			model.Category = p.Category
			model.UpdatedAt = at
			model.Version++
			published = courseFromModel(model)
			return nil
		})
	})
	if err != nil {
		return domain.Course{}, err
	}
	return published, nil
}

// AttachLecture inserts the lecture and appends it to its draft course.
func (s *GormStore) AttachLecture(ctx context.Context, actorID string, lecture domain.Lecture) (domain.Course, error) {
	var updated domain.Course
	err := retryStale(ctx, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			model, err := loadCourse(tx, lecture.CourseID)
			if err != nil {
				return err
			}
			if model.CreatedBy != actorID {
				return ErrNotOwner
			}
			if model.IsPublished {
				return ErrAlreadyPublished
			}
			lm := lectureToModel(lecture)
			if err := tx.Create(&lm).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrDuplicate
				}
				return err
			}
			videos := appendCopy(model.Videos, lecture.ID)
			now := time.Now().UTC()
			res := tx.Model(&CourseModel{}).
				Where("id = ? AND version = ? AND is_published = ?", model.ID, model.Version, false).
				Updates(map[string]any{
					"videos":     datatypes.JSONSlice[string](videos),
					"updated_at": now,
					"version":    model.Version + 1,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errStaleVersion
			}
			model.Videos = videos
			model.UpdatedAt = now
			model.Version++
			updated = courseFromModel(model)
			return nil
		})
	})
	if err != nil {
		return domain.Course{}, err
	}
	return updated, nil
}

// DetachLecture removes the lecture from its course and deletes the lecture
// row. The removed lecture is returned so callers can release its media.
func (s *GormStore) DetachLecture(ctx context.Context, courseID, lectureID, actorID string) (domain.Lecture, error) {
	var removed domain.Lecture
	err := retryStale(ctx, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			model, err := loadCourse(tx, courseID)
			if err != nil {
				return err
			}
			if model.CreatedBy != actorID {
				return ErrNotOwner
			}
			idx := domain.IndexOf(model.Videos, lectureID)
			if idx < 0 {
				return ErrNotInList
			}
			var lm LectureModel
			switch err := tx.First(&lm, "id = ?", lectureID).Error; {
			case err == nil:
				removed = lectureFromModel(lm)
			case errors.Is(err, gorm.ErrRecordNotFound):
				removed = domain.Lecture{ID: lectureID, CourseID: courseID}
			default:
				return err
			}
			res := tx.Model(&CourseModel{}).
				Where("id = ? AND version = ?", model.ID, model.Version).
				Updates(map[string]any{
					"videos":     datatypes.JSONSlice[string](withoutIndex(model.Videos, idx)),
					"updated_at": time.Now().UTC(),
					"version":    model.Version + 1,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errStaleVersion
			}
			return tx.Delete(&LectureModel{}, "id = ?", lectureID).Error
		})
	})
	if err != nil {
		return domain.Lecture{}, err
	}
	return removed, nil
}

func (s *GormStore) ListLecturesByIDs(ctx context.Context, ids []string) ([]domain.Lecture, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []domain.Lecture{}, nil
	}
	var models []LectureModel
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Lecture, 0, len(models))
	for _, m := range models {
		out = append(out, lectureFromModel(m))
	}
	return out, nil
}

func loadCourse(tx *gorm.DB, id string) (CourseModel, error) {
	var model CourseModel
	if err := tx.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CourseModel{}, ErrNotFound
		}
		return CourseModel{}, err
	}
	return model, nil
}

func loadUser(tx *gorm.DB, id string) (UserModel, error) {
	var model UserModel
	if err := tx.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserModel{}, ErrUserNotFound
		}
		return UserModel{}, err
	}
	return model, nil
}

func updateUserList(tx *gorm.DB, model UserModel, column string, ids []string) error {
	res := tx.Model(&UserModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]any{
			column:       datatypes.JSONSlice[string](ids),
			"updated_at": time.Now().UTC(),
			"version":    model.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errStaleVersion
	}
	return nil
}

func upsertCategoryCourse(tx *gorm.DB, name, courseID string, at time.Time) error {
	fresh := CategoryModel{
		ID:        util.NewID(),
		Name:      name,
		Courses:   datatypes.JSONSlice[string]{courseID},
		CreatedAt: at,
	}
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&fresh)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}
	var existing CategoryModel
	if err := tx.First(&existing, "name = ?", name).Error; err != nil {
		return err
	}
	if domain.Contains(existing.Courses, courseID) {
		return nil
	}
	upd := tx.Model(&CategoryModel{}).
		Where("id = ? AND version = ?", existing.ID, existing.Version).
		Updates(map[string]any{
			"courses": datatypes.JSONSlice[string](appendCopy(existing.Courses, courseID)),
			"version": existing.Version + 1,
		})
	if upd.Error != nil {
		return upd.Error
	}
	if upd.RowsAffected == 0 {
		return errStaleVersion
	}
	return nil
}

func listColumn(list domain.CourseList) (string, bool) {
	switch list {
	case domain.ListCart:
		return "cart", true
	case domain.ListWishlist:
		return "wishlist", true
	case domain.ListCreatedCourse:
		return "created_courses", true
	default:
		return "", false
	}
}

func setUserList(u *domain.User, list domain.CourseList, ids []string) {
	switch list {
	case domain.ListCart:
		u.Cart = ids
	case domain.ListWishlist:
		u.Wishlist = ids
	case domain.ListCreatedCourse:
		u.CreatedCourse = ids
	}
}

func likePattern(query string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(query))
	return "%" + escaped + "%"
}

func jsonIDs(v []string) datatypes.JSONSlice[string] {
	if v == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](append([]string(nil), v...))
}

func plain(v datatypes.JSONSlice[string]) []string {
	if v == nil {
		return []string{}
	}
	return append([]string{}, v...)
}

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:             u.ID,
		Username:       u.Username,
		Name:           u.Name,
		Email:          u.Email,
		Role:           string(u.Role),
		Expertise:      u.Expertise,
		Cart:           jsonIDs(u.Cart),
		Wishlist:       jsonIDs(u.Wishlist),
		CreatedCourses: jsonIDs(u.CreatedCourse),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:            m.ID,
		Username:      m.Username,
		Name:          m.Name,
		Email:         m.Email,
		Role:          domain.UserRole(m.Role),
		Expertise:     m.Expertise,
		Cart:          plain(m.Cart),
		Wishlist:      plain(m.Wishlist),
		CreatedCourse: plain(m.CreatedCourses),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func courseToModel(c domain.Course) CourseModel {
	return CourseModel{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		Category:      c.Category,
		Price:         c.Price,
		Duration:      c.Duration,
		Rating:        c.Rating,
		TotalStudents: c.TotalStudents,
		Thumbnail:     c.Thumbnail,
		Videos:        jsonIDs(c.Videos),
		CreatedBy:     c.CreatedBy,
		IsPublished:   c.IsPublished,
		PublishedAt:   c.PublishedAt,
		Version:       c.Version,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func courseFromModel(m CourseModel) domain.Course {
	return domain.Course{
		ID:            m.ID,
		Title:         m.Title,
		Description:   m.Description,
		Category:      m.Category,
		Price:         m.Price,
		Duration:      m.Duration,
		Rating:        m.Rating,
		TotalStudents: m.TotalStudents,
		Thumbnail:     m.Thumbnail,
		Videos:        plain(m.Videos),
		CreatedBy:     m.CreatedBy,
		IsPublished:   m.IsPublished,
		PublishedAt:   m.PublishedAt,
		Version:       m.Version,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func lectureToModel(l domain.Lecture) LectureModel {
	return LectureModel{
		ID:        l.ID,
		CourseID:  l.CourseID,
		Title:     l.Title,
		MediaURL:  l.MediaURL,
		MediaKey:  l.MediaKey,
		Duration:  l.Duration,
		CreatedAt: l.CreatedAt,
	}
}

func lectureFromModel(m LectureModel) domain.Lecture {
	return domain.Lecture{
		ID:        m.ID,
		CourseID:  m.CourseID,
		Title:     m.Title,
		MediaURL:  m.MediaURL,
		MediaKey:  m.MediaKey,
		Duration:  m.Duration,
		CreatedAt: m.CreatedAt,
	}
}

func categoryToModel(c domain.Category) CategoryModel {
	return CategoryModel{
		ID:        c.ID,
		Name:      c.Name,
		Courses:   jsonIDs(c.Courses),
		CreatedAt: c.CreatedAt,
	}
}

func categoryFromModel(m CategoryModel) domain.Category {
	return domain.Category{
		ID:        m.ID,
		Name:      m.Name,
		Courses:   plain(m.Courses),
		CreatedAt: m.CreatedAt,
	}
}
