package app

import (
	"context"
	"errors"
	"strings"

	"coursehub/internal/util"
	"coursehub/pkg/domain"
	"coursehub/pkg/store"
)

const (
	defaultTeacherLimit = 20
	maxTeacherLimit     = 100
)

// TeacherProfile is the public view of a teacher returned by search.
type TeacherProfile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Expertise string `json:"expertise,omitempty"`
}

type roleInput struct {
	Role string `json:"role" validate:"required,oneof=student teacher"`
}

// ChangeRole switches the actor between student and teacher.
func (a *App) ChangeRole(ctx context.Context, actor domain.User, role string) (domain.User, error) {
	in := roleInput{Role: strings.ToLower(strings.TrimSpace(role))}
	if err := check("invalid role", in); err != nil {
		return domain.User{}, err
	}
	user, err := a.store.SetUserRole(ctx, actor.ID, domain.UserRole(in.Role))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, notFound(msgUserNotFound)
		}
		return domain.User{}, storeError("set role", err)
	}
	util.LoggerFromContext(ctx).Info("user role changed", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// SearchTeachers matches q case-insensitively against teacher names and
// expertise.
func (a *App) SearchTeachers(ctx context.Context, q string, limit int) ([]TeacherProfile, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, validationError("teacher name is required", map[string]string{"q": "required"})
	}
	if limit <= 0 {
		limit = defaultTeacherLimit
	}
	if limit > maxTeacherLimit {
		limit = maxTeacherLimit
	}
	users, err := a.store.SearchTeachers(ctx, q, limit)
	if err != nil {
		return nil, storeError("search teachers", err)
	}
	out := make([]TeacherProfile, 0, len(users))
	for _, u := range users {
		out = append(out, TeacherProfile{ID: u.ID, Username: u.Username, Name: u.Name, Expertise: u.Expertise})
	}
	return out, nil
}

// Profile is the identity asserted by a verified access token.
type Profile struct {
	ID       string
	Username string
	Name     string
	Email    string
	Role     string
}

// ResolveActor loads the user behind a token, registering it on first sight.
// The stored role wins over the token's role once the user exists.
func (a *App) ResolveActor(ctx context.Context, p Profile) (domain.User, error) {
	if !util.IsID(p.ID) {
		return domain.User{}, validationError("invalid user id", map[string]string{"sub": "objectid"})
	}
	user, ok, err := a.store.GetUser(ctx, p.ID)
	if err != nil {
		return domain.User{}, storeError("get user", err)
	}
	if ok {
		return user, nil
	}
	role := domain.RoleStudent
	if strings.EqualFold(strings.TrimSpace(p.Role), string(domain.RoleTeacher)) {
		role = domain.RoleTeacher
	}
	now := a.now()
	user = domain.User{
		ID:            p.ID,
		Username:      strings.TrimSpace(p.Username),
		Name:          strings.TrimSpace(p.Name),
		Email:         strings.TrimSpace(p.Email),
		Role:          role,
		Cart:          []string{},
		Wishlist:      []string{},
		CreatedCourse: []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := a.store.SaveUser(ctx, user); err != nil {
		return domain.User{}, storeError("register user", err)
	}
	util.LoggerFromContext(ctx).Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}
