package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"coursehub/internal/usertoken"
	"coursehub/internal/util"
	"coursehub/pkg/domain"
	"coursehub/services/course/internal/app"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App            *app.App
	TokenVerifier  *usertoken.Verifier
	AllowedOrigins []string
	MaxUploadBytes int64
	// MediaDir, when set, is served under MediaPrefix (local storage driver).
	MediaDir    string
	MediaPrefix string
}

// Server exposes HTTP endpoints for the course service.
type Server struct {
	app            *app.App
	tokens         *usertoken.Verifier
	mux            *http.ServeMux
	allowedOrigins []string
	maxUploadBytes int64
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	if cfg.App == nil {
		return nil, errors.New("app required")
	}
	if cfg.TokenVerifier == nil {
		return nil, errors.New("token verifier required")
	}
	maxUploadBytes := cfg.MaxUploadBytes
	if maxUploadBytes <= 0 {
		maxUploadBytes = 512 << 20
	}
	s := &Server{
		app:            cfg.App,
		tokens:         cfg.TokenVerifier,
		mux:            http.NewServeMux(),
		allowedOrigins: cfg.AllowedOrigins,
		maxUploadBytes: maxUploadBytes,
	}
	s.routes()
	if strings.TrimSpace(cfg.MediaDir) != "" {
		prefix := "/" + strings.Trim(cfg.MediaPrefix, "/") + "/"
		if prefix == "//" {
			prefix = "/media/"
		}
		s.mux.Handle("GET "+prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.MediaDir))))
	}
	return s, nil
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	var h http.Handler = s.mux
	h = util.WithCORS(s.allowedOrigins, h)
	h = util.WithSecurityHeaders(h)
	h = util.WithRecover(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}, h)
	h = util.WithRequestLog("course", h)
	return util.WithRequestID(h)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	// public catalog
	s.mux.HandleFunc("GET /courses", s.handleListCourses)
	s.mux.HandleFunc("GET /courses/category/{category}", s.handleListByCategory)
	s.mux.HandleFunc("GET /courses/{courseId}", s.handleGetCourse)

	// publishing
	s.mux.Handle("POST /courses", s.withUser(s.handleCreateCourse))
	s.mux.Handle("POST /courses/{courseId}/publish", s.withUser(s.handlePublish))
	s.mux.Handle("POST /courses/{courseId}/videos", s.withUser(s.handleAddLecture))
	s.mux.Handle("DELETE /courses/{courseId}/videos/{lectureId}", s.withUser(s.handleRemoveLecture))
	s.mux.Handle("GET /categories", s.withUser(s.handleListCategories))
	s.mux.Handle("POST /categories", s.withUser(s.handleCreateCategory))

	// cart and wishlist
	s.mux.Handle("GET /cart", s.withUser(s.handleGetList(domain.ListCart)))
	s.mux.Handle("POST /cart/{courseId}", s.withUser(s.handleAddToList(domain.ListCart)))
	s.mux.Handle("DELETE /cart/{courseId}", s.withUser(s.handleRemoveFromList(domain.ListCart)))
	s.mux.Handle("GET /wishlist", s.withUser(s.handleGetList(domain.ListWishlist)))
	s.mux.Handle("POST /wishlist/{courseId}", s.withUser(s.handleAddToList(domain.ListWishlist)))
	s.mux.Handle("DELETE /wishlist/{courseId}", s.withUser(s.handleRemoveFromList(domain.ListWishlist)))

	// users
	s.mux.Handle("POST /users/me/role", s.withUser(s.handleChangeRole))
	s.mux.Handle("GET /users/me/courses", s.withUser(s.handleGetList(domain.ListCreatedCourse)))
	s.mux.Handle("GET /teachers", s.withUser(s.handleSearchTeachers))

	s.mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.app.Ready(ctx); err != nil {
		util.LoggerFromContext(r.Context()).Warn("health check failed", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type userHandler func(http.ResponseWriter, *http.Request, domain.User)

// withUser verifies the bearer token and loads the acting user.
func (s *Server) withUser(next userHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, codeInvalidToken, "unauthorized")
			return
		}
		claims, err := s.tokens.Verify(token)
		if err != nil {
			util.LoggerFromContext(r.Context()).Debug("token rejected", "err", err)
			writeError(w, http.StatusUnauthorized, codeInvalidToken, "unauthorized")
			return
		}
		user, err := s.app.ResolveActor(r.Context(), app.Profile{
			ID:       strings.TrimSpace(claims.Subject),
			Username: claims.Username,
			Name:     claims.Name,
			Email:    claims.Email,
			Role:     claims.Role,
		})
		if err != nil {
			if app.KindOf(err) == app.KindStore {
				writeAppError(w, r, err)
				return
			}
			writeError(w, http.StatusUnauthorized, codeInvalidToken, "unauthorized")
			return
		}
		ctx := util.ContextWithLogger(r.Context(), util.LoggerFromContext(r.Context()).With("user_id", user.ID))
		next(w, r.WithContext(ctx), user)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst)
}
