package server

import (
	"errors"
	"net/http"

	"coursehub/pkg/domain"
	"coursehub/pkg/store"
	"coursehub/services/course/internal/app"
)

type categoryRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.app.ListCourses(r.Context(), store.CourseFilter{})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "courses fetched", courses)
}

func (s *Server) handleListByCategory(w http.ResponseWriter, r *http.Request) {
	filter := store.CourseFilter{Category: r.PathValue("category"), PublishedOnly: true}
	courses, err := s.app.ListCourses(r.Context(), filter)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "courses fetched", courses)
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	course, err := s.app.GetCourse(r.Context(), r.PathValue("courseId"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "course fetched", course)
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request, user domain.User) {
	if !s.parseMultipart(w, r) {
		return
	}
	draft := app.CourseDraft{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
	}
	var thumbnail *app.Upload
	file, header, err := r.FormFile("thumbnail")
	switch {
	case err == nil:
		defer file.Close()
		thumbnail = &app.Upload{Filename: header.Filename, Body: file, Size: header.Size}
	case !errors.Is(err, http.ErrMissingFile):
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "invalid thumbnail")
		return
	}
	course, err := s.app.CreateCourse(r.Context(), user, draft, thumbnail)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "course created", course)
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request, user domain.User) {
	courseID := r.PathValue("courseId")
	var req app.PublishInput
	if err := decodeJSON(r, &req); err != nil {
		if err := s.app.CheckDraftOwnership(r.Context(), user, courseID); err != nil {
			writeAppError(w, r, err)
			return
		}
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "invalid JSON body")
		return
	}
	course, err := s.app.Publish(r.Context(), user, courseID, req)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "course published", course)
}

func (s *Server) handleAddLecture(w http.ResponseWriter, r *http.Request, user domain.User) {
	courseID := r.PathValue("courseId")
	if err := s.app.CheckDraftOwnership(r.Context(), user, courseID); err != nil {
		writeAppError(w, r, err)
		return
	}
	if !s.parseMultipart(w, r) {
		return
	}
	file, header, err := r.FormFile("video")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "video file is required (field: video)")
		return
	}
	defer file.Close()
	lecture, err := s.app.AddLecture(r.Context(), user, courseID, app.LectureUpload{
		Title:    r.FormValue("videoTitle"),
		Filename: header.Filename,
		Body:     file,
		Size:     header.Size,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "lecture added", lecture)
}

func (s *Server) handleRemoveLecture(w http.ResponseWriter, r *http.Request, user domain.User) {
	lecture, err := s.app.RemoveLecture(r.Context(), user, r.PathValue("courseId"), r.PathValue("lectureId"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "lecture removed", lecture)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request, _ domain.User) {
	cats, err := s.app.ListCategories(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "categories fetched", cats)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "invalid JSON body")
		return
	}
	cat, err := s.app.CreateCategory(r.Context(), user, req.Name)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "category created", cat)
}

// parseMultipart bounds the body and parses the form, answering the request
// itself on failure.
func (s *Server) parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, codeFileTooLarge, "file too large")
			return false
		}
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "invalid form data")
		return false
	}
	return true
}
