package server

import (
	"net/http"
	"strconv"

	"coursehub/pkg/domain"
)

type roleRequest struct {
	Role string `json:"role"`
}

func (s *Server) handleGetList(list domain.CourseList) userHandler {
	return func(w http.ResponseWriter, r *http.Request, user domain.User) {
		var (
			courses []domain.CourseSummary
			err     error
		)
		switch list {
		case domain.ListCart:
			courses, err = s.app.GetCart(r.Context(), user)
		case domain.ListWishlist:
			courses, err = s.app.GetWishlist(r.Context(), user)
		default:
			courses, err = s.app.ListCreatedCourses(r.Context(), user)
		}
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeOK(w, http.StatusOK, string(list)+" fetched", courses)
	}
}

func (s *Server) handleAddToList(list domain.CourseList) userHandler {
	return func(w http.ResponseWriter, r *http.Request, user domain.User) {
		add := s.app.AddToCart
		if list == domain.ListWishlist {
			add = s.app.AddToWishlist
		}
		updated, err := add(r.Context(), user, r.PathValue("courseId"))
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeOK(w, http.StatusOK, "course added to "+string(list), updated.Courses(list))
	}
}

func (s *Server) handleRemoveFromList(list domain.CourseList) userHandler {
	return func(w http.ResponseWriter, r *http.Request, user domain.User) {
		remove := s.app.RemoveFromCart
		if list == domain.ListWishlist {
			remove = s.app.RemoveFromWishlist
		}
		updated, err := remove(r.Context(), user, r.PathValue("courseId"))
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		writeOK(w, http.StatusOK, "course removed from "+string(list), updated.Courses(list))
	}
}

func (s *Server) handleChangeRole(w http.ResponseWriter, r *http.Request, user domain.User) {
	var req roleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "invalid JSON body")
		return
	}
	updated, err := s.app.ChangeRole(r.Context(), user, req.Role)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "role updated", updated)
}

func (s *Server) handleSearchTeachers(w http.ResponseWriter, r *http.Request, _ domain.User) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	teachers, err := s.app.SearchTeachers(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "teachers fetched", teachers)
}
