package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"coursehub/internal/util"
	"coursehub/services/course/internal/app"
)

const (
	codeInvalidRequest = "COURSE_INVALID_REQUEST"
	codeNotFound       = "COURSE_NOT_FOUND"
	codeForbidden      = "COURSE_FORBIDDEN"
	codeConflict       = "COURSE_CONFLICT"
	codeProbeFailed    = "MEDIA_PROBE_FAILED"
	codeFileTooLarge   = "MEDIA_FILE_TOO_LARGE"
	codeInvalidToken   = "AUTH_INVALID_TOKEN"
	codeInternal       = "SYSTEM_INTERNAL_ERROR"
)

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type errorResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Code      string            `json:"code"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeOK(w http.ResponseWriter, status int, msg string, data any) {
	writeJSON(w, status, successResponse{Success: true, Message: msg, Data: data})
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{
		Message:   msg,
		Code:      code,
		RequestID: strings.TrimSpace(w.Header().Get("X-Request-Id")),
	})
}

// writeAppError maps an application error kind onto a status and error code.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(app.KindOf(err))
	resp := errorResponse{
		Message:   err.Error(),
		Code:      code,
		RequestID: strings.TrimSpace(w.Header().Get("X-Request-Id")),
	}
	var appErr *app.Error
	if errors.As(err, &appErr) {
		resp.Message = appErr.Message
		resp.Fields = appErr.Fields
	}
	switch {
	case status == http.StatusBadGateway:
		util.LoggerFromContext(r.Context()).Warn("media probe failed", "err", err)
	case status >= http.StatusInternalServerError:
		util.LoggerFromContext(r.Context()).Error("request failed", "err", err)
		resp.Message = "internal error"
	}
	writeJSON(w, status, resp)
}

func statusFor(kind app.Kind) (int, string) {
	switch kind {
	case app.KindValidation:
		return http.StatusBadRequest, codeInvalidRequest
	case app.KindConflict:
		return http.StatusBadRequest, codeConflict
	case app.KindForbidden:
		return http.StatusForbidden, codeForbidden
	case app.KindNotFound:
		return http.StatusNotFound, codeNotFound
	case app.KindProbe:
		return http.StatusBadGateway, codeProbeFailed
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
