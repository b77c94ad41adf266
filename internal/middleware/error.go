package middleware

import (
	"fmt"
	"net/http"

	"go-forum-app/internal/apperror"
	"go-forum-app/internal/logger"
	"go-forum-app/internal/view"
)

// AppError represents a custom error type for the application.
type AppError struct {
	Error   error
	Message string
	Code    int
}

// NewAppError wraps err with the status code its kind maps to. Errors from
// the forum's taxonomy carry their own message; anything else gets message.
func NewAppError(err error, message string) *AppError {
	code := apperror.StatusCode(err)
	if apperror.IsUserFacing(err) {
		message = err.Error()
	}
	return &AppError{Error: err, Message: message, Code: code}
}

// AppHandler is a custom handler function type that returns an AppError.
type AppHandler func(http.ResponseWriter, *http.Request) *AppError

// Error is a middleware that converts handler errors into user-friendly error pages.
func Error(log logger.Logger, v *view.View) func(AppHandler) http.Handler {
	return func(next AppHandler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err, ok := rec.(error)
					if !ok {
						err = fmt.Errorf("%v", rec)
					}
					log.Error(err, "Panic recovered")
					renderError(w, r, v, log, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
				}
			}()

			appErr := next(w, r)
			if appErr == nil {
				return
			}
			if appErr.Code == 0 {
				appErr.Code = http.StatusInternalServerError
			}
			if appErr.Code >= http.StatusInternalServerError {
				log.Error(appErr.Error, appErr.Message)
			} else {
				log.Warn(fmt.Sprintf("%s: %v", appErr.Message, appErr.Error))
			}
			renderError(w, r, v, log, appErr.Code, appErr.Message)
		})
	}
}

func renderError(w http.ResponseWriter, r *http.Request, v *view.View, log logger.Logger, code int, text string) {
	data := map[string]interface{}{
		"Title":      http.StatusText(code),
		"StatusCode": code,
		"StatusText": text,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := v.Render(w, r, "error.html", data); err != nil {
		log.Error(err, "Failed to render error page")
	}
}
