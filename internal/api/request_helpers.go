package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskdeck/internal/domain"
)

// taskIDFromRequest returns the task id from the {id} path segment or, for
// the collection path, from the id query parameter.
func taskIDFromRequest(r *http.Request) string {
	if param := chi.URLParam(r, "id"); param != "" {
		if decoded, err := url.PathUnescape(param); err == nil {
			return decoded
		}
		return param
	}
	return strings.TrimSpace(r.URL.Query().Get("id"))
}

// taskQueryFromRequest reads the list filters from the query string.
func taskQueryFromRequest(r *http.Request) domain.TaskQuery {
	q := r.URL.Query()
	return domain.TaskQuery{
		View:        q.Get("view"),
		Year:        q.Get("year"),
		Month:       q.Get("month"),
		ProjectName: q.Get("projectName"),
	}
}

// passwordText converts a decoded JSON value to a password. Strings are kept
// as sent; other scalars use their text form.
func passwordText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return domain.Text(v)
}
