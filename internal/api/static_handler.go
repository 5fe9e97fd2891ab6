package api

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/phrazzld/taskdeck/internal/api/shared"
	"github.com/phrazzld/taskdeck/internal/platform/logger"
)

// StartPage is served for requests to "/".
const StartPage = "login.html"

var contentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".js":   "application/javascript; charset=utf-8",
	".json": "application/json; charset=utf-8",
	".svg":  "image/svg+xml",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".ico":  "image/x-icon",
}

// ContentType returns the Content-Type served for a file name.
func ContentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// StaticHandler serves the front-end directory.
type StaticHandler struct {
	root   string
	logger *slog.Logger
}

// NewStaticHandler creates a handler serving files below root.
func NewStaticHandler(root string, logger *slog.Logger) (*StaticHandler, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StaticHandler{
		root:   abs,
		logger: logger.With("component", "static_handler"),
	}, nil
}

// ServeHTTP serves the file named by the request path. "/" maps to the login
// page and directories map to their index.html. Paths that resolve outside
// the root are refused with 403.
func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	urlPath := r.URL.Path
	if urlPath == "" || urlPath == "/" {
		urlPath = "/" + StartPage
	}

	target := filepath.Join(h.root, filepath.FromSlash(urlPath))
	rel, err := filepath.Rel(h.root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		shared.RespondWithError(w, r, http.StatusForbidden, "Forbidden")
		return
	}

	info, err := os.Stat(target)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, "Not found")
		return
	}
	if info.IsDir() {
		target = filepath.Join(target, "index.html")
	}

	data, err := os.ReadFile(target)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.FromContextOrDefault(r.Context(), h.logger).Warn("failed to read static file",
				"error", err,
				"path", urlPath)
		}
		shared.RespondWithError(w, r, http.StatusNotFound, "Not found")
		return
	}

	w.Header().Set("Content-Type", ContentType(target))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("failed to write static file", "error", err)
	}
}
