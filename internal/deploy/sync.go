// Package deploy prepares the static front end for hosting platforms that
// serve a public/ directory directly.
package deploy

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Pages are the front-end files copied into the public directory.
var Pages = []string{"login.html", "dashboard.html"}

// RedirectPage is written to public/index.html and sends visitors to the
// login page.
const RedirectPage = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <meta http-equiv="refresh" content="0;url=/login.html" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>Task Manager</title>
  </head>
  <body>
    <p>Redirecting to login...</p>
  </body>
</html>
`

// SyncPublic creates publicDir, copies Pages from sourceDir into it and
// writes the redirecting index.html. It returns the paths it wrote.
// A missing source page is an error.
func SyncPublic(sourceDir, publicDir string) ([]string, error) {
	if err := os.MkdirAll(publicDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", publicDir, err)
	}

	written := make([]string, 0, len(Pages)+1)
	for _, name := range Pages {
		dst := filepath.Join(publicDir, name)
		if err := copyFile(filepath.Join(sourceDir, name), dst); err != nil {
			return written, err
		}
		written = append(written, dst)
	}

	index := filepath.Join(publicDir, "index.html")
	if err := os.WriteFile(index, []byte(RedirectPage), 0o644); err != nil {
		return written, fmt.Errorf("failed to write %s: %w", index, err)
	}
	written = append(written, index)

	return written, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
