package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdexec/internal/dom"
)

// linkedAttrs maps the selectors whose attribute may hold a local path.
var linkedAttrs = []struct {
	selector string
	attr     string
}{
	{"img[src]", "src"},
	{"a[href]", "href"},
}

// RewriteRelativePaths converts relative image and link paths in doc to
// absolute file:// URLs under baseDir. An empty baseDir is a no-op.
//
// URLs, anchors, absolute paths and paths escaping baseDir are left as is.
// Media elements, srcset and CSS url() references are not rewritten.
func RewriteRelativePaths(doc *dom.Document, baseDir string) error {
	if baseDir == "" {
		return nil
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return err
	}

	for _, la := range linkedAttrs {
		elems, err := doc.Query(la.selector)
		if err != nil {
			return err
		}
		for _, el := range elems {
			if rewritten, ok := resolveLocal(el.Attr(la.attr), absBase); ok {
				el.SetAttr(la.attr, rewritten)
			}
		}
	}
	return nil
}

// resolveLocal returns the file:// URL for a relative path under base.
func resolveLocal(path, base string) (string, bool) {
	if !isRelativePath(path) {
		return "", false
	}
	abs := filepath.Join(base, path)
	if !isPathUnderDir(abs, base) {
		return "", false
	}
	return pathToFileURL(abs), true
}

// isRelativePath returns true if the path should be rewritten.
func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "#") || strings.HasPrefix(path, "//") {
		return false
	}
	if u, err := url.Parse(path); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		// http:, file:, data:, mailto: ... (one-letter schemes are drive letters)
		return false
	}
	return !filepath.IsAbs(path)
}

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(filepath.Clean(absPath)+string(filepath.Separator), cleanDir)
}

// pathToFileURL converts an absolute path to a file:// URL.
func pathToFileURL(absPath string) string {
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absPath),
	}
	return u.String()
}
