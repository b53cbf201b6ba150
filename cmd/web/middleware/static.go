package middleware

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// StaticFirst serves pre-built files from dir for plain GET requests and
// falls through to the routes when no file matches. Requests with a query
// string always hit the routes.
func StaticFirst(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || c.Request.URL.RawQuery != "" {
			c.Next()
			return
		}
		file := staticFile(dir, c.Request.URL.Path)
		if file == "" {
			c.Next()
			return
		}
		c.File(file)
		c.Abort()
	}
}

func staticFile(dir, urlPath string) string {
	clean := path.Clean("/" + urlPath)
	candidate := filepath.Join(dir, filepath.FromSlash(clean))
	info, err := os.Stat(candidate)
	if err != nil {
		return ""
	}
	if info.IsDir() {
		candidate = filepath.Join(candidate, "index.html")
		if info, err = os.Stat(candidate); err != nil || info.IsDir() {
			return ""
		}
	}
	return candidate
}
