package cors

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Options tunes the CORS middleware.
type Options struct {
	AllowedOrigins []string
	// ExposedHeaders are readable by browsers, e.g. Content-Disposition on exports.
	ExposedHeaders []string
	MaxAgeSeconds  int
}

var (
	defaultAllowHeaders   = "Authorization, Content-Type, X-Requested-With, X-Request-ID"
	defaultAllowMethods   = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	defaultExposedHeaders = []string{"Content-Disposition", "X-Request-ID"}
)

// New returns a CORS middleware that honors a list of allowed origins.
// An empty list allows any origin without credentials.
func New(allowedOrigins []string) gin.HandlerFunc {
	return WithOptions(Options{AllowedOrigins: allowedOrigins})
}

// WithOptions builds the middleware from explicit options.
func WithOptions(opts Options) gin.HandlerFunc {
	originSet := make(map[string]struct{}, len(opts.AllowedOrigins))
	for _, origin := range opts.AllowedOrigins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "*" {
			originSet = map[string]struct{}{}
			break
		}
		if origin != "" {
			originSet[origin] = struct{}{}
		}
	}
	allowAll := len(originSet) == 0

	exposed := opts.ExposedHeaders
	if len(exposed) == 0 {
		exposed = defaultExposedHeaders
	}
	exposedHeader := strings.Join(exposed, ", ")
	maxAge := opts.MaxAgeSeconds
	if maxAge <= 0 {
		maxAge = 600
	}
	maxAgeHeader := strconv.Itoa(maxAge)

	return func(c *gin.Context) {
		header := c.Writer.Header()
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			header.Set("Access-Control-Allow-Origin", "*")
		case origin != "" && hasOrigin(originSet, origin):
			header.Set("Access-Control-Allow-Origin", origin)
			header.Set("Access-Control-Allow-Credentials", "true")
		}

		header.Add("Vary", "Origin")
		header.Set("Access-Control-Allow-Headers", defaultAllowHeaders)
		header.Set("Access-Control-Allow-Methods", defaultAllowMethods)
		header.Set("Access-Control-Expose-Headers", exposedHeader)
		header.Set("Access-Control-Max-Age", maxAgeHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func hasOrigin(originSet map[string]struct{}, origin string) bool {
	_, ok := originSet[strings.TrimRight(origin, "/")]
	return ok
}
