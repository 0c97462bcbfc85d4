package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ProductGallery/backend/internal/domain/product"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/domain/registry"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/domain/theme"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/providers/catalog"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *registry.Registry
	theme    *theme.Controller
	status   *catalog.Status
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	version  string
}

// Deps are the collaborators the handlers need. Metrics may be nil.
type Deps struct {
	Registry *registry.Registry
	Theme    *theme.Controller
	Status   *catalog.Status
	Metrics  *monitoring.Metrics
	Logger   *zap.Logger
	Version  string
}

// NewHandlers creates a new handler set
func NewHandlers(deps Deps) *Handlers {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	status := deps.Status
	if status == nil {
		status = catalog.NewStatus()
	}
	return &Handlers{
		registry: deps.Registry,
		theme:    deps.Theme,
		status:   status,
		metrics:  deps.Metrics,
		logger:   logger.Named("handlers"),
		version:  deps.Version,
	}
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	snap := h.status.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"service":  "product-gallery",
		"version":  h.version,
		"products": h.registry.Len(),
		"catalog":  snap.Label,
	})
}

func (h *Handlers) timer(operation string) *monitoring.Timer {
	return monitoring.NewTimer(h.metrics, operation)
}

// persistFailed logs a write that changed memory but did not reach the
// store. The request still succeeds.
func (h *Handlers) persistFailed(c *gin.Context, operation string, err error) {
	_ = c.Error(err)
	h.logger.Error("Persist failed",
		zap.String("operation", operation),
		tracing.Field(c.Request.Context()),
		zap.Error(err),
	)
}

// validationMessages flattens err into user-facing lines.
func validationMessages(err error) []string {
	var verr *product.ValidationError
	if errors.As(err, &verr) {
		msgs := make([]string, len(verr.Fields))
		for i, f := range verr.Fields {
			msgs[i] = f.Message
		}
		return msgs
	}
	return []string{err.Error()}
}

// galleryURL links back to the gallery keeping the search term.
func galleryURL(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return "/"
	}
	return "/?q=" + url.QueryEscape(term)
}

// localRedirect returns target when it is a same-site path, else "/".
func localRedirect(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Path == "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "/"
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
