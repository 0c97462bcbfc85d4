package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/ProductGallery/backend/internal/domain/contact"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/domain/product"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/domain/registry"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/domain/theme"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/gallery"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/shared/utils"
)

// ListProducts returns the products matching q
func (h *Handlers) ListProducts(c *gin.Context) {
	term := c.Query("q")
	matches := h.registry.Find(term)
	total := h.registry.Len()

	c.JSON(http.StatusOK, gin.H{
		"products":   matches,
		"total":      total,
		"visible":    len(matches),
		"countLabel": gallery.CountLabel(term, len(matches), total),
	})
}

// GetProduct returns one product
func (h *Handlers) GetProduct(c *gin.Context) {
	productID := c.Param("id")
	if err := utils.ValidateID(productID, "product_id", true); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.registry.Get(productID)
	if errors.Is(err, registry.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// CreateProduct creates a product from a JSON body. Every field must be
// present; a missing price is a field error, not zero.
func (h *Handlers) CreateProduct(c *gin.Context) {
	var req product.Patch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	fields, err := req.Require()
	if h.writeMutationError(c, "create", err) {
		return
	}

	timer := h.timer("create")
	p, err := h.registry.Create(c.Request.Context(), fields)
	timer.StopErr(err)
	if h.writeMutationError(c, "create", err) {
		return
	}
	c.JSON(http.StatusCreated, p)
}

// UpdateProduct applies a partial update. Unknown ids are not an error;
// the response reports updated=false.
func (h *Handlers) UpdateProduct(c *gin.Context) {
	productID := c.Param("id")
	var patch product.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	timer := h.timer("update")
	p, ok, err := h.registry.Update(c.Request.Context(), productID, patch)
	timer.StopErr(err)
	if h.writeMutationError(c, "update", err) {
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"updated": false, "id": productID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true, "product": p})
}

// DeleteProductAPI removes a product; deleting an unknown id succeeds
// with deleted=false.
func (h *Handlers) DeleteProductAPI(c *gin.Context) {
	productID := c.Param("id")

	timer := h.timer("delete")
	deleted, err := h.registry.Delete(c.Request.Context(), productID)
	timer.StopErr(err)
	if err != nil {
		h.persistFailed(c, "delete", err)
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted, "id": productID})
}

// ClearProductsAPI empties the registry; requires ?confirm=yes
func (h *Handlers) ClearProductsAPI(c *gin.Context) {
	if c.Query("confirm") != "yes" {
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": "confirm=yes is required to clear all products"})
		return
	}

	timer := h.timer("clear")
	err := h.registry.ClearAll(c.Request.Context())
	timer.StopErr(err)
	if err != nil {
		h.persistFailed(c, "clear", err)
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

// AddDemoAPI prepends a demo product
func (h *Handlers) AddDemoAPI(c *gin.Context) {
	timer := h.timer("demo")
	p, err := h.registry.AddDemo(c.Request.Context())
	timer.StopErr(err)
	if err != nil {
		h.persistFailed(c, "demo", err)
	}
	c.JSON(http.StatusCreated, p)
}

type reloadRequest struct {
	Confirm bool `json:"confirm"`
}

// ReloadProductsAPI refetches the catalog and replaces the list only
// when the body confirms it.
func (h *Handlers) ReloadProductsAPI(c *gin.Context) {
	var req reloadRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	var fetched int
	timer := h.timer("reload")
	replaced, err := h.registry.Reload(c.Request.Context(), func(items []product.Product) bool {
		fetched = len(items)
		return req.Confirm
	})
	timer.StopErr(err)
	if err != nil {
		h.persistFailed(c, "reload", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"replaced": replaced,
		"fetched":  fetched,
		"count":    h.registry.Len(),
		"status":   h.status.Snapshot(),
	})
}

// Status reports the catalog status label and service counters
func (h *Handlers) Status(c *gin.Context) {
	resp := gin.H{
		"catalog":  h.status.Snapshot(),
		"products": h.registry.Len(),
	}
	if h.metrics != nil {
		resp["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, resp)
}

// GetTheme returns the current mode
func (h *Handlers) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"mode": h.theme.Current(c.Request.Context())})
}

type themeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// SetTheme persists the requested mode
func (h *Handlers) SetTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode is required"})
		return
	}
	mode, err := theme.ParseMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.theme.Set(c.Request.Context(), mode); err != nil {
		h.persistFailed(c, "theme", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save theme"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mode": mode})
}

// ValidateContact checks a contact submission
func (h *Handlers) ValidateContact(c *gin.Context) {
	var form contact.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res := contact.Validate(form)
	status := http.StatusOK
	if !res.OK() {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"ok": res.OK(), "errors": res.Errors})
}

// writeMutationError answers validation failures with 422 and logs
// persistence failures. It reports whether a response was written.
func (h *Handlers) writeMutationError(c *gin.Context, operation string, err error) bool {
	if err == nil {
		return false
	}
	var verr *product.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "invalid product",
			"fields": verr.Fields,
		})
		return true
	}
	h.persistFailed(c, operation, err)
	return false
}
