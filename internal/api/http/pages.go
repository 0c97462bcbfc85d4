package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/ProductGallery/backend/internal/domain/contact"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/domain/product"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/domain/registry"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/domain/theme"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/gallery"
)

// productForm is the gallery form as submitted by the browser.
type productForm struct {
	ID    string `form:"id"`
	Title string `form:"title"`
	Price string `form:"price"`
	Thumb string `form:"thumb"`
	Large string `form:"large"`
	Query string `form:"q"`
}

func (f productForm) state() gallery.FormState {
	return gallery.FormState{ID: f.ID, Title: f.Title, Price: f.Price, Thumb: f.Thumb, Large: f.Large}
}

// Index renders the gallery page
func (h *Handlers) Index(c *gin.Context) {
	form := gallery.FormState{}
	if editID := c.Query("edit"); editID != "" {
		if p, err := h.registry.Get(editID); err == nil {
			form = gallery.FormFor(p)
		}
	}
	h.renderIndex(c, http.StatusOK, c.Query("q"), form, nil)
}

func (h *Handlers) renderIndex(c *gin.Context, status int, term string, form gallery.FormState, errs []string) {
	c.HTML(status, "index.html", gallery.Page{
		Theme:  h.theme.Current(c.Request.Context()),
		Status: h.status.Snapshot().Label,
		View:   gallery.Render(h.registry.List(), term),
		Form:   form,
		Errors: errs,
	})
}

// GalleryPartial renders only the cards, for live search
func (h *Handlers) GalleryPartial(c *gin.Context) {
	view := gallery.Render(h.registry.List(), c.Query("q"))
	c.Header("X-Items-Count", view.CountLabel)
	c.HTML(http.StatusOK, "cards", view)
}

// SaveProduct creates or updates a product from the gallery form
func (h *Handlers) SaveProduct(c *gin.Context) {
	var form productForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderIndex(c, http.StatusBadRequest, form.Query, form.state(), []string{err.Error()})
		return
	}

	fields, err := product.ParseForm(form.Title, form.Price, form.Thumb, form.Large)
	if err != nil {
		h.renderIndex(c, http.StatusUnprocessableEntity, form.Query, form.state(), validationMessages(err))
		return
	}

	ctx := c.Request.Context()
	if form.ID == "" {
		timer := h.timer("create")
		_, err = h.registry.Create(ctx, fields)
		timer.StopErr(err)
	} else {
		timer := h.timer("update")
		_, _, err = h.registry.Update(ctx, form.ID, product.PatchFrom(fields))
		timer.StopErr(err)
	}

	if product.IsValidationError(err) {
		h.renderIndex(c, http.StatusUnprocessableEntity, form.Query, form.state(), validationMessages(err))
		return
	}
	if err != nil {
		h.persistFailed(c, "save", err)
	}

	c.Redirect(http.StatusSeeOther, galleryURL(form.Query))
}

// DeleteProduct removes one product
func (h *Handlers) DeleteProduct(c *gin.Context) {
	timer := h.timer("delete")
	_, err := h.registry.Delete(c.Request.Context(), c.Param("id"))
	timer.StopErr(err)
	if err != nil {
		h.persistFailed(c, "delete", err)
	}
	c.Redirect(http.StatusSeeOther, galleryURL(c.PostForm("q")))
}

// ClearProducts empties the gallery when the request is confirmed
func (h *Handlers) ClearProducts(c *gin.Context) {
	if c.PostForm("confirm") == "yes" {
		timer := h.timer("clear")
		err := h.registry.ClearAll(c.Request.Context())
		timer.StopErr(err)
		if err != nil {
			h.persistFailed(c, "clear", err)
		}
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// AddDemo prepends a demo product
func (h *Handlers) AddDemo(c *gin.Context) {
	timer := h.timer("demo")
	_, err := h.registry.AddDemo(c.Request.Context())
	timer.StopErr(err)
	if err != nil {
		h.persistFailed(c, "demo", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// ReloadProducts refetches the catalog. The browser asks the user before
// submitting; the fetched list replaces local data only with confirm=yes.
func (h *Handlers) ReloadProducts(c *gin.Context) {
	timer := h.timer("reload")
	_, err := h.registry.Reload(c.Request.Context(), registry.Always(c.PostForm("confirm") == "yes"))
	timer.StopErr(err)
	if err != nil {
		h.persistFailed(c, "reload", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// ToggleTheme sets the submitted mode, or flips the current one when
// no mode is given, then returns to the referring page.
func (h *Handlers) ToggleTheme(c *gin.Context) {
	ctx := c.Request.Context()

	var err error
	if raw := c.PostForm("mode"); raw != "" {
		var mode theme.Mode
		if mode, err = theme.ParseMode(raw); err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		err = h.theme.Set(ctx, mode)
	} else {
		_, err = h.theme.Toggle(ctx)
	}
	if err != nil {
		h.persistFailed(c, "theme", err)
	}

	c.Redirect(http.StatusSeeOther, localRedirect(c.Request.Referer()))
}

// ContactPage renders the empty contact form
func (h *Handlers) ContactPage(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", gallery.ContactPage{
		Theme: h.theme.Current(c.Request.Context()),
	})
}

// SubmitContact validates the contact form. Nothing is stored.
func (h *Handlers) SubmitContact(c *gin.Context) {
	var form contact.Form
	page := gallery.ContactPage{Theme: h.theme.Current(c.Request.Context())}
	if err := c.ShouldBind(&form); err != nil {
		page.Errors = []string{err.Error()}
		c.HTML(http.StatusBadRequest, "contact.html", page)
		return
	}

	res := contact.Validate(form)
	if !res.OK() {
		page.Form = contact.Form{Name: form.Name, Email: form.Email}
		page.Errors = res.Errors
		c.HTML(http.StatusUnprocessableEntity, "contact.html", page)
		return
	}

	page.Success = true
	c.HTML(http.StatusOK, "contact.html", page)
}
