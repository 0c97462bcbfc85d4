package gallery

import (
	"github.com/GriffinCanCode/ProductGallery/backend/internal/domain/contact"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/domain/product"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/domain/theme"
)

// FormState holds the product form's field values. An empty ID means
// the form creates; a set ID means it updates that record.
type FormState struct {
	ID    string
	Title string
	Price string
	Thumb string
	Large string
}

// Editing reports whether the form targets an existing record
func (f FormState) Editing() bool { return f.ID != "" }

// FormFor pre-fills the form with p for editing.
func FormFor(p product.Product) FormState {
	return FormState{
		ID:    p.ID,
		Title: p.Title,
		Price: FormatPrice(p.Price),
		Thumb: p.Thumb,
		Large: p.Large,
	}
}

// Page is the data passed to index.html.
type Page struct {
	Theme  theme.Mode
	Status string
	View   View
	Form   FormState
	Errors []string
}

// ContactPage is the data passed to contact.html.
type ContactPage struct {
	Theme   theme.Mode
	Form    contact.Form
	Errors  []string
	Success bool
}
