// Package product defines the product record shared by the registry, the
// persisted store, the catalog source and the gallery renderer.
package product

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/GriffinCanCode/ProductGallery/backend/internal/shared/utils"
)

// Provenance prefixes. Locally created records use the id package's
// product prefix; catalog records use CatalogPrefix.
const (
	LocalPrefix   = "p"
	CatalogPrefix = "api"
)

// Product is a single gallery entry.
type Product struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Thumb string  `json:"thumb"`
	Large string  `json:"large"`
}

// Fields holds every mutable field of a Product.
type Fields struct {
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Thumb string  `json:"thumb"`
	Large string  `json:"large"`
}

// Patch holds optional replacements for a Product's mutable fields.
// Nil fields are left untouched.
type Patch struct {
	Title *string  `json:"title,omitempty"`
	Price *float64 `json:"price,omitempty"`
	Thumb *string  `json:"thumb,omitempty"`
	Large *string  `json:"large,omitempty"`
}

// FieldError is a single failed field check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every failed field check of one submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return "invalid product: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field string, err error) {
	if err != nil {
		e.Fields = append(e.Fields, FieldError{Field: field, Message: err.Error()})
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// IsValidationError reports whether err carries field failures.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var titlePolicy = bluemonday.StrictPolicy()

// CatalogID builds the provenance-prefixed id of a catalog item.
func CatalogID(remoteID int64) string {
	return fmt.Sprintf("%s_%d", CatalogPrefix, remoteID)
}

// ParseForm turns raw form values into validated Fields.
func ParseForm(title, price, thumb, large string) (Fields, error) {
	verr := &ValidationError{}

	f := Fields{
		Title: strings.TrimSpace(title),
		Thumb: strings.TrimSpace(thumb),
		Large: strings.TrimSpace(large),
	}

	p, err := utils.ParsePrice(price)
	verr.add("price", err)
	f.Price = p

	f = f.Normalize()
	verr.add("title", validateTitle(f.Title))
	verr.add("thumb", utils.ValidateString(f.Thumb, "thumbnail URL", 1, utils.MaxURLLength, true))
	verr.add("large", utils.ValidateString(f.Large, "large image URL", 1, utils.MaxURLLength, true))

	return f, verr.orNil()
}

// Normalize trims whitespace. Titles are stored verbatim otherwise;
// escaping happens at render time.
func (f Fields) Normalize() Fields {
	f.Title = strings.TrimSpace(f.Title)
	f.Thumb = strings.TrimSpace(f.Thumb)
	f.Large = strings.TrimSpace(f.Large)
	return f
}

// PlainText removes HTML tags and comments from s and returns the
// remaining text unescaped.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(titlePolicy.Sanitize(s)))
}

// HasMarkup reports whether s would change under PlainText.
func HasMarkup(s string) bool {
	return PlainText(s) != strings.TrimSpace(s)
}

func validateTitle(title string) error {
	if err := utils.ValidateString(title, "title", 1, utils.MaxTitleLength, true); err != nil {
		return err
	}
	if HasMarkup(title) {
		return fmt.Errorf("title must be plain text")
	}
	return nil
}

// Validate checks the record invariants on already-typed fields.
func (f Fields) Validate() error {
	verr := &ValidationError{}
	verr.add("title", validateTitle(f.Title))
	verr.add("price", utils.ValidatePrice(f.Price))
	verr.add("thumb", utils.ValidateString(f.Thumb, "thumbnail URL", 1, utils.MaxURLLength, true))
	verr.add("large", utils.ValidateString(f.Large, "large image URL", 1, utils.MaxURLLength, true))
	return verr.orNil()
}

// New builds a Product from an id and fields.
func New(id string, f Fields) Product {
	return Product{ID: id, Title: f.Title, Price: f.Price, Thumb: f.Thumb, Large: f.Large}
}

// Fields returns the mutable fields of p.
func (p Product) Fields() Fields {
	return Fields{Title: p.Title, Price: p.Price, Thumb: p.Thumb, Large: p.Large}
}

// Apply returns a copy of p with the supplied patch fields replaced.
func (p Product) Apply(patch Patch) Product {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Thumb != nil {
		p.Thumb = *patch.Thumb
	}
	if patch.Large != nil {
		p.Large = *patch.Large
	}
	return p
}

// Require turns a patch that must carry every field into Fields, as for
// a create request. Missing fields are reported alongside any other
// failed check.
func (p Patch) Require() (Fields, error) {
	verr := &ValidationError{}
	missing := map[string]bool{}
	need := func(field string, present bool) {
		if !present {
			missing[field] = true
			verr.add(field, fmt.Errorf("%s is required", field))
		}
	}
	need("title", p.Title != nil)
	need("price", p.Price != nil)
	need("thumb", p.Thumb != nil)
	need("large", p.Large != nil)

	f := Product{}.Apply(p).Fields().Normalize()

	var checked *ValidationError
	if errors.As(f.Validate(), &checked) {
		for _, fe := range checked.Fields {
			if !missing[fe.Field] {
				verr.Fields = append(verr.Fields, fe)
			}
		}
	}
	return f, verr.orNil()
}

// PatchFrom builds a Patch that replaces every field with f.
func PatchFrom(f Fields) Patch {
	return Patch{Title: &f.Title, Price: &f.Price, Thumb: &f.Thumb, Large: &f.Large}
}

// MatchesTitle reports whether p's title contains term, ignoring case.
// An empty term matches everything.
func (p Product) MatchesTitle(term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), strings.ToLower(term))
}

// Filter returns the products whose title contains term, in order.
func Filter(products []Product, term string) []Product {
	term = strings.TrimSpace(term)
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.MatchesTitle(term) {
			out = append(out, p)
		}
	}
	return out
}
