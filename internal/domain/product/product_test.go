package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseForm(t *testing.T) {
	f, err := ParseForm("  Red Jacket ", "49.90", " https://img/t.png", "https://img/l.png ")
	require.NoError(t, err)
	assert.Equal(t, Fields{Title: "Red Jacket", Price: 49.90, Thumb: "https://img/t.png", Large: "https://img/l.png"}, f)
}

func TestParseFormCollectsEveryFailure(t *testing.T) {
	_, err := ParseForm("", "abc", "", "")
	require.Error(t, err)
	require.True(t, IsValidationError(err))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	var fields []string
	for _, fe := range verr.Fields {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"title", "price", "thumb", "large"}, fields)
}

func TestParseFormRejectsMarkupInTitle(t *testing.T) {
	_, err := ParseForm("<b>Bold</b> Coat", "1", "t", "l")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []FieldError{{Field: "title", Message: "title must be plain text"}}, verr.Fields)

	f, err := ParseForm(`Tom & Jerry's "<3" tee`, "1", "t", "l")
	require.NoError(t, err)
	assert.Equal(t, `Tom & Jerry's "<3" tee`, f.Title)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Bold Coat", PlainText("<b>Bold</b> Coat<script>alert(1)</script>"))
	assert.Equal(t, "Women's Tee & Co", PlainText(" Women's Tee & Co "))
	assert.True(t, HasMarkup("<i>x</i>"))
	assert.False(t, HasMarkup("a < b & c"))
}

func TestPatchRequire(t *testing.T) {
	title, thumb, large := " Cap ", "t", "l"
	price := 9.5

	f, err := Patch{Title: &title, Price: &price, Thumb: &thumb, Large: &large}.Require()
	require.NoError(t, err)
	assert.Equal(t, Fields{Title: "Cap", Price: 9.5, Thumb: "t", Large: "l"}, f)

	_, err = Patch{Title: &title, Thumb: &thumb, Large: &large}.Require()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []FieldError{{Field: "price", Message: "price is required"}}, verr.Fields)

	empty, negative := "", -1.0
	_, err = Patch{Title: &empty, Price: &negative}.Require()
	require.ErrorAs(t, err, &verr)
	var fields []string
	for _, fe := range verr.Fields {
		fields = append(fields, fe.Field)
	}
	assert.Equal(t, []string{"thumb", "large", "title", "price"}, fields)
}

func TestFieldsValidate(t *testing.T) {
	assert.NoError(t, Fields{Title: "a", Price: 0, Thumb: "t", Large: "l"}.Validate())
	assert.Error(t, Fields{Title: "a", Price: -1, Thumb: "t", Large: "l"}.Validate())
	assert.Error(t, Fields{Title: "", Price: 1, Thumb: "t", Large: "l"}.Validate())
}

func TestApplyChangesOnlySuppliedFields(t *testing.T) {
	p := Product{ID: "p_1", Title: "Coat", Price: 10, Thumb: "t", Large: "l"}
	price := 12.5

	got := p.Apply(Patch{Price: &price})

	assert.Equal(t, Product{ID: "p_1", Title: "Coat", Price: 12.5, Thumb: "t", Large: "l"}, got)
	assert.Equal(t, 10.0, p.Price, "Apply must not mutate the receiver")
}

func TestFilter(t *testing.T) {
	products := []Product{
		{ID: "1", Title: "Red Jacket"},
		{ID: "2", Title: "Blue Jacket"},
		{ID: "3", Title: "Green Hat"},
	}

	tests := []struct {
		term string
		want []string
	}{
		{"jacket", []string{"1", "2"}},
		{"red", []string{"1"}},
		{"JACKET", []string{"1", "2"}},
		{"", []string{"1", "2", "3"}},
		{"  hat ", []string{"3"}},
		{"scarf", nil},
	}

	for _, tt := range tests {
		var ids []string
		for _, p := range Filter(products, tt.term) {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, tt.want, ids, "term=%q", tt.term)
	}
}

func TestCatalogID(t *testing.T) {
	assert.Equal(t, "api_7", CatalogID(7))
}

func TestNormalizeOnlyTrims(t *testing.T) {
	f := Fields{Title: " Women's Tee & Co ", Thumb: " t ", Large: "l "}.Normalize()
	assert.Equal(t, Fields{Title: "Women's Tee & Co", Thumb: "t", Large: "l"}, f)
}
