package gallery

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/GriffinCanCode/ProductGallery/backend/internal/domain/product"
)

// CardStagger is the animation delay added per visible card.
const CardStagger = 40 * time.Millisecond

// EmptyMessage is shown when no product matches.
const EmptyMessage = "Nothing found"

// Card is one rendered product.
type Card struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Price      float64       `json:"price"`
	PriceLabel string        `json:"priceLabel"`
	Thumb      string        `json:"thumb"`
	Large      string        `json:"large"`
	Delay      time.Duration `json:"-"`
}

// DelayMS is the card's animation delay in milliseconds
func (c Card) DelayMS() int64 { return c.Delay.Milliseconds() }

// PriceStats summarizes the prices of the visible cards.
type PriceStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// View is everything needed to draw the gallery.
type View struct {
	Term       string      `json:"term"`
	Cards      []Card      `json:"cards"`
	Empty      bool        `json:"empty"`
	Total      int         `json:"total"`
	Visible    int         `json:"visible"`
	CountLabel string      `json:"countLabel"`
	Stats      *PriceStats `json:"stats,omitempty"`
}

// Render filters products by term and builds the cards in list order.
func Render(products []product.Product, term string) View {
	term = strings.TrimSpace(term)
	matches := product.Filter(products, term)

	cards := make([]Card, len(matches))
	for i, p := range matches {
		cards[i] = Card{
			ID:         p.ID,
			Title:      p.Title,
			Price:      p.Price,
			PriceLabel: FormatPrice(p.Price),
			Thumb:      p.Thumb,
			Large:      p.Large,
			Delay:      time.Duration(i) * CardStagger,
		}
	}

	return View{
		Term:       term,
		Cards:      cards,
		Empty:      len(cards) == 0,
		Total:      len(products),
		Visible:    len(cards),
		CountLabel: CountLabel(term, len(cards), len(products)),
		Stats:      priceStats(matches),
	}
}

// CountLabel is "N items" without a search term and "V of N" with one.
func CountLabel(term string, visible, total int) string {
	if term == "" {
		return fmt.Sprintf("%d items", total)
	}
	return fmt.Sprintf("%d of %d", visible, total)
}

// FormatPrice prints a price with the shortest exact representation.
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

func priceStats(products []product.Product) *PriceStats {
	if len(products) == 0 {
		return nil
	}
	prices := make([]float64, len(products))
	for i, p := range products {
		prices[i] = p.Price
	}
	slices.Sort(prices)

	return &PriceStats{
		Min:    floats.Min(prices),
		Max:    floats.Max(prices),
		Mean:   stat.Mean(prices, nil),
		Median: stat.Quantile(0.5, stat.Empirical, prices, nil),
	}
}
