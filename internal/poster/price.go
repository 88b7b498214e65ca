package poster

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	CurrencySymbol   = "R$"
	DecimalSeparator = ","
)

// PriceBlock is the fixed sub-layout of the price area.
type PriceBlock struct {
	OldPrice        string `json:"oldPrice,omitempty"`
	ShowOldPrice    bool   `json:"showOldPrice"`
	DiscountPercent int64  `json:"discountPercent,omitempty"`
	Currency        string `json:"currency"`
	Integer         string `json:"integer"`
	Separator       string `json:"separator"`
	Cents           string `json:"cents"`
	Unit            string `json:"unit"`
}

// Text is the flat reading of the block, e.g. "R$ 25,90 UN".
func (p PriceBlock) Text() string {
	var b strings.Builder
	b.WriteString(p.Currency)
	b.WriteString(" ")
	b.WriteString(p.Integer)
	if p.Cents != "" {
		b.WriteString(p.Separator)
		b.WriteString(p.Cents)
	}
	if p.Unit != "" {
		b.WriteString(" ")
		b.WriteString(p.Unit)
	}
	return b.String()
}

// OldPriceLabel renders the struck-through line, e.g. "De R$ 50,00".
func (p PriceBlock) OldPriceLabel() string {
	if !p.ShowOldPrice {
		return ""
	}
	return "De " + p.Currency + " " + p.OldPrice
}

func NewPriceBlock(price float64, oldPrice *float64, unit string) PriceBlock {
	integer, cents := SplitPrice(price)
	block := PriceBlock{
		Currency:  CurrencySymbol,
		Integer:   integer,
		Separator: DecimalSeparator,
		Cents:     cents,
		Unit:      unit,
	}
	if HasValidDiscount(price, oldPrice) {
		block.ShowOldPrice = true
		block.OldPrice = FormatPrice(*oldPrice)
		block.DiscountPercent = DiscountPercent(price, *oldPrice)
	}
	return block
}

// HasValidDiscount reports whether oldPrice is present and above price.
func HasValidDiscount(price float64, oldPrice *float64) bool {
	if oldPrice == nil {
		return false
	}
	if !isFinite(price) || !isFinite(*oldPrice) {
		return false
	}
	return *oldPrice > price
}

// DiscountPercent is round((old-new)/old*100). Callers check HasValidDiscount first.
func DiscountPercent(price, oldPrice float64) int64 {
	if oldPrice == 0 || !isFinite(price) || !isFinite(oldPrice) {
		return 0
	}
	oldDec := decimal.NewFromFloat(oldPrice)
	diff := oldDec.Sub(decimal.NewFromFloat(price))
	return diff.Div(oldDec).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FormatPrice renders two decimal digits with the display separator,
// e.g. 1234.5 -> "1234,50". Non-finite values are printed as they are.
func FormatPrice(value float64) string {
	if !isFinite(value) {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
	fixed := decimal.NewFromFloat(value).StringFixed(2)
	return strings.Replace(fixed, ".", DecimalSeparator, 1)
}

// SplitPrice returns the integer and cents parts of the two-digit rendering.
// Non-finite values come back whole with empty cents.
func SplitPrice(value float64) (string, string) {
	if !isFinite(value) {
		return strconv.FormatFloat(value, 'f', -1, 64), ""
	}
	fixed := decimal.NewFromFloat(value).StringFixed(2)
	integer, cents, found := strings.Cut(fixed, ".")
	if !found {
		return integer, "00"
	}
	return integer, cents
}

// ParsePrice accepts the formats seen in imported spreadsheets:
// "R$ 1.000,50", "10,50" and "10.50".
func ParsePrice(raw string) (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, "\"", ""))
	s = strings.TrimSpace(strings.TrimPrefix(s, CurrencySymbol))
	if s == "" {
		return 0, false
	}

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case hasComma:
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	value, _ := d.Float64()
	return value, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
