package render

import (
	"html/template"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"repair-shop-quotes/pricing"
	"repair-shop-quotes/utils"
)

// dataImagePattern only admits base64 raster data URIs into img src attributes
var dataImagePattern = regexp.MustCompile(`^data:image/(png|jpeg|jpg|gif|webp);base64,[A-Za-z0-9+/]+={0,2}$`)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"usd":         usd,
		"imageSrc":    imageSrc,
		"pricedParts": pricing.PricedParts,
		"taxPercent":  taxPercent,
		"stampDate":   stampDate,
	}
}

func usd(d decimal.Decimal) string {
	return utils.FormatUSD(d)
}

// imageSrc returns a trusted URL for a well-formed image data URI and "" otherwise
func imageSrc(s string) template.URL {
	s = strings.TrimSpace(s)
	if !dataImagePattern.MatchString(s) {
		return ""
	}
	return template.URL(s)
}

func taxPercent() string {
	return pricing.TaxRate.Shift(2).String() + "%"
}

// stampDate renders an RFC3339 stamp as the plain date shown in the date box
func stampDate(v string) string {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.Format(time.DateOnly)
	}
	return v
}
