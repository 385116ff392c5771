package podoc

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"po-generator/internal/core"
)

const dateLayout = "January 02, 2006"

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func quantity(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func paymentTerms(days int, terms string) string {
	s := fmt.Sprintf("Net %d days", days)
	if terms != "" {
		s += " - " + terms
	}
	return s
}

func vendorLines(v *core.Vendor) []string {
	return []string{
		v.Name,
		v.Address,
		fmt.Sprintf("%s, %s %s", v.City, v.State, v.ZipCode),
		v.Country,
	}
}
