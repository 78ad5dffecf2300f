// Package export renders an aggregated shopping list for download. The
// aggregation itself lives in the cart service; this package only owns
// the text layout.
package export

import (
	"fmt"
	"strings"

	"github.com/foodgram/backend/internal/service"
)

// Line formats one aggregated item as "<name> - <amount><unit>".
func Line(item service.ShoppingItem) string {
	return fmt.Sprintf("%s - %d%s", item.Name, item.Amount, item.MeasurementUnit)
}

// Text renders the list as plain text, one item per line.
func Text(items []service.ShoppingItem) []byte {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(Line(item))
		b.WriteString("\n")
	}
	return []byte(b.String())
}
