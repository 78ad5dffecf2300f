package export

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"

	"github.com/foodgram/backend/internal/service"
)

// PDF renders the list as a single-column PDF document. fontPath may name
// a TrueType font with full Unicode coverage for catalogs in non-Latin
// scripts; when empty the built-in Helvetica is used and item text is
// translated to cp1252, which covers Latin scripts only.
func PDF(items []service.ShoppingItem, fontPath string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	family := "Helvetica"
	headerStyle := "B"
	tr := func(s string) string { return s }
	if fontPath != "" {
		family = "shopping"
		headerStyle = ""
		pdf.AddUTF8Font(family, "", fontPath)
	} else {
		tr = pdf.UnicodeTranslatorFromDescriptor("")
	}

	pdf.SetFont(family, headerStyle, 16)
	pdf.Cell(0, 10, tr("Shopping list"))
	pdf.Ln(14)

	pdf.SetFont(family, "", 12)
	for _, item := range items {
		pdf.Cell(0, 8, tr(Line(item)))
		pdf.Ln(8)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
