package extractor

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
)

// PDFExtractor derives plain text from PDF bytes.
type PDFExtractor struct {
	log zerolog.Logger
}

func NewPDFExtractor(log zerolog.Logger) *PDFExtractor {
	return &PDFExtractor{
		log: log.With().Str("component", "pdf-extractor").Logger(),
	}
}

// Extract reads every page of the document and concatenates its text.
// Malformed documents return an error; the caller treats that as non-fatal.
func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}
		b.WriteString(text)
	}

	e.log.Debug().Int("pages", reader.NumPage()).Int("chars", b.Len()).Msg("pdf text extracted")
	return b.String(), nil
}
