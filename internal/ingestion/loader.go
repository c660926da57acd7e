package ingestion

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/povarna/generative-ai-agents/pdf-rag/internal/models"
	"github.com/rs/zerolog/log"
)

// Loader turns a source file into page documents
type Loader interface {
	Load(path string) ([]models.PageDocument, error)
}

// PDFLoader reads one page document per PDF page
type PDFLoader struct{}

func NewPDFLoader() *PDFLoader {
	return &PDFLoader{}
}

var infoKeys = map[string]string{
	"Title":        "title",
	"Author":       "author",
	"Subject":      "subject",
	"Keywords":     "keywords",
	"Creator":      "creator",
	"Producer":     "producer",
	"CreationDate": "creationdate",
	"ModDate":      "moddate",
}

func (l *PDFLoader) Load(path string) ([]models.PageDocument, error) {
	path = strings.TrimSpace(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".pdf" {
		return nil, fmt.Errorf("unsupported file type %s (expected .pdf)", ext)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer f.Close()

	info := documentInfo(reader)
	numPages := reader.NumPage()

	var pages []models.PageDocument
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract page %d of %s: %w", i, path, err)
		}

		metadata := map[string]any{
			"source":      path,
			"page":        i - 1,
			"page_label":  strconv.Itoa(i),
			"total_pages": numPages,
		}
		for k, v := range info {
			metadata[k] = v
		}

		pages = append(pages, models.PageDocument{
			Text:     text,
			Metadata: metadata,
		})
	}

	log.Info().Str("file", path).Int("pages", len(pages)).Msg("PDF loaded")

	return pages, nil
}

// documentInfo reads the trailer Info dictionary. Absent entries come back as
// empty strings and are dropped later by CleanMetadata.
func documentInfo(reader *pdf.Reader) map[string]any {
	info := reader.Trailer().Key("Info")

	out := make(map[string]any, len(infoKeys))
	for pdfKey, metaKey := range infoKeys {
		out[metaKey] = info.Key(pdfKey).Text()
	}
	return out
}
