// Package pdftext turns PDF documents into plain text. It is the only place
// that touches PDF internals; everything downstream works on text.
package pdftext

import (
	"bytes"
	"os"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// PageSeparator joins page texts so that page boundaries survive into the
// extracted blob; the electricity parser splits on it again.
const PageSeparator = "\f"

// Pages extracts the plain text of every page. A page that cannot be read
// yields an empty string rather than failing the whole document.
func Pages(content []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// Extract returns the whole document as one blob, pages joined with
// PageSeparator.
func Extract(content []byte) (string, error) {
	pages, err := Pages(content)
	if err != nil {
		return "", err
	}
	return strings.Join(pages, PageSeparator), nil
}

// ExtractFile reads and extracts a PDF from disk.
func ExtractFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Extract(content)
}
