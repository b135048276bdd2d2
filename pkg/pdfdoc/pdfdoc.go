// Package pdfdoc inspects, extracts text from, and generates PDF documents.
package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Magic is the byte sequence every PDF file starts with.
const Magic = "%PDF-"

// ErrNotPDF is returned when data does not start with Magic.
var ErrNotPDF = errors.New("pdfdoc: not a pdf")

// IsPDF reports whether data starts with the PDF header.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte(Magic))
}

// ExtractText returns the plain text of every page in data.
// Malformed documents return an error; the underlying parser panics on some
// inputs and those panics are converted to errors.
func ExtractText(data []byte) (text string, err error) {
	if !IsPDF(data) {
		return "", ErrNotPDF
	}

	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}

	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}

	return string(b), nil
}

// PageCount returns the number of pages in data.
func PageCount(data []byte) (int, error) {
	if !IsPDF(data) {
		return 0, ErrNotPDF
	}

	n, err := api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return 0, fmt.Errorf("page count: %w", err)
	}
	return n, nil
}
