package service

import (
	"bytes"
	"errors"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Hebrew output needs a UTF-8 TTF; the core PDF fonts only cover cp1252.
// LETTER_FONT_PATH must point at a font with Hebrew glyphs (e.g. a bundled
// DejaVuSans.ttf).
const fontEnvKey = "LETTER_FONT_PATH"

type LetterPDFInput struct {
	FirmName string
	Subject  string
	Body     string
}

// RenderLetterPDF lays out a single A4 letter, right-to-left.
func RenderLetterPDF(in LetterPDFInput) ([]byte, error) {
	fontPath := os.Getenv(fontEnvKey)
	if fontPath == "" {
		return nil, errors.New("LETTER_FONT_PATH is not set")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8Font("letter", "", fontPath)
	pdf.SetFont("letter", "", 12)
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()
	pdf.RTL()

	if in.FirmName != "" {
		pdf.SetFontSize(16)
		pdf.CellFormat(0, 10, in.FirmName, "", 1, "R", false, 0, "")
		pdf.Ln(4)
	}

	pdf.SetFontSize(14)
	pdf.CellFormat(0, 8, in.Subject, "", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFontSize(12)
	for _, line := range strings.Split(in.Body, "\n") {
		if strings.TrimSpace(line) == "" {
			pdf.Ln(5)
			continue
		}
		pdf.MultiCell(0, 7, line, "", "R", false)
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
