/*
Package extract converts PDF documents to plain text. It prefers the native
text layer and falls back to rasterizing pages and running optical character
recognition when no extractable text exists (scanned documents).
*/
package extract

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/tendermatrix/tendermatrix/internal/config"
)

// Document is one PDF supplied to a run: opaque bytes plus the name used for
// report labeling and error messages.
type Document struct {
	Name string
	Data []byte
}

// Extractor turns a Document into plain text.
type Extractor struct {
	ocr  Engine
	open func(data []byte) (pdfDocument, error)
	lang string
	dpi  int
	log  *zap.Logger
}

// New creates an extractor backed by MuPDF page access and the Tesseract OCR
// engine, configured with the OCR language and raster resolution.
func New(cfg config.OCRConfig, logger *zap.Logger) *Extractor {
	return &Extractor{
		ocr:  newTesseractEngine(),
		open: openFitzDocument,
		lang: cfg.Language,
		dpi:  cfg.DPI,
		log:  logger,
	}
}

// Extract returns all text found in the document. An empty string with a nil
// error means the document genuinely yielded no text via either path; the
// caller decides whether that is fatal.
func (e *Extractor) Extract(ctx context.Context, doc Document) (string, error) {
	pdf, err := e.open(doc.Data)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", doc.Name, err)
	}
	defer pdf.Close()

	var sb strings.Builder
	for i := 0; i < pdf.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("text extraction canceled for %s: %w", doc.Name, err)
		}

		text, err := pdf.Text(i)
		if err != nil {
			// One bad page must not abort the document.
			e.log.Warn("page text extraction failed",
				zap.String("document", doc.Name),
				zap.Int("page", i+1),
				zap.Error(err))
			continue
		}
		sb.WriteString(text)
	}

	if strings.TrimSpace(sb.String()) != "" {
		return sb.String(), nil
	}

	e.log.Info("no text layer found, falling back to OCR",
		zap.String("document", doc.Name),
		zap.Int("pages", pdf.NumPage()))

	return e.recognize(ctx, doc, pdf)
}

// recognize rasterizes every page into a scoped temporary directory and runs
// OCR over the images. The directory is removed on every exit path.
func (e *Extractor) recognize(ctx context.Context, doc Document, pdf pdfDocument) (string, error) {
	tmpDir, err := os.MkdirTemp("", "tendermatrix-ocr-*")
	if err != nil {
		return "", fmt.Errorf("failed to create OCR work directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	var sb strings.Builder
	for i := 0; i < pdf.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("OCR canceled for %s: %w", doc.Name, err)
		}

		img, err := pdf.ImageDPI(i, float64(e.dpi))
		if err != nil {
			e.log.Warn("page render failed",
				zap.String("document", doc.Name),
				zap.Int("page", i+1),
				zap.Error(err))
			continue
		}

		path := filepath.Join(tmpDir, fmt.Sprintf("page_%04d.png", i+1))
		if err := writePNG(path, img); err != nil {
			return "", fmt.Errorf("failed to write page image for %s: %w", doc.Name, err)
		}

		text, err := e.ocr.Recognize(ctx, path, e.lang)
		if err != nil {
			return "", fmt.Errorf("OCR failed on page %d of %s: %w", i+1, doc.Name, err)
		}
		sb.WriteString(text)
	}

	return sb.String(), nil
}

func writePNG(path string, img pageImage) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
