package extract

import (
	"image"

	"github.com/gen2brain/go-fitz"
)

// pageImage is the raster output of a rendered page.
type pageImage = image.Image

// pdfDocument is the page-level access the extractor needs from a PDF reader.
type pdfDocument interface {
	NumPage() int
	Text(page int) (string, error)
	ImageDPI(page int, dpi float64) (pageImage, error)
	Close() error
}

// fitzDocument adapts go-fitz's concrete return types to pdfDocument.
type fitzDocument struct {
	doc *fitz.Document
}

func openFitzDocument(data []byte) (pdfDocument, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, err
	}
	return &fitzDocument{doc: doc}, nil
}

func (f *fitzDocument) NumPage() int { return f.doc.NumPage() }

func (f *fitzDocument) Text(page int) (string, error) { return f.doc.Text(page) }

func (f *fitzDocument) ImageDPI(page int, dpi float64) (pageImage, error) {
	return f.doc.ImageDPI(page, dpi)
}

func (f *fitzDocument) Close() error { return f.doc.Close() }
