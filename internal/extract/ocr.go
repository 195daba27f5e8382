package extract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Engine recognizes text in a page image.
type Engine interface {
	Recognize(ctx context.Context, imagePath string, lang string) (string, error)
}

// tesseractEngine runs OCR through the gosseract client. A fresh client is
// used per image so no recognition state carries across pages.
type tesseractEngine struct {
	clientFactory func() *gosseract.Client
}

func newTesseractEngine() *tesseractEngine {
	return &tesseractEngine{clientFactory: gosseract.NewClient}
}

func (e *tesseractEngine) Recognize(ctx context.Context, imagePath string, lang string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := e.clientFactory()
	defer c.Close()

	if lang != "" {
		if err := c.SetLanguage(lang); err != nil {
			return "", fmt.Errorf("failed to set OCR language %q: %w", lang, err)
		}
	}
	if err := c.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("failed to load image %s: %w", imagePath, err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognition failed for %s: %w", imagePath, err)
	}

	return text, nil
}
