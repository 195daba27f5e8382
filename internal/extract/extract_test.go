package extract

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tendermatrix/tendermatrix/internal/config"
)

// fakePDF serves canned per-page text and renders blank images.
type fakePDF struct {
	pages    []string
	textErrs map[int]error
	closed   bool
}

func (f *fakePDF) NumPage() int { return len(f.pages) }

func (f *fakePDF) Text(page int) (string, error) {
	if err, ok := f.textErrs[page]; ok {
		return "", err
	}
	return f.pages[page], nil
}

func (f *fakePDF) ImageDPI(page int, dpi float64) (pageImage, error) {
	return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
}

func (f *fakePDF) Close() error {
	f.closed = true
	return nil
}

// fakeEngine records every Recognize call and the directories it saw.
type fakeEngine struct {
	texts   []string
	err     error
	errOn   int // 1-based call number that fails; 0 means never
	calls   int
	dirSeen string
}

func (f *fakeEngine) Recognize(ctx context.Context, imagePath string, lang string) (string, error) {
	f.calls++
	f.dirSeen = filepath.Dir(imagePath)
	if f.errOn != 0 && f.calls == f.errOn {
		return "", f.err
	}
	if f.calls <= len(f.texts) {
		return f.texts[f.calls-1], nil
	}
	return "", nil
}

func newTestExtractor(pdf *fakePDF, engine *fakeEngine) *Extractor {
	return &Extractor{
		ocr:  engine,
		open: func(data []byte) (pdfDocument, error) { return pdf, nil },
		lang: "eng",
		dpi:  300,
		log:  zap.NewNop(),
	}
}

func TestExtractNativeTextSkipsOCR(t *testing.T) {
	pdf := &fakePDF{pages: []string{"Technical requirements\n", "CPU: Intel i7\n"}}
	engine := &fakeEngine{}
	e := newTestExtractor(pdf, engine)

	text, err := e.Extract(context.Background(), Document{Name: "tender.pdf"})
	require.NoError(t, err)

	assert.Equal(t, "Technical requirements\nCPU: Intel i7\n", text)
	assert.Zero(t, engine.calls, "OCR must not run when a text layer exists")
	assert.True(t, pdf.closed)
}

func TestExtractToleratesBadPage(t *testing.T) {
	pdf := &fakePDF{
		pages:    []string{"page one ", "", "page three"},
		textErrs: map[int]error{1: fmt.Errorf("damaged content stream")},
	}
	e := newTestExtractor(pdf, &fakeEngine{})

	text, err := e.Extract(context.Background(), Document{Name: "tender.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "page one page three", text)
}

func TestExtractFallsBackToOCR(t *testing.T) {
	pdf := &fakePDF{pages: []string{"", "  \n", ""}}
	engine := &fakeEngine{texts: []string{"scanned one ", "scanned two ", "scanned three"}}
	e := newTestExtractor(pdf, engine)

	text, err := e.Extract(context.Background(), Document{Name: "scan.pdf"})
	require.NoError(t, err)

	assert.Equal(t, "scanned one scanned two scanned three", text)
	assert.Equal(t, 3, engine.calls, "OCR must run exactly once per page")

	_, statErr := os.Stat(engine.dirSeen)
	assert.True(t, os.IsNotExist(statErr), "OCR work directory must be removed")
}

func TestExtractOCRFailureStillCleansUp(t *testing.T) {
	pdf := &fakePDF{pages: []string{"", ""}}
	engine := &fakeEngine{errOn: 2, err: fmt.Errorf("tesseract crashed")}
	e := newTestExtractor(pdf, engine)

	_, err := e.Extract(context.Background(), Document{Name: "scan.pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 2 of scan.pdf")

	_, statErr := os.Stat(engine.dirSeen)
	assert.True(t, os.IsNotExist(statErr), "OCR work directory must be removed even on failure")
}

func TestExtractEmptyDocumentIsNotAnError(t *testing.T) {
	pdf := &fakePDF{pages: []string{"", ""}}
	engine := &fakeEngine{texts: []string{"", ""}}
	e := newTestExtractor(pdf, engine)

	text, err := e.Extract(context.Background(), Document{Name: "blank.pdf"})
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractCanceledContext(t *testing.T) {
	pdf := &fakePDF{pages: []string{"some text"}}
	e := newTestExtractor(pdf, &fakeEngine{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Extract(ctx, Document{Name: "tender.pdf"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractOpenFailure(t *testing.T) {
	e := &Extractor{
		ocr:  &fakeEngine{},
		open: func(data []byte) (pdfDocument, error) { return nil, fmt.Errorf("not a PDF") },
		lang: "eng",
		dpi:  300,
		log:  zap.NewNop(),
	}

	_, err := e.Extract(context.Background(), Document{Name: "corrupt.pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt.pdf")
}

func TestNewUsesConfiguredSettings(t *testing.T) {
	e := New(config.OCRConfig{Language: "eng", DPI: 300}, zap.NewNop())
	assert.Equal(t, "eng", e.lang)
	assert.Equal(t, 300, e.dpi)
	assert.NotNil(t, e.ocr)
}
