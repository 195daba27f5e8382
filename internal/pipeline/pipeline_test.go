package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tendermatrix/tendermatrix/internal/compliance"
	"github.com/tendermatrix/tendermatrix/internal/config"
	"github.com/tendermatrix/tendermatrix/internal/extract"
	"github.com/tendermatrix/tendermatrix/internal/report"
	"github.com/tendermatrix/tendermatrix/internal/requirements"
)

// fakeExtractor returns canned text per document name.
type fakeExtractor struct {
	texts map[string]string
	errs  map[string]error
}

func (f *fakeExtractor) Extract(ctx context.Context, doc extract.Document) (string, error) {
	if err := f.errs[doc.Name]; err != nil {
		return "", err
	}
	return f.texts[doc.Name], nil
}

type fakeParser struct {
	reqs []requirements.Requirement
	err  error
}

func (f *fakeParser) Parse(ctx context.Context, tenderText string) ([]requirements.Requirement, error) {
	return f.reqs, f.err
}

type fakeBuilder struct {
	matrix *compliance.Matrix
	err    error
	seen   []compliance.Proposal
}

func (f *fakeBuilder) Build(ctx context.Context, reqs []requirements.Requirement, proposals []compliance.Proposal) (*compliance.Matrix, error) {
	f.seen = proposals
	if f.err != nil {
		return nil, f.err
	}
	if f.matrix != nil {
		return f.matrix, nil
	}
	m := &compliance.Matrix{Rows: make([][]compliance.Verdict, len(reqs))}
	for i, r := range reqs {
		m.Rows[i] = make([]compliance.Verdict, len(proposals))
		for p := range proposals {
			m.Rows[i][p] = compliance.Verdict{RequirementID: r.ID, ProposalIndex: p, Status: compliance.StatusComplied}
		}
	}
	return m, nil
}

func testPipeline(extractor *fakeExtractor, parser *fakeParser, builder *fakeBuilder) *Pipeline {
	return New(extractor, parser, builder, report.NewRenderer(config.ReportConfig{Color: true}), zap.NewNop())
}

var (
	tenderDoc = extract.Document{Name: "tender.pdf"}
	firmDoc   = extract.Document{Name: "firm_1.pdf"}
)

func defaultExtractor() *fakeExtractor {
	return &fakeExtractor{texts: map[string]string{
		"tender.pdf": "tender text",
		"firm_1.pdf": "proposal text",
	}}
}

func defaultParser() *fakeParser {
	return &fakeParser{reqs: []requirements.Requirement{
		{ID: 1, FullText: "CPU: Intel i7"},
		{ID: 2, FullText: "RAM: 16GB"},
	}}
}

func TestRunProducesReport(t *testing.T) {
	builder := &fakeBuilder{}
	p := testPipeline(defaultExtractor(), defaultParser(), builder)

	var out bytes.Buffer
	result, err := p.Run(context.Background(), tenderDoc, []extract.Document{firmDoc}, &out)
	require.NoError(t, err)

	assert.Len(t, result.Requirements, 2)
	assert.Equal(t, 2, result.Matrix.Cells())
	assert.Equal(t, []string{"firm_1.pdf"}, result.ProposalNames)
	require.Len(t, result.Summaries, 1)
	assert.Equal(t, "100.0%", result.Summaries[0].Percent())

	assert.Equal(t, result.Report, out.String())
	assert.Contains(t, out.String(), `\begin{document}`)

	require.Len(t, builder.seen, 1)
	assert.Equal(t, "firm_1.pdf", builder.seen[0].Name)
	assert.Equal(t, "proposal text", builder.seen[0].Text)
}

func TestRunRequiresProposals(t *testing.T) {
	p := testPipeline(defaultExtractor(), defaultParser(), &fakeBuilder{})

	_, err := p.Run(context.Background(), tenderDoc, nil, nil)
	assert.ErrorIs(t, err, ErrNoProposals)

	four := []extract.Document{firmDoc, firmDoc, firmDoc, firmDoc}
	_, err = p.Run(context.Background(), tenderDoc, four, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many proposals")
}

func TestRunEmptyTenderIsFatal(t *testing.T) {
	extractor := defaultExtractor()
	extractor.texts["tender.pdf"] = "   \n\t"
	p := testPipeline(extractor, defaultParser(), &fakeBuilder{})

	_, err := p.Run(context.Background(), tenderDoc, []extract.Document{firmDoc}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTenderEmpty)
	assert.Contains(t, err.Error(), "tender.pdf")
}

func TestRunEmptyProposalIsNotFatal(t *testing.T) {
	extractor := defaultExtractor()
	extractor.texts["firm_1.pdf"] = ""
	builder := &fakeBuilder{}
	p := testPipeline(extractor, defaultParser(), builder)

	_, err := p.Run(context.Background(), tenderDoc, []extract.Document{firmDoc}, nil)
	require.NoError(t, err)
	require.Len(t, builder.seen, 1)
	assert.Empty(t, builder.seen[0].Text)
}

func TestRunNoRequirementsIsFatal(t *testing.T) {
	builder := &fakeBuilder{}
	p := testPipeline(defaultExtractor(), &fakeParser{reqs: []requirements.Requirement{}}, builder)

	_, err := p.Run(context.Background(), tenderDoc, []extract.Document{firmDoc}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoRequirements)
	assert.Nil(t, builder.seen, "no classification work may start without requirements")
}

func TestRunExtractionErrorIdentifiesDocument(t *testing.T) {
	extractor := defaultExtractor()
	extractor.errs = map[string]error{"firm_1.pdf": fmt.Errorf("corrupt xref table")}
	p := testPipeline(extractor, defaultParser(), &fakeBuilder{})

	_, err := p.Run(context.Background(), tenderDoc, []extract.Document{firmDoc}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "firm_1.pdf")
	assert.Contains(t, err.Error(), "text extraction failed")
}

func TestRunBuilderErrorPropagates(t *testing.T) {
	builder := &fakeBuilder{err: errors.New("backend gone")}
	p := testPipeline(defaultExtractor(), defaultParser(), builder)

	_, err := p.Run(context.Background(), tenderDoc, []extract.Document{firmDoc}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compliance matrix build failed")
}
