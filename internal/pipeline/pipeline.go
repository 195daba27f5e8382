/*
Package pipeline orchestrates one analysis run: extract text from the tender
and every proposal, derive the requirement list, build the compliance matrix
and write the report artifact.
*/
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/tendermatrix/tendermatrix/internal/compliance"
	"github.com/tendermatrix/tendermatrix/internal/extract"
	"github.com/tendermatrix/tendermatrix/internal/report"
	"github.com/tendermatrix/tendermatrix/internal/requirements"
)

// MaxProposals is the largest number of competing proposals a run accepts.
const MaxProposals = 3

var (
	// ErrTenderEmpty means no text could be extracted from the tender via
	// either path. Fatal: no requirements can follow.
	ErrTenderEmpty = errors.New("no text could be extracted from the tender document")

	// ErrNoRequirements means the parser found no technical requirements in
	// the tender text. Fatal, raised before any classification work begins.
	ErrNoRequirements = errors.New("no technical requirements could be extracted from the tender document")

	// ErrNoProposals means the run was started without any proposal to
	// compare against.
	ErrNoProposals = errors.New("at least one firm proposal is required")
)

// TextExtractor converts one PDF document into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, doc extract.Document) (string, error)
}

// RequirementParser derives the requirement list from tender text.
type RequirementParser interface {
	Parse(ctx context.Context, tenderText string) ([]requirements.Requirement, error)
}

// MatrixBuilder classifies every requirement against every proposal.
type MatrixBuilder interface {
	Build(ctx context.Context, reqs []requirements.Requirement, proposals []compliance.Proposal) (*compliance.Matrix, error)
}

// Pipeline wires the stages of one run together.
type Pipeline struct {
	extractor TextExtractor
	parser    RequirementParser
	builder   MatrixBuilder
	renderer  *report.Renderer
	log       *zap.Logger
}

// New assembles a pipeline from its stages.
func New(extractor TextExtractor, parser RequirementParser, builder MatrixBuilder, renderer *report.Renderer, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		parser:    parser,
		builder:   builder,
		renderer:  renderer,
		log:       logger,
	}
}

// Result is everything one run produced. Requirements and Matrix are the
// only state the report is derived from; Summaries are recomputed from the
// matrix.
type Result struct {
	Requirements []requirements.Requirement
	Matrix       *compliance.Matrix
	Summaries    []compliance.Summary
	ProposalNames []string
	Report       string
}

// Run executes the full pipeline and, when out is non-nil, writes the report
// artifact to it. Fatal conditions carry the stage and document that
// triggered them.
func (p *Pipeline) Run(ctx context.Context, tender extract.Document, proposals []extract.Document, out io.Writer) (*Result, error) {
	if len(proposals) == 0 {
		return nil, ErrNoProposals
	}
	if len(proposals) > MaxProposals {
		return nil, fmt.Errorf("too many proposals: got %d, the maximum is %d", len(proposals), MaxProposals)
	}

	p.log.Info("extracting text from documents", zap.Int("documents", len(proposals)+1))

	tenderText, err := p.extractor.Extract(ctx, tender)
	if err != nil {
		return nil, fmt.Errorf("text extraction failed for tender %s: %w", tender.Name, err)
	}
	if strings.TrimSpace(tenderText) == "" {
		return nil, fmt.Errorf("%w: %s", ErrTenderEmpty, tender.Name)
	}

	props := make([]compliance.Proposal, len(proposals))
	names := make([]string, len(proposals))
	for i, doc := range proposals {
		text, err := p.extractor.Extract(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("text extraction failed for proposal %s: %w", doc.Name, err)
		}
		if strings.TrimSpace(text) == "" {
			// Not fatal: every requirement will resolve to Not Complied
			// through the missing-information rule.
			p.log.Warn("proposal yielded no text, treating as blank",
				zap.String("document", doc.Name))
		}
		props[i] = compliance.Proposal{Name: doc.Name, Text: text}
		names[i] = doc.Name
	}

	p.log.Info("identifying technical requirements")

	reqs, err := p.parser.Parse(ctx, tenderText)
	if err != nil {
		return nil, fmt.Errorf("requirement parsing failed for %s: %w", tender.Name, err)
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRequirements, tender.Name)
	}

	p.logPreview(reqs)

	matrix, err := p.builder.Build(ctx, reqs, props)
	if err != nil {
		return nil, fmt.Errorf("compliance matrix build failed: %w", err)
	}

	doc, err := p.renderer.RenderDocument(reqs, matrix, names)
	if err != nil {
		return nil, err
	}

	if out != nil {
		if _, err := io.WriteString(out, doc); err != nil {
			return nil, fmt.Errorf("failed to write report: %w", err)
		}
	}

	result := &Result{
		Requirements:  reqs,
		Matrix:        matrix,
		Summaries:     matrix.Summaries(),
		ProposalNames: names,
		Report:        doc,
	}

	for i, s := range result.Summaries {
		p.log.Info("proposal compliance",
			zap.String("proposal", names[i]),
			zap.Int("complied", s.CompliedCount),
			zap.Int("total", s.Total),
			zap.String("rate", s.Percent()))
	}

	return result, nil
}

// logPreview logs the first few requirements, matching the run summary the
// CLI prints.
func (p *Pipeline) logPreview(reqs []requirements.Requirement) {
	const previewLimit = 5

	p.log.Info("extracted requirements", zap.Int("count", len(reqs)))
	for i, req := range reqs {
		if i == previewLimit {
			p.log.Info("more requirements follow", zap.Int("remaining", len(reqs)-previewLimit))
			break
		}
		text := req.FullText
		if len(text) > 80 {
			text = text[:80] + "..."
		}
		p.log.Info("requirement", zap.Int("id", req.ID), zap.String("text", text))
	}
}
