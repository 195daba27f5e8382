package requirements

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tendermatrix/tendermatrix/internal/inference"
)

// Parser derives the requirement list from tender text with a single
// inference call followed by deterministic line parsing.
type Parser struct {
	client     inference.Client
	categories bool
	log        *zap.Logger
}

// NewParser creates a parser. With categories enabled the model is prompted
// for CATEGORY: description: specification lines and qualifying lines carry
// a taxonomy tag.
func NewParser(client inference.Client, categories bool, logger *zap.Logger) *Parser {
	return &Parser{
		client:     client,
		categories: categories,
		log:        logger,
	}
}

// Parse returns the requirements found in the tender text in listing order.
// An empty slice with a nil error means the model's answer contained no
// qualifying line; the caller treats that as "no requirements found".
// Parsing is deterministic: the same model output always yields the same
// sequence.
func (p *Parser) Parse(ctx context.Context, tenderText string) ([]Requirement, error) {
	system := plainSystemPrompt
	if p.categories {
		system = categorySystemPrompt
	}

	resp, err := p.client.Chat(ctx, system, fmt.Sprintf(userPromptTemplate, tenderText))
	if err != nil {
		return nil, fmt.Errorf("requirement extraction failed: %w", err)
	}

	reqs := p.parseListing(resp)

	p.log.Info("extracted requirements",
		zap.Int("count", len(reqs)),
		zap.Bool("categorized", p.categories))

	return reqs, nil
}

// parseListing applies the line rules to the model's free-form listing. A
// line qualifies if it starts with a bullet marker or contains a colon;
// bullet markers are stripped before further interpretation.
func (p *Parser) parseListing(listing string) []Requirement {
	reqs := []Requirement{}

	for _, raw := range strings.Split(listing, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "•") && !strings.Contains(line, ":") {
			continue
		}

		stripped := strings.TrimSpace(strings.TrimLeft(line, "-• "))
		if stripped == "" {
			continue
		}

		req, ok := p.parseLine(stripped)
		if !ok {
			continue
		}
		req.ID = len(reqs) + 1
		reqs = append(reqs, req)
	}

	return reqs
}

func (p *Parser) parseLine(line string) (Requirement, bool) {
	if p.categories {
		if req, ok := parseCategorized(line); ok {
			return req, true
		}
	}
	return parsePlain(line)
}

// parseCategorized accepts CATEGORY: description: specification lines. The
// first colon-delimited field must name one of the fixed taxonomy tags and
// at least three fields must be present.
func parseCategorized(line string) (Requirement, bool) {
	parts := strings.SplitN(line, ":", 3)
	if len(parts) < 3 {
		return Requirement{}, false
	}

	category, ok := matchCategory(parts[0])
	if !ok {
		return Requirement{}, false
	}

	description := strings.TrimSpace(parts[1])
	specification := strings.TrimSpace(parts[2])

	return Requirement{
		Category:      category,
		Description:   description,
		Specification: specification,
		FullText:      description + ": " + specification,
	}, true
}

// parsePlain keeps the stripped line as the requirement text, splitting a
// leading "description: specification" pair when a colon is present.
func parsePlain(line string) (Requirement, bool) {
	req := Requirement{
		Category: CategoryUnspecified,
		FullText: line,
	}

	if idx := strings.Index(line, ":"); idx >= 0 {
		req.Description = strings.TrimSpace(line[:idx])
		req.Specification = strings.TrimSpace(line[idx+1:])
	} else {
		req.Description = line
	}

	return req, true
}
