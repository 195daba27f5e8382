package compliance

import (
	"context"
	"fmt"
	"strings"

	"github.com/tendermatrix/tendermatrix/internal/inference"
	"github.com/tendermatrix/tendermatrix/internal/requirements"
)

// defaultReason is the reason recorded when a structured response carries no
// usable REASON line.
const defaultReason = "Unable to determine compliance"

// Classifier reduces the backend's free-form answer for one
// (requirement, proposal) pair to a binary verdict.
//
// In the default lenient mode a status value counts as Complied when it
// contains "complied" and lacks "not" anywhere. That rule misreads a
// negative that avoids the word "not" ("never complied", "non-complied");
// strict mode requires the status value to be exactly "complied".
type Classifier struct {
	client     inference.Client
	structured bool
	strict     bool
}

// NewClassifier creates a classifier. structured selects STATUS/REASON
// responses carrying a justification; strict selects exact-token status
// matching.
func NewClassifier(client inference.Client, structured, strict bool) *Classifier {
	return &Classifier{
		client:     client,
		structured: structured,
		strict:     strict,
	}
}

// Classify asks the backend whether the proposal text satisfies the
// requirement. A garbled or off-format answer resolves to Not Complied and
// is not an error; a non-nil error means the backend never produced an
// answer (see inference.ErrUnavailable) and the classification did not run.
func (c *Classifier) Classify(ctx context.Context, req requirements.Requirement, proposalText string) (Verdict, error) {
	system := terseSystemPrompt
	user := fmt.Sprintf(terseUserPromptTemplate, req.FullText, proposalText)
	if c.structured {
		system = structuredSystemPrompt
		user = fmt.Sprintf(structuredUserPromptTemplate, req.FullText, proposalText)
	}

	resp, err := c.client.Chat(ctx, system, user)
	if err != nil {
		return Verdict{}, fmt.Errorf("compliance classification for requirement %d failed: %w", req.ID, err)
	}

	verdict := c.parseResponse(resp)
	verdict.RequirementID = req.ID
	return verdict, nil
}

// parseResponse is total: every input maps to a verdict, with Not Complied
// as the fallback for anything unparseable.
func (c *Classifier) parseResponse(resp string) Verdict {
	if c.structured {
		return c.parseStructured(resp)
	}
	return Verdict{Status: c.normalizeStatus(resp)}
}

// parseStructured extracts the first STATUS: and REASON: lines. Missing
// labels keep the deterministic defaults.
func (c *Classifier) parseStructured(resp string) Verdict {
	status := StatusNotComplied
	reason := defaultReason

	statusFound := false
	reasonFound := false
	for _, line := range strings.Split(resp, "\n") {
		if !statusFound {
			if idx := strings.Index(line, "STATUS:"); idx >= 0 {
				status = c.normalizeStatus(line[idx+len("STATUS:"):])
				statusFound = true
			}
		}
		if !reasonFound {
			if idx := strings.Index(line, "REASON:"); idx >= 0 {
				if value := strings.TrimSpace(line[idx+len("REASON:"):]); value != "" {
					reason = value
					reasonFound = true
				}
			}
		}
		if statusFound && reasonFound {
			break
		}
	}

	return Verdict{Status: status, Reason: reason}
}

// normalizeStatus maps a raw status value to the fixed vocabulary. Lenient
// mode: "complied" present and "not" absent. Strict mode: the value must be
// exactly "complied".
func (c *Classifier) normalizeStatus(value string) Status {
	lower := strings.ToLower(strings.TrimSpace(value))

	if c.strict {
		if lower == "complied" {
			return StatusComplied
		}
		return StatusNotComplied
	}

	if strings.Contains(lower, "complied") && !strings.Contains(lower, "not") {
		return StatusComplied
	}
	return StatusNotComplied
}
