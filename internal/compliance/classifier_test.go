package compliance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendermatrix/tendermatrix/internal/inference"
	"github.com/tendermatrix/tendermatrix/internal/requirements"
)

// chatFunc adapts a function to the inference.Client interface.
type chatFunc func(ctx context.Context, system, user string) (string, error)

func (f chatFunc) Name() string { return "fake" }

func (f chatFunc) Chat(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

func fixedResponse(resp string) chatFunc {
	return func(ctx context.Context, system, user string) (string, error) {
		return resp, nil
	}
}

var testReq = requirements.Requirement{ID: 1, Description: "RAM", Specification: "16GB minimum", FullText: "RAM: 16GB minimum"}

func TestClassifyTerse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     Status
	}{
		{"exact complied", "Complied", StatusComplied},
		{"exact not complied", "Not Complied", StatusNotComplied},
		{"case insensitive", "COMPLIED", StatusComplied},
		{"verbose positive", "The firm has complied with this requirement.", StatusComplied},
		{"verbose negative", "The firm has not complied.", StatusNotComplied},
		{"garbled", "Hmm, it is difficult to say.", StatusNotComplied},
		{"empty", "", StatusNotComplied},
		{"off vocabulary", "Yes", StatusNotComplied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(fixedResponse(tt.response), false, false)
			v, err := c.Classify(context.Background(), testReq, "proposal text")
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Status)
			assert.Equal(t, testReq.ID, v.RequirementID)
		})
	}
}

func TestClassifyStrictStatus(t *testing.T) {
	// The lenient rule reads any "complied"-bearing answer without "not" as
	// compliant; strict mode requires the exact token.
	lenient := NewClassifier(fixedResponse("the proposal never complied with this"), false, false)
	v, err := lenient.Classify(context.Background(), testReq, "proposal text")
	require.NoError(t, err)
	assert.Equal(t, StatusComplied, v.Status)

	strict := NewClassifier(fixedResponse("the proposal never complied with this"), false, true)
	v, err = strict.Classify(context.Background(), testReq, "proposal text")
	require.NoError(t, err)
	assert.Equal(t, StatusNotComplied, v.Status)

	strict = NewClassifier(fixedResponse("Complied"), false, true)
	v, err = strict.Classify(context.Background(), testReq, "proposal text")
	require.NoError(t, err)
	assert.Equal(t, StatusComplied, v.Status)
}

func TestClassifyStructured(t *testing.T) {
	resp := `STATUS: Complied
REASON: The proposal offers 32GB, exceeding the 16GB minimum.`

	c := NewClassifier(fixedResponse(resp), true, false)
	v, err := c.Classify(context.Background(), testReq, "proposal text")
	require.NoError(t, err)

	assert.Equal(t, StatusComplied, v.Status)
	assert.Equal(t, "The proposal offers 32GB, exceeding the 16GB minimum.", v.Reason)
}

func TestClassifyStructuredMissingLabels(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		wantStatus Status
		wantReason string
	}{
		{
			name:       "no labels at all",
			response:   "The proposal looks adequate to me.",
			wantStatus: StatusNotComplied,
			wantReason: defaultReason,
		},
		{
			name:       "status only",
			response:   "STATUS: Complied",
			wantStatus: StatusComplied,
			wantReason: defaultReason,
		},
		{
			name:       "reason only",
			response:   "REASON: RAM capacity is not mentioned anywhere in the proposal.",
			wantStatus: StatusNotComplied,
			wantReason: "RAM capacity is not mentioned anywhere in the proposal.",
		},
		{
			name: "first occurrence wins",
			response: `STATUS: Not Complied
REASON: Initial assessment.
STATUS: Complied
REASON: Revised assessment.`,
			wantStatus: StatusNotComplied,
			wantReason: "Initial assessment.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(fixedResponse(tt.response), true, false)
			v, err := c.Classify(context.Background(), testReq, "proposal text")
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, v.Status)
			assert.Equal(t, tt.wantReason, v.Reason)
		})
	}
}

func TestClassifyMissingInformationDefaultsToNotComplied(t *testing.T) {
	// A proposal that never mentions the requirement: the backend follows
	// the missing-info rule and the reason survives into the verdict.
	resp := `STATUS: Not Complied
REASON: The firm specification does not mention RAM capacity.`

	c := NewClassifier(fixedResponse(resp), true, false)
	v, err := c.Classify(context.Background(), testReq, "a proposal about monitors only")
	require.NoError(t, err)

	assert.Equal(t, StatusNotComplied, v.Status)
	assert.Contains(t, v.Reason, "does not mention")
}

func TestClassifyMalformedNeverComplies(t *testing.T) {
	malformed := []string{
		"", "garbage", "yes", "no", "maybe", "STATUS REASON", "✓",
		"the requirement is satisfied", "...", "Error: out of tokens",
	}

	for _, resp := range malformed {
		for _, structured := range []bool{false, true} {
			c := NewClassifier(fixedResponse(resp), structured, false)
			v, err := c.Classify(context.Background(), testReq, "proposal text")
			require.NoError(t, err)
			assert.Equal(t, StatusNotComplied, v.Status,
				"response %q (structured=%t) must never read as compliant", resp, structured)
		}
	}
}

func TestClassifyPropagatesBackendFailure(t *testing.T) {
	failing := chatFunc(func(ctx context.Context, system, user string) (string, error) {
		return "", inference.ErrUnavailable
	})

	c := NewClassifier(failing, false, false)
	_, err := c.Classify(context.Background(), testReq, "proposal text")
	require.Error(t, err)
	assert.True(t, errors.Is(err, inference.ErrUnavailable),
		"transport failure must stay distinguishable from a garbled response")
}
