/*
Package notify handles optional delivery of the finished compliance report
via email.
*/
package notify

import (
	"fmt"
	"strings"

	"github.com/tendermatrix/tendermatrix/internal/pipeline"
)

// RenderedMessage is a ready-to-send email: subject, plain text body and the
// report artifact as an attachment.
type RenderedMessage struct {
	Subject        string
	Body           string
	AttachmentName string
	Attachment     string
}

// BuildReportMessage renders the run result into an email with the report
// attached.
func BuildReportMessage(tenderName string, result *pipeline.Result) *RenderedMessage {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Compliance analysis for %s\n", tenderName))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")
	sb.WriteString(fmt.Sprintf("Requirements analyzed: %d\n", len(result.Requirements)))
	sb.WriteString(fmt.Sprintf("Proposals compared: %d\n\n", len(result.ProposalNames)))

	for i, s := range result.Summaries {
		sb.WriteString(fmt.Sprintf("%s: %d/%d requirements met (%s)\n",
			result.ProposalNames[i], s.CompliedCount, s.Total, s.Percent()))
	}

	if failed := result.Matrix.FailedCells(); failed > 0 {
		sb.WriteString(fmt.Sprintf("\nNote: %d classification(s) failed and were marked Not Complied.\n", failed))
	}

	sb.WriteString("\nThe full LaTeX report is attached. Compile it with a LaTeX distribution (e.g. TeX Live) to produce a PDF.\n")

	return &RenderedMessage{
		Subject:        fmt.Sprintf("Tender Compliance Report: %s", tenderName),
		Body:           sb.String(),
		AttachmentName: "compliance_report.tex",
		Attachment:     result.Report,
	}
}
