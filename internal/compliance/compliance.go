/*
Package compliance classifies proposals against tender requirements and
aggregates the verdicts into a compliance matrix with summary statistics.

The inference backend's free-form answers are treated as an untrusted wire
format: parsing is total, and every answer that cannot be confidently read
resolves to Not Complied. Ambiguity must never silently read as compliant.
*/
package compliance

import "fmt"

// Status is the binary compliance verdict for one requirement/proposal pair.
type Status string

const (
	StatusComplied    Status = "Complied"
	StatusNotComplied Status = "Not Complied"
)

// Proposal is one firm's submission: extracted text plus the name used for
// report labeling.
type Proposal struct {
	Name string
	Text string
}

// Verdict is the outcome of classifying one requirement against one
// proposal. Err is non-nil only when the classification itself failed and
// the build policy marked the cell instead of aborting.
type Verdict struct {
	RequirementID int
	ProposalIndex int
	Status        Status
	Reason        string
	Err           error
}

// Matrix holds one row of verdicts per requirement, one column per proposal.
// Row order is requirement order; column order is proposal order.
type Matrix struct {
	Rows [][]Verdict
}

// Proposals returns the number of columns.
func (m *Matrix) Proposals() int {
	if len(m.Rows) == 0 {
		return 0
	}
	return len(m.Rows[0])
}

// Cells returns the total number of verdicts in the matrix.
func (m *Matrix) Cells() int {
	return len(m.Rows) * m.Proposals()
}

// FailedCells counts verdicts whose classification failed and was marked
// rather than aborted.
func (m *Matrix) FailedCells() int {
	n := 0
	for _, row := range m.Rows {
		for _, v := range row {
			if v.Err != nil {
				n++
			}
		}
	}
	return n
}

// Summary is the per-proposal compliance statistic. It is always recomputed
// from the matrix, never stored alongside it.
type Summary struct {
	CompliedCount int
	Total         int
	Rate          float64
}

// Percent renders the rate with one-decimal rounding, e.g. "66.7%".
func (s Summary) Percent() string {
	return fmt.Sprintf("%.1f%%", s.Rate)
}

// Summaries computes one Summary per proposal column.
func (m *Matrix) Summaries() []Summary {
	cols := m.Proposals()
	summaries := make([]Summary, cols)

	for c := 0; c < cols; c++ {
		s := Summary{Total: len(m.Rows)}
		for _, row := range m.Rows {
			if row[c].Status == StatusComplied {
				s.CompliedCount++
			}
		}
		if s.Total > 0 {
			s.Rate = float64(s.CompliedCount) / float64(s.Total) * 100
		}
		summaries[c] = s
	}

	return summaries
}
