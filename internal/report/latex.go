/*
Package report serializes a compliance matrix into a LaTeX table and a
complete report document. Output is deterministic: the same requirements and
matrix always render byte-identically.
*/
package report

import (
	"fmt"
	"strings"

	"github.com/tendermatrix/tendermatrix/internal/compliance"
	"github.com/tendermatrix/tendermatrix/internal/config"
	"github.com/tendermatrix/tendermatrix/internal/requirements"
)

// latexEscaper rewrites the characters that are structurally significant to
// LaTeX. Applied to free text only, never to markup the renderer emits.
var latexEscaper = strings.NewReplacer(
	"&", `\&`,
	"%", `\%`,
	"_", `\_`,
	"#", `\#`,
	"$", `\$`,
)

// Escape returns s with LaTeX special characters escaped.
func Escape(s string) string {
	return latexEscaper.Replace(s)
}

// Renderer produces LaTeX fragments and documents from a compliance matrix.
type Renderer struct {
	color      bool
	categories bool
}

// NewRenderer creates a renderer. color wraps verdict cells in \textcolor
// markup; categories inserts a rule between adjacent rows whose categories
// differ.
func NewRenderer(cfg config.ReportConfig) *Renderer {
	return &Renderer{
		color:      cfg.Color,
		categories: cfg.Categories,
	}
}

// RenderTable produces the longtable body: one row per requirement with one
// verdict cell per proposal, in matrix order.
func (r *Renderer) RenderTable(reqs []requirements.Requirement, matrix *compliance.Matrix) string {
	var rows []string

	for i, req := range reqs {
		cells := []string{Escape(req.FullText)}
		for _, v := range matrix.Rows[i] {
			cells = append(cells, r.verdictCell(v))
		}
		rows = append(rows, strings.Join(cells, " & ")+` \\`)

		// Category grouping is adjacency-based: requirement order is
		// preserved and a rule separates consecutive rows of different
		// categories.
		if r.categories && i < len(reqs)-1 && req.Category != reqs[i+1].Category {
			rows = append(rows, `\hline`)
		}
	}

	return strings.Join(rows, "\n")
}

func (r *Renderer) verdictCell(v compliance.Verdict) string {
	if !r.color {
		return string(v.Status)
	}

	color := "red"
	if v.Status == compliance.StatusComplied {
		color = "green"
	}
	return fmt.Sprintf(`\textcolor{%s}{%s}`, color, v.Status)
}
