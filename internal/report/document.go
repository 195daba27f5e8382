package report

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/tendermatrix/tendermatrix/internal/compliance"
	"github.com/tendermatrix/tendermatrix/internal/requirements"
)

var documentTemplate = template.Must(template.New("report").Parse(`\documentclass[12pt]{article}
\usepackage{longtable}
\usepackage{array}
\usepackage[table]{xcolor}
\usepackage[a4paper, margin=0.8in]{geometry}
\usepackage{titlesec}
\renewcommand{\arraystretch}{1.3}
\setlength{\parskip}{6pt}
\titleformat{\section}{\normalfont\Large\bfseries}{}{0pt}{}

\begin{document}

\begin{center}
    \LARGE \textbf{Tender Document Comparison Report}\\
\end{center}

\vspace{1cm}

\section*{Executive Summary}
This report presents a compliance analysis of tender requirements against the specifications submitted by {{.ProposalCount}} firm{{if ne .ProposalCount 1}}s{{end}}. Each requirement has been evaluated to determine compliance status.

{{range .Summaries}}\noindent\textbf{ {{- .Name -}} :} {{.Percent}} compliance ({{.Complied}} of {{.Total}} requirements met)\\
{{end}}
\section*{Methodology}
\begin{itemize}
    \item \textbf{Requirement Extraction:} AI-powered extraction of technical requirements from the tender document
    \item \textbf{Compliance Evaluation:} Systematic comparison of firm specifications against each requirement
    \item \textbf{Scoring:} Binary compliance assessment (Complied/Not Complied)
\end{itemize}

\section*{Compliance Analysis Results}

\begin{longtable}{|>{\raggedright\arraybackslash}p{7cm}|{{.ColumnSpec}}}
\hline
\rowcolor{blue!20}
{{.HeaderRow}} \\
\hline
\endfirsthead

\hline
\rowcolor{blue!20}
{{.HeaderRow}} \\
\hline
\endhead

{{.TableRows}}

\hline
\end{longtable}

\section*{Legend}
\begin{itemize}
    \item \textbf{Complied:} Firm's specification meets or exceeds the tender requirement
    \item \textbf{Not Complied:} Firm's specification does not meet the tender requirement or information is missing
\end{itemize}

\section*{Recommendations}
Based on this automated compliance analysis, decision-makers should:
\begin{enumerate}
    \item Review firms with the highest compliance rates
    \item Manually verify critical requirements marked as "Not Complied"
    \item Consider requesting clarifications for ambiguous specifications
    \item Evaluate cost-benefit for over-specified solutions
\end{enumerate}

\end{document}
`))

type summaryView struct {
	Name     string
	Percent  string
	Complied int
	Total    int
}

type documentView struct {
	ProposalCount int
	Summaries     []summaryView
	ColumnSpec    string
	HeaderRow     string
	TableRows     string
}

// RenderDocument produces the complete LaTeX report: the compliance table
// embedded in the fixed boilerplate sections, plus a summary derived from
// the matrix. proposalNames label the columns in upload order.
func (r *Renderer) RenderDocument(reqs []requirements.Requirement, matrix *compliance.Matrix, proposalNames []string) (string, error) {
	summaries := matrix.Summaries()

	view := documentView{
		ProposalCount: len(proposalNames),
		TableRows:     r.RenderTable(reqs, matrix),
		ColumnSpec: strings.Repeat(`
                        >{\centering\arraybackslash}p{2.5cm}|`, len(proposalNames)),
	}

	header := []string{`\textbf{Technical Requirement}`}
	for i, name := range proposalNames {
		header = append(header, fmt.Sprintf(`\textbf{%s}`, Escape(name)))
		view.Summaries = append(view.Summaries, summaryView{
			Name:     Escape(name),
			Percent:  Escape(summaries[i].Percent()),
			Complied: summaries[i].CompliedCount,
			Total:    summaries[i].Total,
		})
	}
	view.HeaderRow = strings.Join(header, " & ")

	var sb strings.Builder
	if err := documentTemplate.Execute(&sb, view); err != nil {
		return "", fmt.Errorf("failed to render report document: %w", err)
	}

	return sb.String(), nil
}

// WriteDocument renders the full report and writes it to w.
func (r *Renderer) WriteDocument(w io.Writer, reqs []requirements.Requirement, matrix *compliance.Matrix, proposalNames []string) error {
	doc, err := r.RenderDocument(reqs, matrix, proposalNames)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, doc); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
