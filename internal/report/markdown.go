package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/lssa/internal/model"
)

// MarkdownWriter outputs all results as a Markdown document.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation, which gives tables, lists and mermaid charts without
// hand-written escaping.
type MarkdownWriter struct {
	baseWriter
	collector
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Flush writes the document.
func (w *MarkdownWriter) Flush() error {
	md := markdown.NewMarkdown(w.output)
	results := w.Results()

	md.H1("Similar Artists")
	md.PlainText("")

	w.writeSummary(md, results)
	w.writeChart(md, results)
	for _, r := range results {
		w.writeResult(md, r)
	}
	w.writeFooter(md)

	return md.Build()
}

// writeSummary writes one table row per query.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, results []model.Result) {
	if len(results) == 0 {
		md.Note("No artists were searched.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Artist,
			strconv.Itoa(len(r.Matches)),
			strconv.Itoa(r.Pages),
			strconv.Itoa(r.Redirects),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Artist", "Matches", "Pages", "Redirects"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeChart writes a mermaid pie chart of matches per artist. It is only
// useful with more than one artist.
func (w *MarkdownWriter) writeChart(md *markdown.Markdown, results []model.Result) {
	if len(results) < 2 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Matches per Artist"),
		piechart.WithShowData(true),
	)
	n := 0
	for _, r := range results {
		if len(r.Matches) > 0 {
			chart.LabelAndIntValue(r.Artist, uint64(len(r.Matches)))
			n++
		}
	}
	if n == 0 {
		return
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeResult writes one artist section.
func (w *MarkdownWriter) writeResult(md *markdown.Markdown, r model.Result) {
	md.H2(r.Artist)
	md.PlainText("")
	if len(r.Matches) == 0 {
		md.Tip("No similar artists found.")
		md.PlainText("")
		return
	}
	md.BulletList(r.Matches...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Generated by [lssa](https://github.com/nao1215/lssa)*")
}
