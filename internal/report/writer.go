package report

import (
	"io"

	"github.com/nao1215/lssa/internal/model"
)

// Writer receives query results from the crawler.
//
// Design decision: the crawler reports in two steps so that the text
// format can print the artist before its matches are known. Document
// formats ignore WriteHeader and render everything on Flush.
type Writer interface {
	// WriteHeader is called once per query, when its first page arrives.
	WriteHeader(state *model.QueryState) error

	// WriteMatches is called once per query, when it is complete. last is
	// true for the final query of the run.
	WriteMatches(state *model.QueryState, last bool) error

	// Flush writes any buffered output.
	Flush() error
}

// Clearer erases transient terminal output such as a progress line.
type Clearer interface {
	Clear()
}

type nopClearer struct{}

func (nopClearer) Clear() {}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// collector keeps finished results for the document formats.
type collector struct {
	results []model.Result
}

func (c *collector) WriteHeader(*model.QueryState) error { return nil }

func (c *collector) WriteMatches(state *model.QueryState, _ bool) error {
	c.results = append(c.results, state.Result())
	return nil
}

// Results returns the collected results in query order.
func (c *collector) Results() []model.Result {
	return c.results
}
