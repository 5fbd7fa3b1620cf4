package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/nao1215/lssa/internal/model"
)

// SimpleWriter streams human-readable text: the artist on its own line,
// then one match per line, with a blank line between queries.
//
// Design decision: output is written as soon as it is known rather than
// on Flush, so a long crawl shows results query by query.
type SimpleWriter struct {
	baseWriter

	// clearer erases the progress line before each write.
	clearer Clearer

	header *color.Color
	match  *color.Color
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithColour prints headers in bold magenta and matches in bold white.
func WithColour(enabled bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		if enabled {
			w.header.EnableColor()
			w.match.EnableColor()
		} else {
			w.header.DisableColor()
			w.match.DisableColor()
		}
	}
}

// WithClearer sets what is erased before each write.
func WithClearer(c Clearer) SimpleWriterOption {
	return func(w *SimpleWriter) {
		if c != nil {
			w.clearer = c
		}
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
// Colour is off by default.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		clearer:    nopClearer{},
		header:     color.New(color.Bold, color.FgMagenta),
		match:      color.New(color.Bold, color.FgWhite),
	}
	w.header.DisableColor()
	w.match.DisableColor()

	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteHeader prints the artist name.
func (w *SimpleWriter) WriteHeader(state *model.QueryState) error {
	w.clearer.Clear()
	_, err := w.header.Fprintln(w.output, state.Query.Display)
	return err
}

// WriteMatches prints the matches of a finished query. A query without
// matches prints nothing. The separating blank line is omitted after the
// final query.
func (w *SimpleWriter) WriteMatches(state *model.QueryState, last bool) error {
	w.clearer.Clear()
	if state.Matches.Len() == 0 {
		return nil
	}

	for name := range state.Matches.All() {
		if _, err := w.match.Fprintln(w.output, name); err != nil {
			return err
		}
	}
	if !last {
		if _, err := fmt.Fprintln(w.output); err != nil {
			return err
		}
	}
	return nil
}

// Flush is a no-op.
func (w *SimpleWriter) Flush() error {
	return nil
}
