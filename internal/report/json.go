package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/lssa/internal/model"
)

// JSONWriter outputs all results as one JSON document.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because the document is small and flat, and the standard
// encoder handles it with stable output.
type JSONWriter struct {
	baseWriter
	collector

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is written into the document.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion records the program version in the document.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// JSONReport is the document written by JSONWriter.
type JSONReport struct {
	// Version is the lssa version that generated this report.
	Version string `json:"version,omitempty"`

	// Results holds one entry per query, in command-line order.
	Results []model.Result `json:"results"`
}

// Flush writes the collected results.
func (w *JSONWriter) Flush() error {
	results := w.Results()
	if results == nil {
		results = []model.Result{}
	}
	_, err := w.writeJSON(JSONReport{Version: w.version, Results: results})
	return err
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	// trailing newline for terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
