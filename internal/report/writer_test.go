package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/lssa/internal/model"
)

// createTestState returns a finished query with the given matches.
func createTestState(artist string, matches ...string) *model.QueryState {
	s := model.NewQueryState(model.NewQuery(artist, false), 10)
	for _, m := range matches {
		s.Matches.Add(m)
	}
	s.Page = 2
	return s
}

type countingClearer struct{ n int }

func (c *countingClearer) Clear() { c.n++ }

// TestSimpleWriter tests the streaming text writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header, matches and separator", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		clr := &countingClearer{}
		w := NewSimpleWriter(&buf, WithClearer(clr))

		a := createTestState("Foo", "Bar", "Baz")
		b := createTestState("Qux", "Quux")
		for _, step := range []func() error{
			func() error { return w.WriteHeader(a) },
			func() error { return w.WriteMatches(a, false) },
			func() error { return w.WriteHeader(b) },
			func() error { return w.WriteMatches(b, true) },
			w.Flush,
		} {
			if err := step(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		want := "Foo\nBar\nBaz\n\nQux\nQuux\n"
		if diff := cmp.Diff(want, buf.String()); diff != "" {
			t.Errorf("output mismatch (-want +got):\n%s", diff)
		}
		if clr.n != 4 {
			t.Errorf("Clear called %d times, want 4", clr.n)
		}
	})

	t.Run("query without matches prints only its header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		s := createTestState("Nobody")

		if err := w.WriteHeader(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := w.WriteMatches(s, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "Nobody\n" {
			t.Errorf("output = %q", buf.String())
		}
	})

	t.Run("colour wraps lines in escapes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithColour(true))
		s := createTestState("Foo", "Bar")

		if err := w.WriteHeader(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := w.WriteMatches(s, true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "\x1b[1;35m") {
			t.Errorf("expected bold magenta header in %q", out)
		}
		if !strings.Contains(out, "\x1b[1;37m") {
			t.Errorf("expected bold white match in %q", out)
		}
	})
}

// TestJSONWriter tests the JSON document writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes all results on flush", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithVersion("v1.2.3"), WithPrettyPrint())

		a := createTestState("Foo", "Bar")
		a.Redirects = 1
		if err := w.WriteHeader(a); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := w.WriteMatches(a, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := w.WriteMatches(createTestState("Qux"), true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.Len() != 0 {
			t.Fatal("JSONWriter wrote before Flush")
		}
		if err := w.Flush(); err != nil {
			t.Fatalf("Flush: %v", err)
		}

		var got JSONReport
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON %q: %v", buf.String(), err)
		}
		want := JSONReport{
			Version: "v1.2.3",
			Results: []model.Result{
				{Artist: "Foo", Matches: []string{"Bar"}, Pages: 1, Redirects: 1},
				{Artist: "Qux", Matches: []string{}, Pages: 1},
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("report mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty run is an empty list", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := NewJSONWriter(&buf).Flush(); err != nil {
			t.Fatalf("Flush: %v", err)
		}
		if got := buf.String(); got != "{\"results\":[]}\n" {
			t.Errorf("output = %q", got)
		}
	})
}

// TestMarkdownWriter tests the Markdown document writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes summary, chart and sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		if err := w.WriteMatches(createTestState("Foo", "Bar", "Baz"), false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := w.WriteMatches(createTestState("Qux", "Quux"), true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := w.Flush(); err != nil {
			t.Fatalf("Flush: %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"# Similar Artists",
			"## Foo",
			"## Qux",
			"Bar",
			"Quux",
			"Artist",
			"Redirects",
			"mermaid",
			"Matches per Artist",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q:\n%s", want, out)
			}
		}
	})

	t.Run("single artist has no chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		if err := w.WriteMatches(createTestState("Foo"), true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := w.Flush(); err != nil {
			t.Fatalf("Flush: %v", err)
		}
		out := buf.String()
		if strings.Contains(out, "mermaid") {
			t.Error("unexpected chart for a single artist")
		}
		if !strings.Contains(out, "No similar artists found.") {
			t.Errorf("expected empty-result tip:\n%s", out)
		}
	})
}
