package htmltable

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tsawler/revtable/model"
)

func TestRender(t *testing.T) {
	table := model.LogicalTable{
		LeftColumn:  []string{"MARKER", "a < b"},
		RightColumn: []string{"", "row1-right", "extra"},
	}

	var buf bytes.Buffer
	if err := Render(&buf, table); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	got := buf.String()

	want := "<table><thead><tr><th>Current</th><th>Revised</th></tr></thead><tbody>" +
		"<tr><td>MARKER</td><td></td></tr>" +
		"<tr><td>a &lt; b</td><td>row1-right</td></tr>" +
		"<tr><td></td><td>extra</td></tr>" +
		"</tbody></table>"
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderWithOptions(t *testing.T) {
	var buf bytes.Buffer
	err := RenderWithOptions(&buf, model.LogicalTable{LeftColumn: []string{"x"}}, Options{
		Headers: []string{"Before", "After"},
		Class:   "comparison",
	})
	if err != nil {
		t.Fatal(err)
	}

	got := buf.String()
	if !strings.HasPrefix(got, `<table class="comparison">`) {
		t.Errorf("missing class attribute: %s", got)
	}
	if !strings.Contains(got, "<th>Before</th><th>After</th>") {
		t.Errorf("missing custom headers: %s", got)
	}
}

func TestRenderRows(t *testing.T) {
	rows := model.RecognizedRows{{"1", "Alpha", "Beta"}, {"2", "Gamma"}}

	var buf bytes.Buffer
	if err := RenderRows(&buf, rows); err != nil {
		t.Fatal(err)
	}

	want := "<table><tbody>" +
		"<tr><td>1</td><td>Alpha</td><td>Beta</td></tr>" +
		"<tr><td>2</td><td>Gamma</td><td></td></tr>" +
		"</tbody></table>"
	if got := buf.String(); got != want {
		t.Errorf("RenderRows() = %s, want %s", got, want)
	}
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, model.LogicalTable{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<tbody></tbody>") {
		t.Errorf("expected empty body, got %s", buf.String())
	}
}
