package model

import (
	"image"
	"math"
	"reflect"
	"strings"
	"testing"
)

// ============================================================================
// PositionedRun Tests
// ============================================================================

func TestPositionedRunRight(t *testing.T) {
	r := PositionedRun{Text: "abc", X: 10, Width: 25}
	if r.Right() != 35 {
		t.Errorf("Right() = %v, want 35", r.Right())
	}
}

func TestPositionedRunIsBlank(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"a", false},
		{" - ", false},
	}

	for _, tt := range tests {
		if got := (PositionedRun{Text: tt.text}).IsBlank(); got != tt.want {
			t.Errorf("IsBlank(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

// ============================================================================
// Viewport Tests
// ============================================================================

func TestViewportPixels(t *testing.T) {
	tests := []struct {
		name string
		vp   Viewport
		want image.Rectangle
	}{
		{"letter at 1.5", Viewport{Width: 918, Height: 1188, Scale: 1.5}, image.Rect(0, 0, 918, 1188)},
		{"fractional rounds up", Viewport{Width: 10.2, Height: 3.01}, image.Rect(0, 0, 11, 4)},
		{"zero clamps to one pixel", Viewport{}, image.Rect(0, 0, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vp.Pixels(); got != tt.want {
				t.Errorf("Pixels() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestViewportToDevice(t *testing.T) {
	tests := []struct {
		name         string
		vp           Viewport
		x, y         float64
		wantX, wantY float64
	}{
		{"origin flips to bottom", Viewport{Width: 300, Height: 150, Scale: 1.5}, 0, 0, 0, 150},
		{"top left", Viewport{Width: 300, Height: 150, Scale: 1.5}, 0, 100, 0, 0},
		{"zero scale means one", Viewport{Width: 100, Height: 100}, 10, 10, 10, 90},
		{"rotate 90", Viewport{Width: 100, Height: 200, Scale: 1, Rotation: 90}, 10, 20, 20, 10},
		{"rotate 180", Viewport{Width: 200, Height: 100, Scale: 1, Rotation: 180}, 10, 20, 190, 20},
		{"rotate 270", Viewport{Width: 100, Height: 200, Scale: 1, Rotation: 270}, 10, 20, 80, 190},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.vp.ToDevice(tt.x, tt.y)
			if math.Abs(x-tt.wantX) > 1e-9 || math.Abs(y-tt.wantY) > 1e-9 {
				t.Errorf("ToDevice(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestNormalizeRotation(t *testing.T) {
	tests := map[int]int{0: 0, 90: 90, 360: 0, 450: 90, -90: 270, 100: 90}
	for in, want := range tests {
		if got := NormalizeRotation(in); got != want {
			t.Errorf("NormalizeRotation(%d) = %d, want %d", in, got, want)
		}
	}
}

// ============================================================================
// PageTable Tests
// ============================================================================

func TestPageTableLen(t *testing.T) {
	p := PageTable{Left: Column{"a", "b", "c"}, Right: Column{"x"}}
	if p.Len() != 3 {
		t.Errorf("Len() = %d, want 3", p.Len())
	}
	if p.Empty() {
		t.Error("expected non-empty page table")
	}
	if !(PageTable{}).Empty() {
		t.Error("expected zero page table to be empty")
	}
	if got := p.Column(Right); !reflect.DeepEqual(got, Column{"x"}) {
		t.Errorf("Column(Right) = %v", got)
	}
}

func TestColumnFirst(t *testing.T) {
	if (Column{}).First() != "" {
		t.Error("expected empty first cell for empty column")
	}
	if (Column{"MARKER", "x"}).First() != "MARKER" {
		t.Error("expected MARKER")
	}
}

// ============================================================================
// LogicalTable Tests
// ============================================================================

func TestLogicalTableUnevenColumns(t *testing.T) {
	table := LogicalTable{
		LeftColumn:  []string{"l1", "l2", "l3"},
		RightColumn: []string{"r1"},
	}

	if table.RowCount() != 3 {
		t.Fatalf("RowCount() = %d, want 3", table.RowCount())
	}

	want := [][2]string{{"l1", "r1"}, {"l2", ""}, {"l3", ""}}
	if got := table.Rows(); !reflect.DeepEqual(got, want) {
		t.Errorf("Rows() = %v, want %v", got, want)
	}

	if table.Cell(2, Right) != "" {
		t.Error("expected padding for short right column")
	}
	if table.Cell(-1, Left) != "" {
		t.Error("expected empty cell for negative row")
	}
}

func TestLogicalTableRightLonger(t *testing.T) {
	table := LogicalTable{RightColumn: []string{"r1", "r2"}}
	if table.RowCount() != 2 {
		t.Fatalf("RowCount() = %d, want 2", table.RowCount())
	}
	if table.Cell(1, Left) != "" || table.Cell(1, Right) != "r2" {
		t.Errorf("unexpected row 1: %v", table.Rows()[1])
	}
}

func TestLogicalTableAppend(t *testing.T) {
	var table LogicalTable
	table.Append(PageTable{Left: Column{"a"}, Right: Column{"b", "c"}})
	table.Append(PageTable{Left: Column{"d"}})

	if !reflect.DeepEqual(table.LeftColumn, []string{"a", "d"}) {
		t.Errorf("LeftColumn = %v", table.LeftColumn)
	}
	if !reflect.DeepEqual(table.RightColumn, []string{"b", "c"}) {
		t.Errorf("RightColumn = %v", table.RightColumn)
	}
}

func TestLogicalTableToMarkdown(t *testing.T) {
	table := LogicalTable{
		LeftColumn:  []string{"a|b", "two\nlines"},
		RightColumn: []string{"x"},
	}

	md := table.ToMarkdown()
	lines := strings.Split(strings.TrimSpace(md), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 markdown lines, got %d:\n%s", len(lines), md)
	}
	if lines[0] != "| Current | Revised |" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[2] != `| a\|b | x |` {
		t.Errorf("row 1 = %q", lines[2])
	}
	if lines[3] != "| two lines |  |" {
		t.Errorf("row 2 = %q", lines[3])
	}

	custom := table.ToMarkdown("Before", "After")
	if !strings.HasPrefix(custom, "| Before | After |") {
		t.Errorf("custom header not applied: %q", custom)
	}
}

func TestLogicalTableToCSV(t *testing.T) {
	table := LogicalTable{
		LeftColumn:  []string{"plain", `say "hi"`},
		RightColumn: []string{"a,b"},
	}

	want := "plain,\"a,b\"\n\"say \"\"hi\"\"\",\n"
	if got := table.ToCSV(); got != want {
		t.Errorf("ToCSV() = %q, want %q", got, want)
	}
}

func TestRecognizedRowsWidth(t *testing.T) {
	rows := RecognizedRows{{"1", "Alpha", "Beta"}, {"2", "Gamma"}}
	if rows.Width() != 3 {
		t.Errorf("Width() = %d, want 3", rows.Width())
	}
	if (RecognizedRows{}).Width() != 0 {
		t.Error("expected zero width for no rows")
	}
}

func TestSideString(t *testing.T) {
	if Left.String() != "left" || Right.String() != "right" {
		t.Errorf("unexpected side names %q %q", Left, Right)
	}
}
