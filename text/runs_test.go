package text

import (
	"testing"

	"github.com/tsawler/revtable/model"
)

// makeRun creates a test run
func makeRun(txt string, x, y, width, fontSize float64) model.PositionedRun {
	return model.PositionedRun{
		Text:     txt,
		X:        x,
		Y:        y,
		Width:    width,
		FontSize: fontSize,
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain ascii", "Article 3", "Article 3"},
		{"nbsp becomes space", "a\u00a0b", "a b"},
		{"ideographic space", "\uac00\u3000\ub098", "\uac00 \ub098"},
		{"zero width removed", "ab\u200bc", "abc"},
		{"decomposed hangul composes", "\u1100\u1161", "\uac00"},
		{"combining accent composes", "e\u0301", "\u00e9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMergeRuns_Empty(t *testing.T) {
	if got := MergeRuns(nil, DefaultConfig()); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestMergeRuns_GlyphLevel(t *testing.T) {
	runs := []model.PositionedRun{
		makeRun("H", 100, 700, 6, 10),
		makeRun("i", 106, 700, 3, 10),
		// word gap of 3 points is above 0.125 * 10
		makeRun("y", 112, 700, 5, 10),
		makeRun("o", 117, 700, 5, 10),
	}

	merged := MergeRuns(runs, DefaultConfig())
	if len(merged) != 1 {
		t.Fatalf("expected 1 run, got %d: %+v", len(merged), merged)
	}
	if merged[0].Text != "Hi yo" {
		t.Errorf("Text = %q, want %q", merged[0].Text, "Hi yo")
	}
	if merged[0].X != 100 || merged[0].Width != 22 {
		t.Errorf("unexpected geometry X=%v Width=%v", merged[0].X, merged[0].Width)
	}
}

func TestMergeRuns_ZeroWidthGlyphs(t *testing.T) {
	// Loaders without width metrics report every glyph at the same origin
	runs := []model.PositionedRun{
		makeRun("a", 72, 700, 0, 12),
		makeRun("b", 72, 700, 0, 12),
		makeRun("c", 72, 700, 0, 12),
	}

	merged := MergeRuns(runs, DefaultConfig())
	if len(merged) != 1 || merged[0].Text != "abc" {
		t.Errorf("expected single run abc, got %+v", merged)
	}
}

func TestMergeRuns_ColumnGapSplits(t *testing.T) {
	runs := []model.PositionedRun{
		makeRun("left", 50, 700, 20, 10),
		makeRun("right", 300, 700, 25, 10),
	}

	merged := MergeRuns(runs, DefaultConfig())
	if len(merged) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(merged))
	}
	if merged[0].Text != "left" || merged[1].Text != "right" {
		t.Errorf("unexpected texts %q %q", merged[0].Text, merged[1].Text)
	}
}

func TestMergeRuns_DifferentBaselines(t *testing.T) {
	runs := []model.PositionedRun{
		makeRun("one", 50, 700, 15, 10),
		makeRun("two", 65, 688, 15, 10),
	}

	if merged := MergeRuns(runs, DefaultConfig()); len(merged) != 2 {
		t.Errorf("expected 2 runs, got %d", len(merged))
	}
}

func TestMergeRuns_RespectsExistingLineEnd(t *testing.T) {
	first := makeRun("end", 50, 700, 15, 10)
	first.EndsLine = true
	runs := []model.PositionedRun{first, makeRun("next", 65, 700, 20, 10)}

	if merged := MergeRuns(runs, DefaultConfig()); len(merged) != 2 {
		t.Errorf("expected line end to block merging, got %d runs", len(merged))
	}
}

func TestMergeRuns_ExplicitSpaceNotDoubled(t *testing.T) {
	runs := []model.PositionedRun{
		makeRun("a ", 50, 700, 10, 10),
		makeRun("b", 64, 700, 5, 10),
	}

	merged := MergeRuns(runs, DefaultConfig())
	if len(merged) != 1 || merged[0].Text != "a b" {
		t.Errorf("expected %q, got %+v", "a b", merged)
	}
}

func TestMarkLineEnds(t *testing.T) {
	runs := []model.PositionedRun{
		makeRun("l1", 50, 700, 10, 10),
		makeRun("r1", 300, 700, 10, 10),
		makeRun("l2", 50, 688, 10, 10),
		makeRun("l2b", 61, 688, 10, 10),
		makeRun("r2", 300, 688, 10, 10),
	}

	marked := MarkLineEnds(runs, DefaultConfig())
	want := []bool{true, true, false, true, true}
	for i, w := range want {
		if marked[i].EndsLine != w {
			t.Errorf("run %d (%s) EndsLine = %v, want %v", i, marked[i].Text, marked[i].EndsLine, w)
		}
	}

	if runs[0].EndsLine {
		t.Error("input slice was modified")
	}
}

func TestMarkLineEnds_LeftJump(t *testing.T) {
	runs := []model.PositionedRun{
		makeRun("second", 200, 700, 30, 10),
		makeRun("first", 50, 700, 25, 10),
	}

	marked := MarkLineEnds(runs, DefaultConfig())
	if !marked[0].EndsLine || !marked[1].EndsLine {
		t.Errorf("expected both runs to end a line segment: %+v", marked)
	}
}

func TestPrepare(t *testing.T) {
	runs := []model.PositionedRun{
		makeRun("현", 50, 700, 10, 10),
		makeRun("행", 60, 700, 10, 10),
		makeRun("개", 300, 700, 10, 10),
		makeRun("정", 310, 700, 10, 10),
		makeRun("- 1 -", 180, 40, 20, 10),
	}

	prepared := Prepare(runs, DefaultConfig())
	if len(prepared) != 3 {
		t.Fatalf("expected 3 runs, got %d: %+v", len(prepared), prepared)
	}

	want := []string{"현행", "개정", "- 1 -"}
	for i, w := range want {
		if prepared[i].Text != w {
			t.Errorf("run %d = %q, want %q", i, prepared[i].Text, w)
		}
		if !prepared[i].EndsLine {
			t.Errorf("run %d should end a line", i)
		}
	}
}
