package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Category", "Avg Score", "Words"}
	rows := [][]string{
		{"easy", "82.50%", "1200"},
		{"hard", "6.00%", "380"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Category Avg Score Words" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "easy        82.50%  1200" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "hard         6.00%   380" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Title", "N"}, [][]string{{"日本", "1"}, {"ab", "22"}}, map[int]bool{1: true})
	if lines[1] != "日本   1" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "ab    22" {
		t.Fatalf("unexpected narrow row: %q", lines[2])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected nil, got %v", lines)
	}
}
