package parser

import "testing"

func TestParseErrorDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  ParseError
		src  string
		want string
	}{
		{
			"two character range",
			ParseError{Text: "Missing end to balance this if statement", SourceStart: 0, SourceLen: 2},
			"if true; echo hi",
			"Missing end to balance this if statement\nif true; echo hi\n^^",
		},
		{
			"second line",
			ParseError{Text: "'end' outside of a block", SourceStart: 8, SourceLen: 3},
			"echo hi\nend",
			"'end' outside of a block\nend\n^~^",
		},
		{
			"single character",
			ParseError{Text: "bad", SourceStart: 5, SourceLen: 1},
			"echo }",
			"bad\necho }\n     ^",
		},
		{
			"tab indentation",
			ParseError{Text: "bad", SourceStart: 1, SourceLen: 3},
			"\tend",
			"bad\n\tend\n\t^~^",
		},
		{
			"wide characters",
			ParseError{Text: "bad", SourceStart: 9, SourceLen: 3},
			"echo 日 end",
			"bad\necho 日 end\n        ^~^",
		},
		{
			"unknown position",
			ParseError{Text: "Expected a command, but found end of the input", SourceStart: sourceLocationUnknown},
			"echo |",
			"Expected a command, but found end of the input",
		},
		{
			"past the end",
			ParseError{Text: "bad", SourceStart: 10, SourceLen: 4},
			"echo",
			"bad\necho\n   ^",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Describe(tt.src); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseErrorDescribeWithPrefix(t *testing.T) {
	err := ParseError{Text: "bad", SourceStart: 0, SourceLen: 3}
	src := "end"

	tests := []struct {
		name        string
		interactive bool
		skipCaret   bool
		want        string
	}{
		{"plain", false, false, "fish: bad\nend\n^~^"},
		{"interactive at start", true, false, "fish: bad"},
		{"skip caret", false, true, "fish: bad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := err.DescribeWithPrefix(src, "fish: ", tt.interactive, tt.skipCaret); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorListSortedAndOffset(t *testing.T) {
	list := ErrorList{
		{Text: "b", SourceStart: 5},
		{Text: "unknown", SourceStart: sourceLocationUnknown},
		{Text: "a", SourceStart: 1},
	}
	sorted := list.Sorted()
	var got string
	for _, err := range sorted {
		got += err.Text + " "
	}
	if want := "unknown a b "; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if list[0].Text != "b" {
		t.Errorf("Sorted modified the receiver")
	}

	list.OffsetSourceStart(10)
	starts := []int{list[0].SourceStart, list[1].SourceStart, list[2].SourceStart}
	want := []int{15, sourceLocationUnknown, 11}
	for i := range want {
		if starts[i] != want[i] {
			t.Errorf("error %d: got %d, want %d", i, starts[i], want[i])
		}
	}
	if got, want := list.Error(), "b\nunknown\na"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
