package format

import "testing"

func TestLineIndex(t *testing.T) {
	src := "ab\ncd\n日x\n𝄞a"
	idx := NewLineIndex(src)

	tests := []struct {
		offset int
		pos    Position
		line   int
		char   int
	}{
		{0, Position{1, 1}, 0, 0},
		{2, Position{1, 3}, 0, 2},
		{3, Position{2, 1}, 1, 0},
		{9, Position{3, 2}, 2, 1},
		{15, Position{4, 2}, 3, 2},
		{16, Position{4, 3}, 3, 3},
		{100, Position{4, 3}, 3, 3},
	}
	for _, tt := range tests {
		if got := idx.Position(tt.offset); got != tt.pos {
			t.Errorf("Position(%d): got %v, want %v", tt.offset, got, tt.pos)
		}
		line, char := idx.UTF16Position(tt.offset)
		if line != tt.line || char != tt.char {
			t.Errorf("UTF16Position(%d): got %d:%d, want %d:%d", tt.offset, line, char, tt.line, tt.char)
		}
		if tt.offset <= len(src) {
			if got := idx.Offset(tt.line, tt.char); got != tt.offset {
				t.Errorf("Offset(%d, %d): got %d, want %d", tt.line, tt.char, got, tt.offset)
			}
		}
	}
}

func TestLineIndexOffsetBounds(t *testing.T) {
	idx := NewLineIndex("ab\ncd")
	tests := []struct {
		line, char int
		want       int
	}{
		{-1, 0, 0},
		{0, 10, 2},
		{5, 0, 5},
		{1, 1, 4},
	}
	for _, tt := range tests {
		if got := idx.Offset(tt.line, tt.char); got != tt.want {
			t.Errorf("Offset(%d, %d): got %d, want %d", tt.line, tt.char, got, tt.want)
		}
	}
}
