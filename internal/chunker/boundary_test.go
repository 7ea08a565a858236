package chunker

import "testing"

func TestBoundaryFinderBackward(t *testing.T) {
	f := BoundaryFinder{Respect: true}
	cases := []struct {
		name   string
		text   string
		target int
		want   Boundary
	}{
		{"paragraph wins over later sentence", "One.\n\nTwo. Three. Four", 20, Boundary{BoundaryParagraph, 6}},
		{"last paragraph break", "A\n\nB\n\n\nC", 9, Boundary{BoundaryParagraph, 7}},
		{"last sentence end", "One. Two! Three? Four", 21, Boundary{BoundarySentence, 17}},
		{"nothing found", "no breaks in here", 10, Boundary{BoundaryNone, 10}},
		{"only searches before target", "abc. def", 3, Boundary{BoundaryNone, 3}},
		{"target clamped", "abc", 99, Boundary{BoundaryNone, 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.Find(tc.text, tc.target, Backward); got != tc.want {
				t.Fatalf("Find(%q, %d): got %+v want %+v", tc.text, tc.target, got, tc.want)
			}
		})
	}
}

func TestBoundaryFinderForward(t *testing.T) {
	f := BoundaryFinder{Respect: true}
	cases := []struct {
		name   string
		text   string
		target int
		want   Boundary
	}{
		{"first paragraph break", "One. Two.\n\nThree.\n\nFour", 2, Boundary{BoundaryParagraph, 9}},
		{"sentence when no paragraph", "One. Two. Three", 2, Boundary{BoundarySentence, 3}},
		{"offset relative to full text", "One. Two. Three", 5, Boundary{BoundarySentence, 8}},
		{"nothing found", "One. Two", 5, Boundary{BoundaryNone, 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.Find(tc.text, tc.target, Forward); got != tc.want {
				t.Fatalf("Find(%q, %d): got %+v want %+v", tc.text, tc.target, got, tc.want)
			}
		})
	}
}

func TestBoundaryFinderDisabled(t *testing.T) {
	f := BoundaryFinder{Respect: false}
	if got := f.Find("One.\n\nTwo. Three.", 7, Backward); got != (Boundary{BoundaryNone, 7}) {
		t.Fatalf("backward: got %+v", got)
	}
	if got := f.Find("One.\n\nTwo. Three.", 2, Forward); got != (Boundary{BoundaryNone, 2}) {
		t.Fatalf("forward: got %+v", got)
	}
}

func TestRuneAlignment(t *testing.T) {
	text := "aé" // 'é' occupies bytes 1-2
	cases := []struct {
		name string
		got  int
		want int
	}{
		{"floor inside rune", runeFloor(text, 2), 1},
		{"ceil inside rune", runeCeil(text, 2), 3},
		{"ceil on rune start", runeCeil(text, 1), 1},
		{"floor clamps negative", runeFloor(text, -4), 0},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("%s: got %d want %d", tc.name, tc.got, tc.want)
		}
	}
}
