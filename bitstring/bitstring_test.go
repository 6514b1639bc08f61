package bitstring

import "testing"

func TestSliceIndependence(t *testing.T) {
	b := FromBools([]bool{true, true, false, false, true})
	s := b.Slice(1, 4)
	s[0] = false
	if b.At(1) != true {
		t.Fatalf("slicing must not alias the original BitString")
	}
	if !Equal(s, FromBools([]bool{false, false, false})) {
		t.Fatalf("unexpected slice contents: %v", s)
	}
}

func TestAppendPrepend(t *testing.T) {
	b := FromBools([]bool{true, false})
	appended := b.Append(true)
	if !Equal(appended, FromBools([]bool{true, false, true})) {
		t.Fatalf("Append: got %v", appended)
	}
	if len(b) != 2 {
		t.Fatalf("Append mutated receiver: %v", b)
	}

	prepended := b.Prepend(true)
	if !Equal(prepended, FromBools([]bool{true, true, false})) {
		t.Fatalf("Prepend: got %v", prepended)
	}
}

func TestConcat(t *testing.T) {
	a := FromBools([]bool{true, false})
	b := FromBools([]bool{false, true, true})
	got := a.Concat(b)
	if !Equal(got, FromBools([]bool{true, false, false, true, true})) {
		t.Fatalf("Concat: got %v", got)
	}
}

func TestTrimTrailingFalse(t *testing.T) {
	cases := []struct {
		bits []bool
		want int
	}{
		{[]bool{}, 0},
		{[]bool{false, false, false}, 0},
		{[]bool{true, false, false}, 1},
		{[]bool{true, false, true}, 3},
		{[]bool{true}, 1},
	}
	for _, c := range cases {
		got := FromBools(c.bits).TrimTrailingFalse()
		if got != c.want {
			t.Errorf("TrimTrailingFalse(%v) = %d, want %d", c.bits, got, c.want)
		}
	}
}

func TestCloneIndependence(t *testing.T) {
	b := FromBools([]bool{true, true})
	c := b.Clone()
	c[0] = false
	if b.At(0) != true {
		t.Fatalf("Clone must not alias the source")
	}
}
