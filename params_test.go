package classroom

import (
	"testing"
)

func TestParamsNumValues(t *testing.T) {
	cases := []struct {
		p    Params
		want int
	}{
		{nil, 0},
		{Params{}, 0},
		{Params{{1, 2, 3}}, 3},
		{Params{{1, 2, 3}, {}, {4, 5}}, 5},
	}

	for _, c := range cases {
		if got := c.p.NumValues(); got != c.want {
			t.Errorf("NumValues(%v) = %d, want %d", c.p, got, c.want)
		}
	}
}

func TestParamsCopyIntoShapeMismatch(t *testing.T) {
	p := Params{{1, 2}, {3}}

	if err := p.CopyInto(Params{{0, 0}}); err == nil {
		t.Fatalf("mismatched group count was accepted")
	}
	if err := p.CopyInto(Params{{0, 0}, {0, 0}}); err == nil {
		t.Fatalf("mismatched group size was accepted")
	}

	dst := Params{{0, 0}, {0}}
	if err := p.CopyInto(dst); err != nil {
		t.Fatalf("CopyInto: %v", err)
	}
	if !dst.Equal(p) {
		t.Fatalf("CopyInto left %v, want %v", dst, p)
	}
}
