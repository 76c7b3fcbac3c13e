package calendar

import "testing"

func TestNormalize(t *testing.T) {
	page, size, offset := Normalize(3, 500)
	if page != 3 || size != MaxPageSize || offset != 2*MaxPageSize {
		t.Fatalf("got page=%d size=%d offset=%d", page, size, offset)
	}
}

func TestFromTotal(t *testing.T) {
	p := FromTotal([]string{"a", "b"}, 1, 2, 5)
	if !p.HasNext || p.HasPrev || p.Total != 5 {
		t.Fatalf("unexpected meta %+v", p)
	}
	last := FromTotal([]string{"e"}, 3, 2, 5)
	if last.HasNext || !last.HasPrev {
		t.Fatalf("unexpected meta %+v", last)
	}
}
