package types

import "testing"

func TestParsePoint(t *testing.T) {
	cases := []struct {
		in   string
		want Point
		ok   bool
	}{
		{"41.8902, 12.4922", Point{Lat: 41.8902, Lng: 12.4922}, true},
		{"-33.8568,151.2153", Point{Lat: -33.8568, Lng: 151.2153}, true},
		{"", Point{}, false},
		{"41.89", Point{}, false},
		{"north,east", Point{}, false},
		{"95,10", Point{}, false},
		{"10,200", Point{}, false},
	}
	for _, tc := range cases {
		got, ok := ParsePoint(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParsePoint(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestPointStringRoundTrip(t *testing.T) {
	p := Point{Lat: 48.858844, Lng: 2.294351}
	got, ok := ParsePoint(p.String())
	if !ok || got != p {
		t.Fatalf("round trip of %s gave %v, %v", p, got, ok)
	}
}

func TestNewIDPrefix(t *testing.T) {
	a, b := NewID("itin"), NewID("itin")
	if a == b {
		t.Fatalf("expected distinct ids, got %s twice", a)
	}
	if len(a) != len("itin_")+32 || a[:5] != "itin_" {
		t.Fatalf("unexpected id shape %q", a)
	}
}
