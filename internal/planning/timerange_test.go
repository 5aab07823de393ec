package planning

import "testing"

func mustClock(t *testing.T, s string) ClockTime {
	t.Helper()
	c, err := ParseClock(s)
	if err != nil {
		t.Fatalf("ParseClock(%q): %v", s, err)
	}
	return c
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    ClockTime
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:30", want: 9*60 + 30},
		{in: "23:59", want: 23*60 + 59},
		{in: "9:30", wantErr: true},
		{in: "09:5", wantErr: true},
		{in: "10:00xx", wantErr: true},
		{in: " 10:00", wantErr: true},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "12-30", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestClockTime_String(t *testing.T) {
	if got := ClockTime(9*60 + 5).String(); got != "09:05" {
		t.Errorf("expected 09:05, got %s", got)
	}
	if got := ClockTime(17*60 + 30).String(); got != "17:30" {
		t.Errorf("expected 17:30, got %s", got)
	}
}

func TestRange_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Range
		want bool
	}{
		{name: "disjoint", a: Range{540, 600}, b: Range{660, 720}, want: false},
		{name: "partial overlap", a: Range{540, 630}, b: Range{600, 720}, want: true},
		{name: "contained", a: Range{540, 720}, b: Range{600, 630}, want: true},
		{name: "identical", a: Range{540, 600}, b: Range{540, 600}, want: true},
		{name: "touching endpoints do not overlap", a: Range{540, 600}, b: Range{600, 660}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// symmetry
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v (symmetry)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestRange_Intersect(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Range
		want   Range
		wantOK bool
	}{
		{name: "overlap", a: Range{540, 660}, b: Range{600, 720}, want: Range{600, 660}, wantOK: true},
		{name: "contained", a: Range{540, 720}, b: Range{600, 630}, want: Range{600, 630}, wantOK: true},
		{name: "disjoint", a: Range{540, 600}, b: Range{660, 720}, wantOK: false},
		{name: "touching", a: Range{540, 600}, b: Range{600, 660}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.a.Intersect(tt.b)
			if ok != tt.wantOK {
				t.Fatalf("Intersect ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Intersect = %v, want %v", got, tt.want)
			}

			// Intersect is None exactly when Overlaps is false.
			if ok != tt.a.Overlaps(tt.b) {
				t.Errorf("Intersect ok (%v) disagrees with Overlaps (%v)", ok, tt.a.Overlaps(tt.b))
			}
		})
	}
}

func TestRange_Contains(t *testing.T) {
	r := Range{Start: 540, End: 600} // 09:00-10:00

	if !r.Contains(540) {
		t.Error("start bound should be contained")
	}
	if !r.Contains(599) {
		t.Error("last minute should be contained")
	}
	if r.Contains(600) {
		t.Error("end bound must not be contained (half-open)")
	}
	if r.Contains(539) {
		t.Error("minute before start must not be contained")
	}
}

func TestWithinDateRange(t *testing.T) {
	tests := []struct {
		name       string
		day        string
		start, end string
		want       bool
	}{
		{name: "inside", day: "2025-07-15", start: "2025-07-10", end: "2025-07-20", want: true},
		{name: "on start date", day: "2025-07-10", start: "2025-07-10", end: "2025-07-20", want: true},
		{name: "on end date inclusive", day: "2025-07-20", start: "2025-07-10", end: "2025-07-20", want: true},
		{name: "before", day: "2025-07-09", start: "2025-07-10", end: "2025-07-20", want: false},
		{name: "after", day: "2025-07-21", start: "2025-07-10", end: "2025-07-20", want: false},
		{name: "single day range", day: "2025-07-10", start: "2025-07-10", end: "2025-07-10", want: true},
		{name: "malformed start fails closed", day: "2025-07-15", start: "garbage", end: "2025-07-20", want: false},
		{name: "malformed end fails closed", day: "2025-07-15", start: "2025-07-10", end: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.day)
			if err != nil {
				t.Fatalf("ParseDate(%q): %v", tt.day, err)
			}
			if got := WithinDateRange(d, tt.start, tt.end); got != tt.want {
				t.Errorf("WithinDateRange(%s, %s, %s) = %v, want %v", tt.day, tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestParseRange_FailsClosed(t *testing.T) {
	if _, ok := parseRange("09:00", "18:00"); !ok {
		t.Error("well-formed range rejected")
	}
	if _, ok := parseRange("18:00", "09:00"); ok {
		t.Error("inverted range accepted")
	}
	if _, ok := parseRange("09:00", "09:00"); ok {
		t.Error("empty range accepted")
	}
	if _, ok := parseRange("xx", "18:00"); ok {
		t.Error("malformed start accepted")
	}
}
