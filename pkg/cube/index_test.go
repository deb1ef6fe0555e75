package cube

import (
	"errors"
	"strings"
	"testing"
)

func TestResolveAxis(t *testing.T) {
	const extent = 10

	tests := []struct {
		name     string
		idx      Index
		min, max int
		err      error
	}{
		{"All", All(), 0, 10, nil},
		{"Range", Range(2, 5), 2, 5, nil},
		{"RangeFull", Range(0, 10), 0, 10, nil},
		{"NegativeStop", Range(0, -2), 0, 8, nil},
		{"NegativeStopOnly", To(-1), 0, 9, nil},
		{"From", From(4), 4, 10, nil},
		{"To", To(5), 0, 5, nil},
		{"At", At(3), 3, 4, nil},
		{"AtLast", At(9), 9, 10, nil},

		{"AtNegative", At(-1), 0, 0, ErrIndexRange},
		{"AtPastEnd", At(10), 0, 0, ErrIndexRange},
		{"StartNegative", Range(-1, 3), 0, 0, ErrIndexRange},
		{"StartPastEnd", From(11), 0, 0, ErrIndexRange},
		{"StartAtEnd", From(10), 0, 0, ErrIndexRange},
		{"StopPastEnd", To(11), 0, 0, ErrIndexRange},
		{"StopZero", To(0), 0, 0, ErrIndexRange},
		{"StopTooNegative", To(-20), 0, 0, ErrIndexRange},
		{"EmptyRange", Range(5, 5), 0, 0, ErrIndexRange},
		{"Inverted", Range(5, 3), 0, 0, ErrIndexRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := resolveAxis(tt.idx, extent)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("got err %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.min != tt.min || s.max != tt.max {
				t.Errorf("span = [%d, %d), want [%d, %d)", s.min, s.max, tt.min, tt.max)
			}
		})
	}
}

func TestResolveAxisNilIndex(t *testing.T) {
	if _, err := resolveAxis(nil, 10); !errors.Is(err, ErrIndexType) {
		t.Errorf("got %v, want ErrIndexType", err)
	}
}

func TestResolveRegionNamesAxis(t *testing.T) {
	_, err := resolveRegion(All(), At(99), All(), 4, 4, 4)
	if !errors.Is(err, ErrIndexRange) {
		t.Fatalf("got %v, want ErrIndexRange", err)
	}
	if got := err.Error(); !strings.Contains(got, "y axis") {
		t.Errorf("error does not name the failing axis: %q", got)
	}
}
