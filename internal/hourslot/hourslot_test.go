package hourslot

import (
	"testing"

	apperrors "unispace/pkg/errors"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name      string
		code      int
		wantOK    bool
		wantStart string
		wantEnd   string
	}{
		{name: "first slot", code: 1, wantOK: true, wantStart: "07:00:00", wantEnd: "08:00:00"},
		{name: "mid slot", code: 5, wantOK: true, wantStart: "11:00:00", wantEnd: "12:00:00"},
		{name: "last slot", code: 12, wantOK: true, wantStart: "18:00:00", wantEnd: "19:00:00"},
		{name: "zero", code: 0, wantOK: false},
		{name: "past end", code: 13, wantOK: false},
		{name: "negative", code: -1, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, ok := Lookup(tt.code)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%d) ok = %v, want %v", tt.code, ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if slot.StartTime != tt.wantStart || slot.EndTime != tt.wantEnd {
				t.Errorf("Lookup(%d) = [%s, %s], want [%s, %s]",
					tt.code, slot.StartTime, slot.EndTime, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestAll(t *testing.T) {
	all := All()
	if len(all) != 12 {
		t.Fatalf("All() returned %d slots, want 12", len(all))
	}
	for i, s := range all {
		if s.Code != i+1 {
			t.Errorf("All()[%d].Code = %d, want %d", i, s.Code, i+1)
		}
	}
	if all[0].StartTime != "07:00:00" || all[len(all)-1].EndTime != "19:00:00" {
		t.Errorf("day runs [%s, %s], want [07:00:00, 19:00:00]", all[0].StartTime, all[len(all)-1].EndTime)
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "short hour", in: "9:00", want: "09:00:00"},
		{name: "no seconds", in: "09:00", want: "09:00:00"},
		{name: "full", in: "09:00:00", want: "09:00:00"},
		{name: "short hour with seconds", in: "9:00:00", want: "09:00:00"},
		{name: "surrounding space", in: " 14:00 ", want: "14:00:00"},
		{name: "hour only", in: "9", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "letters", in: "nine:00", wantErr: true},
		{name: "too many parts", in: "9:00:00:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTime(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeTime(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeTime(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeTime(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromStartTime(t *testing.T) {
	slot, ok := FromStartTime("9:00")
	if !ok {
		t.Fatal("FromStartTime(9:00) not found")
	}
	if slot.Code != 3 {
		t.Errorf("FromStartTime(9:00).Code = %d, want 3", slot.Code)
	}

	if _, ok := FromStartTime("06:00"); ok {
		t.Error("FromStartTime(06:00) found a slot before the campus day")
	}
	if _, ok := FromStartTime("19:00"); ok {
		t.Error("FromStartTime(19:00) found a slot at the end boundary")
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantStart string
		wantEnd   string
		wantErr   bool
	}{
		{name: "short hours", in: "9:00-11:00", wantStart: "09:00:00", wantEnd: "11:00:00"},
		{name: "full labels", in: "07:00:00-19:00:00", wantStart: "07:00:00", wantEnd: "19:00:00"},
		{name: "no separator", in: "9:00", wantErr: true},
		{name: "malformed side", in: "9:00-noon", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := ParseRange(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRange(%q) = (%q, %q), want error", tt.in, start, end)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRange(%q) error: %v", tt.in, err)
			}
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("ParseRange(%q) = (%q, %q), want (%q, %q)", tt.in, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name     string
		start    int
		end      int
		wantCode string
	}{
		{name: "valid range", start: 3, end: 5},
		{name: "full day", start: 1, end: 12},
		{name: "equal bounds", start: 4, end: 4, wantCode: apperrors.CodeOrder},
		{name: "inverted", start: 7, end: 2, wantCode: apperrors.CodeOrder},
		{name: "unknown start", start: 0, end: 5, wantCode: apperrors.CodeNotFound},
		{name: "unknown end", start: 3, end: 13, wantCode: apperrors.CodeNotFound},
		{name: "unknown codes inverted", start: 13, end: 0, wantCode: apperrors.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRange(tt.start, tt.end)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("ValidateRange(%d, %d) error: %v", tt.start, tt.end, err)
				}
				return
			}

			appErr := apperrors.AsAppError(err)
			if appErr.Code != tt.wantCode {
				t.Errorf("ValidateRange(%d, %d) code = %s, want %s", tt.start, tt.end, appErr.Code, tt.wantCode)
			}
		})
	}
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name  string
		start int
		end   int
		want  []int
	}{
		{name: "three slots", start: 3, end: 5, want: []int{3, 4, 5}},
		{name: "two slots", start: 1, end: 2, want: []int{1, 2}},
		{name: "full day", start: 1, end: 12, want: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}},
		{name: "inverted yields nil", start: 5, end: 3, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Expand(tt.start, tt.end)
			if len(got) != len(tt.want) {
				t.Fatalf("Expand(%d, %d) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Expand(%d, %d) = %v, want %v", tt.start, tt.end, got, tt.want)
				}
			}
		})
	}
}
