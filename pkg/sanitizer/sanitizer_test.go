package sanitizer

import "testing"

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple", input: "Physics Lab", want: "physics_lab"},
		{name: "room number", input: "Room 101-B", want: "room_101_b"},
		{name: "surrounding space", input: "  Main Hall  ", want: "main_hall"},
		{name: "punctuation runs", input: "North -- Wing!!", want: "north_wing"},
		{name: "unicode letters", want: "café_annex", input: "Café Annex"},
		{name: "empty", input: "", want: ""},
		{name: "only punctuation", input: "--!!--", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeLabel(tt.input); got != tt.want {
				t.Errorf("SanitizeLabel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFreeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "collapse spaces", input: "weekly   club   meeting", want: "weekly club meeting"},
		{name: "trim", input: "  study session  ", want: "study session"},
		{name: "newlines collapse", input: "line one\n\nline two", want: "line one line two"},
		{name: "already clean", input: "guest lecture", want: "guest lecture"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFreeText(tt.input); got != tt.want {
				t.Errorf("SanitizeFreeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "already e164", input: "+12025550123", want: "+12025550123"},
		{name: "surrounding space", input: " +12025550123 ", want: "+12025550123"},
		{name: "empty passes through", input: "", want: ""},
		{name: "local format passes through", input: "202-555-0123", want: "202-555-0123"},
		{name: "letters pass through", input: "not-a-phone", want: "not-a-phone"},
		{name: "unknown country code passes through", input: "+99999999999", want: "+99999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizePhone(tt.input); got != tt.want {
				t.Errorf("SanitizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeSlice(t *testing.T) {
	got := SanitizeSlice([]string{" Lab A ", "lab a", "", "Lab B"}, SanitizeLabel)
	want := []string{"lab_a", "lab_b"}

	if len(got) != len(want) {
		t.Fatalf("SanitizeSlice = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("SanitizeSlice = %v, want %v", got, want)
		}
	}
}
