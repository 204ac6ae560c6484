package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "CV_Jane.pdf", want: "CV_Jane.pdf"},
		{name: "separators", in: "a/b\\c.pdf", want: "a_b_c.pdf"},
		{name: "traversal", in: "../etc/passwd", wantErr: true},
		{name: "blank", in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFileName(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDocumentBaseName(t *testing.T) {
	tests := map[string]string{
		"Jane Doe":           "Jane_Doe",
		"  José  O'Neil  ":   "José_ONeil",
		"<script>":           "script",
		"!!!":                "resume",
		"Anna-Maria Smith_2": "Anna-Maria_Smith_2",
	}
	for in, want := range tests {
		if got := DocumentBaseName(in); got != want {
			t.Fatalf("DocumentBaseName(%q) = %q, want %q", in, got, want)
		}
	}
}
