package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "report.pdf", want: "report.pdf"},
		{in: "  spaced.txt  ", want: "spaced.txt"},
		{in: "dir/report.pdf", want: "dir_report.pdf"},
		{in: "dir\\report.pdf", want: "dir_report.pdf"},
		{in: "../escape", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range cases {
		got, err := SanitizeFileName(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("SanitizeFileName(%q): expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("SanitizeFileName(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestOwnerKeyStable(t *testing.T) {
	a := OwnerKey("owner-1")
	b := OwnerKey("owner-1")
	if a != b {
		t.Fatalf("OwnerKey not stable: %q vs %q", a, b)
	}
	if a == OwnerKey("owner-2") {
		t.Fatal("distinct owners produced the same key")
	}
	if len(a) != 64 {
		t.Fatalf("unexpected key length %d", len(a))
	}
}
