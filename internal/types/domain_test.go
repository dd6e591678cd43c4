package types

import "testing"

func TestParseDatasetType(t *testing.T) {
	tests := []struct {
		in      string
		want    DatasetType
		wantErr bool
	}{
		{in: "prompt", want: DatasetPrompt},
		{in: "agent", want: DatasetAgent},
		{in: "prompt-datasets", wantErr: true},
		{in: "", wantErr: true},
		{in: "PROMPT", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseDatasetType(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDatasetType(%q): expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDatasetType(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDatasetType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
