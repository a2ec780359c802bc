package errors

import "testing"

func TestValidateNetworkName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "citenet0", false},
		{"with dash", "autnet-1", false},
		{"empty", "", true},
		{"traversal", "../citenet", true},
		{"slash", "out/citenet", true},
		{"backslash", `out\citenet`, true},
		{"control", "cite\nnet", true},
		{"too long", string(make([]byte, 129)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNetworkName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNetworkName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateReportID(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"3f1c2d9e-7a4b-4c1e-9a55-0b3e6f2d8c10", false},
		{"", true},
		{"not-a-uuid", true},
		{"3F1C2D9E-7A4B-4C1E-9A55-0B3E6F2D8C10", false},
		{"{3f1c2d9e-7a4b-4c1e-9a55-0b3e6f2d8c10}", true},
	}

	for _, tt := range tests {
		err := ValidateReportID(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateReportID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
