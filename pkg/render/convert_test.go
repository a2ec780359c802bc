package render

import (
	"context"
	"testing"

	errs "github.com/matzehuels/bibnet/pkg/errors"
)

func TestConvertWithoutConverter(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if Available() {
		t.Fatal("converter found on an empty PATH")
	}
	if _, err := ToPDF(context.Background(), []byte("<svg/>")); !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("ToPDF: err = %v, want UNSUPPORTED", err)
	}
	if _, err := ToPNG(context.Background(), []byte("<svg/>"), 2); !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("ToPNG: err = %v, want UNSUPPORTED", err)
	}
}
