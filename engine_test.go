//go:build cgo

package reportparse

import (
	"path/filepath"
	"testing"
)

func TestNewDefaultsConfig(t *testing.T) {
	eng, err := New(Config{DBPath: filepath.Join(t.TempDir(), "reports.db")})
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close()

	e := eng.(*engine)
	if e.cfg.TopN != 5 {
		t.Errorf("TopN = %d, want 5", e.cfg.TopN)
	}
	if e.cfg.MetadataScanLines != defaultMetadataScanLines {
		t.Errorf("MetadataScanLines = %d, want %d", e.cfg.MetadataScanLines, defaultMetadataScanLines)
	}
}

func TestNewRejectsNegativeTopN(t *testing.T) {
	if _, err := New(Config{TopN: -1}); err == nil {
		t.Fatal("expected an error")
	}
}
