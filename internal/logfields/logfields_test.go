package logfields

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"Path", KeyPath, "/tmp/x.md", Path("/tmp/x.md")},
		{"Category", KeyCategory, "guides", Category("guides")},
		{"Plugin", KeyPlugin, "layout", Plugin("layout")},
		{"Hook", KeyHook, "pre_emission", Hook("pre_emission")},
		{"Stage", KeyStage, "emit", Stage("emit")},
		{"Event", KeyEvent, "changed", Event("changed")},
		{"Output", KeyOutput, "/out", Output("/out")},
		{"RunID", KeyRunID, "abc", RunID("abc")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if tc.attr.Value.String() != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %s", tc.name, tc.attrVal, tc.attr.Value.String())
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if a := Assets(3); a.Key != KeyAssets || a.Value.Int64() != 3 {
		t.Fatalf("unexpected assets attr: %v", a)
	}
	if a := Documents(2); a.Key != KeyDocuments || a.Value.Int64() != 2 {
		t.Fatalf("unexpected documents attr: %v", a)
	}
	if a := Since(time.Now().Add(-time.Second)); a.Key != KeyDurationMS || a.Value.Float64() < 1000 {
		t.Fatalf("unexpected duration attr: %v", a)
	}
}

func TestErrorHelper(t *testing.T) {
	if a := Error(nil); a.Value.String() != "" {
		t.Fatalf("nil error should produce empty value, got %q", a.Value.String())
	}
	if a := Error(errors.New("boom")); a.Key != KeyError || a.Value.String() != "boom" {
		t.Fatalf("unexpected error attr: %v", a)
	}
}
