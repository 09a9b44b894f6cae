package record

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewIDPrefix(t *testing.T) {
	id := NewID(PrefixFeature)
	if !strings.HasPrefix(id, "feat-") {
		t.Errorf("NewID() = %q, want feat- prefix", id)
	}
	if len(id) <= len("feat-") {
		t.Errorf("NewID() = %q, want a suffix after the prefix", id)
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID(PrefixTestMethod)
		if seen[id] {
			t.Fatalf("duplicate ID after %d calls: %s", i, id)
		}
		seen[id] = true
	}
}

func TestNowMillisecondPrecision(t *testing.T) {
	now := Now()
	if now.Location() != time.UTC {
		t.Errorf("Now() location = %v, want UTC", now.Location())
	}
	if now.Nanosecond()%int(time.Millisecond) != 0 {
		t.Errorf("Now() = %v, want millisecond precision", now)
	}
}

func TestStageNext(t *testing.T) {
	tests := []struct {
		stage Stage
		want  Stage
	}{
		{StageRed, StageGreen},
		{StageGreen, StageRefactor},
		{StageRefactor, StageRed},
	}
	for _, tt := range tests {
		if got := tt.stage.Next(); got != tt.want {
			t.Errorf("%s.Next() = %s, want %s", tt.stage, got, tt.want)
		}
	}
}

func TestSessionAdvanceCycleCount(t *testing.T) {
	session := Session{Stage: StageRed}
	now := Now()

	session.Advance(now)
	if session.Stage != StageGreen || session.CycleCount != 0 {
		t.Errorf("after first advance: stage=%s cycles=%d, want green/0", session.Stage, session.CycleCount)
	}
	session.Advance(now)
	if session.Stage != StageRefactor || session.CycleCount != 0 {
		t.Errorf("after second advance: stage=%s cycles=%d, want refactor/0", session.Stage, session.CycleCount)
	}
	session.Advance(now)
	if session.Stage != StageRed || session.CycleCount != 1 {
		t.Errorf("after third advance: stage=%s cycles=%d, want red/1", session.Stage, session.CycleCount)
	}
	if !session.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", session.UpdatedAt, now)
	}
}

func TestParseStage(t *testing.T) {
	if _, err := ParseStage("red"); err != nil {
		t.Errorf("ParseStage(red) error = %v", err)
	}
	if _, err := ParseStage("blue"); err == nil {
		t.Error("ParseStage(blue) expected error")
	}
}

func TestParseFeatureStatus(t *testing.T) {
	for _, s := range []string{"planning", "in_progress", "completed", "on_hold", "cancelled"} {
		if _, err := ParseFeatureStatus(s); err != nil {
			t.Errorf("ParseFeatureStatus(%s) error = %v", s, err)
		}
	}
	if _, err := ParseFeatureStatus("done"); err == nil {
		t.Error("ParseFeatureStatus(done) expected error")
	}
}

func TestKindsCoversAllCollections(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != 4 {
		t.Fatalf("len(Kinds()) = %d, want 4", len(kinds))
	}
	if kinds[0] != KindFeature {
		t.Errorf("Kinds()[0] = %s, want %s", kinds[0], KindFeature)
	}
}

func TestMeasureFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "example.go")
	content := "package example\n\nfunc Add(a, b int) int { return a + b }\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	assoc := FileAssociation{FilePath: path}
	assoc.MeasureFile()
	if assoc.SizeBytes != int64(len(content)) {
		t.Errorf("SizeBytes = %d, want %d", assoc.SizeBytes, len(content))
	}
	if assoc.LineCount != 3 {
		t.Errorf("LineCount = %d, want 3", assoc.LineCount)
	}
}

func TestMeasureFileNoTrailingNewline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.txt")
	if err := os.WriteFile(path, []byte("one\ntwo"), 0644); err != nil {
		t.Fatal(err)
	}

	assoc := FileAssociation{FilePath: path}
	assoc.MeasureFile()
	if assoc.LineCount != 2 {
		t.Errorf("LineCount = %d, want 2", assoc.LineCount)
	}
}

func TestMeasureFileMissing(t *testing.T) {
	assoc := FileAssociation{FilePath: filepath.Join(t.TempDir(), "nope.txt")}
	assoc.MeasureFile()
	if assoc.SizeBytes != 0 || assoc.LineCount != 0 {
		t.Errorf("missing file should leave defaults, got size=%d lines=%d", assoc.SizeBytes, assoc.LineCount)
	}
}
