package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWithLevel_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	t.Setenv("PLSTRACK_LOG_SINK", "file:"+path)

	InitWithLevel("debug")
	Log.Info("record_saved", "id", "42")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "record_saved") || !strings.Contains(string(b), "id=42") {
		t.Fatalf("unexpected log contents: %s", b)
	}
}

func TestInitWithLevel_LevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	t.Setenv("PLSTRACK_LOG_SINK", "file:"+path)

	InitWithLevel("error")
	Log.Info("ignored_event")
	Log.Error("kept_event")

	b, _ := os.ReadFile(path)
	if strings.Contains(string(b), "ignored_event") {
		t.Fatalf("expected info suppressed at error level")
	}
	if !strings.Contains(string(b), "kept_event") {
		t.Fatalf("expected error logged: %s", b)
	}
}

func TestHelpersSafeBeforeInit(t *testing.T) {
	old := Log
	Log = nil
	defer func() { Log = old }()

	// must not panic
	Info("event", "k", "v")
	Warn("event")
	Error("event")
	Debug("event")
}
