package domo

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// observeLogs installs an observing logger for the duration of the test.
func observeLogs(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })
	return logs
}

func TestDebugModeLogsFrameStats(t *testing.T) {
	logs := observeLogs(t, zapcore.DebugLevel)
	_, _, s := startedScene(t, SceneConfig{})
	if err := s.AddEntity(colorEntity("e", 0, Vec2{}, Vec2{1, 1}, ColorWhite)); err != nil {
		t.Fatal(err)
	}

	if err := s.Draw(); err != nil {
		t.Fatal(err)
	}
	if n := logs.FilterMessage("frame").Len(); n != 0 {
		t.Errorf("frame logs without debug mode = %d", n)
	}

	s.SetDebugMode(true)
	s.Update(0.1)
	if err := s.Draw(); err != nil {
		t.Fatal(err)
	}
	frames := logs.FilterMessage("frame").All()
	if len(frames) != 1 {
		t.Fatalf("frame logs = %d, want 1", len(frames))
	}
	fields := frames[0].ContextMap()
	if fields["batches"] != int64(1) || fields["quads"] != int64(1) || fields["drawCalls"] != int64(1) {
		t.Errorf("fields = %v", fields)
	}
}

func TestDebugCheckEntityCount(t *testing.T) {
	logs := observeLogs(t, zapcore.WarnLevel)
	debugCheckEntityCount(debugMaxEntityCount)
	debugCheckEntityCount(debugMaxEntityCount + 1)
	debugCheckEntityCount(debugMaxEntityCount + 2)
	if n := logs.Len(); n != 1 {
		t.Errorf("warnings = %d, want 1", n)
	}
}

func TestLoggerDefaultsToNop(t *testing.T) {
	SetLogger(nil)
	if Logger() == nil {
		t.Fatal("Logger returned nil")
	}
	if Logger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("default logger should discard everything")
	}
}

func TestAssetLoadsAreLogged(t *testing.T) {
	logs := observeLogs(t, zapcore.InfoLevel)
	_, a := newTestAssets(t)
	newTestTextures(t, a, 1)
	if logs.FilterMessage("texture loaded").Len() != 1 {
		t.Error("texture load not logged")
	}
}
