package logger

import (
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func resetGlobal() {
	globalMu.Lock()
	globalLogger = nil
	initOnce = sync.Once{}
	globalMu.Unlock()
}

func TestGlobal_DefaultInitialization(t *testing.T) {
	resetGlobal()

	// First package-level call initializes the default logger.
	Info("test message", zap.String("key", "value"))

	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLogger == nil {
		t.Error("global logger should be initialized after calling Info")
	}
}

func TestGlobal_SetGlobalLogger(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	observed := zap.New(core, zap.AddCallerSkip(1))

	resetGlobal()
	SetGlobalLogger(observed)

	Info("info message")
	Warn("warn message")
	Error("error message")

	entries := recorded.All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 log entries, got %d", len(entries))
	}
	expected := []string{"info message", "warn message", "error message"}
	for i, entry := range entries {
		if entry.Message != expected[i] {
			t.Errorf("entry %d: expected message %q, got %q", i, expected[i], entry.Message)
		}
	}
}

func TestGlobal_GetGlobalLogger(t *testing.T) {
	resetGlobal()

	l := GetGlobalLogger()
	if l == nil {
		t.Fatal("GetGlobalLogger should return a non-nil logger")
	}
	if l2 := GetGlobalLogger(); l != l2 {
		t.Error("GetGlobalLogger should return the same logger instance")
	}
}

func TestGlobal_ConcurrentAccess(t *testing.T) {
	resetGlobal()

	var wg sync.WaitGroup
	for n := 0; n < 20; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Info("concurrent message")
			_ = GetGlobalLogger()
		}()
	}
	wg.Wait()
}
