package log

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestCtxChainsOnReturn(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	ctx := WithLogger(context.Background(), logger)

	// Level methods must be callable directly on the return value.
	Ctx(ctx).Error().Str(FieldPostID, "p1").Msg("boom")

	out := buf.String()
	if !strings.Contains(out, `"post_id":"p1"`) {
		t.Fatalf("context logger not used: %s", out)
	}
	if !strings.Contains(out, `"level":"error"`) {
		t.Fatalf("level missing: %s", out)
	}
}

func TestCtxFallsBackToGlobal(t *testing.T) {
	l := Ctx(context.Background())
	if l == nil {
		t.Fatal("Ctx must never return nil")
	}
	// Chaining on the fallback must not panic.
	l.Debug().Msg("fallback")
}

func TestNewRespectsLevel(t *testing.T) {
	logger := New(Config{Level: "warn"})
	if logger.GetLevel() != zerolog.WarnLevel {
		t.Fatalf("level = %s, want warn", logger.GetLevel())
	}

	logger = New(Config{Level: "nonsense"})
	if logger.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("unknown level must default to info, got %s", logger.GetLevel())
	}
}

func TestNewAddsServiceName(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", ServiceName: "postcard"})
	logger = logger.Output(&buf)

	logger.Info().Msg("hello")
	if !strings.Contains(buf.String(), `"service":"postcard"`) {
		t.Fatalf("service field missing: %s", buf.String())
	}
}
