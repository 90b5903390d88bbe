package main

import (
	"os"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestDefaultEnv(t *testing.T) {
	t.Parallel()

	env := DefaultEnv()

	t.Run("Now returns real time", func(t *testing.T) {
		before := time.Now()
		got := env.Now()
		after := time.Now()

		if got.Before(before) || got.After(after) {
			t.Errorf("Now() = %v, should be between %v and %v", got, before, after)
		}
	})

	t.Run("standard streams", func(t *testing.T) {
		if env.Stdout != os.Stdout || env.Stderr != os.Stderr {
			t.Error("Stdout/Stderr should be the process streams")
		}
	})

	t.Run("capabilities are set", func(t *testing.T) {
		if env.LookPath == nil || env.CommandOutput == nil || env.FindBrowser == nil {
			t.Error("doctor capabilities should not be nil")
		}
		if env.ConfigureLog == nil || env.NewExporterPool == nil {
			t.Error("render capabilities should not be nil")
		}
		if env.Spawner != nil {
			t.Error("Spawner should be nil so real processes are used")
		}
	})

	t.Run("exporter pool is lazy", func(t *testing.T) {
		pool := env.NewExporterPool(2)
		defer pool.Close()
		if pool.Size() != 2 {
			t.Errorf("Size() = %d, want 2", pool.Size())
		}
	})
}

func TestCommandOutput(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	if _, err := DefaultEnv().LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	out, err := commandOutput("sh", "-c", "echo out; echo err >&2")
	if err != nil {
		t.Fatalf("commandOutput() error = %v", err)
	}
	if got := string(out); !strings.Contains(got, "out") || !strings.Contains(got, "err") {
		t.Errorf("commandOutput() = %q, want both streams", got)
	}
}
