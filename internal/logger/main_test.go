package logger_test

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"

	"github.com/Kinetic639/coreframe-boilerplate-sub007/internal/logger"
)

// testLoggerConfig initializes the logger with cfg, writes one info log
// statement and returns everything that arrived on stdout.
func testLoggerConfig(t *testing.T, cfg logger.Log) string {
	t.Helper()

	orig := os.Stdout

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	os.Stdout = w

	defer func() {
		os.Stdout = orig
	}()

	if err := logger.Init(cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	log.Info().Str("Test", "value").Msg("test message")

	_ = w.Close()

	var buf bytes.Buffer

	_, _ = io.Copy(&buf, r)

	return buf.String()
}

func TestLogger(t *testing.T) {
	testCases := []struct {
		name             string
		cfg              logger.Log
		shouldHaveOutPut bool
		outPutIsJSON     bool
	}{
		{
			name: "no logger enabled",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
			},
			shouldHaveOutPut: false,
		},
		{
			name: "console enabled log level info",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true, UseConsoleWriter: true},
			},
			shouldHaveOutPut: true,
		},
		{
			name: "console enabled console writer disabled expect json",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true},
			},
			shouldHaveOutPut: true,
			outPutIsJSON:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := testLoggerConfig(t, tc.cfg)

			if out == "" && tc.shouldHaveOutPut {
				t.Errorf("expected console output but got none")
			}

			if !tc.outPutIsJSON {
				return
			}

			for _, line := range strings.Split(out, "\n") {
				if line == "" {
					continue
				}

				var dummy map[string]any
				if err := json.Unmarshal([]byte(line), &dummy); err != nil {
					t.Errorf("expected json output but got: %s", line)
				}
			}
		})
	}
}

func TestInitErrors(t *testing.T) {
	testCases := []struct {
		name string
		cfg  logger.Log
	}{
		{
			name: "unsupported log level",
			cfg: logger.Log{
				LogLevel:    "loud",
				ServiceName: "test",
				AppName:     "test",
			},
		},
		{
			name: "missing service name",
			cfg: logger.Log{
				LogLevel: "info",
				AppName:  "test",
			},
		},
		{
			name: "missing app name",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := logger.Init(tc.cfg); err == nil {
				t.Error("Init() expected error, got nil")
			}
		})
	}
}
