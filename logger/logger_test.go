package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chartmeasure/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud) should fail")
	}
}

func TestInstall_Filters(t *testing.T) {
	saved, savedLevel := log.Logger, zerolog.GlobalLevel()
	defer func() {
		log.Logger = saved
		zerolog.SetGlobalLevel(savedLevel)
	}()

	var buf bytes.Buffer
	install(&buf, zerolog.InfoLevel)
	log.Debug().Msg("hidden")
	log.Info().Str("module", "test").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "module=test") {
		t.Errorf("info line missing: %q", out)
	}
}

func TestSetup_File(t *testing.T) {
	saved, savedLevel := log.Logger, zerolog.GlobalLevel()
	defer func() {
		log.Logger = saved
		zerolog.SetGlobalLevel(savedLevel)
	}()

	path := filepath.Join(t.TempDir(), "app.log")
	closer, err := Setup(config.LogConfig{File: path, Level: "debug"})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	log.Debug().Msg("to file")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file = %q", data)
	}

	if _, err := Setup(config.LogConfig{File: path, Level: "nope"}); err == nil {
		t.Error("bad level accepted")
	}
}
