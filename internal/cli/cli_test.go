package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const testConfig = `{"major_pairs":["EURUSD","USDJPY"],"analysis_settings":{"pip_intervals":{"min_pips":20,"max_pips":30},"timeframes":["M15","H1"]}}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runConfig(t, testConfig, append([]string{"--log-level", "error"}, args...)...)
}

func runConfig(t *testing.T, body string, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"TWELVE_API_KEY", "DATA_PROVIDER", "LOG_LEVEL", "BARS", "POLL_INTERVAL", "REQUEST_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfgPath := filepath.Join(t.TempDir(), "pairs.json")
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestAnalyzeJSON(t *testing.T) {
	out, err := run(t, "analyze", "eur/usd", "--bars", "250", "--json")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var res struct {
		Pair      string            `json:"pair"`
		Timeframe string            `json:"timeframe"`
		Bars      int               `json:"bars"`
		Bias      string            `json:"bias"`
		Waves     []json.RawMessage `json:"waves"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if res.Pair != "EURUSD" || res.Timeframe != "H1" || res.Bars != 250 {
		t.Errorf("unexpected result %+v", res)
	}
	if res.Bias == "" {
		t.Error("bias missing")
	}
}

func TestAnalyzeTable(t *testing.T) {
	out, err := run(t, "analyze", "--timeframe", "h4")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, "EURUSD H4: 200 bars") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"неизвестный таймфрейм", []string{"analyze", "--timeframe", "H2"}},
		{"неизвестный источник", []string{"--source", "bloomberg", "analyze"}},
		{"нет ключа API", []string{"--source", "twelvedata", "analyze"}},
		{"нет CSV файла", []string{"--source", "csv", "--csv-dir", "/nonexistent", "analyze"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGenerateThenAnalyzeCSV(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "generate", "--out", dir, "--symbols", "GBPUSD", "--timeframes", "H1", "--bars", "120", "--seed", "11")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out, "GBPUSD_H1.csv") {
		t.Errorf("generate output: %s", out)
	}

	out, err = run(t, "--source", "csv", "--csv-dir", dir, "analyze", "GBPUSD", "--json")
	if err != nil {
		t.Fatalf("analyze csv: %v", err)
	}
	if !strings.Contains(out, `"bars": 120`) {
		t.Errorf("expected all 120 bars from the file:\n%.200s", out)
	}
}

func TestMTFResampled(t *testing.T) {
	out, err := run(t, "mtf", "EURUSD", "--days", "5", "--resample-from", "M15", "--json")
	if err != nil {
		t.Fatalf("mtf: %v", err)
	}
	var res struct {
		Pair       string `json:"pair"`
		Timeframes []struct {
			Timeframe string `json:"timeframe"`
		} `json:"timeframes"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if res.Pair != "EURUSD" || len(res.Timeframes) != 2 {
		t.Fatalf("unexpected output %+v", res)
	}
	if res.Timeframes[0].Timeframe != "M15" || res.Timeframes[1].Timeframe != "H1" {
		t.Errorf("timeframe order %s, %s", res.Timeframes[0].Timeframe, res.Timeframes[1].Timeframe)
	}
}

func TestMTFTable(t *testing.T) {
	out, err := run(t, "mtf", "--days", "3")
	if err != nil {
		t.Fatalf("mtf: %v", err)
	}
	if !strings.Contains(out, "EURUSD M15:") || !strings.Contains(out, "EURUSD H1:") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestConfigShow(t *testing.T) {
	t.Setenv("TWELVE_API_KEY", "")
	out, err := run(t, "config", "show", "--format", "yaml")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "major_pairs:") || !strings.Contains(out, "- USDJPY") {
		t.Errorf("unexpected yaml:\n%s", out)
	}

	if _, err := run(t, "config", "show", "--format", "toml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestMaskKey(t *testing.T) {
	for in, want := range map[string]string{"abc": "****", "abcdefgh": "ab****gh"} {
		if got := maskKey(in); got != want {
			t.Errorf("maskKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "wavescope ") {
		t.Errorf("version output %q", out)
	}
}

// captureStderr swaps os.Stderr for a pipe while fn runs.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stderr
	os.Stderr = w
	done := make(chan string)
	go func() {
		b, _ := io.ReadAll(r)
		done <- string(b)
	}()

	fn()

	os.Stderr = orig
	w.Close()
	out := <-done
	r.Close()
	return out
}

func TestLogLevelAppliesBeforeConfigLoad(t *testing.T) {
	// min_pips > max_pips makes config validation log a warning
	badPips := `{"major_pairs":["EURUSD"],"analysis_settings":{"pip_intervals":{"min_pips":40,"max_pips":30},"timeframes":["H1"]}%s}`
	t.Cleanup(func() { setupLogging("error") })

	tests := []struct {
		name      string
		body      string
		args      []string
		wantWarn  bool
		wantLevel zerolog.Level
	}{
		{
			name:      "флаг error глушит предупреждения загрузки",
			body:      strings.Replace(badPips, "%s", "", 1),
			args:      []string{"--log-level", "error", "version"},
			wantLevel: zerolog.ErrorLevel,
		},
		{
			name:      "флаг warn пропускает предупреждения загрузки",
			body:      strings.Replace(badPips, "%s", "", 1),
			args:      []string{"--log-level", "warn", "version"},
			wantWarn:  true,
			wantLevel: zerolog.WarnLevel,
		},
		{
			name:      "без флага действует уровень из конфигурации",
			body:      strings.Replace(badPips, "%s", `,"log_level":"error"`, 1),
			args:      []string{"version"},
			wantWarn:  true,
			wantLevel: zerolog.ErrorLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			stderr := captureStderr(t, func() {
				_, err = runConfig(t, tt.body, tt.args...)
			})
			if err != nil {
				t.Fatal(err)
			}
			if got := strings.Contains(stderr, "Invalid pip interval"); got != tt.wantWarn {
				t.Errorf("warning logged = %v, want %v:\n%s", got, tt.wantWarn, stderr)
			}
			if got := log.Logger.GetLevel(); got != tt.wantLevel {
				t.Errorf("level = %s, want %s", got, tt.wantLevel)
			}
		})
	}
}

func TestMonitoredSymbols(t *testing.T) {
	tests := []struct {
		name      string
		requested []string
		pairs     []string
		want      []string
	}{
		{
			name:  "пары из конфигурации",
			pairs: []string{"eurusd", "gbp/usd", "usdjpy", "audusd"},
			want:  []string{"EURUSD", "GBPUSD", "USDJPY"},
		},
		{
			name:      "символы из флага",
			requested: []string{" eur/usd "},
			pairs:     []string{"gbpusd"},
			want:      []string{"EURUSD"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs := append([]string(nil), tt.pairs...)
			requested := append([]string(nil), tt.requested...)

			got := monitoredSymbols(requested, pairs)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if strings.Join(pairs, ",") != strings.Join(tt.pairs, ",") {
				t.Errorf("configured pairs changed to %v", pairs)
			}
			if strings.Join(requested, ",") != strings.Join(tt.requested, ",") {
				t.Errorf("requested symbols changed to %v", requested)
			}
		})
	}
}
