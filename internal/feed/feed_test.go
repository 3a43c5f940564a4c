package feed

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Alias1177/wavescope/models"
)

const timeSeriesBody = `{
  "meta": {"symbol": "EUR/USD", "interval": "1h"},
  "values": [
    {"datetime": "2024-01-01 02:00:00", "open": "1.1010", "high": "1.1030", "low": "1.1000", "close": "1.1020"},
    {"datetime": "2024-01-01 01:00:00", "open": "1.1000", "high": "1.1015", "low": "1.0990", "close": "1.1010"},
    {"datetime": "2024-01-01 00:00:00", "open": "1.0990", "high": "1.1005", "low": "1.0980", "close": "1.1000"}
  ],
  "status": "ok"
}`

func twelveServer(t *testing.T, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testTwelveClient(url string) *Client {
	return NewClient(ClientOptions{
		APIKey:          "test-key",
		BaseURL:         url,
		RequestTimeout:  2 * time.Second,
		RequestsPerSec:  100,
		MaxRetries:      1,
		MaxRetryTimeout: time.Second,
	})
}

func TestTwelveDataFetchCandles(t *testing.T) {
	srv := twelveServer(t, timeSeriesBody, func(r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/time_series" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if q.Get("symbol") != "EUR/USD" || q.Get("interval") != "1h" || q.Get("outputsize") != "3" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if q.Get("apikey") != "test-key" {
			t.Errorf("apikey = %q", q.Get("apikey"))
		}
	})

	candles, err := testTwelveClient(srv.URL).FetchCandles(context.Background(), "EURUSD", models.H1, 3)
	if err != nil {
		t.Fatalf("FetchCandles: %v", err)
	}
	if len(candles) != 3 {
		t.Fatalf("got %d candles, want 3", len(candles))
	}
	for i := 1; i < len(candles); i++ {
		if !candles[i-1].Timestamp.Before(candles[i].Timestamp) {
			t.Fatalf("candles not ascending at %d", i)
		}
	}
	if candles[0].Close != 1.1000 || candles[2].High != 1.1030 {
		t.Errorf("unexpected values %+v", candles)
	}
}

func TestTwelveDataErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"ошибка API", `{"status":"error","code":401,"message":"invalid key"}`, nil},
		{"пустой ответ", `{"status":"ok","values":[]}`, ErrNoData},
		{"битый JSON", `{"status":`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := twelveServer(t, tt.body, nil)
			_, err := testTwelveClient(srv.URL).FetchCandles(context.Background(), "EURUSD", models.H1, 10)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTwelveDataUnknownTimeframe(t *testing.T) {
	c := testTwelveClient("http://127.0.0.1:0")
	_, err := c.FetchCandles(context.Background(), "EURUSD", models.Timeframe("H2"), 10)
	if !errors.Is(err, models.ErrUnknownTimeframe) {
		t.Fatalf("err = %v", err)
	}
}

func TestAPISymbol(t *testing.T) {
	for in, want := range map[string]string{"EURUSD": "EUR/USD", "usdjpy": "USD/JPY", "EUR/USD": "EUR/USD", "XAUUSD.m": "XAUUSD.M"} {
		if got := APISymbol(in); got != want {
			t.Errorf("APISymbol(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReadCSV(t *testing.T) {
	data := "Date,Open,High,Low,Close\n" +
		"2024-01-02,1.2,1.3,1.1,1.25\n" +
		"2024-01-01,1.1,1.2,1.0,1.15\n"
	candles, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("got %d candles", len(candles))
	}
	if candles[0].Close != 1.15 || candles[1].Close != 1.25 {
		t.Errorf("rows not sorted by time: %+v", candles)
	}
	if candles[0].Volume != 0 {
		t.Errorf("volume = %d, want 0", candles[0].Volume)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"пустой файл", ""},
		{"нет колонки close", "timestamp,open,high,low\n2024-01-01,1,1,1\n"},
		{"плохое число", "timestamp,open,high,low,close\n2024-01-01,1,x,1,1\n"},
		{"только заголовок", "timestamp,open,high,low,close\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCSVRoundTripThroughDir(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	candles := Generate(rand.New(rand.NewSource(7)), "EURUSD", start, time.Hour, 40)

	src := NewCSVDir(dir)
	if err := WriteCSVFile(src.Path("EURUSD", models.H1), candles); err != nil {
		t.Fatalf("WriteCSVFile: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "EURUSD_H1.csv")); err != nil {
		t.Fatalf("file not created: %v", err)
	}

	got, err := src.FetchCandles(context.Background(), "EUR/USD", models.H1, 10)
	if err != nil {
		t.Fatalf("FetchCandles: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("got %d candles, want 10", len(got))
	}
	if !got[9].Timestamp.Equal(candles[39].Timestamp) || got[9].Close != candles[39].Close {
		t.Errorf("last candle = %+v, want %+v", got[9], candles[39])
	}

	if _, err := src.FetchCandles(context.Background(), "GBPUSD", models.H1, 10); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteCSVHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "timestamp,open,high,low,close,volume" {
		t.Errorf("header = %q", got)
	}
}

func TestSyntheticDeterministic(t *testing.T) {
	ctx := context.Background()
	a, err := NewSynthetic(42).FetchCandles(ctx, "EURUSD", models.M15, 300)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := NewSynthetic(42).FetchCandles(ctx, "EURUSD", models.M15, 300)
	c, _ := NewSynthetic(43).FetchCandles(ctx, "EURUSD", models.M15, 300)

	if len(a) != 300 {
		t.Fatalf("got %d candles", len(a))
	}
	same := true
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed differs at %d", i)
		}
		if a[i] != c[i] {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced identical series")
	}

	for i, k := range a {
		if k.High < k.Close || k.High < k.Open || k.Low > k.Close || k.Low > k.Open {
			t.Fatalf("bar %d violates OHLC bounds: %+v", i, k)
		}
		if i > 0 && k.Timestamp.Sub(a[i-1].Timestamp) != 15*time.Minute {
			t.Fatalf("bar %d step = %v", i, k.Timestamp.Sub(a[i-1].Timestamp))
		}
	}
}

func TestSyntheticBasePrice(t *testing.T) {
	tests := []struct {
		pair string
		want float64
	}{
		{"USDJPY", 110},
		{"EURUSD", 1.1},
		{"EURGBP", 1.3},
	}
	for _, tt := range tests {
		candles, err := NewSynthetic(1).FetchCandles(context.Background(), tt.pair, models.H1, 1)
		if err != nil {
			t.Fatal(err)
		}
		if candles[0].Close != tt.want {
			t.Errorf("%s first close = %v, want %v", tt.pair, candles[0].Close, tt.want)
		}
	}
}

func TestNewProvider(t *testing.T) {
	if _, err := New(Options{Provider: "twelvedata"}); err == nil {
		t.Error("expected error without api key")
	}
	if _, err := New(Options{Provider: "bloomberg"}); err == nil {
		t.Error("expected error for unknown provider")
	}
	src, err := New(Options{Provider: "CSV", CSVDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := src.(*CSVDir); !ok {
		t.Errorf("got %T, want *CSVDir", src)
	}
	src, _ = New(Options{})
	if _, ok := src.(*Synthetic); !ok {
		t.Errorf("got %T, want *Synthetic", src)
	}
}
