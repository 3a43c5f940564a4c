package feed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Alias1177/wavescope/models"
)

var csvHeader = []string{"timestamp", "open", "high", "low", "close", "volume"}

// CSVDir reads "<SYMBOL>_<TF>.csv" files from a directory.
type CSVDir struct {
	dir string
}

func NewCSVDir(dir string) *CSVDir {
	if dir == "" {
		dir = "."
	}
	return &CSVDir{dir: dir}
}

// Path returns the file consulted for symbol and tf.
func (d *CSVDir) Path(symbol string, tf models.Timeframe) string {
	name := strings.ToUpper(strings.ReplaceAll(symbol, "/", "")) + "_" + tf.String() + ".csv"
	return filepath.Join(d.dir, name)
}

// FetchCandles returns the last count candles of the file, or all when count <= 0.
func (d *CSVDir) FetchCandles(ctx context.Context, symbol string, tf models.Timeframe, count int) ([]models.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	candles, err := ReadCSVFile(d.Path(symbol, tf))
	if err != nil {
		return nil, err
	}
	if count > 0 && len(candles) > count {
		candles = candles[len(candles)-count:]
	}
	return candles, nil
}

// ReadCSVFile loads candles from a file with a header row.
func ReadCSVFile(path string) ([]models.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	candles, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return candles, nil
}

// ReadCSV parses a header row naming at least timestamp (or time, datetime,
// date), open, high, low and close. Volume is optional. Rows are sorted by
// time on return.
func ReadCSV(r io.Reader) ([]models.Candle, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		switch key {
		case "time", "datetime", "date":
			key = "timestamp"
		case "vol", "tick_volume":
			key = "volume"
		}
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	for _, req := range csvHeader[:5] {
		if _, ok := cols[req]; !ok {
			return nil, fmt.Errorf("missing column %q", req)
		}
	}

	var candles []models.Candle
	line := 1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return rec[i]
		}
		c, err := parseValue(field("timestamp"), field("open"), field("high"), field("low"), field("close"), field("volume"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		candles = append(candles, c)
	}
	if len(candles) == 0 {
		return nil, ErrNoData
	}

	sort.SliceStable(candles, func(i, j int) bool { return candles[i].Timestamp.Before(candles[j].Timestamp) })
	return candles, nil
}

// WriteCSV writes candles in the format ReadCSV accepts.
func WriteCSV(w io.Writer, candles []models.Candle) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for _, c := range candles {
		row := []string{
			c.Timestamp.UTC().Format(time.RFC3339),
			strconv.FormatFloat(c.Open, 'f', -1, 64),
			strconv.FormatFloat(c.High, 'f', -1, 64),
			strconv.FormatFloat(c.Low, 'f', -1, 64),
			strconv.FormatFloat(c.Close, 'f', -1, 64),
			strconv.FormatInt(c.Volume, 10),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCSVFile creates path and its directory.
func WriteCSVFile(path string, candles []models.Candle) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	if err := WriteCSV(f, candles); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
