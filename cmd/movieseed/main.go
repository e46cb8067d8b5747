package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"movieapi/errs"
	"movieapi/movie"
	"movieapi/pkg/config"
	"movieapi/pkg/store"
)

var columns = []string{"title", "genre", "director", "year", "rating"}

func main() {
	var (
		csvPath string
		limit   int
	)

	flag.StringVar(&csvPath, "csv", "movies.csv", "Path to a CSV file with columns "+strings.Join(columns, ","))
	flag.IntVar(&limit, "limit", 0, "Limit number of rows to import (0 = all)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	count, err := run(context.Background(), csvPath, limit)
	if err != nil {
		slog.Error("import failed", "error", err, "rows", count)
		os.Exit(1)
	}

	slog.Info("import completed", "rows", count)
}

func run(ctx context.Context, csvPath string, limit int) (int, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return 0, err
	}

	connector, err := store.Open(ctx, cfg)
	if err != nil {
		return 0, fmt.Errorf("open movie store: %w", err)
	}
	return seed(ctx, connector, csvPath, limit)
}

// seed imports csvPath through connector and always closes it.
func seed(ctx context.Context, connector store.Connector, csvPath string, limit int) (count int, err error) {
	defer func() {
		if cerr := connector.Close(context.WithoutCancel(ctx)); cerr != nil && err == nil {
			err = fmt.Errorf("close movie store: %w", cerr)
		}
	}()

	return importMovies(ctx, connector, csvPath, limit)
}

func importMovies(ctx context.Context, connector movie.Connector, csvPath string, limit int) (int, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	h, err := connector.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer h.Release(context.WithoutCancel(ctx))

	return loadMovies(ctx, movie.NewUsecase(h), file, limit)
}

// loadMovies inserts every valid row of r. Invalid rows are logged and
// skipped; store errors stop the import.
func loadMovies(ctx context.Context, uc *movie.Usecase, r io.Reader, limit int) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	index, err := parseHeader(reader)
	if err != nil {
		return 0, err
	}

	count := 0
	line := 1
	for limit <= 0 || count < limit {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return count, err
		}

		m, err := uc.Create(ctx, parseRecord(record, index))
		if errs.ErrorCode(err) == errs.EINVALID {
			slog.Warn("skipping row", "line", line, "error", errs.ErrorMessage(err))
			continue
		}
		if err != nil {
			return count, err
		}

		slog.Debug("movie imported", "id", m.ID.Hex(), "title", m.Title)
		count++
	}

	return count, nil
}

func parseHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(columns))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range columns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing column %q in csv header", name)
		}
	}
	return index, nil
}

// parseRecord turns a row into validator input. Numeric columns are passed as
// json.Number so the schema applies the same type rules as the HTTP API.
func parseRecord(record []string, index map[string]int) movie.Input {
	in := make(movie.Input, len(index))
	for name, i := range index {
		if i >= len(record) {
			continue
		}
		value := strings.TrimSpace(record[i])
		if value == "" {
			continue
		}
		switch name {
		case "year", "rating", "duration":
			in[name] = json.Number(value)
		default:
			in[name] = value
		}
	}
	return in
}
