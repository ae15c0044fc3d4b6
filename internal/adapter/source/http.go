package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/epiwatch/hfmd-dashboard/internal/domain"
)

// maxDatasetBytes caps the fetched dataset size. The real dataset is under
// 200KB; anything near this limit is the wrong file.
const maxDatasetBytes = 32 << 20

// HTTPLoader fetches the raw dataset from a URL, e.g. the raw GitHub URL
// the published dashboard reads from.
type HTTPLoader struct {
	url        string
	format     Format
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPLoader creates a loader that fetches the dataset over HTTP.
func NewHTTPLoader(url string, format Format, timeout time.Duration, logger *slog.Logger) *HTTPLoader {
	return &HTTPLoader{
		url:        url,
		format:     format,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (l *HTTPLoader) Load(ctx context.Context) (domain.RawTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.RawTable{}, fmt.Errorf("fetch dataset: status %d: %s", resp.StatusCode, body)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDatasetBytes))
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read dataset body: %w", err)
	}

	l.logger.Debug("dataset fetched", "url", l.url, "bytes", len(data), "duration", time.Since(start))

	table, err := Parse(bytes.NewReader(data), l.format)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("parse %s: %w", l.url, err)
	}
	return table, nil
}
