package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/heat-stress-etl/internal/domain"
)

// maxRemoteBodyBytes caps how much of a remote response is read. 64 MiB is
// far beyond any daily observation export seen in practice.
const maxRemoteBodyBytes = 64 << 20

// Remote fetches a CSV dataset over HTTP with a bounded timeout. A slow or
// unreachable endpoint degrades to the next candidate rather than blocking
// the run.
type Remote struct {
	url        string
	httpClient *http.Client
}

// NewRemote creates a remote CSV source. timeout bounds the whole request,
// including the body read.
func NewRemote(url string, timeout time.Duration) *Remote {
	return &Remote{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (r *Remote) Name() string { return "remote" }

// Fetch downloads, decodes, and parses the dataset.
func (r *Remote) Fetch(ctx context.Context) (domain.RawTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("fetch %s: %w", r.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.RawTable{}, fmt.Errorf("remote source status %d: %s", resp.StatusCode, body)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBodyBytes))
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read body: %w", err)
	}

	return parseCSVTable(r.Name(), data)
}

// parseCSVTable decodes raw bytes through the encoding fallback list and
// parses them as CSV into a RawTable.
func parseCSVTable(sourceName string, data []byte) (domain.RawTable, error) {
	text, encoding, err := DecodeText(data)
	if err != nil {
		return domain.RawTable{}, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1 // tolerate ragged rows; the normalizer drops short cells
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return domain.RawTable{Source: sourceName, Encoding: encoding}, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	return domain.RawTable{
		Source:   sourceName,
		Encoding: encoding,
		Columns:  header,
		Rows:     rows[1:],
	}, nil
}
