package ical

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	appLog "github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/log"
	"github.com/DTU-gruppe-12-24/62550-CalendarApp/internal/model"
)

const defaultFetchTimeout = 15 * time.Second

// ErrNoCalendars is returned when an imported archive contains no
// calendar entries at all.
var ErrNoCalendars = errors.New("no calendars found")

// Fetcher imports calendars from remote URLs. It performs a single
// request-response GET with a bounded timeout and no retries; callers may
// offer a retry on failure.
type Fetcher struct {
	client *http.Client
	parser *Parser
}

// NewFetcher builds a fetcher around the given parser. A non-positive
// timeout falls back to 15 seconds.
func NewFetcher(parser *Parser, timeout time.Duration) *Fetcher {
	if parser == nil {
		parser = NewParser(nil)
	}
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		parser: parser,
	}
}

// NormalizeURL rewrites the webcal:// scheme to https://.
func NormalizeURL(raw string) string {
	if strings.HasPrefix(raw, "webcal://") {
		return "https://" + strings.TrimPrefix(raw, "webcal://")
	}
	return raw
}

// Import downloads the resource at rawURL and parses it as either a single
// iCalendar stream or a zip archive of several. Fetch failures (non-200
// status, network errors, empty body) are distinct from parse failures and
// carry the HTTP status or network cause.
func (f *Fetcher) Import(ctx context.Context, rawURL string) ([]*model.Calendar, error) {
	u := NormalizeURL(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}

	appLog.Info("calendar fetch start", "url", redactURL(u))

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch failed: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	if len(body) == 0 {
		return nil, errors.New("fetch failed: empty response body")
	}

	if IsArchive(body) {
		calendars, err := f.parser.ParseArchive(body)
		if err != nil {
			return nil, err
		}
		if len(calendars) == 0 {
			return nil, ErrNoCalendars
		}
		appLog.Info("calendar fetch done", "url", redactURL(u), "calendars", len(calendars))
		return calendars, nil
	}

	cal, err := f.parser.ParseCalendar(body)
	if err != nil {
		return nil, err
	}
	appLog.Info("calendar fetch done", "url", redactURL(u), "calendars", 1, "events", len(cal.Dates))
	return []*model.Calendar{cal}, nil
}

// redactURL hides the path and query of a calendar URL for logging, since
// subscription URLs often embed access tokens.
func redactURL(u string) string {
	const redactedSuffix = "/...(redacted)"

	i := strings.Index(u, "://")
	if i == -1 {
		return "ics://...(redacted)"
	}

	j := strings.IndexByte(u[i+3:], '/')
	if j == -1 {
		return u + redactedSuffix
	}
	return u[:i+3+j] + redactedSuffix
}
