package transcription

import (
	"errors"
	"net/http"
	"time"

	"memory-companion-go/internal/logger"
)

// ErrNotConfigured is returned when no transcription service URL is set and
// mock mode is off.
var ErrNotConfigured = errors.New("transcription: service URL not configured")

// MockTranscript is returned for every recording in mock mode.
const MockTranscript = "i grew up on a farm near the river and in 1952 we moved to the city " +
	"my father worked at the mill and i remember the smell of fresh bread every morning"

const (
	defaultTimeout      = 12 * time.Second
	defaultPollInterval = 1500 * time.Millisecond
	defaultMaxPolls     = 40
)

// Option configures a Client.
type Option func(*Client)

// WithMock makes the client return MockTranscript without any network calls.
func WithMock(mock bool) Option {
	return func(c *Client) {
		c.mock = mock
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithTimeout bounds each HTTP request and the retry budget of one call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithPolling sets how often and how many times job status is checked.
func WithPolling(interval time.Duration, maxPolls int) Option {
	return func(c *Client) {
		c.pollInterval = interval
		c.maxPolls = maxPolls
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// Client talks to an asynchronous speech-to-text service: a recording URL is
// published, the job is polled until done and the transcript text is
// downloaded.
type Client struct {
	baseURL      string
	mock         bool
	http         *http.Client
	timeout      time.Duration
	pollInterval time.Duration
	maxPolls     int
	log          *logger.Logger
}

// New returns a Client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      baseURL,
		timeout:      defaultTimeout,
		pollInterval: defaultPollInterval,
		maxPolls:     defaultMaxPolls,
	}
	for _, o := range opts {
		o(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	if c.log == nil {
		c.log = logger.Discard()
	}
	c.log = c.log.Component("transcription")
	return c
}
