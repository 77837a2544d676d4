package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-onboarding/pkg/model"
	"github.com/goliatone/go-onboarding/pkg/render"
)

// Encodings accepted by HTTP.
const (
	EncodingJSON = "json"
	EncodingForm = "form"
)

const maxErrorBody = 64 << 10

// ErrEndpointRequired is returned when an HTTP backend has no endpoint.
var ErrEndpointRequired = errors.New("submission: http endpoint is required")

// RemoteError reports a non-2xx response from the registration endpoint.
type RemoteError struct {
	StatusCode int
	Mapping    render.ErrorMapping
	Body       string
}

func (e *RemoteError) Error() string {
	if messages := e.Mapping.Messages(); len(messages) > 0 {
		return fmt.Sprintf("submission: remote returned %d: %s", e.StatusCode, strings.Join(messages, "; "))
	}
	return fmt.Sprintf("submission: remote returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Temporary reports whether retrying later may succeed.
func (e *RemoteError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// HTTPConfig configures the HTTP backend. Field names double as the keys of
// the submission settings map.
type HTTPConfig struct {
	Endpoint string            `mapstructure:"endpoint"`
	Method   string            `mapstructure:"method"`
	Encoding string            `mapstructure:"encoding"`
	Headers  map[string]string `mapstructure:"headers"`
	Hidden   map[string]string `mapstructure:"hidden"`
}

// HTTP posts snapshots to a registration endpoint.
type HTTP struct {
	cfg    HTTPConfig
	client *http.Client
	form   model.FormModel
}

// HTTPOption customises an HTTP backend.
type HTTPOption func(*HTTP)

// WithHTTPClient overrides the client used for requests.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(h *HTTP) {
		if client != nil {
			h.client = client
		}
	}
}

// NewHTTP validates cfg and returns an HTTP backend.
func NewHTTP(cfg HTTPConfig, opts ...HTTPOption) (*HTTP, error) {
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	if cfg.Endpoint == "" {
		return nil, ErrEndpointRequired
	}
	if _, err := url.ParseRequestURI(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("submission: invalid endpoint %q: %w", cfg.Endpoint, err)
	}
	if cfg.Method == "" {
		cfg.Method = http.MethodPost
	}
	cfg.Method = strings.ToUpper(cfg.Method)
	switch cfg.Encoding {
	case "":
		cfg.Encoding = EncodingJSON
	case EncodingJSON, EncodingForm:
	default:
		return nil, fmt.Errorf("submission: unsupported encoding %q", cfg.Encoding)
	}

	h := &HTTP{
		cfg:    cfg,
		client: http.DefaultClient,
		form:   model.RegistrationForm(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h, nil
}

// Submit sends the snapshot and maps non-2xx responses into *RemoteError.
func (h *HTTP) Submit(ctx context.Context, snapshot model.Snapshot) error {
	body, contentType, err := h.encode(snapshot)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, h.cfg.Method, h.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("submission: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	for key, value := range h.cfg.Headers {
		req.Header.Set(key, value)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("submission: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	remote := &RemoteError{StatusCode: resp.StatusCode, Body: string(raw)}
	if payload, ok := render.DecodeErrorPayload(raw); ok {
		remote.Mapping = render.MapErrorPayload(h.form, payload)
	}
	return remote
}

func (h *HTTP) encode(snapshot model.Snapshot) ([]byte, string, error) {
	hidden := render.SortedHiddenFields(h.cfg.Hidden)

	if h.cfg.Encoding == EncodingForm {
		values := snapshot.Values()
		for _, field := range hidden {
			values.Set(field.Name, field.Value)
		}
		return []byte(values.Encode()), "application/x-www-form-urlencoded", nil
	}

	var payload any = snapshot
	if len(hidden) > 0 {
		merged := make(map[string]any)
		raw, err := json.Marshal(snapshot)
		if err != nil {
			return nil, "", fmt.Errorf("submission: encode snapshot: %w", err)
		}
		if err := json.Unmarshal(raw, &merged); err != nil {
			return nil, "", fmt.Errorf("submission: encode snapshot: %w", err)
		}
		for _, field := range hidden {
			merged[field.Name] = field.Value
		}
		payload = merged
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("submission: encode snapshot: %w", err)
	}
	return body, "application/json", nil
}
