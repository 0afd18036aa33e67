package bank

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/abhisek/examiz/internal/question"
)

// maxResponseBytes caps a question-set response body.
const maxResponseBytes = 4 << 20

// HTTPSource fetches question sets from a question server
// (GET <base>/api/questions/<n>).
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource returns an HTTPSource with a bounded client timeout.
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (h *HTTPSource) Name() string { return "http:" + h.BaseURL }

func (h *HTTPSource) Questions(ctx context.Context, n question.Length) ([]question.Question, error) {
	body, err := h.get(ctx, fmt.Sprintf("/api/questions/%d", n))
	if err != nil {
		return nil, loadErr(h.Name(), n, err)
	}
	qs, err := Decode(body, FormatJSON)
	if err != nil {
		return nil, loadErr(h.Name(), n, err)
	}
	switch {
	case len(qs) == 0:
		return nil, loadErr(h.Name(), n, fmt.Errorf("%w: empty question set", ErrNotFound))
	case len(qs) < n.Int():
		return nil, loadErr(h.Name(), n, fmt.Errorf("%w: server sent %d", ErrInsufficient, len(qs)))
	case len(qs) > n.Int():
		return nil, loadErr(h.Name(), n, fmt.Errorf("%w: server sent %d questions", ErrMalformed, len(qs)))
	}
	return qs, nil
}

func (h *HTTPSource) Catalog(ctx context.Context) (Catalog, error) {
	var cat Catalog
	body, err := h.get(ctx, "/api/categories")
	if err != nil {
		return cat, err
	}
	if err := json.Unmarshal(body, &cat); err != nil {
		return cat, fmt.Errorf("%w: categories: %v", ErrMalformed, err)
	}
	return cat, nil
}

func (h *HTTPSource) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", ErrInvalidLength, serverMessage(body))
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, serverMessage(body))
	default:
		return nil, fmt.Errorf("%w: %s: %s", ErrUnavailable, resp.Status, serverMessage(body))
	}
}

// serverMessage extracts {"error": "..."} from an error body.
func serverMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}
