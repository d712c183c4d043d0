package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modifit/platform/internal/ai"
	"github.com/modifit/platform/internal/models"
	"github.com/modifit/platform/internal/service"
)

// HTTPClient implements DataSource by calling the Modifit REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but the
// data lives on the server. The access token decides whose data is read.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, in, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("httpclient: %s: %w", path, models.ErrNotFound)
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("httpclient: %s: %w", path, models.ErrUnauthorized)
	case resp.StatusCode == http.StatusBadRequest:
		return decodeValidation(data)
	case resp.StatusCode == http.StatusBadGateway:
		var e struct {
			Message   string `json:"message"`
			ErrorCode int    `json:"error_code"`
		}
		_ = json.Unmarshal(data, &e)
		return &ai.Error{StatusCode: e.ErrorCode, Message: e.Message}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func decodeValidation(data []byte) error {
	var e struct {
		Error  string              `json:"error"`
		Fields []models.FieldError `json:"fields"`
	}
	if err := json.Unmarshal(data, &e); err != nil || len(e.Fields) == 0 {
		return fmt.Errorf("%w: %s", models.ErrValidation, data)
	}
	return &models.ValidationError{Errors: e.Fields}
}

func (c *HTTPClient) ListExercises(ctx context.Context, f models.ExerciseFilter) ([]models.Exercise, error) {
	params := url.Values{}
	if f.Muscle != "" {
		params.Set("muscle", f.Muscle)
	}
	if f.Day != "" {
		params.Set("day", f.Day)
	}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	if f.Limit > 0 {
		params.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		params.Set("offset", strconv.Itoa(f.Offset))
	}

	var list []models.Exercise
	if err := c.do(ctx, http.MethodGet, "/api/fitness/exercises", params, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) ListRoutines(ctx context.Context, _ uuid.UUID) ([]models.Routine, error) {
	var list []models.Routine
	if err := c.do(ctx, http.MethodGet, "/api/fitness/routines", nil, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) ListGeneratedRoutines(ctx context.Context, _ uuid.UUID) ([]models.GeneratedRoutine, error) {
	var list []models.GeneratedRoutine
	if err := c.do(ctx, http.MethodGet, "/api/fitness/ai-routines", nil, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) GetGeneratedRoutine(ctx context.Context, id int64, _ uuid.UUID) (*models.GeneratedRoutine, error) {
	var r models.GeneratedRoutine
	path := "/api/fitness/ai-routines/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *HTTPClient) GenerateRoutine(ctx context.Context, _ uuid.UUID, in service.GenerateInput) (*service.GenerateResult, error) {
	var res service.GenerateResult
	if err := c.do(ctx, http.MethodPost, "/api/fitness/ai-routines/generate", nil, in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
