package practicum

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

	"homework_status_bot/internal/domain/homework"
)

// DefaultEndpoint is the Practicum homework statuses API.
const DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

// maxErrorBody bounds how much of a non-200 body is kept for diagnostics.
const maxErrorBody = 4 << 10

// Client requests homework statuses from the Practicum API.
type Client struct {
	Endpoint string
	HTTP     *http.Client
	token    string
}

// NewClient creates a client with a bounded request timeout.
func NewClient(endpoint, token string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		Endpoint: endpoint,
		HTTP:     &http.Client{Timeout: timeout},
		token:    token,
	}
}

// HomeworkStatuses performs exactly one GET for statuses changed since fromDate.
// The decoded body is returned untyped; homework.CheckResponse validates it.
func (c *Client) HomeworkStatuses(ctx context.Context, fromDate int64) (any, error) {
	params := url.Values{"from_date": {strconv.FormatInt(fromDate, 10)}}
	reqDesc := fmt.Sprintf("GET %s?%s", c.Endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", homework.ErrTransport, reqDesc, err)
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", homework.ErrTransport, reqDesc, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &homework.EndpointError{
			StatusCode: resp.StatusCode,
			Reason:     reasonPhrase(resp),
			Body:       strings.TrimSpace(string(body)),
			Params:     reqDesc,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: reading body: %v", homework.ErrTransport, reqDesc, err)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", homework.ErrMalformedJSON, reqDesc, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: %s: trailing data after JSON value", homework.ErrMalformedJSON, reqDesc)
	}
	return payload, nil
}

func reasonPhrase(resp *http.Response) string {
	if reason := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); reason != "" && reason != resp.Status {
		return reason
	}
	return http.StatusText(resp.StatusCode)
}
