package doclytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/HamiltonMussi/doclytics-go/internal/core/domain"
)

const requestIDHeader = "X-Request-Id"

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any, operation string) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", operation, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := c.newRequest(ctx, method, path, body, operation)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.send(req, operation)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

func (c *Client) doMultipart(ctx context.Context, path, filename string, file io.Reader, out any, operation string) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("create %s form file: %w", operation, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("read %s payload: %w", operation, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize %s form: %w", operation, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, &buf, operation)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.send(req, operation)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

// doStream issues the request and hands the raw body to the caller, who must
// close it.
func (c *Client) doStream(ctx context.Context, method, path, operation string) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, method, path, nil, operation)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(req, operation)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, operation string) (*http.Request, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set(requestIDHeader, uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// send performs the round trip and maps failures onto the client's error
// taxonomy: transport failures become connectivity errors, HTTP >= 400
// becomes a StatusError carrying the service-provided message.
func (c *Client) send(req *http.Request, operation string) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observed(operation, 0, time.Since(start))
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, domain.WrapError(domain.ErrConnectivity, operation, err)
	}
	c.observed(operation, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, statusError(operation, resp)
	}
	return resp, nil
}

func (c *Client) observed(operation string, statusCode int, duration time.Duration) {
	if c.observe != nil {
		c.observe(operation, statusCode, duration)
	}
}

func statusError(operation string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))

	var parsed struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &parsed)

	statusErr := &StatusError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Message:    parsed.Message,
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.WrapError(domain.ErrUnauthorized, operation, statusErr)
	case http.StatusNotFound:
		return domain.WrapError(domain.ErrDocumentNotFound, operation, statusErr)
	default:
		return statusErr
	}
}
