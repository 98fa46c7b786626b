package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/VladKovDev/botconstructor/internal/domain/scenario"
)

// Client talks to the scenario REST API. It satisfies the draft
// controller's Store interface, so an editor embeds it directly as the
// persistence boundary.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateScenario creates a named scenario seeded with a start block.
func (c *Client) CreateScenario(ctx context.Context, name string) (*scenario.Scenario, error) {
	var sc scenario.Scenario
	err := c.doJSON(ctx, http.MethodPost, "/scenario", map[string]string{"name": name}, &sc)
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

// GetScenario loads a scenario with its draft, if any.
func (c *Client) GetScenario(ctx context.Context, id string) (*scenario.Scenario, error) {
	var sc scenario.Scenario
	if err := c.doJSON(ctx, http.MethodGet, "/scenario/"+id, nil, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// ListScenarios loads every scenario.
func (c *Client) ListScenarios(ctx context.Context) ([]*scenario.Scenario, error) {
	var out []*scenario.Scenario
	if err := c.doJSON(ctx, http.MethodGet, "/scenario", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteScenario removes a scenario.
func (c *Client) DeleteScenario(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/scenario/"+id, nil, nil)
}

// Rename changes the scenario name.
func (c *Client) Rename(ctx context.Context, id, name string) error {
	return c.doJSON(ctx, http.MethodPatch, "/scenario/"+id, map[string]string{"name": name}, nil)
}

// SetEnabled flips the scenario on or off.
func (c *Client) SetEnabled(ctx context.Context, id string, enabled bool) error {
	return c.doJSON(ctx, http.MethodPatch, "/scenario/"+id, map[string]bool{"enabled": enabled}, nil)
}

// SaveDraft stores the working document as the scenario draft.
func (c *Client) SaveDraft(ctx context.Context, id string, doc scenario.Document) error {
	body := map[string]any{"draft": scenario.Draft{Data: doc}}
	return c.doJSON(ctx, http.MethodPatch, "/scenario/"+id, body, nil)
}

// ClearDraft drops the scenario draft.
func (c *Client) ClearDraft(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodPatch, "/scenario/"+id, json.RawMessage(`{"draft":null}`), nil)
}

// ApplyDraft promotes the stored draft to the live document. The server
// derives the trigger projection from the draft itself; the triggers
// argument exists to satisfy the store contract.
func (c *Client) ApplyDraft(ctx context.Context, id string, _ []scenario.Trigger) error {
	return c.doJSON(ctx, http.MethodPost, "/scenario/"+id+"/draft/apply", nil, nil)
}

// File is one attachment to upload.
type File struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// UploadAttachments transfers a batch of files and returns their
// attachment records. mediaOnly marks the batch for a media message.
func (c *Client) UploadAttachments(ctx context.Context, files []File, mediaOnly bool) ([]scenario.Attachment, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	mode := scenario.ModeMedia
	if !mediaOnly {
		mode = scenario.ModeDocument
	}
	if err := mw.WriteField("type", string(mode)); err != nil {
		return nil, fmt.Errorf("failed to write mode field: %w", err)
	}

	for _, f := range files {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, f.Name))
		hdr.Set("Content-Type", f.ContentType)
		part, err := mw.CreatePart(hdr)
		if err != nil {
			return nil, fmt.Errorf("failed to create part: %w", err)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return nil, fmt.Errorf("failed to write %q: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/scenario/attachment", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, responseError(resp)
	}

	var attachments []scenario.Attachment
	if err := json.NewDecoder(resp.Body).Decode(&attachments); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return attachments, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return responseError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func responseError(resp *http.Response) error {
	var apiErr struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", scenario.ErrScenarioNotFound, apiErr.Error)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", scenario.ErrNoDraft, apiErr.Error)
	default:
		if apiErr.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}
}
