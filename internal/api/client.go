// Package api is the HTTP client for the back office's agenda endpoints.
//
// Reads return the full working set (no pagination). Mutations carry the
// CSRF cookie value echoed as the X-CSRFToken header, a convention of the
// host framework treated as an opaque required header here.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"pauta-cli/internal/brfmt"
	"pauta-cli/internal/model"
)

const (
	defaultTimeout = 15 * time.Second
	csrfHeader     = "X-CSRFToken"
	csrfCookieName = "csrftoken"
)

// Status is the read endpoint's status filter.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

type Client struct {
	baseURL string
	cookie  string
	csrf    string
	http    *http.Client
	log     *zap.Logger

	// The backend is a shared admin app; keep mutation bursts polite.
	mutLimiter *rate.Limiter
}

// New builds a client. cookie is the raw Cookie header of an authenticated
// browser session; the CSRF token is lifted from it unless given explicitly.
func New(baseURL, cookie, csrfToken string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if csrfToken == "" {
		csrfToken = cookieValue(cookie, csrfCookieName)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		cookie:     cookie,
		csrf:       csrfToken,
		http:       &http.Client{Timeout: defaultTimeout},
		log:        log,
		mutLimiter: rate.NewLimiter(rate.Limit(4), 2),
	}
}

func cookieValue(cookie, name string) string {
	for _, part := range strings.Split(cookie, ";") {
		part = strings.TrimSpace(part)
		if v, ok := strings.CutPrefix(part, name+"="); ok {
			return v
		}
	}
	return ""
}

// Entries fetches the agenda working set for the given status.
func (c *Client) Entries(ctx context.Context, status Status) ([]model.RawAPIEntry, error) {
	var out []model.RawAPIEntry
	url := fmt.Sprintf("%s/api/agenda/geral/?status=%s", c.baseURL, status)
	if err := c.get(ctx, url, &out); err != nil {
		return nil, fmt.Errorf("fetch agenda entries: %w", err)
	}
	return out, nil
}

// Users fetches the per-user pending/completed summary.
func (c *Client) Users(ctx context.Context) ([]model.UserSummary, error) {
	var out []model.UserSummary
	if err := c.get(ctx, c.baseURL+"/api/agenda/users/", &out); err != nil {
		return nil, fmt.Errorf("fetch agenda users: %w", err)
	}
	return out, nil
}

// UpdateDate persists a reschedule for a task or prazo. Supervisions have no
// date-update endpoint; their placement is a client-side working view.
func (c *Client) UpdateDate(ctx context.Context, typ model.EntryType, backendID int64, date brfmt.Date) error {
	var kind string
	switch typ {
	case model.EntryTask:
		kind = "tarefa"
	case model.EntryPrazo:
		kind = "prazo"
	default:
		return fmt.Errorf("update date: entry type %q has no date endpoint", typ)
	}
	url := fmt.Sprintf("%s/api/agenda/%s/%d/update-date/", c.baseURL, kind, backendID)
	body := map[string]string{"date": date.ISO()}
	if err := c.post(ctx, url, body, nil); err != nil {
		return fmt.Errorf("update %s %d date: %w", kind, backendID, err)
	}
	return nil
}

// SupervisionStatusResult is the advance-status response.
type SupervisionStatusResult struct {
	SupervisorStatus string `json:"supervisor_status"`
	StatusLabel      string `json:"status_label"`
}

// AdvanceSupervisionStatus cycles a supervision's approval status.
func (c *Client) AdvanceSupervisionStatus(ctx context.Context, analiseID int64, source string, index int) (SupervisionStatusResult, error) {
	var out SupervisionStatusResult
	body := map[string]any{"analise_id": analiseID, "source": source, "index": index}
	if err := c.post(ctx, c.baseURL+"/api/agenda/supervision/status/", body, &out); err != nil {
		return SupervisionStatusResult{}, fmt.Errorf("advance supervision status: %w", err)
	}
	return out, nil
}

type barradoResponse struct {
	Barrado model.Barrado `json:"barrado"`
}

// SetBarrado toggles the blocked/on-hold state. toggleActive nil leaves the
// flag untouched (retorno-only update); retornoEm empty clears the resume date.
func (c *Client) SetBarrado(ctx context.Context, analiseID int64, source string, index int, toggleActive *bool, retornoEm string) (model.Barrado, error) {
	body := map[string]any{"analise_id": analiseID, "source": source, "index": index}
	if toggleActive != nil {
		body["toggle_active"] = *toggleActive
	}
	if retornoEm != "" {
		body["retorno_em"] = retornoEm
	}
	var out barradoResponse
	if err := c.post(ctx, c.baseURL+"/api/agenda/supervision/barrado/", body, &out); err != nil {
		return model.Barrado{}, fmt.Errorf("set barrado: %w", err)
	}
	return out.Barrado, nil
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, url string, body, out any) error {
	if err := c.mutLimiter.Wait(ctx); err != nil {
		return err
	}
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(csrfHeader, c.csrf)
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}
	reqID := uuid.NewString()[:8]
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("req", reqID),
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	c.log.Debug("request",
		zap.String("req", reqID),
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("dur", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return nil
}
