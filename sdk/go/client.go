// Package execboardsdk is a minimal HTTP client for the execboard API.
package execboardsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to one execboard server.
type Client struct {
	BaseURL     string
	APIKey      string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

type Task struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Role        string  `json:"role"`
	Status      string  `json:"status"`
	BriefID     *string `json:"brief_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	CompletedAt *string `json:"completed_at,omitempty"`
}

type Brief struct {
	ID              string   `json:"id"`
	TaskID          string   `json:"task_id"`
	Content         string   `json:"content"`
	Recommendations []string `json:"recommendations"`
	CreatedAt       string   `json:"created_at"`
}

type Strategy struct {
	ID          string   `json:"id"`
	Role        string   `json:"role"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Objectives  []string `json:"objectives"`
	KPIs        []string `json:"kpis"`
	UpdatedAt   string   `json:"updated_at"`
}

type BusinessMetrics struct {
	ID        string  `json:"id"`
	LTV       float64 `json:"ltv"`
	MRR       float64 `json:"mrr"`
	CashFlow  float64 `json:"cash_flow"`
	UpdatedAt *string `json:"updated_at,omitempty"`
}

type Performance struct {
	ID              string   `json:"id"`
	Role            string   `json:"role"`
	CompletedKPIs   int      `json:"completed_kpis"`
	TotalKPIs       int      `json:"total_kpis"`
	ConfidenceScore int      `json:"confidence_score"`
	PositiveNotes   []string `json:"positive_notes"`
	NegativeNotes   []string `json:"negative_notes"`
	UpdatedAt       string   `json:"updated_at"`
}

type Feedback struct {
	ID        string  `json:"id"`
	TaskID    *string `json:"task_id,omitempty"`
	BriefID   *string `json:"brief_id,omitempty"`
	Content   string  `json:"content"`
	Rating    int     `json:"rating"`
	CreatedAt string  `json:"created_at"`
}

type User struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       string  `json:"role,omitempty"`
	TelegramID *string `json:"telegram_id,omitempty"`
}

type ActivityEntry struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts"`
	Type       string `json:"type"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	Payload    string `json:"payload_json,omitempty"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// Login authenticates and stores the returned bearer token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	var resp struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "v0/auth/login", map[string]any{"email": email, "password": password}, &resp)
	if err != nil {
		return User{}, err
	}
	c.BearerToken = resp.Token
	return resp.User, nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (User, error) {
	var resp User
	err := c.do(ctx, http.MethodGet, "v0/me", nil, &resp)
	return resp, err
}

// Tasks lists tasks, optionally filtered by role and status.
func (c *Client) Tasks(ctx context.Context, role, status string) ([]Task, error) {
	endpoint := "v0/tasks"
	q := url.Values{}
	if role != "" {
		q.Set("role", role)
	}
	if status != "" {
		q.Set("status", status)
	}
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	var resp []Task
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

func (c *Client) Task(ctx context.Context, id string) (Task, error) {
	var resp Task
	err := c.do(ctx, http.MethodGet, "v0/tasks/"+url.PathEscape(id), nil, &resp)
	return resp, err
}

func (c *Client) CreateTask(ctx context.Context, title, description, role string) (Task, error) {
	body := map[string]any{"title": title, "description": description, "role": role}
	var resp Task
	err := c.do(ctx, http.MethodPost, "v0/tasks", body, &resp)
	return resp, err
}

// UpdateTask applies a partial update; only non-nil entries in fields are sent.
func (c *Client) UpdateTask(ctx context.Context, id string, fields map[string]any) (Task, error) {
	var resp Task
	err := c.do(ctx, http.MethodPatch, "v0/tasks/"+url.PathEscape(id), fields, &resp)
	return resp, err
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "v0/tasks/"+url.PathEscape(id), nil, nil)
}

// ProblematicTasks lists tasks in the configured problematic status set.
func (c *Client) ProblematicTasks(ctx context.Context) ([]Task, error) {
	var resp []Task
	err := c.do(ctx, http.MethodGet, "v0/tasks/problematic", nil, &resp)
	return resp, err
}

// TaskBrief returns the brief linked to a task.
func (c *Client) TaskBrief(ctx context.Context, taskID string) (Brief, error) {
	var resp Brief
	err := c.do(ctx, http.MethodGet, "v0/tasks/"+url.PathEscape(taskID)+"/brief", nil, &resp)
	return resp, err
}

func (c *Client) Briefs(ctx context.Context) ([]Brief, error) {
	var resp []Brief
	err := c.do(ctx, http.MethodGet, "v0/briefs", nil, &resp)
	return resp, err
}

func (c *Client) LatestBriefs(ctx context.Context, limit int) ([]Brief, error) {
	endpoint := "v0/briefs/latest"
	if limit > 0 {
		endpoint = fmt.Sprintf("%s?limit=%d", endpoint, limit)
	}
	var resp []Brief
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

func (c *Client) CreateBrief(ctx context.Context, taskID, content string, recommendations []string) (Brief, error) {
	body := map[string]any{"task_id": taskID, "content": content, "recommendations": recommendations}
	var resp Brief
	err := c.do(ctx, http.MethodPost, "v0/briefs", body, &resp)
	return resp, err
}

func (c *Client) Strategies(ctx context.Context) ([]Strategy, error) {
	var resp []Strategy
	err := c.do(ctx, http.MethodGet, "v0/strategies", nil, &resp)
	return resp, err
}

func (c *Client) Strategy(ctx context.Context, role string) (Strategy, error) {
	var resp Strategy
	err := c.do(ctx, http.MethodGet, "v0/strategies/"+url.PathEscape(role), nil, &resp)
	return resp, err
}

func (c *Client) SetStrategy(ctx context.Context, role, title, description string, objectives, kpis []string) (Strategy, error) {
	body := map[string]any{"title": title, "description": description, "objectives": objectives, "kpis": kpis}
	var resp Strategy
	err := c.do(ctx, http.MethodPut, "v0/strategies/"+url.PathEscape(role), body, &resp)
	return resp, err
}

func (c *Client) Metrics(ctx context.Context) (BusinessMetrics, error) {
	var resp BusinessMetrics
	err := c.do(ctx, http.MethodGet, "v0/dashboard/metrics", nil, &resp)
	return resp, err
}

func (c *Client) Performance(ctx context.Context) ([]Performance, error) {
	var resp []Performance
	err := c.do(ctx, http.MethodGet, "v0/dashboard/performance", nil, &resp)
	return resp, err
}

func (c *Client) SubmitFeedback(ctx context.Context, taskID, briefID *string, content string, rating int) (Feedback, error) {
	body := map[string]any{"content": content, "rating": rating}
	if taskID != nil {
		body["task_id"] = *taskID
	}
	if briefID != nil {
		body["brief_id"] = *briefID
	}
	var resp Feedback
	err := c.do(ctx, http.MethodPost, "v0/feedback", body, &resp)
	return resp, err
}

// Activity returns recent activity entries.
func (c *Client) Activity(ctx context.Context, limit int) ([]ActivityEntry, error) {
	endpoint := "v0/activity"
	if limit > 0 {
		endpoint = fmt.Sprintf("%s?limit=%d", endpoint, limit)
	}
	var resp []ActivityEntry
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	switch {
	case c.BearerToken != "":
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	case c.APIKey != "":
		req.Header.Set("X-Api-Key", c.APIKey)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
