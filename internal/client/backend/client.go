package backend

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

	"hrapp/internal/domain/absence"
	"hrapp/internal/domain/feedback"
	"hrapp/internal/domain/profile"
	"hrapp/internal/platform/requestctx"
	"hrapp/internal/transport/http/api"
)

// Client calls the HR API on behalf of a signed-in portal user.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type LoginResult struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type ProfileUpdate struct {
	FirstName             string  `json:"firstName"`
	LastName              string  `json:"lastName"`
	Department            string  `json:"department,omitempty"`
	Position              string  `json:"position,omitempty"`
	HireDate              string  `json:"hireDate,omitempty"`
	Phone                 string  `json:"phone,omitempty"`
	Address               string  `json:"address,omitempty"`
	EmergencyContactName  string  `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone string  `json:"emergencyContactPhone,omitempty"`
	ManagerID             *string `json:"managerId,omitempty"`
}

type NewAbsenceRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason,omitempty"`
}

type Decision struct {
	Status   string `json:"status"`
	Comments string `json:"comments,omitempty"`
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password}, &out)
	return out, err
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", token, nil, nil)
}

func (c *Client) MyProfile(ctx context.Context, token string) (profile.Profile, error) {
	var out profile.Profile
	err := c.do(ctx, http.MethodGet, "/api/profiles/me", token, nil, &out)
	return out, err
}

func (c *Client) ListProfiles(ctx context.Context, token string, detailed bool) ([]profile.Profile, error) {
	path := "/api/profiles/basic"
	if detailed {
		path = "/api/profiles/detailed"
	}
	var out []profile.Profile
	err := c.do(ctx, http.MethodGet, path, token, nil, &out)
	return out, err
}

func (c *Client) GetProfile(ctx context.Context, token, id string, detailed bool) (profile.Profile, error) {
	variant := "basic"
	if detailed {
		variant = "detailed"
	}
	var out profile.Profile
	err := c.do(ctx, http.MethodGet, "/api/profiles/"+url.PathEscape(id)+"/"+variant, token, nil, &out)
	return out, err
}

func (c *Client) UpdateProfile(ctx context.Context, token, id string, in ProfileUpdate) (profile.Profile, error) {
	var out profile.Profile
	err := c.do(ctx, http.MethodPut, "/api/profiles/"+url.PathEscape(id), token, in, &out)
	return out, err
}

func (c *Client) ListFeedback(ctx context.Context, token, profileID string) ([]feedback.Feedback, error) {
	var out []feedback.Feedback
	err := c.do(ctx, http.MethodGet, "/api/profiles/"+url.PathEscape(profileID)+"/feedback", token, nil, &out)
	return out, err
}

func (c *Client) LeaveFeedback(ctx context.Context, token, profileID, text string) (feedback.Feedback, error) {
	var out feedback.Feedback
	err := c.do(ctx, http.MethodPost, "/api/profiles/"+url.PathEscape(profileID)+"/feedback", token, map[string]string{"feedbackText": text}, &out)
	return out, err
}

func (c *Client) MyRequests(ctx context.Context, token string) ([]absence.Request, error) {
	var out []absence.Request
	err := c.do(ctx, http.MethodGet, "/api/absence-requests/my", token, nil, &out)
	return out, err
}

func (c *Client) AllRequests(ctx context.Context, token string) ([]absence.Request, error) {
	var out []absence.Request
	err := c.do(ctx, http.MethodGet, "/api/absence-requests/all", token, nil, &out)
	return out, err
}

func (c *Client) PendingRequests(ctx context.Context, token string) ([]absence.Request, error) {
	var out []absence.Request
	err := c.do(ctx, http.MethodGet, "/api/absence-requests/pending", token, nil, &out)
	return out, err
}

func (c *Client) CreateRequest(ctx context.Context, token string, in NewAbsenceRequest) (absence.Request, error) {
	var out absence.Request
	err := c.do(ctx, http.MethodPost, "/api/absence-requests", token, in, &out)
	return out, err
}

func (c *Client) DecideRequest(ctx context.Context, token, id string, d Decision) (absence.Request, error) {
	var out absence.Request
	err := c.do(ctx, http.MethodPut, "/api/absence-requests/"+url.PathEscape(id)+"/approve", token, d, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if reqID := requestctx.RequestID(ctx); reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrTransport, path, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, Code: "unknown", Message: http.StatusText(resp.StatusCode)}
		if env, err := api.Decode(raw, nil); err == nil && env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if _, err := api.Decode(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
