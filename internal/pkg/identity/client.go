package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/maksab-hq/maksab-admin/internal/pkg/env"
)

const defaultAPIBaseURL = "https://api.clerk.com/v1"

// Client talks to the identity provider's backend admin API. It is the
// only path through which organization and user records are read or
// written; this service keeps no authoritative copy of them.
type Client struct {
	SecretKey  string
	APIBaseURL string

	HTTPClient *http.Client
}

// NewClientFromEnv builds a client from IDENTITY_* environment variables.
func NewClientFromEnv() *Client {
	return &Client{
		SecretKey:  strings.TrimSpace(env.GetEnv("IDENTITY_SECRET_KEY", "")),
		APIBaseURL: strings.TrimRight(env.GetEnv("IDENTITY_API_BASE_URL", defaultAPIBaseURL), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ListOrganizations fetches one page of organizations.
func (c *Client) ListOrganizations(ctx context.Context, params ListParams) (*OrganizationList, error) {
	var out OrganizationList
	if err := c.do(ctx, http.MethodGet, "/organizations"+listQuery(params), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch organizations: %w", err)
	}
	return &out, nil
}

// GetOrganization fetches a single organization by provider ID.
func (c *Client) GetOrganization(ctx context.Context, organizationID string) (*Organization, error) {
	if strings.TrimSpace(organizationID) == "" {
		return nil, errors.New("organization id is required")
	}
	var out Organization
	if err := c.do(ctx, http.MethodGet, "/organizations/"+url.PathEscape(organizationID), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch organization: %w", err)
	}
	return &out, nil
}

// CreateOrganization creates an organization owned by CreatedBy.
func (c *Client) CreateOrganization(ctx context.Context, params CreateOrganizationParams) (*Organization, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, errors.New("organization name is required")
	}
	var out Organization
	if err := c.do(ctx, http.MethodPost, "/organizations", params, &out); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}
	return &out, nil
}

// UpdateOrganization applies a partial update. Metadata maps replace the
// whole scope; see UpdateOrganizationParams.
func (c *Client) UpdateOrganization(ctx context.Context, organizationID string, params UpdateOrganizationParams) (*Organization, error) {
	if strings.TrimSpace(organizationID) == "" {
		return nil, errors.New("organization id is required")
	}
	var out Organization
	if err := c.do(ctx, http.MethodPatch, "/organizations/"+url.PathEscape(organizationID), params, &out); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}
	return &out, nil
}

// DeleteOrganization removes an organization from the provider.
func (c *Client) DeleteOrganization(ctx context.Context, organizationID string) error {
	if strings.TrimSpace(organizationID) == "" {
		return errors.New("organization id is required")
	}
	if err := c.do(ctx, http.MethodDelete, "/organizations/"+url.PathEscape(organizationID), nil, nil); err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}
	return nil
}

// ListUsers fetches one page of users.
func (c *Client) ListUsers(ctx context.Context, params ListParams) (*UserList, error) {
	var out UserList
	if err := c.do(ctx, http.MethodGet, "/users"+listQuery(params), nil, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return &out, nil
}

// CreateUser creates a provider user.
func (c *Client) CreateUser(ctx context.Context, params CreateUserParams) (*User, error) {
	if len(params.EmailAddress) == 0 {
		return nil, errors.New("at least one email address is required")
	}
	var out User
	if err := c.do(ctx, http.MethodPost, "/users", params, &out); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &out, nil
}

// UpdateUser applies a partial user update.
func (c *Client) UpdateUser(ctx context.Context, userID string, params UpdateUserParams) (*User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("user id is required")
	}
	var out User
	if err := c.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(userID), params, &out); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &out, nil
}

// DeleteUser removes a provider user.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return errors.New("user id is required")
	}
	if err := c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(userID), nil, nil); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// DeleteUsers removes several users. The first failure aborts the
// batch; the count of users deleted before the failure is returned.
func (c *Client) DeleteUsers(ctx context.Context, userIDs []string) (int, error) {
	for i, id := range userIDs {
		if err := c.DeleteUser(ctx, id); err != nil {
			return i, err
		}
	}
	return len(userIDs), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if strings.TrimSpace(c.SecretKey) == "" {
		return errors.New("IDENTITY_SECRET_KEY is not configured")
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.APIBaseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("identity API %s %s failed: status=%d body=%s", method, path, resp.StatusCode, string(raw))
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func listQuery(params ListParams) string {
	q := url.Values{}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}
	if params.Query != "" {
		q.Set("query", params.Query)
	}
	if params.IncludeMembersCount {
		q.Set("include_members_count", "true")
	}
	if params.OrderBy != "" {
		q.Set("order_by", params.OrderBy)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
