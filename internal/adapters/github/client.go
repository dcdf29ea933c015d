package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"techcalendar/internal/domain"
)

const defaultBaseURL = "https://api.github.com"

type client struct {
	httpClient *http.Client
	baseURL    string
	repo       string // "owner/name"
	token      string
}

// NewClient returns a BackupRepoClient that talks to the GitHub REST API for
// the given "owner/name" repository.
func NewClient(httpClient *http.Client, repo, token string) domain.BackupRepoClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		repo:       repo,
		token:      token,
	}
}

// NewClientWithBaseURL is NewClient with an overridable API base URL, used in
// tests.
func NewClientWithBaseURL(httpClient *http.Client, baseURL, repo, token string) domain.BackupRepoClient {
	c := NewClient(httpClient, repo, token).(*client)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

func (c *client) GetFile(ctx context.Context, path, ref string) (*domain.RepoFile, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/contents/%s?ref=%s", c.baseURL, c.repo, path, url.QueryEscape(ref))
	var out struct {
		SHA     string `json:"sha"`
		Content string `json:"content"`
	}
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	// The contents API returns base64 with embedded newlines.
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(out.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("decode file content: %w", err)
	}
	return &domain.RepoFile{SHA: out.SHA, Content: raw}, nil
}

func (c *client) CreateBranch(ctx context.Context, branch, fromBranch string) error {
	endpoint := fmt.Sprintf("%s/repos/%s/git/ref/heads/%s", c.baseURL, c.repo, fromBranch)
	var ref struct {
		Object struct {
			SHA string `json:"sha"`
		} `json:"object"`
	}
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &ref); err != nil {
		return fmt.Errorf("resolve base branch: %w", err)
	}

	body := map[string]string{
		"ref": "refs/heads/" + branch,
		"sha": ref.Object.SHA,
	}
	endpoint = fmt.Sprintf("%s/repos/%s/git/refs", c.baseURL, c.repo)
	return c.do(ctx, http.MethodPost, endpoint, body, nil)
}

func (c *client) PutFile(ctx context.Context, path, branch, message string, content []byte, sha string) error {
	body := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
		"branch":  branch,
	}
	if sha != "" {
		body["sha"] = sha
	}
	endpoint := fmt.Sprintf("%s/repos/%s/contents/%s", c.baseURL, c.repo, path)
	return c.do(ctx, http.MethodPut, endpoint, body, nil)
}

func (c *client) CreatePull(ctx context.Context, title, body, head, base string) (string, error) {
	payload := map[string]string{
		"title": title,
		"body":  body,
		"head":  head,
		"base":  base,
	}
	var out struct {
		HTMLURL string `json:"html_url"`
	}
	endpoint := fmt.Sprintf("%s/repos/%s/pulls", c.baseURL, c.repo)
	if err := c.do(ctx, http.MethodPost, endpoint, payload, &out); err != nil {
		return "", err
	}
	return out.HTMLURL, nil
}

func (c *client) HasOpenPullWithPrefix(ctx context.Context, prefix, base string) (bool, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/pulls?state=open&base=%s", c.baseURL, c.repo, url.QueryEscape(base))
	var pulls []struct {
		Title string `json:"title"`
	}
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &pulls); err != nil {
		return false, err
	}
	for _, p := range pulls {
		if strings.HasPrefix(p.Title, prefix) {
			return true, nil
		}
	}
	return false, nil
}

func (c *client) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call github: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("github api returned status: %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode github response: %w", err)
	}
	return nil
}
