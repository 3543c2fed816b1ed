// Package client talks to the asset catalog REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/api/services"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/models"
)

// APIError is a non-2xx response carrying the server's message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 5 * time.Minute},
	}
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (c *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	var out tokenResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out tokenResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) Me(ctx context.Context) (models.UserView, error) {
	var out struct {
		User models.UserView `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &out)
	return out.User, err
}

func (c *Client) ListAssets(ctx context.Context) ([]models.Asset, error) {
	var out []models.Asset
	err := c.do(ctx, http.MethodGet, "/api/assets", nil, &out)
	return out, err
}

func (c *Client) GetAsset(ctx context.Context, id string) (models.Asset, error) {
	var out models.Asset
	err := c.do(ctx, http.MethodGet, "/api/assets/"+url.PathEscape(id), nil, &out)
	return out, err
}

// CreateAsset posts the given fields as-is; the server decides the owner.
func (c *Client) CreateAsset(ctx context.Context, fields map[string]any) (models.Asset, error) {
	var out models.Asset
	err := c.do(ctx, http.MethodPost, "/api/assets", fields, &out)
	return out, err
}

func (c *Client) UpdateAsset(ctx context.Context, id string, fields map[string]any) (models.Asset, error) {
	var out models.Asset
	err := c.do(ctx, http.MethodPut, "/api/assets/"+url.PathEscape(id), fields, &out)
	return out, err
}

func (c *Client) DeleteAsset(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/assets/"+url.PathEscape(id), nil, nil)
}

// Upload sends the preview image and the asset file in one multipart request.
// Empty paths are skipped.
func (c *Client) Upload(ctx context.Context, imagePath, filePath string) (services.UploadResult, error) {
	var result services.UploadResult
	if imagePath == "" && filePath == "" {
		return result, errors.New("no files to upload")
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := writeParts(mw, map[string]string{"image": imagePath, "file": filePath})
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/api/uploads", pr)
	if err != nil {
		pr.Close()
		return result, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	err = c.send(req, &result)
	return result, err
}

func writeParts(mw *multipart.Writer, parts map[string]string) error {
	for _, field := range []string{"image", "file"} {
		path := parts[field]
		if path == "" {
			continue
		}
		if err := writePart(mw, field, path); err != nil {
			return err
		}
	}
	return nil
}

func writePart(mw *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	part, err := mw.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&msg)
		return &APIError{Status: resp.StatusCode, Message: msg.Message}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
