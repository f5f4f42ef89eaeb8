package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aurabox/internal/model"
)

// errAuthRequired 游客额度用尽
var errAuthRequired = errors.New("sign in to continue chatting")

// widgetClient 组件 HTTP API 客户端
type widgetClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	sessionID  string
}

func newWidgetClient(baseURL, token string, timeout time.Duration) *widgetClient {
	return &widgetClient{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api/v1/widget/sessions",
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *widgetClient) mount(ctx context.Context, lang string) (*model.SessionResponse, error) {
	var snap model.SessionResponse
	status, err := c.call(ctx, http.MethodPost, "", model.MountRequest{Language: lang}, &snap)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, fmt.Errorf("mount failed with status %d", status)
	}
	c.sessionID = snap.ID
	return &snap, nil
}

// send 返回 nil, nil 表示空消息被忽略
func (c *widgetClient) send(ctx context.Context, req model.SendMessageRequest) (*model.SendMessageResponse, error) {
	var resp model.SendMessageResponse
	status, err := c.call(ctx, http.MethodPost, "/"+c.sessionID+"/messages", req, &resp)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		return &resp, nil
	case http.StatusNoContent:
		return nil, nil
	case http.StatusForbidden:
		return nil, errAuthRequired
	default:
		return nil, fmt.Errorf("send failed with status %d", status)
	}
}

func (c *widgetClient) setLanguage(ctx context.Context, lang string) error {
	status, err := c.call(ctx, http.MethodPut, "/"+c.sessionID+"/language", model.LanguageRequest{Language: lang}, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("unsupported language %q", lang)
	}
	return nil
}

func (c *widgetClient) unmount(ctx context.Context) error {
	if c.sessionID == "" {
		return nil
	}
	_, err := c.call(ctx, http.MethodDelete, "/"+c.sessionID, nil, nil)
	return err
}

func (c *widgetClient) call(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
