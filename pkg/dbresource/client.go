// Package dbresource 资源池接口客户端：每个方法对应后端 /apis/dbresource/resource 下的一个接口，
// 只负责参数序列化与响应反序列化，不做校验与重试。
package dbresource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	resty "github.com/go-resty/resty/v2"
)

// BasePath 资源池接口前缀
const BasePath = "/apis/dbresource/resource"

// CodePermissionDenied 后端无权限错误码
const CodePermissionDenied = 9900403

// Config 客户端配置
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Headers 每个请求都会携带的公共头（如登录票据、租户）
	Headers map[string]string
	// HTTPClient 可选，替换底层 http.Client（测试时注入）
	HTTPClient *http.Client
}

// Client 资源池接口客户端
type Client struct {
	rc *resty.Client
}

// New 创建客户端
func New(cfg Config) *Client {
	var rc *resty.Client
	if cfg.HTTPClient != nil {
		rc = resty.NewWithClient(cfg.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	if cfg.Timeout > 0 {
		rc.SetTimeout(cfg.Timeout)
	}
	rc.SetHeader("Accept", "application/json")
	for k, v := range cfg.Headers {
		rc.SetHeader(k, v)
	}
	return &Client{rc: rc}
}

// PermissionMode 无权限时的处理方式
type PermissionMode string

const (
	// PermissionCatch 返回 *APIError（默认）
	PermissionCatch PermissionMode = "catch"
	// PermissionIgnore 忽略无权限错误，返回空结果
	PermissionIgnore PermissionMode = "ignore"
)

// RequestPayload 单次请求的附加选项
type RequestPayload struct {
	Headers    map[string]string
	Permission PermissionMode
}

func mergePayload(payloads []RequestPayload) RequestPayload {
	out := RequestPayload{Headers: map[string]string{}, Permission: PermissionCatch}
	for _, p := range payloads {
		for k, v := range p.Headers {
			out.Headers[k] = v
		}
		if p.Permission != "" {
			out.Permission = p.Permission
		}
	}
	return out
}

type payloadKey struct{}

// WithPayload 将请求选项挂到 ctx 上，该 ctx 发出的所有请求都会带上，
// 方法参数中显式传入的 RequestPayload 优先
func WithPayload(ctx context.Context, p RequestPayload) context.Context {
	if prev, ok := ctx.Value(payloadKey{}).(RequestPayload); ok {
		p = mergePayload([]RequestPayload{prev, p})
	}
	return context.WithValue(ctx, payloadKey{}, p)
}

func payloadFromContext(ctx context.Context) (RequestPayload, bool) {
	p, ok := ctx.Value(payloadKey{}).(RequestPayload)
	return p, ok
}

// envelope 后端统一响应结构
type envelope struct {
	Result    *bool           `json:"result"`
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"request_id"`
}

// APIError 后端返回的业务错误或非 2xx 状态
type APIError struct {
	Method    string
	Path      string
	Status    int
	Code      int
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.RequestID != "" {
		return fmt.Sprintf("%s %s: status %d code %d: %s (request_id=%s)", e.Method, e.Path, e.Status, e.Code, msg, e.RequestID)
	}
	return fmt.Sprintf("%s %s: status %d code %d: %s", e.Method, e.Path, e.Status, e.Code, msg)
}

// IsPermissionDenied 是否为无权限错误
func (e *APIError) IsPermissionDenied() bool {
	return e.Code == CodePermissionDenied || e.Status == http.StatusForbidden
}

// IsAPIError 判断 err 链中是否包含 *APIError
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// do 发送请求并将 envelope.data 解码到 out（out 为 nil 时丢弃）
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}, payloads ...RequestPayload) error {
	if p, ok := payloadFromContext(ctx); ok {
		payloads = append([]RequestPayload{p}, payloads...)
	}
	payload := mergePayload(payloads)

	req := c.rc.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	for k, v := range payload.Headers {
		req.SetHeader(k, v)
	}

	fullPath := BasePath + path
	resp, err := req.Execute(method, fullPath)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, fullPath, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(resp.Body(), &env)

	if resp.IsError() || (decodeErr == nil && (env.Code != 0 || (env.Result != nil && !*env.Result))) {
		apiErr := &APIError{
			Method:    method,
			Path:      fullPath,
			Status:    resp.StatusCode(),
			Code:      env.Code,
			Message:   env.Message,
			RequestID: env.RequestID,
		}
		if apiErr.RequestID == "" {
			apiErr.RequestID = resp.Header().Get("X-Request-Id")
		}
		if payload.Permission == PermissionIgnore && apiErr.IsPermissionDenied() {
			return nil
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, fullPath, decodeErr)
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s %s: decode data: %w", method, fullPath, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}, payloads ...RequestPayload) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out, payloads...)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}, payloads ...RequestPayload) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, payloads...)
}
