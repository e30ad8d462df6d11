package facade

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"icd201_backend/internal/export"
	"icd201_backend/internal/model"
	"icd201_backend/internal/planner"
	"icd201_backend/pkg/logger"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const DefaultTimeout = 10 * time.Second

// HTTPClient 通过 REST API 访问后端。每个请求有固定超时，不自动重试
type HTTPClient struct {
	baseURL string
	http    *http.Client
	now     func() time.Time
}

type Option func(*HTTPClient)

// WithTransport 替换底层传输（测试时注入假实现）
func WithTransport(rt http.RoundTripper) Option {
	return func(c *HTTPClient) {
		c.http.Transport = rt
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *HTTPClient) {
		c.now = now
	}
}

// NewHTTPClient baseURL 为后端地址（不含 /api），timeout <= 0 时使用 10 秒
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...Option) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &HTTPClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/") + "/api",
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Facade = (*HTTPClient)(nil)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Detail  string          `json:"detail"`
	Data    json.RawMessage `json:"data"`
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, unexpectedError(err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, unexpectedError(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// send 发送请求并读取完整响应体；非 2xx 状态转换为分类错误
func (c *HTTPClient) send(req *http.Request) (*http.Response, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Log.Debug("API request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Error(err))
		return nil, nil, networkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, networkError(err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var env envelope
		_ = json.Unmarshal(raw, &env)
		msg := env.Detail
		if msg == "" {
			msg = env.Message
		}
		return resp, raw, statusError(resp.StatusCode, msg)
	}
	return resp, raw, nil
}

// call 发送 JSON 请求并把信封中的 data 解码到 out
func (c *HTTPClient) call(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	_, raw, err := c.send(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return unexpectedError(fmt.Errorf("decode response: %w", err))
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return unexpectedError(fmt.Errorf("decode response data: %w", err))
	}
	return nil
}

func uintPath(format string, ids ...uint) string {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return fmt.Sprintf(format, args...)
}

func (c *HTTPClient) ListUnits(ctx context.Context) ([]model.Unit, error) {
	var units []model.Unit
	err := c.call(ctx, http.MethodGet, "/units", nil, nil, &units)
	return units, err
}

func (c *HTTPClient) GetUnit(ctx context.Context, id uint) (*model.Unit, error) {
	var unit model.Unit
	if err := c.call(ctx, http.MethodGet, uintPath("/units/%d", id), nil, nil, &unit); err != nil {
		return nil, err
	}
	return &unit, nil
}

func (c *HTTPClient) CreateUnit(ctx context.Context, in model.UnitInput) (*model.Unit, error) {
	var unit model.Unit
	if err := c.call(ctx, http.MethodPost, "/units", nil, in, &unit); err != nil {
		return nil, err
	}
	return &unit, nil
}

func (c *HTTPClient) UpdateUnit(ctx context.Context, id uint, patch model.UnitPatch) (*model.Unit, error) {
	var unit model.Unit
	if err := c.call(ctx, http.MethodPut, uintPath("/units/%d", id), nil, patch, &unit); err != nil {
		return nil, err
	}
	return &unit, nil
}

func (c *HTTPClient) DeleteUnit(ctx context.Context, id uint) error {
	return c.call(ctx, http.MethodDelete, uintPath("/units/%d", id), nil, nil, nil)
}

func (c *HTTPClient) AddLesson(ctx context.Context, unitID uint, in model.LessonInput) (*model.Unit, error) {
	var unit model.Unit
	if err := c.call(ctx, http.MethodPost, uintPath("/units/%d/lessons", unitID), nil, in, &unit); err != nil {
		return nil, err
	}
	return &unit, nil
}

func (c *HTTPClient) UpdateLesson(ctx context.Context, unitID, lessonID uint, patch model.LessonPatch) (*model.Unit, error) {
	var unit model.Unit
	if err := c.call(ctx, http.MethodPut, uintPath("/units/%d/lessons/%d", unitID, lessonID), nil, patch, &unit); err != nil {
		return nil, err
	}
	return &unit, nil
}

func (c *HTTPClient) DeleteLesson(ctx context.Context, unitID, lessonID uint) (*model.Unit, error) {
	var unit model.Unit
	if err := c.call(ctx, http.MethodDelete, uintPath("/units/%d/lessons/%d", unitID, lessonID), nil, nil, &unit); err != nil {
		return nil, err
	}
	return &unit, nil
}

func (c *HTTPClient) ListResources(ctx context.Context) ([]model.Resource, error) {
	var resources []model.Resource
	err := c.call(ctx, http.MethodGet, "/resources", nil, nil, &resources)
	return resources, err
}

func (c *HTTPClient) GetResource(ctx context.Context, id string) (*model.Resource, error) {
	var resource model.Resource
	if err := c.call(ctx, http.MethodGet, "/resources/"+url.PathEscape(id), nil, nil, &resource); err != nil {
		return nil, err
	}
	return &resource, nil
}

func (c *HTTPClient) CreateResource(ctx context.Context, in model.ResourceInput) (*model.Resource, error) {
	var resource model.Resource
	if err := c.call(ctx, http.MethodPost, "/resources", nil, in, &resource); err != nil {
		return nil, err
	}
	return &resource, nil
}

func (c *HTTPClient) UpdateResource(ctx context.Context, id string, patch model.ResourcePatch) (*model.Resource, error) {
	var resource model.Resource
	if err := c.call(ctx, http.MethodPut, "/resources/"+url.PathEscape(id), nil, patch, &resource); err != nil {
		return nil, err
	}
	return &resource, nil
}

func (c *HTTPClient) DeleteResource(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/resources/"+url.PathEscape(id), nil, nil, nil)
}

func (c *HTTPClient) GetResourceUsage(ctx context.Context, id string) (*planner.ResourceUsage, error) {
	var usage planner.ResourceUsage
	if err := c.call(ctx, http.MethodGet, "/resources/"+url.PathEscape(id)+"/usage", nil, nil, &usage); err != nil {
		return nil, err
	}
	return &usage, nil
}

func (c *HTTPClient) ListEvents(ctx context.Context, filter planner.EventFilter) ([]model.CalendarEvent, error) {
	query := url.Values{}
	if filter.UnitID != nil {
		query.Set("unit_id", strconv.FormatUint(uint64(*filter.UnitID), 10))
	}
	if filter.ResourceID != "" {
		query.Set("resource_id", filter.ResourceID)
	}
	var events []model.CalendarEvent
	err := c.call(ctx, http.MethodGet, "/calendar/events", query, nil, &events)
	return events, err
}

func (c *HTTPClient) GetEvent(ctx context.Context, id uint) (*model.CalendarEvent, error) {
	var event model.CalendarEvent
	if err := c.call(ctx, http.MethodGet, uintPath("/calendar/events/%d", id), nil, nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *HTTPClient) CreateEvent(ctx context.Context, in model.EventInput) (*model.CalendarEvent, error) {
	var event model.CalendarEvent
	if err := c.call(ctx, http.MethodPost, "/calendar/events", nil, in, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *HTTPClient) UpdateEvent(ctx context.Context, id uint, patch model.EventPatch) (*model.CalendarEvent, error) {
	var event model.CalendarEvent
	if err := c.call(ctx, http.MethodPut, uintPath("/calendar/events/%d", id), nil, patch, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *HTTPClient) DeleteEvent(ctx context.Context, id uint) error {
	return c.call(ctx, http.MethodDelete, uintPath("/calendar/events/%d", id), nil, nil, nil)
}

func (c *HTTPClient) GetWeeksView(ctx context.Context) ([]planner.Week, error) {
	var weeks []planner.Week
	err := c.call(ctx, http.MethodGet, "/calendar/weeks", nil, nil, &weeks)
	return weeks, err
}

func (c *HTTPClient) GetConflicts(ctx context.Context) (*ConflictReport, error) {
	var report ConflictReport
	if err := c.call(ctx, http.MethodGet, "/calendar/conflicts", nil, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *HTTPClient) GetSettings(ctx context.Context) (*model.CourseSettings, error) {
	var settings model.CourseSettings
	if err := c.call(ctx, http.MethodGet, "/settings", nil, nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (c *HTTPClient) UpdateSettings(ctx context.Context, patch model.SettingsPatch) (*model.CourseSettings, error) {
	var settings model.CourseSettings
	if err := c.call(ctx, http.MethodPut, "/settings", nil, patch, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// ExportDocument 下载 PDF。文件名优先取 Content-Disposition，否则按当天日期命名
func (c *HTTPClient) ExportDocument(ctx context.Context, opts export.Options) (*export.Document, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/export/pdf", nil, opts)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", export.ContentType(model.ExportPDF))

	resp, raw, err := c.send(req)
	if err != nil {
		return nil, err
	}

	doc := &export.Document{
		Filename:    export.Filename(model.ExportPDF, c.now()),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        raw,
	}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		doc.Filename = params["filename"]
	}
	if doc.ContentType == "" {
		doc.ContentType = export.ContentType(model.ExportPDF)
	}
	return doc, nil
}

func (c *HTTPClient) PreviewExport(ctx context.Context, opts export.Options) (*export.Preview, error) {
	var preview export.Preview
	if err := c.call(ctx, http.MethodPost, "/export/preview", nil, opts, &preview); err != nil {
		return nil, err
	}
	return &preview, nil
}

// CheckConnection 请求握手接口，返回服务端的问候语
func (c *HTTPClient) CheckConnection(ctx context.Context) Connection {
	req, err := c.newRequest(ctx, http.MethodGet, "/", nil, nil)
	if err != nil {
		return Connection{Error: err.Error()}
	}
	_, raw, err := c.send(req)
	if err != nil {
		var fe *Error
		if errors.As(err, &fe) && fe.Err != nil {
			return Connection{Error: fe.Err.Error()}
		}
		return Connection{Error: err.Error()}
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Connection{Error: err.Error()}
	}
	return Connection{Connected: true, Message: env.Message}
}
