package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// CaseResponse — тест-кейс из API.
type CaseResponse struct {
	ID             string   `json:"id"`
	CaseID         string   `json:"case_id"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Suite          string   `json:"suite,omitempty"`
	Priority       string   `json:"priority,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Status         string   `json:"last_status"`
	ExecutionOrder float64  `json:"execution_order"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

// CaseDetailResponse — тест-кейс с деревом шагов.
type CaseDetailResponse struct {
	CaseResponse
	Steps json.RawMessage `json:"steps"`
}

// SharedStepSummaryResponse — сводка shared step из API.
type SharedStepSummaryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	StepCount   int64  `json:"step_count"`
	RefCount    int64  `json:"ref_count"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// SharedStepResponse — shared step с определениями из API.
type SharedStepResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Steps       json.RawMessage `json:"steps"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

// --- Request types ---

// CreateCaseRequest — создание тест-кейса.
// Steps — сырой JSON-список шагов, его проверяет сервер.
type CreateCaseRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Suite       string          `json:"suite,omitempty"`
	Priority    string          `json:"priority,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Steps       json.RawMessage `json:"steps,omitempty"`
}

// UpdateCaseRequest — частичное обновление тест-кейса.
type UpdateCaseRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Suite       *string  `json:"suite,omitempty"`
	Priority    *string  `json:"priority,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Status      *string  `json:"last_status,omitempty"`
}

// ReplaceStepsRequest — полная замена шагов кейса.
type ReplaceStepsRequest struct {
	Steps json.RawMessage `json:"steps"`
}

// ReorderRequest — перемещение кейсов между якорями.
type ReorderRequest struct {
	PrevID   *string  `json:"prevId,omitempty"`
	NextID   *string  `json:"nextId,omitempty"`
	MovedIDs []string `json:"movedIds"`
}

// BulkDeleteRequest — массовое удаление кейсов.
type BulkDeleteRequest struct {
	CaseIDs []string `json:"case_ids"`
}

// CreateSharedStepRequest — создание shared step.
type CreateSharedStepRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Steps       json.RawMessage `json:"steps,omitempty"`
}

// UpdateSharedStepRequest — частичное обновление shared step.
type UpdateSharedStepRequest struct {
	Name        *string         `json:"name,omitempty"`
	Description *string         `json:"description,omitempty"`
	Steps       json.RawMessage `json:"steps,omitempty"`
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для Caseflow API.
type Client struct {
	baseURL    string
	actorID    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API. actorID может быть пустым.
func NewClient(baseURL, actorID string) *Client {
	return &Client{
		baseURL: baseURL,
		actorID: actorID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Test cases ---

// ListCases возвращает все тест-кейсы в порядке выполнения.
func (c *Client) ListCases() ([]CaseResponse, error) {
	var cases []CaseResponse
	err := c.list("/api/v1/cases", &cases)
	return cases, err
}

// CreateCase создаёт тест-кейс.
func (c *Client) CreateCase(req CreateCaseRequest) (*CaseResponse, error) {
	var tc CaseResponse
	err := c.post("/api/v1/cases", req, &tc)
	return &tc, err
}

// GetCase возвращает тест-кейс с деревом шагов.
func (c *Client) GetCase(code string) (*CaseDetailResponse, error) {
	var tc CaseDetailResponse
	err := c.get("/api/v1/cases/"+code, &tc)
	return &tc, err
}

// UpdateCase частично обновляет тест-кейс.
func (c *Client) UpdateCase(code string, req UpdateCaseRequest) (*CaseDetailResponse, error) {
	var tc CaseDetailResponse
	err := c.put("/api/v1/cases/"+code, req, &tc)
	return &tc, err
}

// ReplaceSteps целиком заменяет шаги кейса.
func (c *Client) ReplaceSteps(code string, steps json.RawMessage) (*CaseDetailResponse, error) {
	var tc CaseDetailResponse
	err := c.put("/api/v1/cases/"+code+"/steps", ReplaceStepsRequest{Steps: steps}, &tc)
	return &tc, err
}

// DeleteCase удаляет тест-кейс.
func (c *Client) DeleteCase(code string) error {
	return c.delete("/api/v1/cases/" + code)
}

// BulkDeleteCases удаляет несколько кейсов.
func (c *Client) BulkDeleteCases(codes []string) (json.RawMessage, error) {
	var result json.RawMessage
	err := c.post("/api/v1/cases/bulk-delete", BulkDeleteRequest{CaseIDs: codes}, &result)
	return result, err
}

// DuplicateCase создаёт копию кейса сразу после оригинала.
func (c *Client) DuplicateCase(code string) (*CaseResponse, error) {
	var tc CaseResponse
	err := c.post("/api/v1/cases/"+code+"/duplicate", nil, &tc)
	return &tc, err
}

// ReorderCases перемещает кейсы между якорями.
func (c *Client) ReorderCases(req ReorderRequest) (json.RawMessage, error) {
	var result json.RawMessage
	err := c.put("/api/v1/cases/reorder", req, &result)
	return result, err
}

// RebalanceOrder запускает ренормализацию ключей порядка.
func (c *Client) RebalanceOrder() (json.RawMessage, error) {
	var result json.RawMessage
	err := c.post("/api/v1/cases/rebalance-order", nil, &result)
	return result, err
}

// --- Shared steps ---

// ListSharedSteps возвращает сводки shared steps.
func (c *Client) ListSharedSteps() ([]SharedStepSummaryResponse, error) {
	var steps []SharedStepSummaryResponse
	err := c.list("/api/v1/shared-steps", &steps)
	return steps, err
}

// CreateSharedStep создаёт shared step.
func (c *Client) CreateSharedStep(req CreateSharedStepRequest) (*SharedStepResponse, error) {
	var ss SharedStepResponse
	err := c.post("/api/v1/shared-steps", req, &ss)
	return &ss, err
}

// GetSharedStep возвращает shared step с определениями.
func (c *Client) GetSharedStep(id string) (*SharedStepResponse, error) {
	var ss SharedStepResponse
	err := c.get("/api/v1/shared-steps/"+id, &ss)
	return &ss, err
}

// UpdateSharedStep обновляет shared step.
func (c *Client) UpdateSharedStep(id string, req UpdateSharedStepRequest) (*SharedStepResponse, error) {
	var ss SharedStepResponse
	err := c.put("/api/v1/shared-steps/"+id, req, &ss)
	return &ss, err
}

// DeleteSharedStep удаляет shared step.
func (c *Client) DeleteSharedStep(id string) error {
	return c.delete("/api/v1/shared-steps/" + id)
}

// --- Definitions ---

// GetDefinitions возвращает каталог действий, проверок и клавиш.
func (c *Client) GetDefinitions() (json.RawMessage, error) {
	var defs json.RawMessage
	err := c.get("/api/v1/definitions", &defs)
	return defs, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) put(path string, body any, result any) error {
	return c.doData(http.MethodPut, path, body, result)
}

func (c *Client) delete(path string) error {
	resp, err := c.do(http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkError(resp)
}

func (c *Client) list(path string, result any) error {
	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.actorID != "" {
		req.Header.Set("X-Actor-ID", c.actorID)
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
