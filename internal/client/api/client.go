package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/medsync/pkg/api"
)

//go:generate moq -out client_mock.go . ClientAPI

// ErrNotFound indicates that the backend has no data for the resource.
// Absence of a 200-with-body is "not found", not a hard failure.
var ErrNotFound = errors.New("resource not found")

// TokenProvider supplies the bearer token attached to outgoing requests.
// Token refresh itself lives outside this client.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// ClientAPI определяет интерфейс для клиента бэкенда.
// Бэкенд моделирует один и тот же логический ресурс двумя маршрутами
// (user-profile и patient-specific), поэтому оба представлены явно.
type ClientAPI interface {
	// GetUserProfile запрашивает профиль через user-маршрут
	// Возвращает (nil, nil), если данных нет
	GetUserProfile(ctx context.Context, patientID string) (*api.PatientProfile, error)

	// GetPatientProfile запрашивает профиль через patient-маршрут
	// Возвращает (nil, nil), если данных нет
	GetPatientProfile(ctx context.Context, patientID string) (*api.PatientProfile, error)

	// GetBatchInfo запрашивает профили нескольких пациентов одним вызовом
	GetBatchInfo(ctx context.Context, patientIDs []string) (*api.BatchInfoResponse, error)

	// GetLastModified запрашивает server-side время последнего изменения профиля
	// Возвращает (nil, nil), если сервер его не знает
	GetLastModified(ctx context.Context, patientID string) (*api.LastModifiedResponse, error)
}

// Client представляет HTTP клиент для взаимодействия с бэкендом
type Client struct {
	httpClient *http.Client
	tokens     TokenProvider
	baseURL    string
}

// NewClient создает новый API клиент. tokens может быть nil —
// тогда запросы уходят без Authorization заголовка.
func NewClient(baseURL string, tokens TokenProvider) *Client {
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовок Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// GetUserProfile запрашивает профиль через user-маршрут
func (c *Client) GetUserProfile(ctx context.Context, patientID string) (*api.PatientProfile, error) {
	var resp api.PatientProfile
	path := fmt.Sprintf("/users/%s/profile", url.PathEscape(patientID))
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user profile request failed: %w", err)
	}
	return &resp, nil
}

// GetPatientProfile запрашивает профиль через patient-маршрут
func (c *Client) GetPatientProfile(ctx context.Context, patientID string) (*api.PatientProfile, error) {
	var resp api.PatientProfile
	path := fmt.Sprintf("/patients/%s/profile", url.PathEscape(patientID))
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get patient profile request failed: %w", err)
	}
	return &resp, nil
}

// GetBatchInfo запрашивает профили нескольких пациентов одним вызовом
func (c *Client) GetBatchInfo(ctx context.Context, patientIDs []string) (*api.BatchInfoResponse, error) {
	var resp api.BatchInfoResponse
	path := "/patients/batch-info?ids=" + url.QueryEscape(strings.Join(patientIDs, ","))
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return &api.BatchInfoResponse{}, nil
		}
		return nil, fmt.Errorf("batch info request failed: %w", err)
	}
	return &resp, nil
}

// GetLastModified запрашивает server-side время последнего изменения профиля
func (c *Client) GetLastModified(ctx context.Context, patientID string) (*api.LastModifiedResponse, error) {
	var resp api.LastModifiedResponse
	path := fmt.Sprintf("/patients/%s/last-modified", url.PathEscape(patientID))
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("last modified request failed: %w", err)
	}
	return &resp, nil
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	reqURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to get access token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Отсутствие 200 с телом трактуем как not found, а не как жесткую ошибку
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent {
		return ErrNotFound
	}
	if resp.StatusCode == http.StatusOK && len(respBody) == 0 {
		return ErrNotFound
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
