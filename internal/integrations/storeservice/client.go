package storeservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы со StoreService (справочник магазинов,
// мест обслуживания и сотрудников)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента StoreService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetStore получает магазин по ID
func (c *Client) GetStore(ctx context.Context, storeID int64) (*Store, error) {
	url := fmt.Sprintf("%s/internal/stores/%d", c.baseURL, storeID)

	var store Store
	if err := c.getJSON(ctx, url, &store, ErrStoreNotFound); err != nil {
		return nil, err
	}
	return &store, nil
}

// GetFacilities получает список мест обслуживания магазина
func (c *Client) GetFacilities(ctx context.Context, storeID int64) ([]Facility, error) {
	url := fmt.Sprintf("%s/internal/stores/%d/facilities", c.baseURL, storeID)

	var facilities []Facility
	if err := c.getJSON(ctx, url, &facilities, ErrStoreNotFound); err != nil {
		return nil, err
	}
	return facilities, nil
}

// GetStaff получает список сотрудников магазина
func (c *Client) GetStaff(ctx context.Context, storeID int64) ([]Staff, error) {
	url := fmt.Sprintf("%s/internal/stores/%d/staff", c.baseURL, storeID)

	var staff []Staff
	if err := c.getJSON(ctx, url, &staff, ErrStoreNotFound); err != nil {
		return nil, err
	}
	return staff, nil
}

// getJSON выполняет GET запрос и декодирует JSON ответ.
// notFound - ошибка, возвращаемая при статусе 404.
func (c *Client) getJSON(ctx context.Context, url string, dst interface{}, notFound error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
