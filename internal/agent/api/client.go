// Package api содержит HTTP-клиент для взаимодействия с сервером учётных записей.
//
// Клиент инкапсулирует базовый URL сервера и настроенный http.Client,
// предоставляя методы для JSON-запросов (POST/GET) и чтения текстовых
// ответов с авторизацией через Bearer токен.
//
// Особенности:
//   - baseURL нормализуется (обрезаются завершающие "/").
//   - Заголовок Content-Type: application/json добавляется только при наличии тела запроса.
//   - При ответах 204 No Content тело не читается и это считается успехом.
//   - Пустое тело ответа (EOF при декодировании) не считается ошибкой.
//   - При ошибочных ответах (не 2xx) возвращается *APIError со статусом и текстом тела.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// defaultTimeout — таймаут одного запроса к серверу.
const defaultTimeout = 10 * time.Second

// Client реализует HTTP-клиент для общения с сервером учётных записей.
type Client struct {
	baseURL string
	http    *http.Client
}

// APIError — ответ сервера с кодом не 2xx.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// StatusCode возвращает HTTP-статус, если err — ошибка ответа сервера, иначе 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// NewClient создаёт новый HTTP-клиент для общения с сервером.
//
// insecure отключает проверку TLS-сертификата сервера. Это допустимо только
// для локальной разработки с самоподписанным сертификатом (флаг --insecure).
func NewClient(baseURL string, insecure bool) *Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if insecure {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   defaultTimeout,
			Transport: tr,
		},
	}
}

// readAPIErrorBody читает тело ответа сервера и возвращает *APIError.
// Если тело пустое, в Message попадает res.Status.
func readAPIErrorBody(res *http.Response) error {
	raw, _ := io.ReadAll(res.Body)
	msg := strings.TrimSpace(string(raw))

	// сервер отвечает {"error": "..."} для JSON-эндпоинтов
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	if msg == "" {
		msg = res.Status
	}
	return &APIError{StatusCode: res.StatusCode, Message: msg}
}

// decodeJSONOrOK декодирует JSON из r в resp.
// resp == nil и пустое тело (io.EOF) ошибкой не считаются.
func decodeJSONOrOK(r io.Reader, resp any) error {
	if resp == nil {
		return nil
	}
	err := json.NewDecoder(r).Decode(resp)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// do отправляет запрос и возвращает ответ с кодом 2xx.
// Вызывающий обязан закрыть res.Body.
func (c *Client) do(ctx context.Context, method, path string, body any, accept, authToken string) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	r, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	r.Header.Set("Accept", accept)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if authToken != "" {
		r.Header.Set("Authorization", "Bearer "+authToken)
	}

	res, err := c.http.Do(r)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		defer res.Body.Close()
		return nil, readAPIErrorBody(res)
	}
	return res, nil
}

// PostJSON выполняет POST-запрос к серверу, сериализуя req в JSON,
// и декодирует JSON-ответ в resp (если resp != nil).
//
// authToken, если непустой, передаётся в заголовке Authorization: Bearer <token>.
func (c *Client) PostJSON(ctx context.Context, path string, req any, resp any, authToken string) error {
	res, err := c.do(ctx, http.MethodPost, path, req, "application/json", authToken)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	// 204/пустое тело — ок
	if res.StatusCode == http.StatusNoContent {
		return nil
	}
	return decodeJSONOrOK(res.Body, resp)
}

// GetJSON выполняет GET-запрос к серверу и (опционально) декодирует JSON-ответ.
func (c *Client) GetJSON(ctx context.Context, path string, resp any, authToken string) error {
	res, err := c.do(ctx, http.MethodGet, path, nil, "application/json", authToken)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNoContent {
		return nil
	}
	return decodeJSONOrOK(res.Body, resp)
}

// GetText выполняет GET-запрос и возвращает тело ответа как строку.
//
// Используется для эндпоинтов, отвечающих text/plain (например, /accounts/details/).
func (c *Client) GetText(ctx context.Context, path string, authToken string) (string, error) {
	res, err := c.do(ctx, http.MethodGet, path, nil, "text/plain", authToken)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
