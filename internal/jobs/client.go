package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ActiveDownloadsPath は進行中ジョブ一覧のエンドポイントです。
const ActiveDownloadsPath = "/active-downloads"

// FailureKind はポーリング失敗の種別です。
type FailureKind string

const (
	FailureHTTPStatus FailureKind = "http_status"
	FailureNetwork    FailureKind = "network"
	FailureDecode     FailureKind = "decode"
)

var errNullBody = errors.New("response body is null")

// FetchError は /active-downloads の取得に失敗したことを表します。
type FetchError struct {
	Kind       FailureKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FailureHTTPStatus:
		return fmt.Sprintf("active downloads: unexpected status %d", e.StatusCode)
	default:
		return fmt.Sprintf("active downloads: %s: %v", e.Kind, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client は進行中ジョブ一覧を取得する HTTP クライアントです。
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient は Client を作成します。httpClient が nil の場合はタイムアウトなしのクライアントを使います。
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// FetchActive は GET /active-downloads を呼び出してスナップショットを返します。
// 失敗時は常に *FetchError を返します。
func (c *Client) FetchActive(ctx context.Context) (*StatusSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ActiveDownloadsPath, nil)
	if err != nil {
		return nil, &FetchError{Kind: FailureNetwork, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: FailureNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{Kind: FailureHTTPStatus, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Kind: FailureNetwork, Err: err}
	}

	// 末尾に余計なデータが付いた本文も不正として扱う
	var snapshot *StatusSnapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return nil, &FetchError{Kind: FailureDecode, Err: err}
	}
	if snapshot == nil {
		return nil, &FetchError{Kind: FailureDecode, Err: errNullBody}
	}
	return snapshot, nil
}
