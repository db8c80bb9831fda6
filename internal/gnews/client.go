// Package gnews はニュースプロバイダAPIのクライアントを提供する。
// シークレットAPIキーの注入とクエリパラメータのマッピングを担う。
package gnews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// defaultBaseURL はニュースプロバイダAPIのベースURL。
	defaultBaseURL = "https://gnews.io/api/v4"
	// apiKeyPlaceholder は配布設定ファイルに残りがちなプレースホルダ値。
	// この値のままの場合はキー未設定として扱う。
	apiKeyPlaceholder = "your_gnews_api_key_here"
)

// ErrKeyNotConfigured はAPIキーが未設定のまま呼び出された場合のエラー。
// ネットワーク呼び出しの前に返される。
var ErrKeyNotConfigured = errors.New("gnews API key is not configured")

// KeyConfigured はAPIキーが設定済み（空でもプレースホルダでもない）かを返す。
func KeyConfigured(key string) bool {
	return key != "" && key != apiKeyPlaceholder
}

// StatusError はアップストリームが2xx以外を返した場合のエラー。
// ステータスコードとアップストリーム自身のエラーメッセージを保持する。
type StatusError struct {
	StatusCode int
	Messages   []string
}

// Error はerrorインターフェースを実装する。
func (e *StatusError) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf("gnews returned status %d: %s", e.StatusCode, strings.Join(e.Messages, "; "))
	}
	return fmt.Sprintf("gnews returned status %d", e.StatusCode)
}

// Source はアップストリームの記事提供元レコード。
type Source struct {
	Name *string `json:"name"`
	URL  *string `json:"url"`
}

// Article はアップストリームの記事レコード。
// 欠損しうるフィールドはすべてポインタで受ける（欠損はエラーではない）。
type Article struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Content     *string    `json:"content"`
	URL         *string    `json:"url"`
	Image       *string    `json:"image"`
	PublishedAt *time.Time `json:"publishedAt"`
	Source      *Source    `json:"source"`
}

// Response はアップストリームの検索・ヘッドラインレスポンス。
type Response struct {
	TotalArticles int       `json:"totalArticles"`
	Articles      []Article `json:"articles"`
}

// HeadlinesQuery は/top-headlinesへの検証済みパラメータ。
type HeadlinesQuery struct {
	Category string
	Lang     string
	Country  string
	Max      int
	Page     int
}

// SearchQuery は/searchへの検証済みパラメータ。
type SearchQuery struct {
	Query   string
	Lang    string
	Country string
	From    string
	To      string
	In      string
	SortBy  string
	Max     int
	Page    int
}

// MetricsRecorder はアップストリーム呼び出しのメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordUpstreamRequest(endpoint string)
	RecordUpstreamStatus(statusCode int)
	RecordUpstreamLatency(duration time.Duration)
}

// Client はニュースプロバイダAPIのクライアント。
// インバウンド1リクエストにつきアウトバウンド1呼び出し。
// リトライもキャッシュも行わず、各呼び出しは独立かつステートレス。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    MetricsRecorder
	baseURL    string // テスト用にエンドポイントを差し替え可能
	apiKey     string
}

// NewClient はClientの新しいインスタンスを生成する。
// baseURLが空文字列の場合は本番エンドポイントを使用する。
// metricsはnilを許容する（記録しない）。
func NewClient(httpClient *http.Client, logger *slog.Logger, metrics MetricsRecorder, baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		metrics:    metrics,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// TopHeadlines はカテゴリ別のトップヘッドラインを取得する。
func (c *Client) TopHeadlines(ctx context.Context, q HeadlinesQuery) (*Response, error) {
	params := url.Values{}
	params.Set("category", q.Category)
	params.Set("lang", q.Lang)
	if q.Country != "" {
		params.Set("country", q.Country)
	}
	params.Set("max", strconv.Itoa(q.Max))
	params.Set("page", strconv.Itoa(q.Page))

	return c.do(ctx, "top-headlines", params)
}

// Search はフリーテキスト検索を実行する。
func (c *Client) Search(ctx context.Context, q SearchQuery) (*Response, error) {
	params := url.Values{}
	params.Set("q", q.Query)
	params.Set("lang", q.Lang)
	if q.Country != "" {
		params.Set("country", q.Country)
	}
	if q.From != "" {
		params.Set("from", q.From)
	}
	if q.To != "" {
		params.Set("to", q.To)
	}
	if q.In != "" {
		params.Set("in", q.In)
	}
	if q.SortBy != "" {
		params.Set("sortby", q.SortBy)
	}
	params.Set("max", strconv.Itoa(q.Max))
	params.Set("page", strconv.Itoa(q.Page))

	return c.do(ctx, "search", params)
}

// do はアップストリームAPIへの1回のGETを実行する。
// キー未設定の場合はネットワーク呼び出しの前にErrKeyNotConfiguredを返す。
// トランスポート障害はそのまま呼び出し元に伝播する。
func (c *Client) do(ctx context.Context, endpoint string, params url.Values) (*Response, error) {
	// 設定チェックはネットワークより先に行う
	if !KeyConfigured(c.apiKey) {
		return nil, ErrKeyNotConfigured
	}

	params.Set("apikey", c.apiKey)
	reqURL := fmt.Sprintf("%s/%s?%s", strings.TrimRight(c.baseURL, "/"), endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("User-Agent", "Newsgate/1.0")
	req.Header.Set("Accept", "application/json")

	if c.metrics != nil {
		c.metrics.RecordUpstreamRequest(endpoint)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.metrics != nil {
		c.metrics.RecordUpstreamLatency(time.Since(start))
	}
	if err != nil {
		c.logger.Error("upstream request failed",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	defer resp.Body.Close()

	if c.metrics != nil {
		c.metrics.RecordUpstreamStatus(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("upstream returned error status",
			slog.String("endpoint", endpoint),
			slog.Int("http_status", resp.StatusCode),
		)
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Messages:   decodeUpstreamErrors(body),
		}
	}

	var result Response
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Error("failed to parse upstream response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("レスポンスJSONのパースに失敗しました: %w", err)
	}

	return &result, nil
}

// decodeUpstreamErrors はアップストリームのエラーボディからメッセージを抽出する。
// プロバイダは {"errors": [...]} を返すが、形式が崩れていても失敗にはしない。
func decodeUpstreamErrors(body []byte) []string {
	var withList struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(body, &withList); err == nil && len(withList.Errors) > 0 {
		return withList.Errors
	}

	// フィールド名をキーにしたオブジェクト形式の場合
	var withMap struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &withMap); err == nil && len(withMap.Errors) > 0 {
		msgs := make([]string, 0, len(withMap.Errors))
		for _, m := range withMap.Errors {
			msgs = append(msgs, m)
		}
		return msgs
	}

	return nil
}
