package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/hitoshi/newsgate/internal/model"
)

// NewsServiceInterface はニュースハンドラーが必要とするサービスインターフェース。
type NewsServiceInterface interface {
	// TopHeadlines は生クエリパラメータからトップヘッドラインを取得する。
	TopHeadlines(ctx context.Context, raw url.Values) (*model.ArticleList, error)
	// Search は生クエリパラメータからフリーテキスト検索を実行する。
	Search(ctx context.Context, raw url.Values) (*model.ArticleList, error)
}

// NewsHandler はニュース取得のHTTPハンドラー。
type NewsHandler struct {
	service          NewsServiceInterface
	apiKeyConfigured bool
}

// NewNewsHandler はNewsHandlerを生成する。
// apiKeyConfiguredは/healthが報告するプロバイダキーの設定状態。
func NewNewsHandler(service NewsServiceInterface, apiKeyConfigured bool) *NewsHandler {
	return &NewsHandler{
		service:          service,
		apiKeyConfigured: apiKeyConfigured,
	}
}

// healthResponse は/healthのレスポンス。
type healthResponse struct {
	Status           string `json:"status"`
	APIKeyConfigured bool   `json:"apiKeyConfigured"`
}

// categoriesResponse は/categoriesのレスポンス。
type categoriesResponse struct {
	Categories []string `json:"categories"`
}

// Health は死活確認とプロバイダキーの設定状態を返す。
// GET /health
func (h *NewsHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:           "ok",
		APIKeyConfigured: h.apiKeyConfigured,
	})
}

// Categories はカテゴリの固定セットを返す。
// GET /categories
func (h *NewsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, categoriesResponse{
		Categories: model.Categories,
	})
}

// TopHeadlines はカテゴリ別のトップヘッドラインを返す。
// GET /top-headlines?category=&lang=&country=&max=&page=
func (h *NewsHandler) TopHeadlines(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.TopHeadlines(r.Context(), r.URL.Query())
	if err != nil {
		handleNewsError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// Search はフリーテキスト検索の結果を返す。
// GET /search?q=&lang=&country=&max=&page=&from=&to=&in=&sortby=
func (h *NewsHandler) Search(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.Search(r.Context(), r.URL.Query())
	if err != nil {
		handleNewsError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}
