package news

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"testing"

	"github.com/hitoshi/newsgate/internal/gnews"
	"github.com/hitoshi/newsgate/internal/model"
)

// mockUpstreamClient はUpstreamClientのテスト用実装。
type mockUpstreamClient struct {
	topHeadlinesFunc func(ctx context.Context, q gnews.HeadlinesQuery) (*gnews.Response, error)
	searchFunc       func(ctx context.Context, q gnews.SearchQuery) (*gnews.Response, error)
}

func (m *mockUpstreamClient) TopHeadlines(ctx context.Context, q gnews.HeadlinesQuery) (*gnews.Response, error) {
	return m.topHeadlinesFunc(ctx, q)
}

func (m *mockUpstreamClient) Search(ctx context.Context, q gnews.SearchQuery) (*gnews.Response, error) {
	return m.searchFunc(ctx, q)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestService_TopHeadlines_ValidationErrorSkipsUpstream(t *testing.T) {
	called := false
	client := &mockUpstreamClient{
		topHeadlinesFunc: func(ctx context.Context, q gnews.HeadlinesQuery) (*gnews.Response, error) {
			called = true
			return &gnews.Response{}, nil
		},
	}
	svc := NewService(client, discardLogger())

	raw := url.Values{}
	raw.Set("category", "astrology")

	_, err := svc.TopHeadlines(context.Background(), raw)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *model.APIError", err)
	}
	if called {
		t.Error("upstream should not be called on validation failure")
	}
}

func TestService_TopHeadlines_PassesNormalizedQuery(t *testing.T) {
	var got gnews.HeadlinesQuery
	client := &mockUpstreamClient{
		topHeadlinesFunc: func(ctx context.Context, q gnews.HeadlinesQuery) (*gnews.Response, error) {
			got = q
			return &gnews.Response{TotalArticles: 0}, nil
		},
	}
	svc := NewService(client, discardLogger())

	raw := url.Values{}
	raw.Set("max", "99")

	if _, err := svc.TopHeadlines(context.Background(), raw); err != nil {
		t.Fatalf("TopHeadlines() error = %v", err)
	}

	// デフォルト補完とmaxの切り詰めが適用された状態でアップストリームに渡る
	if got.Category != "general" || got.Lang != "en" || got.Max != 10 || got.Page != 1 {
		t.Errorf("upstream query = %+v, want defaults with clamped max", got)
	}
}

func TestService_Search_UpstreamErrorPropagatesRaw(t *testing.T) {
	upstreamErr := &gnews.StatusError{StatusCode: 403}
	client := &mockUpstreamClient{
		searchFunc: func(ctx context.Context, q gnews.SearchQuery) (*gnews.Response, error) {
			return nil, upstreamErr
		},
	}
	svc := NewService(client, discardLogger())

	raw := url.Values{}
	raw.Set("q", "golang")

	_, err := svc.Search(context.Background(), raw)

	// アップストリームエラーはそのまま伝播し、ハンドラー側でマッピングする
	var statusErr *gnews.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != 403 {
		t.Errorf("error = %v, want raw *gnews.StatusError(403)", err)
	}
}

func TestService_Search_NormalizesArticles(t *testing.T) {
	client := &mockUpstreamClient{
		searchFunc: func(ctx context.Context, q gnews.SearchQuery) (*gnews.Response, error) {
			return &gnews.Response{
				TotalArticles: 1,
				Articles:      []gnews.Article{{}},
			}, nil
		},
	}
	svc := NewService(client, discardLogger())

	raw := url.Values{}
	raw.Set("q", "golang")

	list, err := svc.Search(context.Background(), raw)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(list.Articles) != 1 {
		t.Fatalf("len(Articles) = %d, want 1", len(list.Articles))
	}
	if list.Articles[0].Source.Name != "Unknown" {
		t.Errorf("Source.Name = %q, want Unknown", list.Articles[0].Source.Name)
	}
}
