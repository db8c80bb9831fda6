package news

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/hitoshi/newsgate/internal/gnews"
	"github.com/hitoshi/newsgate/internal/model"
)

// UpstreamClient はサービスが必要とするアップストリームクライアントの
// インターフェース。gnews.Clientの部分集合として定義する。
type UpstreamClient interface {
	TopHeadlines(ctx context.Context, q gnews.HeadlinesQuery) (*gnews.Response, error)
	Search(ctx context.Context, q gnews.SearchQuery) (*gnews.Response, error)
}

// Service はニュース取得のサービス層。
// 検証 → アップストリーム呼び出し → 正規化のパイプラインを構成する。
type Service struct {
	client UpstreamClient
	logger *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(client UpstreamClient, logger *slog.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// TopHeadlines は生クエリパラメータを検証し、トップヘッドラインを取得して
// 正規化済みの記事一覧を返す。検証エラーは*model.APIErrorとして返り、
// アップストリーム・トランスポートのエラーはそのまま伝播する
// （ハンドラーがMapUpstreamErrorで変換する）。
func (s *Service) TopHeadlines(ctx context.Context, raw url.Values) (*model.ArticleList, error) {
	query, apiErr := ValidateHeadlinesParams(raw)
	if apiErr != nil {
		return nil, apiErr
	}

	resp, err := s.client.TopHeadlines(ctx, query)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("headlines fetched",
		slog.String("category", query.Category),
		slog.Int("articles", len(resp.Articles)),
	)

	return NormalizeResponse(resp), nil
}

// Search は生クエリパラメータを検証し、フリーテキスト検索を実行して
// 正規化済みの記事一覧を返す。
func (s *Service) Search(ctx context.Context, raw url.Values) (*model.ArticleList, error) {
	query, apiErr := ValidateSearchParams(raw)
	if apiErr != nil {
		return nil, apiErr
	}

	resp, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("search executed",
		slog.String("q", query.Query),
		slog.Int("articles", len(resp.Articles)),
	)

	return NormalizeResponse(resp), nil
}
