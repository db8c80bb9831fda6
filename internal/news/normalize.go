package news

import (
	"github.com/hitoshi/newsgate/internal/gnews"
	"github.com/hitoshi/newsgate/internal/model"
)

// unknownSourceName は提供元名が欠損している場合のデフォルト値。
const unknownSourceName = "Unknown"

// NormalizeArticle はアップストリームの記事レコード1件を
// クライアント向けのArticleに写す純粋関数。
// 全域的であり、欠損フィールドは型に応じたデフォルトで埋める
// （テキストは空文字列、image/publishedAtはnull、提供元名は"Unknown"）。
// フィールドの欠損はエラーではなくアップストリームのデータ品質の事実として扱う。
func NormalizeArticle(a gnews.Article) model.Article {
	out := model.Article{
		Title:       stringOrEmpty(a.Title),
		Description: stringOrEmpty(a.Description),
		Content:     stringOrEmpty(a.Content),
		URL:         stringOrEmpty(a.URL),
		Image:       a.Image,
		PublishedAt: a.PublishedAt,
		Source: model.ArticleSource{
			Name: unknownSourceName,
			URL:  "",
		},
	}

	if a.Source != nil {
		if a.Source.Name != nil && *a.Source.Name != "" {
			out.Source.Name = *a.Source.Name
		}
		out.Source.URL = stringOrEmpty(a.Source.URL)
	}

	return out
}

// NormalizeResponse はアップストリームのレスポンスをクライアント向けの
// 記事一覧に写す。articlesが欠損していても空スライスを返す
// （クライアントはnullを受け取らない）。
func NormalizeResponse(resp *gnews.Response) *model.ArticleList {
	list := &model.ArticleList{
		TotalArticles: resp.TotalArticles,
		Articles:      make([]model.Article, 0, len(resp.Articles)),
	}
	for _, a := range resp.Articles {
		list.Articles = append(list.Articles, NormalizeArticle(a))
	}
	return list
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
