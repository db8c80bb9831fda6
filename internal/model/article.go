// Package model はドメインモデルを定義する。
package model

import "time"

// ArticleSource は記事の提供元を表す。
type ArticleSource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Article はクライアントに返す記事表現。
// アップストリームのレスポンスから毎リクエスト生成され、永続化されない。
// 全フィールドは常にキーが存在する。欠損時は正規化層が
// 空文字列またはnullで埋める（クライアントはキーの有無で分岐しない）。
type Article struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Content     string        `json:"content"`
	URL         string        `json:"url"`
	Image       *string       `json:"image"`
	PublishedAt *time.Time    `json:"publishedAt"`
	Source      ArticleSource `json:"source"`
}

// ArticleList は記事一覧のレスポンス。
// アップストリームの {totalArticles, articles[]} と同じ形を保つ。
type ArticleList struct {
	TotalArticles int       `json:"totalArticles"`
	Articles      []Article `json:"articles"`
}
