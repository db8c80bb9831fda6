// Package news はニュース取得のドメインロジックを提供する。
// リクエストパラメータの検証、アップストリーム呼び出し、
// 記事レコードの正規化、エラーマッピングを含む。
package news

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/hitoshi/newsgate/internal/gnews"
	"github.com/hitoshi/newsgate/internal/model"
)

const (
	// maxArticlesCeiling はアップストリームが1リクエストで返す記事数の上限。
	// これを超えるmax指定はローカルで切り詰める。
	maxArticlesCeiling = 10
	// defaultCategory はcategory未指定時のデフォルト。
	defaultCategory = "general"
	// defaultLang はlang未指定時のデフォルト。
	defaultLang = "en"
)

// ValidateHeadlinesParams は/top-headlinesの生クエリパラメータを検証し、
// 正規化済みのHeadlinesQueryを返す。
// 閉集合違反のエラーメッセージには許容値の全リストを含める。
func ValidateHeadlinesParams(raw url.Values) (gnews.HeadlinesQuery, *model.APIError) {
	q := gnews.HeadlinesQuery{
		Category: defaultCategory,
		Lang:     defaultLang,
	}

	if v := strings.TrimSpace(raw.Get("category")); v != "" {
		if !model.IsValidCategory(v) {
			return gnews.HeadlinesQuery{}, model.NewInvalidEnumError("category", v, model.Categories)
		}
		q.Category = v
	}

	if v := strings.TrimSpace(raw.Get("lang")); v != "" {
		if !model.IsValidLanguage(v) {
			return gnews.HeadlinesQuery{}, model.NewInvalidEnumError("lang", v, model.Languages)
		}
		q.Lang = v
	}

	// countryはアップストリームが判定する（ローカルでは検証しない）
	q.Country = strings.TrimSpace(raw.Get("country"))

	max, apiErr := parseMax(raw.Get("max"))
	if apiErr != nil {
		return gnews.HeadlinesQuery{}, apiErr
	}
	q.Max = max

	page, apiErr := parsePage(raw.Get("page"))
	if apiErr != nil {
		return gnews.HeadlinesQuery{}, apiErr
	}
	q.Page = page

	return q, nil
}

// ValidateSearchParams は/searchの生クエリパラメータを検証し、
// 正規化済みのSearchQueryを返す。qはトリム後に非空であることが必須。
func ValidateSearchParams(raw url.Values) (gnews.SearchQuery, *model.APIError) {
	q := gnews.SearchQuery{
		Lang: defaultLang,
	}

	q.Query = strings.TrimSpace(raw.Get("q"))
	if q.Query == "" {
		return gnews.SearchQuery{}, model.NewMissingParamError("q")
	}

	if v := strings.TrimSpace(raw.Get("lang")); v != "" {
		if !model.IsValidLanguage(v) {
			return gnews.SearchQuery{}, model.NewInvalidEnumError("lang", v, model.Languages)
		}
		q.Lang = v
	}

	q.Country = strings.TrimSpace(raw.Get("country"))

	if v := strings.TrimSpace(raw.Get("sortby")); v != "" {
		if !model.IsValidSortBy(v) {
			return gnews.SearchQuery{}, model.NewInvalidEnumError("sortby", v, model.SortByValues)
		}
		q.SortBy = v
	}

	if v := strings.TrimSpace(raw.Get("in")); v != "" {
		for _, attr := range strings.Split(v, ",") {
			if !model.IsValidSearchIn(strings.TrimSpace(attr)) {
				return gnews.SearchQuery{}, model.NewInvalidEnumError("in", attr, model.SearchInValues)
			}
		}
		q.In = v
	}

	// from/toはアップストリームが日付形式を判定する
	q.From = strings.TrimSpace(raw.Get("from"))
	q.To = strings.TrimSpace(raw.Get("to"))

	max, apiErr := parseMax(raw.Get("max"))
	if apiErr != nil {
		return gnews.SearchQuery{}, apiErr
	}
	q.Max = max

	page, apiErr := parsePage(raw.Get("page"))
	if apiErr != nil {
		return gnews.SearchQuery{}, apiErr
	}
	q.Page = page

	return q, nil
}

// parseMax はmaxパラメータを[1, maxArticlesCeiling]に収めて返す。
// 未指定時は上限値を使用する。
func parseMax(raw string) (int, *model.APIError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return maxArticlesCeiling, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewInvalidParamError("max", "must be an integer")
	}
	if n < 1 {
		return 1, nil
	}
	if n > maxArticlesCeiling {
		return maxArticlesCeiling, nil
	}
	return n, nil
}

// parsePage はpageパラメータを正の整数として返す。上限は設けない
// （アップストリームが権威を持つ）。未指定時は1。
func parsePage(raw string) (int, *model.APIError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, model.NewInvalidParamError("page", "must be a positive integer")
	}
	return n, nil
}
