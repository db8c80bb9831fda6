// Package model はドメインモデルを定義する。
package model

import "slices"

// Categories はアップストリームが受け付けるカテゴリの固定セット（9件）。
// 入力バリデーションにのみ使用し、永続化はしない。
var Categories = []string{
	"general",
	"world",
	"nation",
	"business",
	"technology",
	"entertainment",
	"sports",
	"science",
	"health",
}

// Languages はアップストリームが受け付ける言語コードの固定セット（22件）。
var Languages = []string{
	"ar", "zh", "nl", "en", "fr", "de", "el", "he",
	"hi", "it", "ja", "ml", "mr", "no", "pt", "ro",
	"ru", "es", "sv", "ta", "te", "uk",
}

// SortByValues は/searchのsortbyパラメータの許容値。
var SortByValues = []string{"publishedAt", "relevance"}

// SearchInValues は/searchのinパラメータに指定できる属性。
var SearchInValues = []string{"title", "description", "content"}

// IsValidCategory はカテゴリが固定セットに含まれるかを返す。
func IsValidCategory(category string) bool {
	return slices.Contains(Categories, category)
}

// IsValidLanguage は言語コードが固定セットに含まれるかを返す。
func IsValidLanguage(lang string) bool {
	return slices.Contains(Languages, lang)
}

// IsValidSortBy はsortby値が許容値かを返す。
func IsValidSortBy(sortBy string) bool {
	return slices.Contains(SortByValues, sortBy)
}

// IsValidSearchIn はin属性が許容値かを返す。
func IsValidSearchIn(attr string) bool {
	return slices.Contains(SearchInValues, attr)
}
