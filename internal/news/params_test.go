package news

import (
	"net/url"
	"strings"
	"testing"

	"github.com/hitoshi/newsgate/internal/model"
)

func TestValidateHeadlinesParams_Defaults(t *testing.T) {
	q, apiErr := ValidateHeadlinesParams(url.Values{})
	if apiErr != nil {
		t.Fatalf("ValidateHeadlinesParams() error = %v", apiErr)
	}

	if q.Category != "general" {
		t.Errorf("Category = %q, want general", q.Category)
	}
	if q.Lang != "en" {
		t.Errorf("Lang = %q, want en", q.Lang)
	}
	if q.Max != 10 {
		t.Errorf("Max = %d, want 10", q.Max)
	}
	if q.Page != 1 {
		t.Errorf("Page = %d, want 1", q.Page)
	}
}

func TestValidateHeadlinesParams_ValidValues(t *testing.T) {
	raw := url.Values{}
	raw.Set("category", "technology")
	raw.Set("lang", "ja")
	raw.Set("country", "jp")
	raw.Set("max", "5")
	raw.Set("page", "3")

	q, apiErr := ValidateHeadlinesParams(raw)
	if apiErr != nil {
		t.Fatalf("ValidateHeadlinesParams() error = %v", apiErr)
	}

	if q.Category != "technology" || q.Lang != "ja" || q.Country != "jp" {
		t.Errorf("query = %+v, want technology/ja/jp", q)
	}
	if q.Max != 5 {
		t.Errorf("Max = %d, want 5", q.Max)
	}
	if q.Page != 3 {
		t.Errorf("Page = %d, want 3", q.Page)
	}
}

func TestValidateHeadlinesParams_InvalidCategory_ListsAcceptedValues(t *testing.T) {
	raw := url.Values{}
	raw.Set("category", "politics")

	_, apiErr := ValidateHeadlinesParams(raw)
	if apiErr == nil {
		t.Fatal("expected validation error, got nil")
	}

	if apiErr.Code != model.ErrCodeInvalidParam {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeInvalidParam)
	}
	// エラーメッセージには許容値の全リストが含まれること
	for _, category := range model.Categories {
		if !strings.Contains(apiErr.Message, category) {
			t.Errorf("message %q should contain %q", apiErr.Message, category)
		}
	}
}

func TestValidateHeadlinesParams_InvalidLang_ListsAcceptedValues(t *testing.T) {
	raw := url.Values{}
	raw.Set("lang", "xx")

	_, apiErr := ValidateHeadlinesParams(raw)
	if apiErr == nil {
		t.Fatal("expected validation error, got nil")
	}

	for _, lang := range model.Languages {
		if !strings.Contains(apiErr.Message, lang) {
			t.Errorf("message %q should contain %q", apiErr.Message, lang)
		}
	}
}

func TestParseMax_ClampsToCeiling(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"empty defaults to ceiling", "", 10, false},
		{"within range", "5", 5, false},
		{"at ceiling", "10", 10, false},
		{"above ceiling clamps down", "50", 10, false},
		{"zero clamps up", "0", 1, false},
		{"negative clamps up", "-3", 1, false},
		{"not an integer", "ten", 0, true},
		{"float", "2.5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, apiErr := parseMax(tt.raw)
			if (apiErr != nil) != tt.wantErr {
				t.Fatalf("parseMax(%q) error = %v, wantErr %v", tt.raw, apiErr, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseMax(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{"empty defaults to 1", "", 1, false},
		{"positive", "7", 7, false},
		{"large pages are not capped", "10000", 10000, false},
		{"zero rejected", "0", 0, true},
		{"negative rejected", "-1", 0, true},
		{"not an integer", "first", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, apiErr := parsePage(tt.raw)
			if (apiErr != nil) != tt.wantErr {
				t.Fatalf("parsePage(%q) error = %v, wantErr %v", tt.raw, apiErr, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parsePage(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValidateSearchParams_RequiresQuery(t *testing.T) {
	tests := []struct {
		name string
		q    string
	}{
		{"missing", ""},
		{"blank", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := url.Values{}
			if tt.q != "" {
				raw.Set("q", tt.q)
			}

			_, apiErr := ValidateSearchParams(raw)
			if apiErr == nil {
				t.Fatal("expected validation error, got nil")
			}
			if apiErr.Code != model.ErrCodeMissingParam {
				t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeMissingParam)
			}
		})
	}
}

func TestValidateSearchParams_TrimsQuery(t *testing.T) {
	raw := url.Values{}
	raw.Set("q", "  golang  ")

	q, apiErr := ValidateSearchParams(raw)
	if apiErr != nil {
		t.Fatalf("ValidateSearchParams() error = %v", apiErr)
	}
	if q.Query != "golang" {
		t.Errorf("Query = %q, want golang", q.Query)
	}
}

func TestValidateSearchParams_SortBy(t *testing.T) {
	tests := []struct {
		name    string
		sortby  string
		wantErr bool
	}{
		{"publishedAt", "publishedAt", false},
		{"relevance", "relevance", false},
		{"unknown", "newest", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := url.Values{}
			raw.Set("q", "golang")
			raw.Set("sortby", tt.sortby)

			q, apiErr := ValidateSearchParams(raw)
			if (apiErr != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", apiErr, tt.wantErr)
			}
			if !tt.wantErr && q.SortBy != tt.sortby {
				t.Errorf("SortBy = %q, want %q", q.SortBy, tt.sortby)
			}
		})
	}
}

func TestValidateSearchParams_InAttributes(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"single attribute", "title", false},
		{"comma separated list", "title,description,content", false},
		{"unknown attribute", "title,body", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := url.Values{}
			raw.Set("q", "golang")
			raw.Set("in", tt.in)

			_, apiErr := ValidateSearchParams(raw)
			if (apiErr != nil) != tt.wantErr {
				t.Errorf("in=%q: error = %v, wantErr %v", tt.in, apiErr, tt.wantErr)
			}
		})
	}
}

func TestValidateSearchParams_DatesPassThroughUnvalidated(t *testing.T) {
	raw := url.Values{}
	raw.Set("q", "golang")
	raw.Set("from", "2026-01-01T00:00:00Z")
	raw.Set("to", "not-a-date")

	// 日付形式の判定はアップストリームに委ねる
	q, apiErr := ValidateSearchParams(raw)
	if apiErr != nil {
		t.Fatalf("ValidateSearchParams() error = %v", apiErr)
	}
	if q.From != "2026-01-01T00:00:00Z" || q.To != "not-a-date" {
		t.Errorf("From/To = %q/%q, want passthrough", q.From, q.To)
	}
}
