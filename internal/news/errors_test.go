package news

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/hitoshi/newsgate/internal/gnews"
	"github.com/hitoshi/newsgate/internal/model"
)

func TestMapUpstreamError_KeyNotConfigured(t *testing.T) {
	// APIキー未設定はアップストリームのステータスより優先される
	status, apiErr := MapUpstreamError(fmt.Errorf("request aborted: %w", gnews.ErrKeyNotConfigured))

	if status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", status)
	}
	if apiErr.Code != model.ErrCodeAPIKeyMissing {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeAPIKeyMissing)
	}
}

func TestMapUpstreamError_KnownStatuses(t *testing.T) {
	tests := []struct {
		name        string
		statusCode  int
		wantStatus  int
		wantMessage string
	}{
		{"401 invalid key", http.StatusUnauthorized, http.StatusUnauthorized, "invalid API key"},
		{"403 daily limit", http.StatusForbidden, http.StatusForbidden, "daily limit reached"},
		{"429 rate limited", http.StatusTooManyRequests, http.StatusTooManyRequests, "rate limit exceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &gnews.StatusError{StatusCode: tt.statusCode, Messages: []string{"raw upstream text"}}

			status, apiErr := MapUpstreamError(err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			// 既知のステータスでは固定メッセージが使われ、アップストリームの生テキストは透過しない
			if apiErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
			if apiErr.Code != model.ErrCodeUpstream {
				t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeUpstream)
			}
		})
	}
}

func TestMapUpstreamError_OtherStatusesAreMirrored(t *testing.T) {
	err := &gnews.StatusError{
		StatusCode: http.StatusBadRequest,
		Messages:   []string{"The q parameter is required.", "max must be between 1 and 100."},
	}

	status, apiErr := MapUpstreamError(err)
	if status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", status)
	}
	if apiErr.Message != "The q parameter is required.; max must be between 1 and 100." {
		t.Errorf("Message = %q, want joined upstream messages", apiErr.Message)
	}
}

func TestMapUpstreamError_MirroredStatusWithoutMessages(t *testing.T) {
	err := &gnews.StatusError{StatusCode: http.StatusBadGateway}

	status, apiErr := MapUpstreamError(err)
	if status != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", status)
	}
	if apiErr.Message != "news provider error" {
		t.Errorf("Message = %q, want generic provider message", apiErr.Message)
	}
}

func TestMapUpstreamError_TransportFailure(t *testing.T) {
	status, apiErr := MapUpstreamError(errors.New("dial tcp: connection refused"))

	if status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", status)
	}
	if apiErr.Code != model.ErrCodeInternal {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeInternal)
	}
	// トランスポート障害の詳細はクライアントに漏らさない
	if apiErr.Message != "internal server error" {
		t.Errorf("Message = %q, want generic message", apiErr.Message)
	}
}
