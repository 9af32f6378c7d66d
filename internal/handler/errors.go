// Package handler はHTTP APIのハンドラーとルーティングを提供する。
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/todoapi/internal/middleware"
	"github.com/hitoshi/todoapi/internal/model"
	"github.com/hitoshi/todoapi/internal/validation"
)

// statusResponse は成功レスポンスの統一フォーマット。
type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// handleServiceError はサービス層のエラーをHTTPレスポンスに変換する。
// *validation.Errorは400でフィールド詳細付き、*model.APIErrorはコードに
// 応じたステータス、それ以外は詳細をログに残して500を返す。
func handleServiceError(w http.ResponseWriter, err error) {
	var vErr *validation.Error
	if errors.As(err, &vErr) {
		middleware.WriteValidationErrorResponse(w, vErr)
		return
	}

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// asValidationError はerrが*validation.Errorの場合に取り出す。
func asValidationError(err error) (*validation.Error, bool) {
	var vErr *validation.Error
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
