package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/todoapi/internal/category"
	"github.com/hitoshi/todoapi/internal/metrics"
	"github.com/hitoshi/todoapi/internal/middleware"
	"github.com/hitoshi/todoapi/internal/model"
)

// CategoryServiceInterface はカテゴリハンドラーが必要とするサービスインターフェース。
type CategoryServiceInterface interface {
	// List はユーザーが所有するカテゴリを作成日時の昇順で返す。
	List(ctx context.Context, userID string) ([]*model.Category, error)
	// Create は入力を検証し、userIDを所有者としてカテゴリを作成する。
	Create(ctx context.Context, userID string, input category.CreateInput) error
	// Delete はユーザーが所有する指定IDのカテゴリを削除する（冪等）。
	Delete(ctx context.Context, userID, id string) error
}

// CategoryHandler はカテゴリ管理のHTTPハンドラー。
type CategoryHandler struct {
	service CategoryServiceInterface
	metrics metrics.MetricsCollector
}

// NewCategoryHandler はCategoryHandlerを生成する。
// collectorはnilでもよい（メトリクス記録をスキップする）。
func NewCategoryHandler(service CategoryServiceInterface, collector metrics.MetricsCollector) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		metrics: collector,
	}
}

// categoryResponse はカテゴリ情報のAPIレスポンス。
type categoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
}

// createCategoryRequest はカテゴリ作成リクエストのボディ。
// 所有者フィールドは定義しない。ボディに紛れ込んでも無視され、
// 所有者は常に認証済みコンテキストから決まる。
type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// ListCategories はユーザーのカテゴリ一覧を取得する。
// GET /api/categories/
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	categories, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// 0件でもnullではなく空配列を返す
	resp := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, categoryResponse{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			Color:       c.Color,
			CreatedAt:   c.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// CreateCategory は新しいカテゴリを作成する。
// POST /api/categories/new
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	err = h.service.Create(r.Context(), userID, category.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		h.recordCreateFailure(err)
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordCategoryCreated()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(statusResponse{
		Status:  "success",
		Message: "Category created successfully!",
	})
}

// DeleteCategory はユーザーが所有するカテゴリを削除する。
// DELETE /api/categories/remove/:id
// 該当カテゴリが存在しない場合や他ユーザーの所有の場合も、
// 呼び出しユーザーから見える状態は変わらないため成功を返す。
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	categoryID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, categoryID); err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordCategoryDeleted()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statusResponse{
		Status:  "success",
		Message: "Category deleted successfully!",
	})
}

// recordCreateFailure はバリデーション起因の作成失敗をメトリクスに計上する。
func (h *CategoryHandler) recordCreateFailure(err error) {
	if h.metrics == nil {
		return
	}
	if _, ok := asValidationError(err); ok {
		h.metrics.RecordValidationFailure()
	}
}
