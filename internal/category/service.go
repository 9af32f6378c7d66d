// Package category はカテゴリ管理のドメインロジックを提供する。
package category

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hitoshi/todoapi/internal/model"
	"github.com/hitoshi/todoapi/internal/repository"
	"github.com/hitoshi/todoapi/internal/security"
	"github.com/hitoshi/todoapi/internal/validation"
)

// CreateInput はカテゴリ作成の入力を表す。
// 所有者はここには含まれず、常に認証済みコンテキストから渡される。
type CreateInput struct {
	Name        string
	Description string
	Color       string
}

// Service はカテゴリ管理のサービス層。
// 一覧取得・作成・削除のビジネスロジックを提供する。
// すべての操作は呼び出し元ユーザーのIDでスコープされる。
type Service struct {
	repo      repository.CategoryRepository
	sanitizer security.InputSanitizerService
	schema    *validation.Schema
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.CategoryRepository, sanitizer security.InputSanitizerService) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		schema:    validation.CategorySchema(),
	}
}

// List は指定ユーザーが所有するカテゴリの一覧を返す。
// 作成日時の昇順。0件の場合は空スライスを返す（エラーではない）。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Category, error) {
	categories, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("カテゴリ一覧の取得に失敗しました: %w", err)
	}
	return categories, nil
}

// Create は入力を検証・正規化し、userIDを所有者としてカテゴリを作成する。
// バリデーション失敗時は*validation.Errorを返し、書き込みは一切行わない。
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) error {
	// バリデーションの前にHTMLタグを除去する。マークアップのみの
	// 名前はここで空になり、必須チェックで弾かれる。
	normalized, err := s.schema.Validate(map[string]string{
		"name":        s.sanitizer.SanitizePlainText(input.Name),
		"description": s.sanitizer.SanitizePlainText(input.Description),
		"color":       input.Color,
	})
	if err != nil {
		return err
	}

	cat := &model.Category{
		ID:          newCategoryID(),
		UserID:      userID,
		Name:        normalized["name"],
		Description: normalized["description"],
		Color:       normalized["color"],
	}

	if err := s.repo.Create(ctx, cat); err != nil {
		return fmt.Errorf("カテゴリの作成に失敗しました: %w", err)
	}

	slog.Info("category created",
		slog.String("category_id", cat.ID),
		slog.String("user_id", userID),
	)
	return nil
}

// Delete は指定ユーザーが所有する指定IDのカテゴリを削除する。
// 所有者フィルタ付きのため、IDだけでは他ユーザーの行を削除できない。
// 該当行が存在しない場合も成功として扱う（冪等削除）。
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteByUserAndID(ctx, userID, id); err != nil {
		return fmt.Errorf("カテゴリの削除に失敗しました: %w", err)
	}

	slog.Info("category deleted",
		slog.String("category_id", id),
		slog.String("user_id", userID),
	)
	return nil
}

// newCategoryID は時系列順に単調増加するUUIDv7を生成する。
// created_atが同時刻の場合もID昇順で挿入順が保たれる。
func newCategoryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// 乱数源の枯渇時のみ到達する。UUIDv4で代替する。
		return uuid.NewString()
	}
	return id.String()
}
