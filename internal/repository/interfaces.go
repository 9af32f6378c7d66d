// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/todoapi/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
// ユーザーの作成・更新は外部のIDプロバイダーが担うため、参照のみを提供する。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)

	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// CategoryRepository はカテゴリデータの永続化インターフェース。
type CategoryRepository interface {
	// ListByUserID は指定ユーザーが所有するカテゴリの一覧を返す。
	// 作成日時の昇順、同時刻の場合は挿入順で並ぶ。
	ListByUserID(ctx context.Context, userID string) ([]*model.Category, error)

	// Create はカテゴリを作成する。作成日時はストア側で割り当てられる。
	Create(ctx context.Context, category *model.Category) error

	// DeleteByUserAndID は指定ユーザーが所有する指定IDのカテゴリを削除する。
	// 所有者フィルタにより、IDを知っているだけでは他ユーザーの行を削除できない。
	// 該当行が存在しない場合もエラーにはならない（冪等削除）。
	DeleteByUserAndID(ctx context.Context, userID, id string) error
}
