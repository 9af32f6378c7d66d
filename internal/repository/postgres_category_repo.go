package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/todoapi/internal/model"
)

// PostgresCategoryRepo はPostgreSQLを使用したカテゴリリポジトリ。
type PostgresCategoryRepo struct {
	db *sql.DB
}

// NewPostgresCategoryRepo はPostgresCategoryRepoを生成する。
func NewPostgresCategoryRepo(db *sql.DB) *PostgresCategoryRepo {
	return &PostgresCategoryRepo{db: db}
}

// ListByUserID は指定ユーザーが所有するカテゴリの一覧を返す。
// created_at昇順。IDにはUUIDv7（時系列順）を使用しているため、
// created_atが同時刻の場合もID昇順で挿入順が保たれる。
func (r *PostgresCategoryRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, description, color, created_at
		 FROM categories
		 WHERE user_id = $1
		 ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*model.Category
	for rows.Next() {
		c := &model.Category{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Color, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

// Create はカテゴリを作成する。created_atはストア側のデフォルト（now()）で
// 割り当てられ、引数のCategoryに書き戻される。
func (r *PostgresCategoryRepo) Create(ctx context.Context, category *model.Category) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO categories (id, user_id, name, description, color)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		category.ID, category.UserID, category.Name, category.Description, category.Color,
	).Scan(&category.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// DeleteByUserAndID は指定ユーザーが所有する指定IDのカテゴリを削除する。
// 所有者フィルタ付きのため、他ユーザーの行はIDが一致しても削除されない。
func (r *PostgresCategoryRepo) DeleteByUserAndID(ctx context.Context, userID, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// compile-time interface check
var _ CategoryRepository = (*PostgresCategoryRepo)(nil)
