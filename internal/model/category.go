package model

import "time"

// Category はユーザーが所有するToDoカテゴリを表す。
// UserIDは作成時に認証済みコンテキストから設定され、以後変更されない。
type Category struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Color       string
	CreatedAt   time.Time
}
