// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// 登録・ログイン・パスワード管理は外部のIDプロバイダーが担うため、
// このコアはユーザーを参照するのみで作成・更新は行わない。
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session はユーザーのログインセッションを表す。
// 外部のIDプロバイダーが発行し、このコアはリクエストごとに1回だけ
// 有効性を解決（消費）する。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
