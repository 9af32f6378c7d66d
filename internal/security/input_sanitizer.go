// Package security はアプリケーションのセキュリティ機能を提供する。
//
// InputSanitizerService はユーザー入力のプレーンテキストフィールド
// （カテゴリ名・説明）からHTMLタグを除去し、保存データを通じた
// XSS攻撃からユーザーを保護する。bluemondayのStrictPolicyを使用し、
// すべてのタグと属性を除去する。
package security

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// InputSanitizerService はプレーンテキスト入力のサニタイズ機能の
// インターフェースを定義する。バリデーション通過後・永続化前に使用される。
type InputSanitizerService interface {
	// SanitizePlainText は入力からすべてのHTMLタグを除去して返す。
	// タグを含まない入力はそのまま返る。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizePlainText(input string) string
}

// inputSanitizer はInputSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type inputSanitizer struct {
	policy *bluemonday.Policy
}

// NewInputSanitizer はInputSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicy（全タグ除去）を使用する。
func NewInputSanitizer() *inputSanitizer {
	return &inputSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// SanitizePlainText は入力からすべてのHTMLタグを除去して返す。
// bluemondayはタグ除去後に残ったテキストをエンティティとしてエスケープ
// するため、プレーンテキストとして保存できるようアンエスケープして戻す。
func (s *inputSanitizer) SanitizePlainText(input string) string {
	return html.UnescapeString(s.policy.Sanitize(input))
}
