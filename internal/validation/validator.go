// Package validation はスキーマ駆動の入力バリデーションを提供する。
//
// フィールドごとの制約を宣言的に記述したSchemaを、単一の汎用ルーチン
// （Schema.Validate）が解釈する。ハンドラーごとにアドホックなチェックを
// 散在させないための仕組みで、スキーマ定義はフロントエンドと共有する
// プロダクト共通のバリデーションポリシーを写したもの。
//
// バリデーションは短絡せず、違反したすべてのフィールドのエラーを
// 蓄積して返す。成功時は正規化済み（トリム・小文字化等）の値を返す。
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldError は1フィールドのバリデーションエラーを表す。
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error はバリデーション失敗を表すerror実装。
// 違反したフィールドすべてのエラーを保持する。
type Error struct {
	Fields []FieldError
}

// Error はerrorインターフェースを実装する。
func (e *Error) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Normalize はフィールド値の正規化方法を表す。
type Normalize int

const (
	// NormalizeNone は正規化を行わない。
	NormalizeNone Normalize = iota
	// NormalizeLower は値を小文字化する（メールアドレス・ユーザー名等）。
	NormalizeLower
	// NormalizeUpper は値を大文字化する（カラーコード等）。
	NormalizeUpper
)

// Rule は1フィールドの制約セットを表す。
// MinLen/MaxLen/Patternの各制約には、違反時にそのまま返される
// メッセージを対で指定する。
type Rule struct {
	// Field はフィールド名。エラーはこの名前に紐づく。
	Field string

	// Optional がtrueの場合、空値はすべての制約をスキップして許容される。
	Optional bool

	// Trim がtrueの場合、制約評価の前に前後の空白を除去する。
	Trim bool

	// Normalize は制約評価の前に適用する正規化。
	Normalize Normalize

	// MinLen は最小文字数（rune単位）。0は制約なし。
	// 1を指定すると必須チェックになる。
	MinLen    int
	MinLenMsg string

	// MaxLen は最大文字数（rune単位）。0は制約なし。
	MaxLen    int
	MaxLenMsg string

	// Pattern は値全体が一致すべき正規表現。nilは制約なし。
	Pattern    *regexp.Regexp
	PatternMsg string
}

// EqualRule はクロスフィールド制約（2フィールドの値の一致）を表す。
// 違反時のエラーはAttachToで指定したフィールドに紐づく
// （パスワード確認欄のように、エラーを確認側フィールドへ表示するため）。
type EqualRule struct {
	Field    string
	Other    string
	AttachTo string
	Message  string
}

// Schema はフィールド制約の集合を表す。
// Rulesの順序はエラーの報告順序を決める。
type Schema struct {
	Rules      []Rule
	EqualRules []EqualRule
}

// Validate はpayloadをスキーマに従って検証し、正規化済みの値を返す。
// 1つ以上のフィールドが制約に違反する場合は*Errorを返し、
// すべての違反フィールドを報告する。payloadに存在しないフィールドは
// 空文字列として扱う。
func (s *Schema) Validate(payload map[string]string) (map[string]string, error) {
	normalized := make(map[string]string, len(s.Rules))
	var fieldErrors []FieldError

	for _, rule := range s.Rules {
		value := payload[rule.Field]

		if rule.Trim {
			value = strings.TrimSpace(value)
		}
		switch rule.Normalize {
		case NormalizeLower:
			value = strings.ToLower(value)
		case NormalizeUpper:
			value = strings.ToUpper(value)
		}

		normalized[rule.Field] = value

		if value == "" && rule.Optional {
			continue
		}

		if msg, ok := rule.check(value); !ok {
			fieldErrors = append(fieldErrors, FieldError{Field: rule.Field, Message: msg})
		}
	}

	for _, eq := range s.EqualRules {
		if compareValue(eq.Field, normalized, payload) != compareValue(eq.Other, normalized, payload) {
			fieldErrors = append(fieldErrors, FieldError{Field: eq.AttachTo, Message: eq.Message})
		}
	}

	if len(fieldErrors) > 0 {
		return nil, &Error{Fields: fieldErrors}
	}

	return normalized, nil
}

// compareValue はクロスフィールド比較に使うフィールド値を返す。
// Ruleを持つフィールドは正規化済みの値を、Ruleを持たないフィールド
// （確認用パスワード欄のように単独の制約がないもの）は入力値を
// そのまま使う。
func compareValue(field string, normalized, payload map[string]string) string {
	if v, ok := normalized[field]; ok {
		return v
	}
	return payload[field]
}

// check は単一フィールドの制約を評価する。
// 違反した場合は対応するメッセージとfalseを返す。
// 同一フィールド内では最初に違反した制約のみを報告する。
func (r *Rule) check(value string) (string, bool) {
	length := len([]rune(value))

	if r.MinLen > 0 && length < r.MinLen {
		return r.MinLenMsg, false
	}
	if r.MaxLen > 0 && length > r.MaxLen {
		return r.MaxLenMsg, false
	}
	if r.Pattern != nil && !r.Pattern.MatchString(value) {
		return r.PatternMsg, false
	}

	return "", true
}
