package validation

import "regexp"

// スキーマ定義はフロントエンドと共有するバリデーションポリシーを
// 写したもの。メッセージ文字列はAPIレスポンスにそのまま載るため、
// フロントエンド側の定義と一言一句揃えること。

var (
	colorPattern    = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	// パスワード強度は文字クラスごとに独立したルールで検証するため、
	// 各クラスの含有のみをパターンで確認する。
	upperPattern = regexp.MustCompile(`[A-Z]`)
	lowerPattern = regexp.MustCompile(`[a-z]`)
	digitPattern = regexp.MustCompile(`[0-9]`)
)

// CategorySchema はカテゴリ作成入力のスキーマを返す。
// name: 必須・50文字以内、description: 任意・200文字以内、
// color: #RRGGBB形式（大文字小文字不問、保存時は大文字に正規化）。
func CategorySchema() *Schema {
	return &Schema{
		Rules: []Rule{
			{
				Field:     "name",
				Trim:      true,
				MinLen:    1,
				MinLenMsg: "Category name is required",
				MaxLen:    50,
				MaxLenMsg: "Name too long",
			},
			{
				Field:     "description",
				Optional:  true,
				Trim:      true,
				MaxLen:    200,
				MaxLenMsg: "Description too long",
			},
			{
				Field:      "color",
				Normalize:  NormalizeUpper,
				Pattern:    colorPattern,
				PatternMsg: "Invalid color format",
			},
		},
	}
}

// RegisterSchema はユーザー登録入力のスキーマを返す。
// 登録処理自体は外部のIDプロバイダーが担うが、スキーマ定義は
// プロダクト共通ポリシーとしてここで管理する。
func RegisterSchema() *Schema {
	return &Schema{
		Rules: []Rule{
			{
				Field:      "username",
				Normalize:  NormalizeLower,
				MinLen:     3,
				MinLenMsg:  "Username must be at least 3 characters",
				MaxLen:     20,
				MaxLenMsg:  "Username must not exceed 20 characters",
				Pattern:    usernamePattern,
				PatternMsg: "Username can only contain letters, numbers and underscore",
			},
			{
				Field:      "email",
				Normalize:  NormalizeLower,
				MinLen:     1,
				MinLenMsg:  "Invalid email address",
				Pattern:    emailPattern,
				PatternMsg: "Invalid email address",
			},
			{
				Field:     "password",
				MinLen:    8,
				MinLenMsg: "Password must be at least 8 characters",
				MaxLen:    100,
				MaxLenMsg: "Password must not exceed 100 characters",
			},
			{
				Field:      "password",
				Pattern:    upperPattern,
				PatternMsg: "Password must contain at least one uppercase letter",
			},
			{
				Field:      "password",
				Pattern:    lowerPattern,
				PatternMsg: "Password must contain at least one lowercase letter",
			},
			{
				Field:      "password",
				Pattern:    digitPattern,
				PatternMsg: "Password must contain at least one number",
			},
		},
		EqualRules: []EqualRule{
			{
				Field:    "password",
				Other:    "confirmPassword",
				AttachTo: "confirmPassword",
				Message:  "Passwords don't match",
			},
		},
	}
}

// LoginSchema はメールアドレスでのログイン入力のスキーマを返す。
func LoginSchema() *Schema {
	return &Schema{
		Rules: []Rule{
			{
				Field:      "email",
				Normalize:  NormalizeLower,
				MinLen:     1,
				MinLenMsg:  "Invalid email address",
				Pattern:    emailPattern,
				PatternMsg: "Invalid email address",
			},
			{
				Field:     "password",
				MinLen:    1,
				MinLenMsg: "Password is required",
			},
		},
	}
}

// LoginWithUsernameSchema はユーザー名またはメールアドレスでの
// ログイン入力のスキーマを返す。
func LoginWithUsernameSchema() *Schema {
	return &Schema{
		Rules: []Rule{
			{
				Field:     "identifier",
				Trim:      true,
				MinLen:    1,
				MinLenMsg: "Email or username is required",
			},
			{
				Field:     "password",
				MinLen:    1,
				MinLenMsg: "Password is required",
			},
		},
	}
}
