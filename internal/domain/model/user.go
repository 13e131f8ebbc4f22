package model

// コマースAPIのユーザー
type User struct {
	ID         int64           `json:"id"`
	Identifier string          `json:"identifier"`
	FormData   []FormDataEntry `json:"formData"`
}

// 表示名（formDataの先頭）
func (u User) DisplayName() string {
	if len(u.FormData) == 0 {
		return ""
	}
	return u.FormData[0].Value
}

// セッション状態
// None: 認証情報なし（ゲスト扱い）、Expired: 期限切れ（明示的に通知）
type SessionStatus string

const (
	SessionNone    SessionStatus = "none"
	SessionExpired SessionStatus = "expired"
	SessionActive  SessionStatus = "active"
)

// ログイン結果のトークン
type AuthTokens struct {
	UserIdentifier string `json:"userIdentifier"`
	AccessToken    string `json:"accessToken"`
	RefreshToken   string `json:"refreshToken"`
}

// フォーム属性（sign-in / sign-up）
type FormAttribute struct {
	Marker     string `json:"marker"`
	Type       string `json:"type"`
	Position   int    `json:"position"`
	IsRequired bool   `json:"isRequired,omitempty"`
	Title      string `json:"title,omitempty"`
}
