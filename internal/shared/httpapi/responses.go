// Package httpapi はHTTP API全体で共通のレスポンス型を定義します。
package httpapi

// ErrorResponse はエラー時の共通レスポンスボディです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse は成功メッセージのみを返す共通レスポンスボディです。
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse は認証トークンを返すレスポンスボディです。
type TokenResponse struct {
	Token string `json:"token"`
}
