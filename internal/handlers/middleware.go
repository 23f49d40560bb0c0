package handlers

import (
	"context"
	"net/http"

	"devicehub-api/internal/service"
)

type contextKey string

// identityKey はリクエストコンテキストに認証済み識別情報を載せるキー
const identityKey contextKey = "identity"

// Authenticate はAuthorizationヘッダーのBearerトークンを検証するミドルウェアです
// 検証に成功した場合、識別情報をリクエストコンテキストに載せます
func Authenticate(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := auth.Verify(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				respondError(w, http.StatusUnauthorized, "invalid or missing token")
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin は管理者ロールのみを通すミドルウェアです
// Authenticateの内側で使用してください
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFrom(r)
		if !ok || !identity.IsAdmin() {
			respondError(w, http.StatusForbidden, "admin only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// identityFrom はリクエストコンテキストから識別情報を取り出します
func identityFrom(r *http.Request) (service.Identity, bool) {
	identity, ok := r.Context().Value(identityKey).(service.Identity)
	return identity, ok
}
