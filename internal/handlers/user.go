package handlers

import (
	"net/http"

	"devicehub-api/internal/service"
)

// UserHandler はユーザー関連のエンドポイントを処理します
type UserHandler struct {
	svc *service.AuthService
}

func NewUserHandler(s *service.AuthService) *UserHandler { return &UserHandler{svc: s} }

// Me は認証済みユーザー自身の情報を返します
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	user, err := h.svc.GetUser(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// List はユーザー一覧を返します（管理者向け）
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context(), queryInt(r, "page", 1), queryInt(r, "perPage", 30))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}
