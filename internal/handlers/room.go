package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"devicehub-api/internal/repo"
	"devicehub-api/internal/service"
)

// RoomHandler はルーム管理とチャットメンバー操作のエンドポイントを処理します
// ここでのメンバー追加/削除はREST段階の参加登録であり、
// リアルタイムのチャンネル購読（Gatewayのjoin）とは別の操作です
type RoomHandler struct {
	svc *service.RoomService
}

func NewRoomHandler(s *service.RoomService) *RoomHandler { return &RoomHandler{svc: s} }

type createRoomRequest struct {
	Title string `json:"title"`
}

func (r createRoomRequest) validate() error {
	return validateRequired("title", r.Title)
}

type updateRoomRequest struct {
	Title string `json:"title"`
}

func (r updateRoomRequest) validate() error {
	return validateRequired("title", r.Title)
}

// Create は新しいルームを作成します。作成者がオーナー兼最初のメンバーになります
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var in createRoomRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := in.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	room, err := h.svc.Create(r.Context(), in.Title, identity.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, room)
}

// List はルーム一覧を返します（管理者向け）
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	q := repo.RoomQuery{
		Page:    queryInt(r, "page", 1),
		PerPage: queryInt(r, "perPage", 30),
		Title:   r.URL.Query().Get("title"),
		OwnerID: r.URL.Query().Get("userId"),
	}
	rooms, err := h.svc.List(r.Context(), q)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rooms)
}

// Update はルームのタイトルを変更します（オーナーまたは管理者）
func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	roomId := normalizeID(chi.URLParam(r, "roomId"))
	if err := validateRoomId(roomId); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var in updateRoomRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := in.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	room, err := h.svc.UpdateTitle(r.Context(), roomId, in.Title, identity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, room)
}

// ChatGet はルームの詳細（オーナーとメンバーのユーザー情報つき）を返します
func (h *RoomHandler) ChatGet(w http.ResponseWriter, r *http.Request) {
	roomId := normalizeID(chi.URLParam(r, "roomId"))
	if err := validateRoomId(roomId); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	view, err := h.svc.ChatView(r.Context(), roomId)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// ChatJoin は呼び出しユーザーをメンバー一覧に追記します（冪等）
func (h *RoomHandler) ChatJoin(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	roomId := normalizeID(chi.URLParam(r, "roomId"))
	if err := validateRoomId(roomId); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.svc.AddMember(r.Context(), roomId, identity.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// ChatLeave は呼び出しユーザーをメンバー一覧から削除します
// 未登録の場合も204を返します
func (h *RoomHandler) ChatLeave(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	roomId := normalizeID(chi.URLParam(r, "roomId"))
	if err := validateRoomId(roomId); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.RemoveMember(r.Context(), roomId, identity.UserID); err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
