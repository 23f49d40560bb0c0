package handlers

import (
	"encoding/json"
	"net/http"

	"devicehub-api/internal/service"
)

// ActivityHandler はアクティビティログのエンドポイントを処理します
type ActivityHandler struct {
	svc *service.FeedbackService
}

func NewActivityHandler(s *service.FeedbackService) *ActivityHandler {
	return &ActivityHandler{svc: s}
}

type activityRequest struct {
	DeviceID string          `json:"deviceId"`
	Key      string          `json:"key"`
	Value    json.RawMessage `json:"value"`
}

func (r activityRequest) validate() error {
	if err := validateRequired("key", r.Key); err != nil {
		return err
	}
	if len(r.Value) == 0 {
		return validateRequired("value", "")
	}
	return nil
}

// Create はアクティビティログを記録します
// deviceIdつきの場合はデバイスの最終アクセス更新がバックグラウンドで行われます
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var in activityRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := in.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	act, err := h.svc.RecordActivity(r.Context(), identity.UserID, normalizeID(in.DeviceID), in.Key, in.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, act)
}

// List は呼び出しユーザーのアクティビティログ一覧を返します
// deviceIdクエリで対象デバイスを絞り込めます
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	acts, err := h.svc.ListActivities(r.Context(),
		identity.UserID,
		r.URL.Query().Get("deviceId"),
		queryInt(r, "page", 1),
		queryInt(r, "perPage", 30),
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, acts)
}
