package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"devicehub-api/internal/models"
	"devicehub-api/internal/service"
)

// FeedbackHandler はフィードバックのエンドポイントを処理します
// 登録は未認証でも可能（アプリからの直接送信を想定）、閲覧と返信は管理者のみです
type FeedbackHandler struct {
	svc *service.FeedbackService
}

func NewFeedbackHandler(s *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{svc: s}
}

type feedbackRequest struct {
	Email            string `json:"email"`
	Subject          string `json:"subject"`
	Content          string `json:"content"`
	AppName          string `json:"appName"`
	AppVersion       string `json:"appVersion"`
	DeviceOS         string `json:"deviceOs"`
	DeviceLocaleCode string `json:"deviceLocaleCode"`
	DeviceBuildID    string `json:"deviceBuildId"`
}

func (r feedbackRequest) validate() error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if err := validateRequired("subject", r.Subject); err != nil {
		return err
	}
	return validateRequired("content", r.Content)
}

type replyRequest struct {
	Reply string `json:"reply"`
}

func (r replyRequest) validate() error {
	return validateRequired("reply", r.Reply)
}

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in feedbackRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := in.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	fb, err := h.svc.CreateFeedback(r.Context(), models.Feedback{
		Email:            in.Email,
		Subject:          in.Subject,
		Content:          in.Content,
		AppName:          in.AppName,
		AppVersion:       in.AppVersion,
		DeviceOS:         in.DeviceOS,
		DeviceLocaleCode: in.DeviceLocaleCode,
		DeviceBuildID:    in.DeviceBuildID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, fb)
}

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	fbs, err := h.svc.ListFeedbacks(r.Context(), queryInt(r, "page", 1), queryInt(r, "perPage", 30))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, fbs)
}

// Reply はフィードバックに管理者の返信を設定します
func (h *FeedbackHandler) Reply(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	feedbackId := normalizeID(chi.URLParam(r, "feedbackId"))
	var in replyRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := in.validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	fb, err := h.svc.ReplyFeedback(r.Context(), feedbackId, in.Reply, identity.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, fb)
}
