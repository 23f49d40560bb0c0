package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"devicehub-api/internal/service"
)

// writeServiceError はサービス層のエラーをHTTPステータスに変換して返します
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrDeviceNotFound),
		errors.Is(err, service.ErrFeedbackNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotRoomOwner), errors.Is(err, service.ErrNotAMember):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrDuplicateEntry):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrBadCredentials), errors.Is(err, service.ErrInvalidToken):
		respondError(w, http.StatusUnauthorized, err.Error())
	default:
		logrus.WithError(err).Error("internal error")
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
