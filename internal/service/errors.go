package service

import "errors"

// カスタムエラー定義
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrNotRoomOwner     = errors.New("forbidden: not room owner")
	ErrNotAMember       = errors.New("forbidden: not a room member")
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrBadCredentials   = errors.New("invalid email or password")
	ErrProductNotFound  = errors.New("product not found")
	ErrDeviceNotFound   = errors.New("device not found")
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrDuplicateEntry   = errors.New("resource already exists")
)
