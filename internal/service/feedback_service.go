package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"devicehub-api/internal/idgen"
	"devicehub-api/internal/models"
	"devicehub-api/internal/repo"
	"devicehub-api/internal/tasks"
)

// FeedbackService はフィードバックとアクティビティログのビジネスロジックを提供します
type FeedbackService struct {
	feedbacks  repo.FeedbackRepo
	activities repo.ActivityRepo
	queue      *asynq.Client // nilの場合はバックグラウンド処理をスキップ
}

// NewFeedbackService は新しいFeedbackServiceを作成します
func NewFeedbackService(feedbacks repo.FeedbackRepo, activities repo.ActivityRepo, queue *asynq.Client) *FeedbackService {
	return &FeedbackService{feedbacks: feedbacks, activities: activities, queue: queue}
}

// CreateFeedback はフィードバックを登録します
func (s *FeedbackService) CreateFeedback(ctx context.Context, fb models.Feedback) (models.Feedback, error) {
	fb.ID = idgen.NewULID()
	fb.Reply = ""
	fb.ReplyUserID = ""
	if err := s.feedbacks.CreateFeedback(ctx, &fb); err != nil {
		return models.Feedback{}, err
	}
	return fb, nil
}

// ListFeedbacks はフィードバック一覧を取得します（管理者向け）
func (s *FeedbackService) ListFeedbacks(ctx context.Context, page, perPage int) ([]models.Feedback, error) {
	return s.feedbacks.ListFeedbacks(ctx, page, perPage)
}

// ReplyFeedback はフィードバックに返信を設定します（管理者向け）
func (s *FeedbackService) ReplyFeedback(ctx context.Context, feedbackID, reply, replyUserID string) (models.Feedback, error) {
	fb, err := s.feedbacks.GetFeedback(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Feedback{}, ErrFeedbackNotFound
		}
		return models.Feedback{}, err
	}
	fb.Reply = reply
	fb.ReplyUserID = replyUserID
	if err := s.feedbacks.UpdateFeedback(ctx, &fb); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Feedback{}, ErrFeedbackNotFound
		}
		return models.Feedback{}, err
	}
	return s.feedbacks.GetFeedback(ctx, feedbackID)
}

// RecordActivity はアクティビティログを保存します
// deviceIdが指定されている場合は、デバイスの最終アクセス更新タスクを投入します
func (s *FeedbackService) RecordActivity(ctx context.Context, userID, deviceID, key string, value json.RawMessage) (models.Activity, error) {
	act := models.Activity{
		ID:       idgen.NewULID(),
		UserID:   userID,
		DeviceID: deviceID,
		Key:      key,
		Value:    string(value),
	}
	if err := s.activities.CreateActivity(ctx, &act); err != nil {
		return models.Activity{}, err
	}

	if deviceID != "" && s.queue != nil {
		task, err := tasks.NewDeviceTouchTask(deviceID)
		if err == nil {
			_, err = s.queue.EnqueueContext(ctx, task)
		}
		if err != nil {
			// タスク投入の失敗はログ保存の成否に影響させない
			logrus.WithError(err).WithField("device_id", deviceID).Warn("failed to enqueue device touch task")
		}
	}
	return act, nil
}

// ListActivities はアクティビティログ一覧を取得します
func (s *FeedbackService) ListActivities(ctx context.Context, userID, deviceID string, page, perPage int) ([]models.Activity, error) {
	return s.activities.ListActivities(ctx, userID, deviceID, page, perPage)
}
