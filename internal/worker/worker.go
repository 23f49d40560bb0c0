// Package worker はasynqのバックグラウンドワーカーを提供します
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"devicehub-api/internal/repo"
	"devicehub-api/internal/tasks"
)

// Worker はバックグラウンドタスクの処理サーバーです
type Worker struct {
	server  *asynq.Server
	devices repo.DeviceRepo
}

// New は新しいWorkerを作成します
func New(redisOpt asynq.RedisClientOpt, devices repo.DeviceRepo) *Worker {
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
		Logger:      logrus.StandardLogger(),
	})
	return &Worker{server: server, devices: devices}
}

// Start はワーカーを起動します（非ブロッキング）
func (w *Worker) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeDeviceTouch, w.handleDeviceTouch)
	return w.server.Start(mux)
}

// Shutdown はワーカーを停止します
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

// handleDeviceTouch はデバイスの最終アクセス日時を更新します
// デバイスが存在しない場合はリトライせずに完了扱いにします
func (w *Worker) handleDeviceTouch(ctx context.Context, t *asynq.Task) error {
	var p tasks.DeviceTouchPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("invalid payload for %s: %w: %w", tasks.TypeDeviceTouch, err, asynq.SkipRetry)
	}

	if err := w.devices.TouchDevice(ctx, p.DeviceID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logrus.WithField("device_id", p.DeviceID).Warn("device touch skipped: device not found")
			return nil
		}
		return err
	}
	logrus.WithField("device_id", p.DeviceID).Debug("device last seen updated")
	return nil
}
