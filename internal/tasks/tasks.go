// Package tasks はasynqで処理するバックグラウンドタスクの定義を提供します
package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// タスクタイプ
const (
	// TypeDeviceTouch はアクティビティ受信時にデバイスの最終アクセス日時を更新するタスク
	TypeDeviceTouch = "device:touch"
)

// DeviceTouchPayload はTypeDeviceTouchのペイロード
type DeviceTouchPayload struct {
	DeviceID string `json:"deviceId"`
}

// NewDeviceTouchTask はデバイスの最終アクセス更新タスクを作成します
func NewDeviceTouchTask(deviceID string) (*asynq.Task, error) {
	payload, err := json.Marshal(DeviceTouchPayload{DeviceID: deviceID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeDeviceTouch, payload, asynq.MaxRetry(3)), nil
}
