package service

import (
	"context"
	"errors"

	"devicehub-api/internal/idgen"
	"devicehub-api/internal/models"
	"devicehub-api/internal/repo"
)

// DeviceService はデバイスと製品管理のビジネスロジックを提供します
type DeviceService struct {
	devices  repo.DeviceRepo
	products repo.ProductRepo
}

// NewDeviceService は新しいDeviceServiceを作成します
func NewDeviceService(devices repo.DeviceRepo, products repo.ProductRepo) *DeviceService {
	return &DeviceService{devices: devices, products: products}
}

// CreateDevice は新しいデバイスを登録します
// productIDが指定されている場合は製品の存在を確認します
func (s *DeviceService) CreateDevice(ctx context.Context, uuid, productID string) (models.Device, error) {
	if productID != "" {
		if _, err := s.GetProduct(ctx, productID); err != nil {
			return models.Device{}, err
		}
	}
	device := models.Device{
		ID:        idgen.NewULID(),
		UUID:      uuid,
		ProductID: productID,
		Status:    true,
	}
	if err := s.devices.CreateDevice(ctx, &device); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return models.Device{}, ErrDuplicateEntry
		}
		return models.Device{}, err
	}
	return s.GetDevice(ctx, device.ID)
}

// GetDevice は製品情報つきのデバイスを取得します
func (s *DeviceService) GetDevice(ctx context.Context, deviceID string) (models.Device, error) {
	device, err := s.devices.GetDevice(ctx, deviceID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Device{}, ErrDeviceNotFound
		}
		return models.Device{}, err
	}
	return device, nil
}

// ListDevices はデバイス一覧を取得します
func (s *DeviceService) ListDevices(ctx context.Context, page, perPage int) ([]models.Device, error) {
	return s.devices.ListDevices(ctx, page, perPage)
}

// UpdateDevice はデバイス情報を更新します
func (s *DeviceService) UpdateDevice(ctx context.Context, deviceID, uuid, productID string, status bool) (models.Device, error) {
	if productID != "" {
		if _, err := s.GetProduct(ctx, productID); err != nil {
			return models.Device{}, err
		}
	}
	device := models.Device{ID: deviceID, UUID: uuid, ProductID: productID, Status: status}
	if err := s.devices.UpdateDevice(ctx, &device); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Device{}, ErrDeviceNotFound
		}
		if errors.Is(err, repo.ErrDuplicate) {
			return models.Device{}, ErrDuplicateEntry
		}
		return models.Device{}, err
	}
	return s.GetDevice(ctx, deviceID)
}

// DeleteDevice はデバイスを削除します
func (s *DeviceService) DeleteDevice(ctx context.Context, deviceID string) error {
	return s.devices.DeleteDevice(ctx, deviceID)
}

// CreateProduct は新しい製品を登録します
func (s *DeviceService) CreateProduct(ctx context.Context, model, name, describe string) (models.Product, error) {
	product := models.Product{
		ID:       idgen.NewULID(),
		Model:    model,
		Name:     name,
		Describe: describe,
	}
	if err := s.products.CreateProduct(ctx, &product); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return models.Product{}, ErrDuplicateEntry
		}
		return models.Product{}, err
	}
	return product, nil
}

// GetProduct は製品を取得します
func (s *DeviceService) GetProduct(ctx context.Context, productID string) (models.Product, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Product{}, ErrProductNotFound
		}
		return models.Product{}, err
	}
	return product, nil
}

// ListProducts は製品一覧を取得します
func (s *DeviceService) ListProducts(ctx context.Context, page, perPage int) ([]models.Product, error) {
	return s.products.ListProducts(ctx, page, perPage)
}

// UpdateProduct は製品情報を更新します
func (s *DeviceService) UpdateProduct(ctx context.Context, productID, model, name, describe string) (models.Product, error) {
	product := models.Product{ID: productID, Model: model, Name: name, Describe: describe}
	if err := s.products.UpdateProduct(ctx, &product); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Product{}, ErrProductNotFound
		}
		if errors.Is(err, repo.ErrDuplicate) {
			return models.Product{}, ErrDuplicateEntry
		}
		return models.Product{}, err
	}
	return s.GetProduct(ctx, productID)
}

// DeleteProduct は製品を削除します
func (s *DeviceService) DeleteProduct(ctx context.Context, productID string) error {
	return s.products.DeleteProduct(ctx, productID)
}
