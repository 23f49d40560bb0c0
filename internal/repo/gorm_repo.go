package repo

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"devicehub-api/internal/models"
)

const mysqlDuplicateEntry = 1062

// Migrate は全モデルのテーブルを作成・更新します
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.RoomMember{},
		&models.Product{},
		&models.Device{},
		&models.Feedback{},
		&models.Activity{},
	)
}

// mapError はgorm/MySQLのエラーをリポジトリ共通エラーに変換します
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return ErrDuplicate
	}
	return err
}

// normalizePage はページングパラメータを安全な範囲に丸めます
func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 30
	}
	return page, perPage
}
