// Package config はアプリケーションの設定を管理します
// 環境変数から設定を読み込み、デフォルト値を提供します
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	defaultAPIAddr        = ":8080"          // APIサーバーのデフォルトリッスンアドレス
	defaultRedisAddr      = "localhost:6379" // Redisのデフォルト接続先
	defaultDBHost         = "localhost"      // MySQLのデフォルトホスト
	defaultDBPort         = "3306"           // MySQLのデフォルトポート
	defaultDBName         = "devicehub"      // デフォルトのデータベース名
	defaultJWTExpiryHours = 24               // トークンのデフォルト有効期間（時間）
	defaultLogLevel       = "info"           // デフォルトのログレベル
	defaultEnv            = "development"    // デフォルトの実行環境
)

// defaultAllowedOrigins はCORSで許可するデフォルトのオリジン一覧
var defaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
}

// Config はアプリケーションの設定を保持します
type Config struct {
	APIAddr       string        // APIサーバーのリッスンアドレス
	Env           string        // 実行環境 (development / production)
	LogLevel      string        // ログレベル
	AllowedOrigin []string      // CORSで許可するオリジン一覧
	RedisAddr     string        // Redisの接続先
	RedisPassword string        // Redisのパスワード（空なら認証なし）
	RedisDB       int           // RedisのDB番号
	DBUser        string        // MySQLのユーザー名
	DBPassword    string        // MySQLのパスワード
	DBHost        string        // MySQLのホスト
	DBPort        string        // MySQLのポート
	DBName        string        // データベース名
	JWTSecret     string        // JWT署名に使う共有鍵
	JWTExpiry     time.Duration // トークンの有効期間
}

// Load は環境変数から設定を読み込みます
// .env ファイルがあれば先に読み込み、未設定の項目はデフォルト値を使用します
// JWT_SECRET は必須で、未設定の場合はエラーを返します
func Load() (Config, error) {
	// .env は任意。なければ環境変数のみを使う
	_ = godotenv.Load()

	cfg := Config{
		APIAddr:       envOr("API_ADDR", defaultAPIAddr),
		Env:           envOr("APP_ENV", defaultEnv),
		LogLevel:      envOr("LOG_LEVEL", defaultLogLevel),
		AllowedOrigin: envCSV("CORS_ALLOWED_ORIGINS", defaultAllowedOrigins),
		RedisAddr:     envOr("REDIS_ADDR", defaultRedisAddr),
		RedisPassword: envOr("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),
		DBUser:        envOr("DB_USER", "root"),
		DBPassword:    envOr("DB_PASSWORD", ""),
		DBHost:        envOr("DB_HOST", defaultDBHost),
		DBPort:        envOr("DB_PORT", defaultDBPort),
		DBName:        envOr("DB_NAME", defaultDBName),
		JWTSecret:     envOr("JWT_SECRET", ""),
		JWTExpiry:     time.Duration(envInt("JWT_EXPIRY_HOURS", defaultJWTExpiryHours)) * time.Hour,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("environment variable JWT_SECRET must be set")
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("invalid LOG_LEVEL=%s, fallback to default (%s)", cfg.LogLevel, defaultLogLevel)
		cfg.LogLevel = defaultLogLevel
	}

	return cfg, nil
}

// DSN はMySQL接続用のDSN文字列を組み立てます
// clientFoundRows=true により、UPDATEの影響行数は変更行数ではなくマッチ行数になります
// リポジトリ層は影響行数0を「行が存在しない」と解釈するため、このフラグは必須です
func (c Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// envOr は環境変数から文字列を取得します
// 環境変数が設定されていない場合はデフォルト値を返します
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envInt は環境変数から整数を取得します
// 環境変数が設定されていない、または無効な値の場合はデフォルト値を返します
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			logrus.Warnf("invalid %s=%s, fallback to default (%d)", key, v, def)
			return def
		}
		return i
	}
	return def
}

// envCSV は環境変数からカンマ区切りの文字列リストを取得します
// 環境変数が設定されていない、または空の場合はデフォルト値を返します
func envCSV(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}
