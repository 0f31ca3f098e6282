// 包 config：读取 .env 与环境变量；每项都有内联默认值，命令行参数在各命令内覆盖
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load：依次加载工作目录与 data/env 下的 .env，已存在的环境变量不被覆盖
func Load() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
}

func str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func boolean(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func integer(key string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil && n > 0 {
		return n
	}
	return def
}

// Client：终端客户端配置
type Client struct {
	API         string
	Admin       bool
	Timeout     time.Duration
	MetricsAddr string
}

func ClientFromEnv() Client {
	return Client{
		API:         strings.TrimRight(str("LOTES_API", "http://localhost:5000"), "/"),
		Admin:       boolean("LOTES_ADMIN", false),
		Timeout:     time.Duration(integer("LOTES_TIMEOUT_MS", 10000)) * time.Millisecond,
		MetricsAddr: str("LOTES_METRICS_ADDR", ""),
	}
}

// Server：参考后端配置
type Server struct {
	Addr           string
	StoreBackend   string
	SessionBackend string
	SessionTTL     time.Duration
	TLSEnable      bool
	TLSCertPath    string
	TLSKeyPath     string
	SeedDemoUser   bool
}

func ServerFromEnv() Server {
	return Server{
		Addr:           str("ADDR", ":5000"),
		StoreBackend:   strings.ToLower(str("STORE_BACKEND", "postgres")),
		SessionBackend: strings.ToLower(str("SESSION_BACKEND", "redis")),
		SessionTTL:     time.Duration(integer("SESSION_TTL_H", 24)) * time.Hour,
		TLSEnable:      boolean("TLS_ENABLE", false),
		TLSCertPath:    str("TLS_CERT_PATH", filepath.Join("data", "certs", "server.crt")),
		TLSKeyPath:     str("TLS_KEY_PATH", filepath.Join("data", "certs", "server.key")),
		SeedDemoUser:   boolean("SEED_DEMO_USER", true),
	}
}
