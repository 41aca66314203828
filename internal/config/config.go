// 包 config：集中读取服务配置；先取默认值，再叠加可选 TOML 文件，最后由环境变量覆盖
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Addr          string    `koanf:"addr"`
	APIBase       string    `koanf:"api_base"`
	DataDir       string    `koanf:"data_dir"`
	GeoIPCityPath string    `koanf:"geoip_city_path"`
	AdminToken    string    `koanf:"admin_token"`
	Cache         Cache     `koanf:"cache"`
	Redis         Redis     `koanf:"redis"`
	Postgres      Postgres  `koanf:"postgres"`
	RateLimit     RateLimit `koanf:"rate_limit"`
	TLS           TLS       `koanf:"tls"`
}

type Cache struct {
	// 进程内 IP 结果缓存
	LocalSize int `koanf:"local_size"`
	LocalTTLS int `koanf:"local_ttl_s"`
	// Redis 结果缓存
	RedisTTLS int `koanf:"redis_ttl_s"`
}

type Redis struct {
	Enabled bool   `koanf:"enabled"`
	Host    string `koanf:"host"`
	Port    string `koanf:"port"`
	Pass    string `koanf:"pass"`
	DB      int    `koanf:"db"`
}

type Postgres struct {
	Enabled      bool   `koanf:"enabled"`
	Host         string `koanf:"host"`
	Port         string `koanf:"port"`
	User         string `koanf:"user"`
	Password     string `koanf:"password"`
	DB           string `koanf:"db"`
	SSLMode      string `koanf:"sslmode"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
}

type RateLimit struct {
	Enabled bool `koanf:"enabled"`
	QPS     int  `koanf:"qps"`
}

type TLS struct {
	Enabled  bool   `koanf:"enabled"`
	CertPath string `koanf:"cert_path"`
	KeyPath  string `koanf:"key_path"`
}

// Default 返回内置默认配置
func Default() Config {
	return Config{
		Addr:    ":8080",
		APIBase: "/api",
		DataDir: filepath.Join("data", "tz"),
		Cache:   Cache{LocalSize: 4096, LocalTTLS: 600, RedisTTLS: 86400},
		Redis:   Redis{Host: "127.0.0.1", Port: "6379"},
		Postgres: Postgres{
			Host: "localhost", Port: "5432", User: "postgres", DB: "tzapi", SSLMode: "disable",
			MaxOpenConns: 50, MaxIdleConns: 25,
		},
		RateLimit: RateLimit{QPS: 200},
		TLS: TLS{
			CertPath: filepath.Join("data", "certs", "server.crt"),
			KeyPath:  filepath.Join("data", "certs", "server.key"),
		},
	}
}

// 文档注释：加载配置
// 背景：TOML 文件便于部署时整体下发；环境变量沿用既有命名，便于容器内覆盖单项。
// 约束：path 为空时跳过文件；文件存在但解析失败返回错误；环境变量解析失败的项被忽略并保留原值。
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, err
		}
	}
	var c Config
	if err := k.UnmarshalWithConf("", &c, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}
	applyEnv(&c)
	return &c, nil
}

func applyEnv(c *Config) {
	str(&c.Addr, "ADDR")
	str(&c.APIBase, "API_BASE")
	str(&c.DataDir, "TZ_DATA_DIR")
	str(&c.GeoIPCityPath, "GEOIP_CITY_PATH")
	str(&c.AdminToken, "ADMIN_TOKEN")

	num(&c.Cache.LocalSize, "TZ_LOCAL_CACHE_SIZE")
	num(&c.Cache.LocalTTLS, "TZ_LOCAL_CACHE_TTL_S")
	num(&c.Cache.RedisTTLS, "TZ_CACHE_TTL_S")

	flag(&c.Redis.Enabled, "REDIS_ENABLED")
	str(&c.Redis.Host, "REDIS_HOST")
	str(&c.Redis.Port, "REDIS_PORT")
	str(&c.Redis.Pass, "REDIS_PASS")
	num(&c.Redis.DB, "REDIS_DB")

	flag(&c.Postgres.Enabled, "PG_ENABLED")
	str(&c.Postgres.Host, "PG_HOST")
	str(&c.Postgres.Port, "PG_PORT")
	str(&c.Postgres.User, "PG_USER")
	str(&c.Postgres.Password, "PG_PASSWORD")
	str(&c.Postgres.DB, "PG_DB")
	str(&c.Postgres.SSLMode, "PG_SSLMODE")
	num(&c.Postgres.MaxOpenConns, "PG_MAX_OPEN_CONNS")
	num(&c.Postgres.MaxIdleConns, "PG_MAX_IDLE_CONNS")

	flag(&c.RateLimit.Enabled, "RATE_LIMIT_ENABLED")
	num(&c.RateLimit.QPS, "RATE_LIMIT_QPS")

	flag(&c.TLS.Enabled, "TLS_ENABLE")
	str(&c.TLS.CertPath, "TLS_CERT_PATH")
	str(&c.TLS.KeyPath, "TLS_KEY_PATH")
}

func str(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func num(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			*dst = n
		}
	}
}

func flag(dst *bool, key string) {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		*dst = true
	case "false", "0", "no":
		*dst = false
	}
}
