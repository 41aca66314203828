// 包 utils：外部依赖（Redis/PostgreSQL/TLS 证书）的连接与准备工具
package utils

import (
	"tz-api/internal/config"
	"tz-api/internal/logger"

	"github.com/redis/go-redis/v9"
)

// OpenRedis：按配置打开 Redis 客户端
// 约束：未启用时返回 nil，调用方需自行判空并跳过缓存
func OpenRedis(c config.Redis) *redis.Client {
	if !c.Enabled {
		return nil
	}
	addr := c.Host + ":" + c.Port
	logger.L().Debug("redis_open", "addr", addr, "db", c.DB)
	return redis.NewClient(&redis.Options{Addr: addr, Password: c.Pass, DB: c.DB})
}
