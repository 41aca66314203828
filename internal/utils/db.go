package utils

import (
	"database/sql"

	"tz-api/internal/config"

	_ "github.com/lib/pq"
)

func BuildPostgresDSN(c config.Postgres) string {
	dsn := "postgres://" + c.User
	if c.Password != "" {
		dsn += ":" + c.Password
	}
	dsn += "@" + c.Host + ":" + c.Port + "/" + c.DB + "?sslmode=" + c.SSLMode
	return dsn
}

// OpenPostgres 按配置打开连接池；未启用时返回 nil, nil
func OpenPostgres(c config.Postgres) (*sql.DB, error) {
	if !c.Enabled {
		return nil, nil
	}
	db, err := sql.Open("postgres", BuildPostgresDSN(c))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(c.MaxOpenConns)
	db.SetMaxIdleConns(c.MaxIdleConns)
	return db, nil
}
