// 包 geoip：基于 GeoLite2-City 的 IP 定位，只向上层暴露坐标与少量附带字段
package geoip

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
	"github.com/oschwald/maxminddb-golang"
)

var ErrNotCityDB = errors.New("geoip: database is not a City database")

// Location 为一次定位的结果；TimeZone 为库内自带的时区名，仅作对照
type Location struct {
	Lat        float64
	Lon        float64
	AccuracyKm uint16
	Country    string
	City       string
	TimeZone   string
}

type Reader struct {
	db *geoip2.Reader
}

// 文档注释：打开 mmdb 文件
// 约束：只接受 City 类型的库（Country/ASN 库没有坐标）
func Open(path string) (*Reader, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	return wrap(db)
}

func FromBytes(b []byte) (*Reader, error) {
	db, err := geoip2.FromBytes(b)
	if err != nil {
		return nil, err
	}
	return wrap(db)
}

func wrap(db *geoip2.Reader) (*Reader, error) {
	if err := checkMetadata(db.Metadata()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Reader{db: db}, nil
}

func checkMetadata(m maxminddb.Metadata) error {
	if !strings.Contains(m.DatabaseType, "City") {
		return fmt.Errorf("%w: %q", ErrNotCityDB, m.DatabaseType)
	}
	return nil
}

func (r *Reader) Metadata() maxminddb.Metadata {
	if r == nil || r.db == nil {
		return maxminddb.Metadata{}
	}
	return r.db.Metadata()
}

// Locate 返回 ip 对应的坐标；库中无记录或坐标缺失时 ok 为 false
func (r *Reader) Locate(ip string) (Location, bool) {
	var zero Location
	if r == nil || r.db == nil {
		return zero, false
	}
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return zero, false
	}
	rec, err := r.db.City(parsed)
	if err != nil || rec == nil {
		return zero, false
	}
	if rec.Location.Latitude == 0 && rec.Location.Longitude == 0 {
		return zero, false
	}
	return Location{
		Lat:        rec.Location.Latitude,
		Lon:        rec.Location.Longitude,
		AccuracyKm: rec.Location.AccuracyRadius,
		Country:    rec.Country.IsoCode,
		City:       rec.City.Names["en"],
		TimeZone:   rec.Location.TimeZone,
	}, true
}

func (r *Reader) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
