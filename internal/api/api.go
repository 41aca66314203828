// 包 api：集中注册 HTTP API 路由以解耦主入口，便于后续扩展与替换
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"tz-api/internal/config"
	"tz-api/internal/geoip"
	"tz-api/internal/logger"
	"tz-api/internal/metrics"
	"tz-api/internal/store"
	"tz-api/internal/tzindex"

	json "github.com/goccy/go-json"
	"github.com/jellydator/ttlcache/v3"
	"github.com/redis/go-redis/v9"
)

// Locator 将 IP 定位为坐标；*geoip.Reader 为其生产实现
type Locator interface {
	Locate(ip string) (geoip.Location, bool)
}

// Options 为路由依赖；除 Index 外均可为空，为空时对应功能降级或返回 503
type Options struct {
	Index      *tzindex.Handle
	GeoIP      Locator
	Store      *store.Store
	Redis      *redis.Client
	Cache      config.Cache
	DataDir    string
	AdminToken string
	Now        func() time.Time
}

type server struct {
	Options
	local *ttlcache.Cache[string, ipEntry]
}

// 文档注释：构建并返回 API 路由
// 背景：独立 ServeMux 便于在主入口挂载到 API_BASE 前缀；进程内 IP 缓存随路由创建，随进程退出。
func BuildRoutes(o Options) *http.ServeMux {
	if o.Now == nil {
		o.Now = time.Now
	}
	s := &server{Options: o}
	if o.Cache.LocalSize > 0 {
		ttl := time.Duration(o.Cache.LocalTTLS) * time.Second
		s.local = ttlcache.New[string, ipEntry](
			ttlcache.WithTTL[string, ipEntry](ttl),
			ttlcache.WithCapacity[string, ipEntry](uint64(o.Cache.LocalSize)),
			ttlcache.WithDisableTouchOnHit[string, ipEntry](),
		)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/tz", s.handleTZ)
	mux.HandleFunc("/tz/pixel", s.handlePixel)
	mux.HandleFunc("/tz/stats", s.handleIndexStats)
	mux.HandleFunc("/tz/zones", s.handleZones)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/reload-tables", s.handleReload)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResult{Error: msg})
}

func (s *server) handleTZ(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("lat") || q.Has("lon") {
		metrics.RequestsTotal.WithLabelValues("tz_coord").Inc()
		s.handleCoord(w, r)
		return
	}
	metrics.RequestsTotal.WithLabelValues("tz_ip").Inc()
	s.handleIP(w, r)
}

func parseCoord(r *http.Request) (float64, float64, error) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		return 0, 0, errors.New("lat: not a number")
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		return 0, 0, errors.New("lon: not a number")
	}
	if err := tzindex.CheckCoord(lat, lon); err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

// lookup 在当前索引上查询并计时；坐标需已校验
func (s *server) lookup(lat, lon float64) (string, bool, error) {
	begin := time.Now()
	zone, ok, err := s.Index.Lookup(lat, lon)
	if err != nil {
		return "", false, err
	}
	metrics.LookupDurationUs.Observe(float64(time.Since(begin).Nanoseconds()) / 1e3)
	if !ok {
		metrics.EmptyResultsTotal.Inc()
	}
	return zone, ok, nil
}

func (s *server) respond(w http.ResponseWriter, r *http.Request, res tzResult) {
	if off, abbr, ok := zoneOffset(res.Zone, s.Now()); ok {
		res.UTCOffset, res.Abbr = off, abbr
	}
	if res.Found {
		s.recordStats(r.Context(), res.Zone, getVisitorIP(r))
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleCoord(w http.ResponseWriter, r *http.Request) {
	lat, lon, err := parseCoord(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	zone, ok, err := s.lookup(lat, lon)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	logger.L().Debug("tz_lookup", "lat", lat, "lon", lon, "zone", zone, "found", ok)
	s.respond(w, r, tzResult{Lat: lat, Lon: lon, Zone: zone, Found: ok})
}

// 文档注释：按 IP 查询时区
// 背景：先查进程内缓存，再查 Redis，最后 GeoIP 定位并在索引上查询；结果回写两级缓存。
// 约束：无法定位的 IP 返回 404 且不缓存；GeoIP 未配置返回 503。
func (s *server) handleIP(w http.ResponseWriter, r *http.Request) {
	ip := getClientIP(r)
	if net.ParseIP(ip) == nil {
		writeError(w, http.StatusBadRequest, "ip: invalid address")
		return
	}
	if s.Index.Load() == nil {
		writeError(w, http.StatusServiceUnavailable, tzindex.ErrNotLoaded.Error())
		return
	}
	ctx := r.Context()
	if e, ok := s.cached(ctx, ip); ok {
		s.respond(w, r, fromEntry(ip, e, true))
		return
	}
	if s.GeoIP == nil {
		writeError(w, http.StatusServiceUnavailable, "geoip: not configured")
		return
	}
	loc, ok := s.GeoIP.Locate(ip)
	if !ok {
		metrics.GeoIPLookupsTotal.WithLabelValues("miss").Inc()
		writeError(w, http.StatusNotFound, "ip: location unknown")
		return
	}
	metrics.GeoIPLookupsTotal.WithLabelValues("hit").Inc()
	if tzindex.CheckCoord(loc.Lat, loc.Lon) != nil {
		writeError(w, http.StatusNotFound, "ip: location unknown")
		return
	}
	zone, found, err := s.lookup(loc.Lat, loc.Lon)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	e := ipEntry{Lat: loc.Lat, Lon: loc.Lon, Zone: zone, Found: found, Country: loc.Country, Accuracy: loc.AccuracyKm}
	s.remember(ctx, ip, e)
	logger.L().Debug("tz_ip_lookup", "ip", ip, "zone", zone, "found", found)
	s.respond(w, r, fromEntry(ip, e, false))
}

func fromEntry(ip string, e ipEntry, cached bool) tzResult {
	return tzResult{
		IP: ip, Lat: e.Lat, Lon: e.Lon, Zone: e.Zone, Found: e.Found,
		Country: e.Country, Accuracy: e.Accuracy, Cached: cached,
	}
}

func redisKey(ip string) string { return "tz:ip:" + ip }

func (s *server) cached(ctx context.Context, ip string) (ipEntry, bool) {
	if s.local != nil {
		if it := s.local.Get(ip); it != nil {
			return it.Value(), true
		}
	}
	if s.Redis == nil {
		return ipEntry{}, false
	}
	b, err := s.Redis.Get(ctx, redisKey(ip)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.L().Warn("redis_get_error", "err", err)
		}
		metrics.RedisMissesTotal.Inc()
		return ipEntry{}, false
	}
	var e ipEntry
	if err := json.Unmarshal(b, &e); err != nil {
		metrics.RedisMissesTotal.Inc()
		return ipEntry{}, false
	}
	metrics.RedisHitsTotal.Inc()
	if s.local != nil {
		s.local.Set(ip, e, ttlcache.DefaultTTL)
	}
	return e, true
}

func (s *server) remember(ctx context.Context, ip string, e ipEntry) {
	if s.local != nil {
		s.local.Set(ip, e, ttlcache.DefaultTTL)
	}
	if s.Redis == nil {
		return
	}
	b, err := json.Marshal(e)
	if err != nil {
		return
	}
	ttl := time.Duration(s.Cache.RedisTTLS) * time.Second
	if err := s.Redis.Set(ctx, redisKey(ip), b, ttl).Err(); err != nil {
		logger.L().Warn("redis_set_error", "err", err)
	}
}

// recordStats 累加查询统计；访客按天经布隆位图去重
func (s *server) recordStats(ctx context.Context, zone, visitorIP string) {
	if s.Store == nil {
		return
	}
	visitor := ""
	if visitorIP != "" {
		first, err := bloomCheckAndSet(ctx, s.Redis, bloomKey(s.Now()), bloomPositions([]byte(visitorIP), bloomBits, bloomHashes), bloomTTL)
		if err != nil {
			logger.L().Warn("bloom_error", "err", err)
		}
		if first {
			visitor = visitorIP
		}
	}
	if err := s.Store.IncrStats(ctx, zone, visitor); err != nil {
		logger.L().Warn("stats_incr_error", "zone", zone, "err", err)
	}
}

func (s *server) handlePixel(w http.ResponseWriter, r *http.Request) {
	metrics.RequestsTotal.WithLabelValues("tz_pixel").Inc()
	q := r.URL.Query()
	x, err1 := strconv.Atoi(q.Get("x"))
	y, err2 := strconv.Atoi(q.Get("y"))
	if err1 != nil || err2 != nil {
		writeError(w, http.StatusBadRequest, "x, y: not integers")
		return
	}
	ix := s.Index.Load()
	if ix == nil {
		writeError(w, http.StatusServiceUnavailable, tzindex.ErrNotLoaded.Error())
		return
	}
	zone, ok := ix.LookupPixel(x, y)
	writeJSON(w, http.StatusOK, pixelResult{X: x, Y: y, Zone: zone, Found: ok})
}

func (s *server) handleIndexStats(w http.ResponseWriter, r *http.Request) {
	ix := s.Index.Load()
	if ix == nil {
		writeError(w, http.StatusServiceUnavailable, tzindex.ErrNotLoaded.Error())
		return
	}
	writeJSON(w, http.StatusOK, ix.Stats())
}

func (s *server) handleZones(w http.ResponseWriter, r *http.Request) {
	ix := s.Index.Load()
	if ix == nil {
		writeError(w, http.StatusServiceUnavailable, tzindex.ErrNotLoaded.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"zones": ix.Zones()})
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "stats: store disabled")
		return
	}
	t, err := s.Store.GetTotals(r.Context())
	if err != nil {
		logger.L().Error("stats_totals_error", "err", err)
		writeError(w, http.StatusInternalServerError, "stats: unavailable")
		return
	}
	top, err := s.Store.TopZones(r.Context(), 10)
	if err != nil {
		logger.L().Error("stats_top_zones_error", "err", err)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total": t.Total, "today": t.Today,
		"total_visitors": t.TotalVisitors, "today_visitors": t.TodayVisitors,
		"top_zones": top,
	})
}

// 文档注释：重新加载表文件并原子切换索引
// 约束：需要 x-admin-token 且服务端配置了 ADMIN_TOKEN；构建失败时继续使用旧索引。
func (s *server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	t := r.Header.Get("x-admin-token")
	if s.AdminToken == "" || t != s.AdminToken {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	ix, err := s.Index.Reload(s.DataDir)
	if err != nil {
		metrics.IndexReloadsTotal.WithLabelValues("error").Inc()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.IndexReloadsTotal.WithLabelValues("ok").Inc()
	metrics.IndexLeaves.Set(float64(ix.NumLeaves()))
	if s.local != nil {
		s.local.DeleteAll()
	}
	writeJSON(w, http.StatusOK, ix.Stats())
}
