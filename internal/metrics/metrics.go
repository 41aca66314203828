package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tzapi_requests_total",
		Help: "Total number of time zone lookup requests by route",
	}, []string{"route"})
	LookupDurationUs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tzapi_lookup_duration_us",
		Help:    "Index lookup duration in microseconds",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 25, 50, 100},
	})
	EmptyResultsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tzapi_empty_results_total",
		Help: "Total number of lookups that resolved to no zone",
	})
	RedisHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tzapi_redis_hits_total",
		Help: "Total redis cache hits",
	})
	RedisMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tzapi_redis_misses_total",
		Help: "Total redis cache misses",
	})
	GeoIPLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tzapi_geoip_lookups_total",
		Help: "GeoIP lookups by outcome",
	}, []string{"status"})
	IndexReloadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tzapi_index_reloads_total",
		Help: "Index reload attempts by outcome",
	}, []string{"status"})
	IndexLeaves = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tzapi_index_leaves",
		Help: "Number of leaves in the serving index",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(LookupDurationUs)
	prometheus.MustRegister(EmptyResultsTotal)
	prometheus.MustRegister(RedisHitsTotal)
	prometheus.MustRegister(RedisMissesTotal)
	prometheus.MustRegister(GeoIPLookupsTotal)
	prometheus.MustRegister(IndexReloadsTotal)
	prometheus.MustRegister(IndexLeaves)
}

// 文档注释：返回 Prometheus 指标监听器
// 背景：统一暴露注册指标到 <API_BASE>/metrics 路径，供 Prometheus 抓取；在主入口挂载。
func Handler() http.Handler { return promhttp.Handler() }
