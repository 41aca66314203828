package api

// 文档注释：时区查询返回结构（对外）
// 约束：字段稳定；utc_offset/abbr 在区名无法解析为 IANA 时区时省略。
type tzResult struct {
	IP        string  `json:"ip,omitempty"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Zone      string  `json:"zone"`
	Found     bool    `json:"found"`
	UTCOffset string  `json:"utc_offset,omitempty"`
	Abbr      string  `json:"abbr,omitempty"`
	Country   string  `json:"country,omitempty"`
	Accuracy  uint16  `json:"accuracy_km,omitempty"`
	Cached    bool    `json:"cached,omitempty"`
}

// ipEntry 为缓存中的 IP 定位结果；偏移量随日期变化，不入缓存
type ipEntry struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Zone     string  `json:"zone"`
	Found    bool    `json:"found"`
	Country  string  `json:"country,omitempty"`
	Accuracy uint16  `json:"accuracy_km,omitempty"`
}

type pixelResult struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Zone  string `json:"zone"`
	Found bool   `json:"found"`
}

type errorResult struct {
	Error string `json:"error"`
}
