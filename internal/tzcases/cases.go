// 包 tzcases：已知样例点及其期望时区；供测试与 tz-inspect 核对真实表使用
package tzcases

// PixelCase 像素坐标与期望时区；Zone 为空表示无时区
type PixelCase struct {
	X, Y int
	Zone string
}

// GeoCase 经纬度与期望时区；Zone 为空表示无时区
type GeoCase struct {
	Lat, Lon float64
	Zone     string
}

var Pixels = []PixelCase{
	{9200, 2410, "Asia/Phnom_Penh"},
	{9047, 2488, "Asia/Phnom_Penh"},

	// 一位图瓦片
	{9290, 530, "Asia/Krasnoyarsk"},
	{9290, 531, "Asia/Yakutsk"},

	// 像素图瓦片
	{2985, 1654, "America/Indiana/Vincennes"},
	{2986, 1654, "America/Indiana/Marengo"},
	{2986, 1655, "America/Indiana/Tell_City"},

	// 空瓦片
	{4000, 2000, ""},

	// 海上的大块单色瓦片
	{3687, 1845, "Atlantic/Bermuda"},
	{1747, 1486, "America/Los_Angeles"},

	// 小块单色瓦片
	{2924, 2316, "America/Belize"},
}

var Geo = []GeoCase{
	{37.7833, -122.4167, "America/Los_Angeles"},
	{-33.79, 151.17, "Australia/Sydney"},
	{0, 0, ""},
}
