package tzindex

import (
	"fmt"
	"sort"
	"time"

	"tz-api/internal/logger"
	"tz-api/internal/tables"

	"github.com/paulmach/orb"
)

// NumLevels 缩放级数量；第 i 级瓦片边长 8<<i 像素，查询自 5 级向 0 级进行
const NumLevels = 6

// 文档注释：时区瓦片索引
// 背景：一次性由压缩表构建，之后只读共享；查询无锁、无 I/O，结果字符串直接引用叶子中的名称。
// 约束：构建时已校验所有引用索引有效且叶子引用图无环，查询路径不再做深度保护。
type Index struct {
	levels [NumLevels]ZoomLevel
	leaves []Leaf
}

// New 由容器层解出的原始表构建索引
func New(raw *tables.Raw) (*Index, error) {
	return Build(raw.Levels, raw.Leaves, raw.Manifest.NumLeaves)
}

// LoadDir 从目录读取表文件并构建索引
func LoadDir(dir string) (*Index, error) {
	raw, err := tables.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	return New(raw)
}

// 文档注释：由各级原始字节与叶子字节构建索引
// 背景：levels[i] 为第 i 级解压后的表；leaves 为 numLeaves 条叶子记录。
// 返回：完整构建并通过校验的索引；任何损坏都使整个构建失败，不暴露部分结果。
func Build(levels [][]byte, leaves []byte, numLeaves int) (*Index, error) {
	t0 := time.Now()
	if len(levels) != NumLevels {
		return nil, fmt.Errorf("got %d tables: %w", len(levels), ErrLevelCount)
	}
	ix := &Index{}
	for i, b := range levels {
		zl, err := DecodeZoomLevel(i, b)
		if err != nil {
			return nil, err
		}
		ix.levels[i] = zl
	}
	ls, err := DecodeLeavesBytes(leaves, numLeaves)
	if err != nil {
		return nil, err
	}
	ix.leaves = ls
	if err := ix.validate(); err != nil {
		return nil, err
	}
	logger.L().Info("index_build_done",
		"leaves", len(ix.leaves),
		"tiles", ix.tileCount(),
		"ms", time.Since(t0).Milliseconds(),
	)
	return ix, nil
}

func (ix *Index) tileCount() int {
	n := 0
	for _, zl := range ix.levels {
		n += zl.Len()
	}
	return n
}

// Lookup 查询经纬度所在时区；海洋或未覆盖区域返回 ok=false
// 约束：lat ∈ [-90,90]、lon ∈ [-180,180]，越界 panic，调用方应先 CheckCoord
func (ix *Index) Lookup(lat, lon float64) (string, bool) {
	x, y := ToPixel(lat, lon)
	return ix.LookupPixel(x, y)
}

// LookupPoint 以 orb.Point（经度, 纬度）查询
func (ix *Index) LookupPoint(p orb.Point) (string, bool) {
	return ix.Lookup(p.Lat(), p.Lon())
}

// 文档注释：按像素坐标查询
// 背景：自第 5 级（瓦片最大）向第 0 级逐级查找；首个命中的瓦片即为最终答案，即使解析为海洋也不再查找更低的级别。
// 约束：平面外的像素返回未命中。
func (ix *Index) LookupPixel(x, y int) (string, bool) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return "", false
	}
	for level := NumLevels - 1; level >= 0; level-- {
		shift := uint(3 + level)
		key := PackTileKey(uint8(level), uint16(x>>shift), uint16(y>>shift))
		if leaf, ok := ix.levels[level].Find(key); ok {
			return ix.resolve(leaf, x, y)
		}
	}
	return "", false
}

func (ix *Index) resolve(idx uint16, x, y int) (string, bool) {
	lx, ly := x&7, y&7
	for {
		switch l := ix.leaves[idx].(type) {
		case StaticZone:
			return l.Name, true
		case OneBitTile:
			idx = l.Child(lx, ly)
		case *Pixmap:
			idx = l.At(lx, ly)
			if idx == OceanIndex {
				return "", false
			}
		default:
			return "", false
		}
	}
}

// Level 返回第 level 级瓦片表
func (ix *Index) Level(level int) ZoomLevel { return ix.levels[level] }

// Leaf 返回索引 i 处的叶子
func (ix *Index) Leaf(i int) Leaf { return ix.leaves[i] }

func (ix *Index) NumLeaves() int { return len(ix.leaves) }

// Zones 返回索引中出现的全部时区名（排序去重）
func (ix *Index) Zones() []string {
	seen := make(map[string]struct{})
	for _, l := range ix.leaves {
		if s, ok := l.(StaticZone); ok {
			seen[s.Name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Stats 索引概况
type Stats struct {
	Tiles  [NumLevels]int `json:"tiles"`
	Leaves int            `json:"leaves"`
	Static int            `json:"static"`
	OneBit int            `json:"one_bit"`
	Pixmap int            `json:"pixmap"`
	Zones  int            `json:"zones"`
}

func (ix *Index) Stats() Stats {
	var st Stats
	for i, zl := range ix.levels {
		st.Tiles[i] = zl.Len()
	}
	st.Leaves = len(ix.leaves)
	for _, l := range ix.leaves {
		switch l.Kind() {
		case KindStatic:
			st.Static++
		case KindOneBit:
			st.OneBit++
		case KindPixmap:
			st.Pixmap++
		}
	}
	st.Zones = len(ix.Zones())
	return st
}

// TileBound 返回某级瓦片覆盖的经纬度范围
func TileBound(level int, key TileKey) orb.Bound {
	span := float64(TileSpan(level)) / DegPixels
	minLon := float64(key.X())*span - 180
	maxLat := 90 - float64(key.Y())*span
	return orb.Bound{
		Min: orb.Point{minLon, maxLat - span},
		Max: orb.Point{minLon + span, maxLat},
	}
}
