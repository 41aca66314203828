// 包 tzfixture：以生产表的二进制格式构建小型合成表集，仅供测试使用
package tzfixture

import (
	"encoding/binary"
	"sort"

	"tz-api/internal/tables"
	"tz-api/internal/tzindex"
)

// Builder 累积叶子与瓦片并序列化为原始表
type Builder struct {
	leaves [][]byte
	names  map[string]uint16
	tiles  [tzindex.NumLevels]map[tzindex.TileKey]uint16
}

func NewBuilder() *Builder {
	b := &Builder{names: make(map[string]uint16)}
	for i := range b.tiles {
		b.tiles[i] = make(map[tzindex.TileKey]uint16)
	}
	return b
}

// Static 返回 name 对应静态叶子的索引；同名只添加一次
func (b *Builder) Static(name string) uint16 {
	if i, ok := b.names[name]; ok {
		return i
	}
	i := b.add(EncodeLeaf(tzindex.StaticZone{Name: name}))
	b.names[name] = i
	return i
}

// OneBit 添加一位图叶子；第 y*8+x 位为 1 时像素 (x,y) 选 second
func (b *Builder) OneBit(first, second uint16, bits uint64) uint16 {
	return b.add(EncodeLeaf(tzindex.OneBitTile{Children: [2]uint16{first, second}, Bits: bits}))
}

func (b *Builder) Pixmap(grid [8][8]uint16) uint16 {
	return b.add(EncodeLeaf(&tzindex.Pixmap{Grid: grid}))
}

// RawLeaf 追加已编码的记录
func (b *Builder) RawLeaf(rec []byte) uint16 { return b.add(rec) }

func (b *Builder) add(rec []byte) uint16 {
	b.leaves = append(b.leaves, rec)
	return uint16(len(b.leaves) - 1)
}

// TileAt 将包含像素 (x,y) 的 level 级瓦片映射到 leaf
func (b *Builder) TileAt(level, x, y int, leaf uint16) {
	shift := uint(3 + level)
	b.tiles[level][tzindex.PackTileKey(uint8(level), uint16(x>>shift), uint16(y>>shift))] = leaf
}

func (b *Builder) Raw() *tables.Raw {
	raw := &tables.Raw{
		Manifest: tables.Manifest{
			NumLeaves: len(b.leaves),
			DegPixels: tables.DegPixels,
			Levels:    tables.NumLevels,
			Build:     "fixture",
		},
		Levels: make([][]byte, tzindex.NumLevels),
	}
	for level, m := range b.tiles {
		keys := make([]tzindex.TileKey, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		out := make([]byte, 0, 6*len(keys))
		for _, k := range keys {
			out = binary.BigEndian.AppendUint32(out, uint32(k))
			out = binary.BigEndian.AppendUint16(out, m[k])
		}
		raw.Levels[level] = out
	}
	for _, rec := range b.leaves {
		raw.Leaves = append(raw.Leaves, rec...)
	}
	return raw
}

// EncodeLeaf 返回 l 的表记录
func EncodeLeaf(l tzindex.Leaf) []byte {
	switch l := l.(type) {
	case tzindex.StaticZone:
		out := append([]byte{byte(tzindex.KindStatic)}, l.Name...)
		return append(out, 0)
	case tzindex.OneBitTile:
		out := []byte{byte(tzindex.KindOneBit)}
		out = binary.BigEndian.AppendUint16(out, l.Children[0])
		out = binary.BigEndian.AppendUint16(out, l.Children[1])
		return binary.BigEndian.AppendUint64(out, l.Bits)
	case *tzindex.Pixmap:
		out := []byte{byte(tzindex.KindPixmap)}
		for _, row := range l.Grid {
			for _, c := range row {
				out = binary.BigEndian.AppendUint16(out, c)
			}
		}
		return out
	}
	return nil
}

// Fill 返回所有像素均为 leaf 的网格
func Fill(leaf uint16) [8][8]uint16 {
	var g [8][8]uint16
	for y := range g {
		for x := range g[y] {
			g[y][x] = leaf
		}
	}
	return g
}
