package tzindex

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// 单条缩放级记录：4 字节大端瓦片键 + 2 字节大端叶子索引
const zoomRecordSize = 6

const pixmapSize = 128

// 文档注释：解析单个缩放级表
// 背景：表为构建期产物，按固定 6 字节记录顺序排列；长度不是 6 的倍数即视为损坏。
// 约束：不在此处校验排序与叶子索引范围，由 Build 统一校验。
func DecodeZoomLevel(level int, b []byte) (ZoomLevel, error) {
	if len(b)%zoomRecordSize != 0 {
		return ZoomLevel{}, fmt.Errorf("zoom level %d: %d bytes: %w", level, len(b), ErrBadRecordLength)
	}
	n := len(b) / zoomRecordSize
	tiles := make([]TileEntry, n)
	for i := 0; i < n; i++ {
		rec := b[i*zoomRecordSize:]
		tiles[i] = TileEntry{
			Key:  TileKey(binary.BigEndian.Uint32(rec[0:4])),
			Leaf: binary.BigEndian.Uint16(rec[4:6]),
		}
	}
	return ZoomLevel{level: level, tiles: tiles}, nil
}

// 文档注释：顺序解析 n 条叶子记录
// 背景：叶子索引即解码顺序；'S' 为 NUL 结尾的 UTF-8 名称，'2' 为两个子索引加 64 位掩码，'P' 为 64 个大端 u16。
// 约束：任何截断、未知标记或非法名称均返回错误，不做部分恢复；n 条之后的多余字节被忽略。
func DecodeLeaves(r io.Reader, n int) ([]Leaf, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	leaves := make([]Leaf, 0, n)
	for i := 0; i < n; i++ {
		leaf, err := decodeLeaf(br)
		if err != nil {
			return nil, fmt.Errorf("leaf %d: %w", i, err)
		}
		leaves = append(leaves, leaf)
	}
	return leaves, nil
}

func decodeLeaf(br *bufio.Reader) (Leaf, error) {
	tag, err := br.ReadByte()
	if err != nil {
		return nil, truncated(err)
	}
	switch LeafKind(tag) {
	case KindStatic:
		name, err := br.ReadBytes(0)
		if err != nil {
			return nil, truncated(err)
		}
		name = name[:len(name)-1]
		if !utf8.Valid(name) {
			return nil, fmt.Errorf("%q: %w", name, ErrInvalidName)
		}
		return StaticZone{Name: string(name)}, nil
	case KindOneBit:
		var buf [12]byte
		if _, err := io.ReadFull(br, buf[:]); err != nil {
			return nil, truncated(err)
		}
		return OneBitTile{
			Children: [2]uint16{binary.BigEndian.Uint16(buf[0:2]), binary.BigEndian.Uint16(buf[2:4])},
			Bits:     binary.BigEndian.Uint64(buf[4:12]),
		}, nil
	case KindPixmap:
		var buf [pixmapSize]byte
		if _, err := io.ReadFull(br, buf[:]); err != nil {
			return nil, truncated(err)
		}
		p := &Pixmap{}
		for i := 0; i < 64; i++ {
			p.Grid[i/8][i%8] = binary.BigEndian.Uint16(buf[2*i:])
		}
		return p, nil
	default:
		return nil, fmt.Errorf("tag 0x%02x: %w", tag, ErrUnknownLeafKind)
	}
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return err
}

// DecodeLeavesBytes 是 DecodeLeaves 的字节切片版本
func DecodeLeavesBytes(b []byte, n int) ([]Leaf, error) {
	return DecodeLeaves(bytes.NewReader(b), n)
}

// CountLeaves 解析直到输入结束，返回完整叶子记录条数；末尾存在残缺记录时返回错误
func CountLeaves(b []byte) (int, error) {
	br := bufio.NewReader(bytes.NewReader(b))
	n := 0
	for {
		if _, err := br.Peek(1); err == io.EOF {
			return n, nil
		}
		if _, err := decodeLeaf(br); err != nil {
			return n, fmt.Errorf("leaf %d: %w", n, err)
		}
		n++
	}
}
