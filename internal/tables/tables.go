// 包 tables：时区表的容器层，负责读取 base64 文本包裹的 gzip 表文件并给出解压后的原始字节
package tables

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"tz-api/internal/logger"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
)

const (
	ManifestFile = "manifest.json"
	LeavesFile   = "leaves.bin"
	// 表格式固定的像素密度与分辨率数量
	DegPixels = 32
	NumLevels = 6
)

var (
	// 清单缺失或与表文件不一致
	ErrManifest = errors.New("tables: bad manifest")
	// 表文件不是 base64 包裹的 gzip
	ErrFrame    = errors.New("tables: bad frame")
)

// Manifest 描述一组表的生成参数；生产方与消费方须一致
type Manifest struct {
	NumLeaves int    `json:"num_leaves"`
	DegPixels int    `json:"deg_pixels"`
	Levels    int    `json:"levels"`
	Build     string `json:"build,omitempty"`
}

// Raw 解压后的原始表：Levels[i] 为第 i 级（瓦片边长 8<<i 像素）
type Raw struct {
	Manifest Manifest
	Levels   [][]byte
	Leaves   []byte
}

// LevelFile 返回第 level 级表文件名
func LevelFile(level int) string { return fmt.Sprintf("table%d.bin", level) }

func LoadDir(dir string) (*Raw, error) {
	logger.L().Debug("tables_load_begin", "dir", dir)
	return Load(os.DirFS(dir))
}

// 文档注释：从文件系统读取整组表
// 背景：清单先行，确定叶子数与级数；随后逐个解帧；任一文件缺失或损坏即整体失败。
// 约束：deg_pixels 必须为 32、levels 必须为 6，否则与查询端的像素换算不一致。
func Load(fsys fs.FS) (*Raw, error) {
	mb, err := fs.ReadFile(fsys, ManifestFile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ManifestFile, err)
	}
	var m Manifest
	if err := json.Unmarshal(mb, &m); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", ManifestFile, err, ErrManifest)
	}
	if err := m.check(); err != nil {
		return nil, err
	}
	raw := &Raw{Manifest: m, Levels: make([][]byte, m.Levels)}
	for i := 0; i < m.Levels; i++ {
		b, err := readFramed(fsys, LevelFile(i))
		if err != nil {
			return nil, err
		}
		raw.Levels[i] = b
	}
	if raw.Leaves, err = readFramed(fsys, LeavesFile); err != nil {
		return nil, err
	}
	logger.L().Debug("tables_load_done", "leaves", m.NumLeaves, "leaves_bytes", len(raw.Leaves), "build", m.Build)
	return raw, nil
}

func (m Manifest) check() error {
	if m.DegPixels != DegPixels {
		return fmt.Errorf("deg_pixels=%d: %w", m.DegPixels, ErrManifest)
	}
	if m.Levels != NumLevels {
		return fmt.Errorf("levels=%d: %w", m.Levels, ErrManifest)
	}
	if m.NumLeaves <= 0 || m.NumLeaves > 0xFFFF {
		return fmt.Errorf("num_leaves=%d: %w", m.NumLeaves, ErrManifest)
	}
	return nil
}

func readFramed(fsys fs.FS, name string) ([]byte, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	out, err := Unframe(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	logger.L().Debug("tables_file_loaded", "file", name, "framed", len(b), "raw", len(out))
	return out, nil
}

// Unframe 去掉 base64 文本包装并解压 gzip；允许包含换行等空白
func Unframe(b []byte) ([]byte, error) {
	text := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, string(b))
	gz, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("base64: %v: %w", err, ErrFrame)
	}
	zr, err := gzip.NewReader(bytes.NewReader(gz))
	if err != nil {
		return nil, fmt.Errorf("gzip: %v: %w", err, ErrFrame)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gzip: %v: %w", err, ErrFrame)
	}
	return out, nil
}

// Frame 将原始字节压缩并编码为 base64 文本，每 76 字符换行
func Frame(raw []byte) ([]byte, error) {
	var gz bytes.Buffer
	zw, err := gzip.NewWriterLevel(&gz, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(raw); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	enc := base64.StdEncoding.EncodeToString(gz.Bytes())
	var out bytes.Buffer
	for len(enc) > 76 {
		out.WriteString(enc[:76])
		out.WriteByte('\n')
		enc = enc[76:]
	}
	out.WriteString(enc)
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// 文档注释：将整组原始表写入目录（生产方使用）
// 背景：与 Load 互逆；清单最后写入，避免读方看到不完整的一组文件时误判为可用。
func WriteDir(dir string, raw *Raw) error {
	if err := raw.Manifest.check(); err != nil {
		return err
	}
	if len(raw.Levels) != raw.Manifest.Levels {
		return fmt.Errorf("have %d levels: %w", len(raw.Levels), ErrManifest)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	write := func(name string, b []byte) error {
		framed, err := Frame(b)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return os.WriteFile(filepath.Join(dir, name), framed, 0o644)
	}
	for i, b := range raw.Levels {
		if err := write(LevelFile(i), b); err != nil {
			return err
		}
	}
	if err := write(LeavesFile, raw.Leaves); err != nil {
		return err
	}
	mb, err := json.MarshalIndent(raw.Manifest, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), mb, 0o644); err != nil {
		return err
	}
	logger.L().Info("tables_written", "dir", dir, "leaves", raw.Manifest.NumLeaves)
	return nil
}
