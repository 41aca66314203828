package tzindex

import "errors"

// 表构建与查询的哨兵错误；调用方以 errors.Is 判断
var (
	ErrBadRecordLength = errors.New("tzindex: bad record length")
	// 叶子流在记录中途结束
	ErrTruncated       = errors.New("tzindex: truncated stream")
	ErrUnknownLeafKind = errors.New("tzindex: unknown leaf kind")
	// 静态区名不是合法 UTF-8
	ErrInvalidName     = errors.New("tzindex: invalid zone name")
	ErrBadLeafIndex    = errors.New("tzindex: leaf index out of range")
	// 缩放级表未按瓦片键严格升序
	ErrUnsorted        = errors.New("tzindex: zoom table not sorted")
	// 叶子相互引用，无法到达终止叶子
	ErrCycle           = errors.New("tzindex: leaf reference cycle")
	ErrLevelCount      = errors.New("tzindex: wrong number of zoom levels")
	ErrCoordOutOfRange = errors.New("tzindex: coordinate out of range")
)
