package route

import (
	"errors"
	"fmt"
	"math"
)

// ErrBadSegment 路线段定义非法
var ErrBadSegment = errors.New("route: bad segment")

// Segment 路线段
// 功能：描述一段定曲率道路
// 说明：Radius<=0表示直线段（配置中省略半径即为直线）
type Segment struct {
	Length float64 // 段长（米，>0）
	Radius float64 // 弯道半径（米，>0为弯道，否则为直线）
}

// IsCurve 判断是否为弯道段
func (s Segment) IsCurve() bool {
	return s.Radius > 0
}

// Route 车辆行驶路线
// 功能：有序路线段集合，提供弯道前瞻查询
// 说明：构造后不可变，可被多辆车共享（纯查询）
type Route struct {
	segments []Segment
	// 各段起点的累计里程，len = len(segments)+1，最后一项为总里程
	cum []float64
}

// New 创建路线
// 功能：校验并构建路线段序列与累计里程表
// 参数：segments-路线段列表，至少一段
// 返回：路线实例和错误信息
func New(segments []Segment) (*Route, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: empty route", ErrBadSegment)
	}
	r := &Route{
		segments: make([]Segment, len(segments)),
		cum:      make([]float64, len(segments)+1),
	}
	copy(r.segments, segments)
	for i, seg := range segments {
		if seg.Length <= 0 {
			return nil, fmt.Errorf("%w: segment %d length %v", ErrBadSegment, i, seg.Length)
		}
		r.cum[i+1] = r.cum[i] + seg.Length
	}
	return r, nil
}

// Length 获取路线总里程（米）
func (r *Route) Length() float64 {
	return r.cum[len(r.cum)-1]
}

// segmentAt 定位里程s所在的段下标
// 说明：s超出总里程时返回最后一段
func (r *Route) segmentAt(s float64) int {
	for i := range r.segments {
		if s < r.cum[i+1] {
			return i
		}
	}
	return len(r.segments) - 1
}

// NextCurve 弯道前瞻查询
// 功能：给出里程s处距下一弯道的距离与该弯道半径
// 参数：s-当前里程（米）
// 返回：距弯道距离（米）和弯道半径（米）
// 算法说明：
// 1. 当前处于弯道段内：距离为0，半径为当前段半径
// 2. 否则向前扫描首个弯道段：距离为其起点里程差，半径为其半径
// 3. 前方无弯道：距离与半径均为+Inf（直道语义）
func (r *Route) NextCurve(s float64) (distance, radius float64) {
	if s >= r.Length() {
		return math.Inf(1), math.Inf(1)
	}
	i := r.segmentAt(s)
	if r.segments[i].IsCurve() {
		return 0, r.segments[i].Radius
	}
	for j := i + 1; j < len(r.segments); j++ {
		if r.segments[j].IsCurve() {
			return r.cum[j] - s, r.segments[j].Radius
		}
	}
	return math.Inf(1), math.Inf(1)
}
