package tire

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrShapeMismatch 轮胎输入序列长度不一致
	ErrShapeMismatch = errors.New("tire: shape mismatch")
	// ErrInvalidContactArea 接触面积非法（负值或总和为零），无法归一化
	ErrInvalidContactArea = errors.New("tire: invalid contact area")
)

// Params 轮胎侧向力曲线参数
// 功能：描述魔术公式风格的饱和非线性侧向力曲线
// 说明：全车共用一组参数（简化模型假设整车使用同一种轮胎）
//   - B: 刚度因子
//   - C: 形状因子
//   - D: 峰值因子（单胎侧向力上限为 D*载荷）
//   - E: 曲率因子
type Params struct {
	B float64
	C float64
	D float64
	E float64
}

// Model 整车轮胎侧向力模型
// 功能：根据各胎垂向载荷、接触面积与车体坐标系速度计算总侧向力与横摆力矩
// 说明：轮胎沿纵轴的安装位置（力臂）在构造时确定，
// 每次调用的载荷、面积序列长度必须与安装位置数一致
type Model struct {
	params Params
	// 各胎相对质心的纵向位置（米，前正后负），horizontal lever arm
	offsets []float64
}

// NewModel 创建轮胎模型
// 功能：初始化整车轮胎侧向力模型
// 参数：params-曲线参数，offsets-各胎纵向安装位置（米）
// 返回：模型实例和错误信息
// 说明：至少需要一条轮胎；位置序列在模型生命周期内不可变
func NewModel(params Params, offsets []float64) (*Model, error) {
	if len(offsets) == 0 {
		return nil, fmt.Errorf("%w: no tire offsets", ErrShapeMismatch)
	}
	m := &Model{
		params:  params,
		offsets: make([]float64, len(offsets)),
	}
	copy(m.offsets, offsets)
	return m, nil
}

// NumTires 获取轮胎数量
func (m *Model) NumTires() int {
	return len(m.offsets)
}

// lateralForce 单胎侧向力曲线
// 功能：计算给定侧偏角下的无量纲侧向力系数
// 参数：alpha-侧偏角（弧度）
// 返回：侧向力系数（[-1,1]，乘以 D*载荷 得到侧向力）
// 算法说明：
// 1. magic-formula: sin(C*atan(B*x - E*(B*x - atan(B*x))))
// 2. 曲线关于零侧偏角为奇函数，侧偏增大时趋于饱和
// 3. 取负号使侧向力与侧偏方向相反（回正）
func (m *Model) lateralForce(alpha float64) float64 {
	x := m.params.B * alpha
	return -math.Sin(m.params.C * math.Atan(x-m.params.E*(x-math.Atan(x))))
}

// Compute 计算整车侧向力与横摆力矩
// 功能：对每条轮胎求侧偏角与侧向力并按位置求和
// 参数：
//   - loads: 各胎垂向载荷（牛），与安装位置一一对应
//   - areas: 各胎接触面积，不要求归一化（内部按 area_i/Σarea 加权）
//   - u: 纵向速度（米/秒）
//   - v: 横向速度（米/秒）
//   - r: 横摆角速度（弧度/秒）
//
// 返回：总侧向力（牛）、绕质心的横摆力矩（牛·米）和错误信息
// 算法说明：
// 1. 各胎处的横向速度分量 v_i = v + r*offset_i
// 2. 侧偏角 alpha_i = atan2(v_i, u)
// 3. 单胎侧向力 Fy_i = D * load_i * w_i * curve(alpha_i)，w_i 为面积权重
// 4. 总侧向力 ΣFy_i，横摆力矩 ΣFy_i*offset_i
// 边界情况：u == 0 时侧偏角无定义，按模型约定所有轮胎侧向力取零（非错误）
func (m *Model) Compute(loads, areas []float64, u, v, r float64) (totalFy, yawMoment float64, err error) {
	n := len(m.offsets)
	if len(loads) != n || len(areas) != n {
		return 0, 0, fmt.Errorf("%w: loads=%d areas=%d offsets=%d",
			ErrShapeMismatch, len(loads), len(areas), n)
	}
	for i, a := range areas {
		if a < 0 {
			return 0, 0, fmt.Errorf("%w: areas[%d]=%v", ErrInvalidContactArea, i, a)
		}
	}
	totalArea := floats.Sum(areas)
	if totalArea <= 0 {
		return 0, 0, fmt.Errorf("%w: total area %v", ErrInvalidContactArea, totalArea)
	}
	if u == 0 {
		// 车辆静止，侧偏角无定义，约定侧向力为零
		return 0, 0, nil
	}
	fy := make([]float64, n)
	mz := make([]float64, n)
	for i, offset := range m.offsets {
		alpha := math.Atan2(v+r*offset, u)
		w := areas[i] / totalArea
		fy[i] = m.params.D * loads[i] * w * m.lateralForce(alpha)
		mz[i] = fy[i] * offset
	}
	return floats.Sum(fy), floats.Sum(mz), nil
}
