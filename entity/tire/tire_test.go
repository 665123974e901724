package tire_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/trucksim-oss/entity/tire"
)

// 接近原始标定的牵引车-挂车参数
var (
	testParams = tire.Params{B: 10, C: 1.9, D: 1, E: 0.97}
	// 前轴、驱动轴、挂车轴（米，前正后负）
	testOffsets = []float64{3.5, 0.5, -4.5}
	testLoads   = []float64{30000, 50000, 60000}
	testAreas   = []float64{0.1, 0.2, 0.2}
)

func newTestModel(t *testing.T) *tire.Model {
	m, err := tire.NewModel(testParams, testOffsets)
	assert.Nil(t, err)
	assert.Equal(t, 3, m.NumTires())
	return m
}

func TestModelNoOffsets(t *testing.T) {
	_, err := tire.NewModel(testParams, nil)
	assert.ErrorIs(t, err, tire.ErrShapeMismatch)
}

func TestComputeShapeMismatch(t *testing.T) {
	m := newTestModel(t)
	_, _, err := m.Compute([]float64{1, 2}, testAreas, 10, 0, 0)
	assert.ErrorIs(t, err, tire.ErrShapeMismatch)
	_, _, err = m.Compute(testLoads, []float64{1}, 10, 0, 0)
	assert.ErrorIs(t, err, tire.ErrShapeMismatch)
}

func TestComputeInvalidArea(t *testing.T) {
	m := newTestModel(t)
	_, _, err := m.Compute(testLoads, []float64{0.1, -0.2, 0.2}, 10, 0, 0)
	assert.ErrorIs(t, err, tire.ErrInvalidContactArea)
	// 全零面积无法归一化
	_, _, err = m.Compute(testLoads, []float64{0, 0, 0}, 10, 0, 0)
	assert.ErrorIs(t, err, tire.ErrInvalidContactArea)
}

func TestComputeZeroLongitudinalSpeed(t *testing.T) {
	m := newTestModel(t)
	// 静止时侧偏角无定义，约定力与力矩为零（不是错误）
	fy, mz, err := m.Compute(testLoads, testAreas, 0, 1, 0.5)
	assert.Nil(t, err)
	assert.Zero(t, fy)
	assert.Zero(t, mz)
}

func TestComputeStraightRunning(t *testing.T) {
	m := newTestModel(t)
	// 直线行驶无侧偏，无侧向力
	fy, mz, err := m.Compute(testLoads, testAreas, 20, 0, 0)
	assert.Nil(t, err)
	assert.InDelta(t, 0, fy, 1e-12)
	assert.InDelta(t, 0, mz, 1e-12)
}

func TestComputeRestoringDirection(t *testing.T) {
	m := newTestModel(t)
	// 正侧偏（向左滑移）产生负侧向力（回正）
	fy, _, err := m.Compute(testLoads, testAreas, 20, 2, 0)
	assert.Nil(t, err)
	assert.Less(t, fy, 0.0)
}

func TestComputeAntisymmetry(t *testing.T) {
	m := newTestModel(t)
	fyPos, mzPos, err := m.Compute(testLoads, testAreas, 20, 1.5, 0.2)
	assert.Nil(t, err)
	fyNeg, mzNeg, err := m.Compute(testLoads, testAreas, 20, -1.5, -0.2)
	assert.Nil(t, err)
	assert.InDelta(t, -fyPos, fyNeg, 1e-9)
	assert.InDelta(t, -mzPos, mzNeg, 1e-9)
}

func TestComputeSaturation(t *testing.T) {
	m := newTestModel(t)
	// 极大侧偏下力饱和，不超过 D*Σ载荷
	totalLoad := 0.0
	for _, l := range testLoads {
		totalLoad += l
	}
	fy, _, err := m.Compute(testLoads, testAreas, 1, 100, 0)
	assert.Nil(t, err)
	assert.LessOrEqual(t, math.Abs(fy), testParams.D*totalLoad)
}

func TestComputeAreaScaleInvariance(t *testing.T) {
	m := newTestModel(t)
	// 面积内部归一化，整体缩放不改变结果
	fy1, mz1, err := m.Compute(testLoads, testAreas, 20, 1, 0.1)
	assert.Nil(t, err)
	scaled := make([]float64, len(testAreas))
	for i, a := range testAreas {
		scaled[i] = a * 7
	}
	fy2, mz2, err := m.Compute(testLoads, scaled, 20, 1, 0.1)
	assert.Nil(t, err)
	assert.InDelta(t, fy1, fy2, 1e-9)
	assert.InDelta(t, mz1, mz2, 1e-9)
}

func TestComputeYawLever(t *testing.T) {
	// 单胎模型：力矩 = 力 * 安装位置
	m, err := tire.NewModel(testParams, []float64{2.5})
	assert.Nil(t, err)
	fy, mz, err := m.Compute([]float64{10000}, []float64{0.1}, 20, 1, 0)
	assert.Nil(t, err)
	assert.InDelta(t, fy*2.5, mz, 1e-9)
}

func TestComputeYawRateCouplesOffsets(t *testing.T) {
	m := newTestModel(t)
	// 纯横摆角速度：前后轴侧偏角符号相反，合力矩回正（为负）
	fy, mz, err := m.Compute(testLoads, testAreas, 20, 0, 0.3)
	assert.Nil(t, err)
	assert.Less(t, mz, 0.0)
	// 合力不必为零（载荷与面积前后不对称）
	assert.False(t, math.IsNaN(fy))
}
