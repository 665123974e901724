package control_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/trucksim-oss/entity/control"
)

// 标定配置：目标速度比例0.75，减速度2m/s²，前瞻12s，容差3m/s
func newTestController(t *testing.T) *control.Controller {
	c, err := control.New(0.75, 2.0, 12.0, 3.0)
	assert.Nil(t, err)
	assert.Equal(t, control.StateCruising, c.State())
	return c
}

func TestNewInvalidConfig(t *testing.T) {
	for _, args := range [][4]float64{
		{0, 2, 12, 3},    // 比例为零
		{1.5, 2, 12, 3},  // 比例超过1
		{-0.5, 2, 12, 3}, // 比例为负
		{0.75, -1, 12, 3},
		{0.75, 2, 0, 3},
		{0.75, 2, -12, 3},
		{0.75, 2, 12, -1},
	} {
		_, err := control.New(args[0], args[1], args[2], args[3])
		assert.ErrorIs(t, err, control.ErrInvalidConfig, "args=%v", args)
	}
}

func TestAdjustInvalidInput(t *testing.T) {
	c := newTestController(t)
	_, _, err := c.Adjust(20, 1, 40, 0, 1)
	assert.ErrorIs(t, err, control.ErrInvalidRadius)
	_, _, err = c.Adjust(20, 1, 40, -50, 1)
	assert.ErrorIs(t, err, control.ErrInvalidRadius)
	_, _, err = c.Adjust(20, 1, 40, math.Inf(-1), 1)
	assert.ErrorIs(t, err, control.ErrInvalidRadius)
	_, _, err = c.Adjust(20, 1, -1, 50, 1)
	assert.ErrorIs(t, err, control.ErrInvalidDistance)
	_, _, err = c.Adjust(20, 1, 40, 50, 0)
	assert.ErrorIs(t, err, control.ErrInvalidTimestep)
	_, _, err = c.Adjust(20, 1, 40, 50, -1)
	assert.ErrorIs(t, err, control.ErrInvalidTimestep)
	// 非法输入不改变状态
	assert.Equal(t, control.StateCruising, c.State())
}

func TestAdjustBrakeForCurve(t *testing.T) {
	c := newTestController(t)
	// 弯道进入前瞻窗且到达减速点，完全覆盖基准指令
	acc, omega, err := c.Adjust(20, 1, 40, 50, 1)
	assert.Nil(t, err)
	assert.InDelta(t, -2, acc, 1e-10)
	assert.Greater(t, omega, 0.0)
	assert.Equal(t, control.StateDecelerating, c.State())
}

func TestAdjustFarCurvePassThrough(t *testing.T) {
	c := newTestController(t)
	// 弯道尚远，透传基准指令
	acc, omega, err := c.Adjust(20, 1, 120, 50, 1)
	assert.Nil(t, err)
	assert.InDelta(t, 1, acc, 1e-10)
	assert.Greater(t, omega, 0.0)
	assert.Equal(t, control.StateCruising, c.State())
}

func TestAdjustStraightPassThrough(t *testing.T) {
	c := newTestController(t)
	// 前方无弯道
	acc, omega, err := c.Adjust(20, 1.5, math.Inf(1), math.Inf(1), 1)
	assert.Nil(t, err)
	assert.InDelta(t, 1.5, acc, 1e-10)
	assert.Zero(t, omega)
	assert.Equal(t, control.StateCruising, c.State())
}

func TestAdjustHold(t *testing.T) {
	c := newTestController(t)
	_, _, err := c.Adjust(20, 1, 40, 50, 1)
	assert.Nil(t, err)
	// 速度降至目标（0.75*20=15）容差内，进入弯道保持
	acc, _, err := c.Adjust(15, 2, 0, 20, 1)
	assert.Nil(t, err)
	assert.InDelta(t, 0, acc, 1e-10)
	assert.Equal(t, control.StateCurveHold, c.State())
}

func TestAdjustResume(t *testing.T) {
	c := newTestController(t)
	_, _, err := c.Adjust(20, 1, 40, 50, 1)
	assert.Nil(t, err)
	_, _, err = c.Adjust(15, 2, 0, 20, 1)
	assert.Nil(t, err)
	// 弯道消失，恢复巡航并当次透传基准指令
	acc, omega, err := c.Adjust(15, 3, 200, math.Inf(1), 1)
	assert.Nil(t, err)
	assert.InDelta(t, 3, acc, 1e-10)
	assert.Zero(t, omega)
	assert.Equal(t, control.StateResuming, c.State())
	// 下一步行为与巡航一致
	acc, _, err = c.Adjust(16, 1.2, 500, math.Inf(1), 1)
	assert.Nil(t, err)
	assert.InDelta(t, 1.2, acc, 1e-10)
	assert.Equal(t, control.StateCruising, c.State())
}

func TestAdjustDecelVanishingCurve(t *testing.T) {
	c := newTestController(t)
	_, _, err := c.Adjust(20, 1, 40, 50, 1)
	assert.Nil(t, err)
	// 减速途中弯道消失，放弃减速
	acc, _, err := c.Adjust(18, 1, math.Inf(1), math.Inf(1), 1)
	assert.Nil(t, err)
	assert.InDelta(t, 1, acc, 1e-10)
	assert.Equal(t, control.StateResuming, c.State())
}

func TestTurnRateSignalStrictlyPositive(t *testing.T) {
	c := newTestController(t)
	// 有限正半径时转向率信号严格为正，静止时亦然
	_, omega, err := c.Adjust(0, 0, 10, 50, 1)
	assert.Nil(t, err)
	assert.Greater(t, omega, 0.0)
	// 速度越高信号越大
	c2 := newTestController(t)
	_, omegaFast, err := c2.Adjust(20, 1, 120, 50, 1)
	assert.Nil(t, err)
	assert.Greater(t, omegaFast, omega)
}

func TestAdjustHoldUntilCurveLeavesHorizon(t *testing.T) {
	c := newTestController(t)
	_, _, err := c.Adjust(20, 1, 40, 50, 1)
	assert.Nil(t, err)
	_, _, err = c.Adjust(15, 2, 0, 20, 1)
	assert.Nil(t, err)
	assert.Equal(t, control.StateCurveHold, c.State())
	// 弯道仍在前瞻窗内，维持保持
	acc, _, err := c.Adjust(15, 2, 30, 20, 1)
	assert.Nil(t, err)
	assert.InDelta(t, 0, acc, 1e-10)
	assert.Equal(t, control.StateCurveHold, c.State())
	// 下一弯道退出前瞻窗（300/15=20s > 12s），恢复巡航
	acc, _, err = c.Adjust(15, 2.5, 300, 50, 1)
	assert.Nil(t, err)
	assert.InDelta(t, 2.5, acc, 1e-10)
	assert.Equal(t, control.StateResuming, c.State())
}

// 完整减速-保持-出弯片段（刹车 2m/s²，dt=1s 逐步积分）
func TestAdjustEpisode(t *testing.T) {
	c, err := control.New(0.75, 2.0, 12.0, 3.0)
	assert.Nil(t, err)
	// 到达减速点（制动距离43.75m），触发减速
	acc, _, err := c.Adjust(20, 0.5, 43, 50, 1)
	assert.Nil(t, err)
	assert.InDelta(t, -2, acc, 1e-10)
	assert.Equal(t, control.StateDecelerating, c.State())
	// 一步后降至18m/s，已在目标速度（15m/s）容差内，切入保持
	acc, omega, err := c.Adjust(18, 0.5, 23, 50, 1)
	assert.Nil(t, err)
	assert.InDelta(t, 0, acc, 1e-10)
	assert.Greater(t, omega, 0.0)
	assert.Equal(t, control.StateCurveHold, c.State())
	// 弯道内维持零加速度
	acc, omega, err = c.Adjust(18, 0.5, 0, 50, 1)
	assert.Nil(t, err)
	assert.InDelta(t, 0, acc, 1e-10)
	assert.InDelta(t, 18.0/50, omega, 1e-10)
	// 出弯恢复并透传基准指令
	acc, omega, err = c.Adjust(18, 1, math.Inf(1), math.Inf(1), 1)
	assert.Nil(t, err)
	assert.InDelta(t, 1, acc, 1e-10)
	assert.Zero(t, omega)
	assert.Equal(t, control.StateResuming, c.State())
}
