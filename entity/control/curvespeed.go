package control

import (
	"errors"
	"fmt"
	"math"

	"git.fiblab.net/general/common/v2/mathutil"
)

var (
	// ErrInvalidConfig 控制器配置非法
	ErrInvalidConfig = errors.New("control: invalid config")
	// ErrInvalidRadius 弯道半径非法（<=0且非无穷）
	ErrInvalidRadius = errors.New("control: invalid curve radius")
	// ErrInvalidDistance 距弯道距离非法（负值）
	ErrInvalidDistance = errors.New("control: invalid distance to curve")
	// ErrInvalidTimestep 时间步长非法（<=0）
	ErrInvalidTimestep = errors.New("control: invalid timestep")
)

// State 控制器状态枚举
type State int32

const (
	StateCruising     State = iota // 巡航：透传基准加速度
	StateDecelerating              // 减速：全量输出-decel直到降至目标速度
	StateCurveHold                 // 弯道保持：输出零加速度
	StateResuming                  // 恢复巡航：离开弯道后的过渡状态，行为与巡航一致
)

// String 获取状态的字符串表示
func (s State) String() string {
	switch s {
	case StateCruising:
		return "CRUISING"
	case StateDecelerating:
		return "DECELERATING"
	case StateCurveHold:
		return "CURVE_HOLD"
	case StateResuming:
		return "RESUMING"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// minTurnRateSpeed 转向率信号的最小速度下限（米/秒）
// 功能：保证有限正半径下转向率信号严格为正（静止时给出爬行速度对应的曲率需求）
const minTurnRateSpeed = 0.1

// Config 弯道限速控制器配置
// 功能：描述控制器的减速策略，构造后不可变
type Config struct {
	TargetSpeedFraction float64 // 目标速度比例（0..1]，目标速度=比例*减速起始速度
	DecelMagnitude      float64 // 减速度大小（米/秒²，>=0）
	LookaheadHorizon    float64 // 前瞻时间窗（秒），超出该时距的弯道不触发减速
	HoldTolerance       float64 // 判定到达目标速度的容差（米/秒）
}

// Controller 弯道限速控制器
// 功能：在接近弯道时压制基准加速度指令，弯道内保持速度，离开弯道后恢复
// 说明：显式实例替代历史实现中的进程级隐藏单例；
// 运行时状态归调用方独占，一辆车一个实例，跨协程共享须由调用方自行串行化
type Controller struct {
	cfg Config

	state State
	// 减速开始时刻记录的速度，目标速度 = TargetSpeedFraction * refSpeed
	refSpeed float64
	// 已推进的控制时间（秒），仅用于调试日志
	t float64
}

// New 创建弯道限速控制器
// 功能：校验配置并初始化控制器，初始状态为巡航
// 参数：fraction-目标速度比例，decel-减速度大小，
// lookahead-前瞻时间窗（秒），holdTol-目标速度判定容差（米/秒）
// 返回：控制器实例和错误信息
func New(fraction, decel, lookahead, holdTol float64) (*Controller, error) {
	if fraction <= 0 || fraction > 1 {
		return nil, fmt.Errorf("%w: target speed fraction %v", ErrInvalidConfig, fraction)
	}
	if decel < 0 {
		return nil, fmt.Errorf("%w: decel magnitude %v", ErrInvalidConfig, decel)
	}
	if lookahead <= 0 {
		return nil, fmt.Errorf("%w: lookahead horizon %v", ErrInvalidConfig, lookahead)
	}
	if holdTol < 0 {
		return nil, fmt.Errorf("%w: hold tolerance %v", ErrInvalidConfig, holdTol)
	}
	return &Controller{
		cfg: Config{
			TargetSpeedFraction: fraction,
			DecelMagnitude:      decel,
			LookaheadHorizon:    lookahead,
			HoldTolerance:       holdTol,
		},
		state: StateCruising,
	}, nil
}

// State 获取当前状态
func (c *Controller) State() State {
	return c.state
}

// timeToCurve 估计到达弯道的时间（秒）
func timeToCurve(v, distance float64) float64 {
	if v <= 0 {
		return mathutil.INF
	}
	return distance / v
}

// brakingDistance 计算减速点距离
// 功能：以配置的减速度从当前速度降至目标速度所需的距离
// 算法说明：d = (v² - (fraction*v)²) / (2*decel) = v²(1-fraction²)/(2*decel)
func (c *Controller) brakingDistance(v float64) float64 {
	if c.cfg.DecelMagnitude <= 0 {
		return mathutil.INF
	}
	return v * v * (1 - c.cfg.TargetSpeedFraction*c.cfg.TargetSpeedFraction) /
		(2 * c.cfg.DecelMagnitude)
}

// shouldBrake 判断是否应开始减速
// 功能：弯道在前瞻时间窗内且车辆已到达减速点时触发减速
func (c *Controller) shouldBrake(v, distance float64) bool {
	return timeToCurve(v, distance) < c.cfg.LookaheadHorizon &&
		distance <= c.brakingDistance(v)
}

// Adjust 执行一次控制步
// 功能：根据当前速度与弯道前瞻信息修正加速度指令
// 参数：
//   - currentSpeed: 当前纵向速度（米/秒）
//   - baselineAccel: 上游给出的基准加速度指令（米/秒²）
//   - distanceToCurve: 距下一弯道的距离（米，+Inf表示前方无弯道）
//   - curveRadius: 弯道半径（米，+Inf表示直道）
//   - dt: 控制步长（秒）
//
// 返回：修正后的加速度指令、转向率信号（弧度/秒）和错误信息
// 算法说明：
// 1. 巡航/恢复：弯道进入前瞻窗并到达减速点时切入减速并记录当前速度，
//    输出-decel（完全覆盖基准指令）；否则透传基准指令
// 2. 减速：速度降至目标速度（容差内）后切入弯道保持并输出零；
//    弯道消失则直接恢复巡航；否则继续输出-decel
// 3. 弯道保持：半径变为无穷或弯道重新超出前瞻窗时恢复巡航并在当次调用
//    立即透传基准指令；否则维持零加速度
// 4. 转向率信号：有限半径时为 max(v, 爬行速度)/r，恒为正；直道为零
// 边界情况：半径<=0（含-Inf）、距离<0、dt<=0 返回对应的哨兵错误，
// 状态与输出不发生任何变化
func (c *Controller) Adjust(
	currentSpeed, baselineAccel, distanceToCurve, curveRadius, dt float64,
) (accelOut, turnRateSignal float64, err error) {
	if !math.IsInf(curveRadius, 1) && curveRadius <= 0 {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidRadius, curveRadius)
	}
	if distanceToCurve < 0 {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidDistance, distanceToCurve)
	}
	if dt <= 0 {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidTimestep, dt)
	}
	c.t += dt

	curveAhead := !math.IsInf(curveRadius, 1)
	switch c.state {
	case StateCruising, StateResuming:
		if curveAhead && c.shouldBrake(currentSpeed, distanceToCurve) {
			c.state = StateDecelerating
			c.refSpeed = currentSpeed
			accelOut = -c.cfg.DecelMagnitude
			log.Debugf("control: t=%.2f brake for curve r=%v d=%v ref=%v",
				c.t, curveRadius, distanceToCurve, c.refSpeed)
		} else {
			c.state = StateCruising
			accelOut = baselineAccel
		}
	case StateDecelerating:
		target := c.cfg.TargetSpeedFraction * c.refSpeed
		if !curveAhead {
			// 弯道消失，放弃减速恢复巡航
			c.state = StateResuming
			accelOut = baselineAccel
		} else if currentSpeed <= target+c.cfg.HoldTolerance {
			c.state = StateCurveHold
			accelOut = 0
			log.Debugf("control: t=%.2f hold at v=%v (target %v)", c.t, currentSpeed, target)
		} else {
			accelOut = -c.cfg.DecelMagnitude
		}
	case StateCurveHold:
		if !curveAhead || timeToCurve(currentSpeed, distanceToCurve) > c.cfg.LookaheadHorizon {
			c.state = StateResuming
			accelOut = baselineAccel
			log.Debugf("control: t=%.2f resume cruising", c.t)
		} else {
			accelOut = 0
		}
	default:
		log.Panicf("control: unknown state %v", c.state)
	}

	if curveAhead {
		turnRateSignal = math.Max(currentSpeed, minTurnRateSpeed) / curveRadius
	}
	return accelOut, turnRateSignal, nil
}
