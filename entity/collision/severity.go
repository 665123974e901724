package collision

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidScenario 碰撞场景输入非法（质量、速度或约束类型非法）
var ErrInvalidScenario = errors.New("collision: invalid scenario")

// CollisionType 碰撞类型枚举
type CollisionType int32

const (
	HeadOn  CollisionType = iota // 正面碰撞
	RearEnd                      // 追尾碰撞
	Side                         // 侧面碰撞
)

// String 获取碰撞类型的字符串表示
func (t CollisionType) String() string {
	switch t {
	case HeadOn:
		return "Head-On"
	case RearEnd:
		return "Rear-End"
	case Side:
		return "Side"
	default:
		return fmt.Sprintf("CollisionType(%d)", int32(t))
	}
}

// ParseCollisionType 解析碰撞类型字符串
func ParseCollisionType(s string) (CollisionType, error) {
	switch s {
	case "Head-On":
		return HeadOn, nil
	case "Rear-End":
		return RearEnd, nil
	case "Side":
		return Side, nil
	default:
		return 0, fmt.Errorf("%w: collision type %q", ErrInvalidScenario, s)
	}
}

// BoundType 恢复系数约束类型枚举
// 功能：选择delta-V分配所采用的能量损失假设
type BoundType int32

const (
	Average BoundType = iota // 标定中值
	Lower                    // 下界
	Upper                    // 上界
)

// String 获取约束类型的字符串表示
func (b BoundType) String() string {
	switch b {
	case Average:
		return "Average"
	case Lower:
		return "Lower"
	case Upper:
		return "Upper"
	default:
		return fmt.Sprintf("BoundType(%d)", int32(b))
	}
}

// ParseBoundType 解析约束类型字符串
func ParseBoundType(s string) (BoundType, error) {
	switch s {
	case "Average":
		return Average, nil
	case "Lower":
		return Lower, nil
	case "Upper":
		return Upper, nil
	default:
		return 0, fmt.Errorf("%w: bound type %q", ErrInvalidScenario, s)
	}
}

// Severity 伤害严重度等级（J2980风格序数分级，S0最低）
type Severity int32

const (
	S0 Severity = iota // 可忽略
	S1
	S2
	S3
	S4 // 最严重
)

// String 获取严重度等级的字符串表示
func (s Severity) String() string {
	if s < S0 || s > S4 {
		return fmt.Sprintf("Severity(%d)", int32(s))
	}
	return fmt.Sprintf("S%d", int32(s))
}

// ParseSeverity 解析严重度等级字符串
func ParseSeverity(str string) (Severity, error) {
	for s := S0; s <= S4; s++ {
		if s.String() == str {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: severity %q", ErrInvalidScenario, str)
}

// severityThresholds 严重度分级阈值（kph）
// 说明：delta-V低于第i个阈值则归入Si；超过全部阈值归入S4。
// 阈值随delta-V单调，标定依据J2980风格分级
var severityThresholds = [...]float64{4, 20, 40, 80}

// Classify 根据delta-V大小确定严重度等级
// 功能：将delta-V（kph）映射为S0..S4序数等级
func Classify(deltaV float64) Severity {
	deltaV = math.Abs(deltaV)
	for i, th := range severityThresholds {
		if deltaV < th {
			return Severity(i)
		}
	}
	return S4
}

// heavyVehicleMass 重型车质量分界（千克）
// 说明：整备质量超过该值的车辆按重型车结构刚度选取恢复系数
const heavyVehicleMass = 16000.0

// restitutionFactor 选取恢复系数乘子（1+e）
// 功能：根据约束类型与本车质量等级给出delta-V放大系数
// 说明：乘子按车辆结构刚度等级标定；重型车（刚性结构）取更高的有效恢复，
// Lower/Upper为包络约束，Average为标定中值
func restitutionFactor(bound BoundType, ownMass float64) float64 {
	heavy := ownMass > heavyVehicleMass
	switch bound {
	case Lower:
		if heavy {
			return 1.20
		}
		return 1.10
	case Upper:
		if heavy {
			return 1.60
		}
		return 1.45
	default: // Average
		if heavy {
			return 1.4206
		}
		return 1.2822
	}
}

// Scenario 碰撞场景输入
// 功能：一次碰撞严重度评估的全部输入，评估期间不可变
// 说明：target为被撞的受分析车辆，bullet为对方车辆（事故重建惯例）
type Scenario struct {
	TypeTarget  CollisionType // 车辆1（target）的碰撞类型
	TypeBullet  CollisionType // 车辆2（bullet）的碰撞类型
	SpeedTarget float64       // target初始速度（kph，>=0）
	SpeedBullet float64       // bullet初始速度（kph，>=0）
	MassTarget  float64       // target质量（千克，>0）
	MassBullet  float64       // bullet质量（千克，>0）
	Bound       BoundType     // 恢复系数约束类型
}

// Result 碰撞严重度评估结果
// 功能：两车的delta-V与严重度等级，每次评估新建
type Result struct {
	DeltaVTarget   float64  // target的delta-V（kph）
	DeltaVBullet   float64  // bullet的delta-V（kph）
	SeverityTarget Severity // target的严重度等级
	SeverityBullet Severity // bullet的严重度等级
}

// validate 校验场景输入
func (s Scenario) validate() error {
	if s.TypeTarget < HeadOn || s.TypeTarget > Side {
		return fmt.Errorf("%w: target collision type %d", ErrInvalidScenario, s.TypeTarget)
	}
	if s.TypeBullet < HeadOn || s.TypeBullet > Side {
		return fmt.Errorf("%w: bullet collision type %d", ErrInvalidScenario, s.TypeBullet)
	}
	if s.MassTarget <= 0 || s.MassBullet <= 0 {
		return fmt.Errorf("%w: masses (%v, %v)", ErrInvalidScenario, s.MassTarget, s.MassBullet)
	}
	if s.SpeedTarget < 0 || s.SpeedBullet < 0 {
		return fmt.Errorf("%w: speeds (%v, %v)", ErrInvalidScenario, s.SpeedTarget, s.SpeedBullet)
	}
	if s.Bound < Average || s.Bound > Upper {
		return fmt.Errorf("%w: bound type %d", ErrInvalidScenario, s.Bound)
	}
	return nil
}

// closingSpeed 计算相对接近速度（kph）
// 功能：按target侧碰撞类型合成两车初始速度
// 算法说明：
// 1. 正碰：两车速度之和（对向行驶）
// 2. 追尾：两车速度之差的绝对值（同向行驶，未经场景校准）
// 3. 侧碰：两正交速度的合成值（未经场景校准）
func (s Scenario) closingSpeed() float64 {
	switch s.TypeTarget {
	case RearEnd:
		return math.Abs(s.SpeedBullet - s.SpeedTarget)
	case Side:
		return math.Hypot(s.SpeedTarget, s.SpeedBullet)
	default: // HeadOn
		return s.SpeedTarget + s.SpeedBullet
	}
}

// Evaluate 评估碰撞严重度
// 功能：由两车质量、碰撞前速度与碰撞几何计算各自的delta-V与严重度等级
// 返回：评估结果和错误信息
// 算法说明：
// 1. 校验输入（质量>0、速度>=0、枚举合法），非法输入返回ErrInvalidScenario
// 2. 按碰撞类型合成相对接近速度
// 3. delta-V按质量反比分配并乘以约束类型对应的恢复系数乘子：
//    deltaV_target = massBullet/(massTarget+massBullet) * closing * k(bound, massTarget)
//    deltaV_bullet = massTarget/(massTarget+massBullet) * closing * k(bound, massBullet)
// 4. delta-V经单调阈值表映射为S0..S4
// 说明：纯函数，无持久状态，可并发调用
func Evaluate(s Scenario) (Result, error) {
	if err := s.validate(); err != nil {
		return Result{}, err
	}
	closing := s.closingSpeed()
	total := s.MassTarget + s.MassBullet
	dvTarget := s.MassBullet / total * closing * restitutionFactor(s.Bound, s.MassTarget)
	dvBullet := s.MassTarget / total * closing * restitutionFactor(s.Bound, s.MassBullet)
	return Result{
		DeltaVTarget:   dvTarget,
		DeltaVBullet:   dvBullet,
		SeverityTarget: Classify(dvTarget),
		SeverityBullet: Classify(dvBullet),
	}, nil
}
