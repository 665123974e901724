package collision

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadReport 严重度报告文本不符合固定格式
var ErrBadReport = errors.New("collision: malformed severity report")

// Report 碰撞严重度报告
// 功能：固定格式文本工件的数据载体，输入与结果两个区块
// 说明：字段顺序与标签固定，数值保留两位小数；
// 相同输入必须逐字节复现相同文本（parse→render往返不变）
type Report struct {
	Scenario Scenario
	Result   Result
}

// 报告固定标签。顺序即输出顺序，不可调整
const (
	labelInputsHeader  = "Collision Severity Inputs:"
	labelTypeVehicle1  = "- Collision Type for Vehicle 1: "
	labelTypeVehicle2  = "- Collision Type for Vehicle 2: "
	labelSpeedTarget   = "- Initial Speed of Target: "
	labelSpeedBullet   = "- Initial Speed of Bullet: "
	labelMassJ2980     = "- Average J2980 Vehicle Mass: "
	labelMassAnalysis  = "- Average Vehicle Under Analysis Mass: "
	labelBoundType     = "- Bound Type: "
	labelResultsHeader = "Collision Severity Results:"
	labelSevTarget     = "- Target Severity: "
	labelSevBullet     = "- Bullet Severity: "
	labelDeltaVTarget  = "- Target Delta-V: "
	labelDeltaVBullet  = "- Bullet Delta-V: "
)

// Render 渲染报告文本
// 功能：按固定模式输出两区块键值文本
// 说明：target质量对应"Average J2980 Vehicle Mass"标签，
// bullet（受分析的重型车）质量对应"Vehicle Under Analysis"标签，与参考工件一致
func (r Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", labelInputsHeader)
	fmt.Fprintf(&b, "%s%s\n", labelTypeVehicle1, r.Scenario.TypeTarget)
	fmt.Fprintf(&b, "%s%s\n", labelTypeVehicle2, r.Scenario.TypeBullet)
	fmt.Fprintf(&b, "%s%.2f kph\n", labelSpeedTarget, r.Scenario.SpeedTarget)
	fmt.Fprintf(&b, "%s%.2f kph\n", labelSpeedBullet, r.Scenario.SpeedBullet)
	fmt.Fprintf(&b, "%s%.2f kg\n", labelMassJ2980, r.Scenario.MassTarget)
	fmt.Fprintf(&b, "%s%.2f kg\n", labelMassAnalysis, r.Scenario.MassBullet)
	fmt.Fprintf(&b, "%s%s\n", labelBoundType, r.Scenario.Bound)
	fmt.Fprintf(&b, "\n%s\n", labelResultsHeader)
	fmt.Fprintf(&b, "%s%s\n", labelSevTarget, r.Result.SeverityTarget)
	fmt.Fprintf(&b, "%s%s\n", labelSevBullet, r.Result.SeverityBullet)
	fmt.Fprintf(&b, "%s%.2f kph\n", labelDeltaVTarget, r.Result.DeltaVTarget)
	fmt.Fprintf(&b, "%s%.2f kph\n", labelDeltaVBullet, r.Result.DeltaVBullet)
	return b.String()
}

// reportScanner 报告逐行解析器
type reportScanner struct {
	lines []string
	pos   int
}

// next 取出下一行并剥离给定标签
func (sc *reportScanner) next(label string) (string, error) {
	if sc.pos >= len(sc.lines) {
		return "", fmt.Errorf("%w: missing line %q", ErrBadReport, label)
	}
	line := sc.lines[sc.pos]
	sc.pos++
	if !strings.HasPrefix(line, label) {
		return "", fmt.Errorf("%w: expect %q, got %q", ErrBadReport, label, line)
	}
	return strings.TrimPrefix(line, label), nil
}

// nextFloat 取出下一行并解析带单位后缀的数值
func (sc *reportScanner) nextFloat(label, unit string) (float64, error) {
	s, err := sc.next(label)
	if err != nil {
		return 0, err
	}
	s, ok := strings.CutSuffix(s, " "+unit)
	if !ok {
		return 0, fmt.Errorf("%w: %q lacks unit %q", ErrBadReport, label, unit)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrBadReport, label, err)
	}
	return f, nil
}

// badValue 将枚举解析失败归一为报告格式错误
func badValue(label string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %q: %v", ErrBadReport, label, err)
}

// Parse 解析报告文本
// 功能：将固定格式文本还原为Report，Render(Parse(text))与原文本逐字节一致
// 返回：报告和错误信息；任何标签缺失、顺序错误或数值非法返回ErrBadReport
func Parse(text string) (Report, error) {
	sc := &reportScanner{lines: strings.Split(strings.TrimRight(text, "\n"), "\n")}
	var r Report
	var err error
	if _, err = sc.next(labelInputsHeader); err != nil {
		return Report{}, err
	}
	fields := []func() error{
		func() error {
			s, err := sc.next(labelTypeVehicle1)
			if err != nil {
				return err
			}
			r.Scenario.TypeTarget, err = ParseCollisionType(s)
			return badValue(labelTypeVehicle1, err)
		},
		func() error {
			s, err := sc.next(labelTypeVehicle2)
			if err != nil {
				return err
			}
			r.Scenario.TypeBullet, err = ParseCollisionType(s)
			return badValue(labelTypeVehicle2, err)
		},
		func() error {
			r.Scenario.SpeedTarget, err = sc.nextFloat(labelSpeedTarget, "kph")
			return err
		},
		func() error {
			r.Scenario.SpeedBullet, err = sc.nextFloat(labelSpeedBullet, "kph")
			return err
		},
		func() error {
			r.Scenario.MassTarget, err = sc.nextFloat(labelMassJ2980, "kg")
			return err
		},
		func() error {
			r.Scenario.MassBullet, err = sc.nextFloat(labelMassAnalysis, "kg")
			return err
		},
		func() error {
			s, err := sc.next(labelBoundType)
			if err != nil {
				return err
			}
			r.Scenario.Bound, err = ParseBoundType(s)
			return badValue(labelBoundType, err)
		},
		func() error {
			// 区块间空行
			s, err := sc.next("")
			if err != nil {
				return err
			}
			if s != "" {
				return fmt.Errorf("%w: expect blank line, got %q", ErrBadReport, s)
			}
			_, err = sc.next(labelResultsHeader)
			return err
		},
		func() error {
			s, err := sc.next(labelSevTarget)
			if err != nil {
				return err
			}
			r.Result.SeverityTarget, err = ParseSeverity(s)
			return badValue(labelSevTarget, err)
		},
		func() error {
			s, err := sc.next(labelSevBullet)
			if err != nil {
				return err
			}
			r.Result.SeverityBullet, err = ParseSeverity(s)
			return badValue(labelSevBullet, err)
		},
		func() error {
			r.Result.DeltaVTarget, err = sc.nextFloat(labelDeltaVTarget, "kph")
			return err
		},
		func() error {
			r.Result.DeltaVBullet, err = sc.nextFloat(labelDeltaVBullet, "kph")
			return err
		},
	}
	for _, f := range fields {
		if err := f(); err != nil {
			return Report{}, err
		}
	}
	if sc.pos != len(sc.lines) {
		return Report{}, fmt.Errorf("%w: trailing content %q", ErrBadReport, sc.lines[sc.pos])
	}
	return r, nil
}
