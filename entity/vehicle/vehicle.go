package vehicle

import (
	"math"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/trucksim-oss/entity"
	"github.com/tsinghua-fib-lab/trucksim-oss/entity/control"
	"github.com/tsinghua-fib-lab/trucksim-oss/entity/route"
	"github.com/tsinghua-fib-lab/trucksim-oss/entity/tire"
	"github.com/tsinghua-fib-lab/trucksim-oss/utils/config"
	"github.com/tsinghua-fib-lab/trucksim-oss/utils/container"
	"github.com/tsinghua-fib-lab/trucksim-oss/utils/randengine"
)

const (
	idmTheta = 4 // IDM模型参数（自由路段速度项指数）

	// zeroAThreshold 加速度零值判定阈值
	// 功能：当加速度绝对值小于此值时不添加扰动
	zeroAThreshold = .1
)

// runtime 车辆运行时数据
type runtime struct {
	S     float64 // 沿路线里程（米）
	V     float64 // 纵向速度（米/秒）
	A     float64 // 加速度（米/秒²）
	Omega float64 // 横摆角速度指令（弧度/秒）
	Fy    float64 // 轮胎合侧向力（牛）
	Mz    float64 // 轮胎合横摆力矩（牛·米）
}

// Vehicle 牵引车-挂车车辆实体
// 功能：沿一维路线行驶，巡航由自由路段IDM驱动，弯道前由弯道限速控制器接管减速，
// 每步以当前速度与横摆角速度指令评估轮胎侧向力与横摆力矩
type Vehicle struct {
	container.IncrementalItemBase
	ctx entity.ITaskContext

	// 静态属性
	name        string
	cruiseV     float64
	maxA        float64
	maxBrakingA float64
	noiseStd    float64

	controller *control.Controller
	tires      *tire.Model
	loads      []float64
	areas      []float64
	route      *route.Route

	generator *randengine.Engine

	runtime  runtime // 运行时数据
	snapshot runtime // 快照

	speedTrace []float64 // 各步速度记录（用于结束后统计）
	isEnd      bool      // 是否已驶完路线
}

// newVehicle 创建并初始化一个新的Vehicle实例
// 功能：根据配置创建车辆对象，构建控制器、轮胎模型与路线
// 参数：ctx-任务上下文，index-车辆在配置中的序号，cfg-车辆配置
// 返回：初始化完成的Vehicle实例
// 说明：配置非法时直接panic，以index区分各车的随机数种子
func newVehicle(
	ctx entity.ITaskContext,
	index int,
	cfg config.Vehicle,
) *Vehicle {
	v := &Vehicle{
		ctx:         ctx,
		name:        cfg.Name,
		cruiseV:     cfg.CruiseSpeed,
		maxA:        cfg.MaxAcceleration,
		maxBrakingA: cfg.MaxBrakingAcceleration,
		noiseStd:    cfg.AccelNoiseStd,
		generator:   randengine.New(ctx.RuntimeConfig().C.Seed + uint64(index)),
		runtime: runtime{
			V: cfg.InitialSpeed,
		},
	}
	// 属性检查
	if cfg.Name == "" {
		log.Fatalf("vehicle %d has no name, please check the data", index)
	}
	if cfg.InitialSpeed < 0 {
		log.Fatalf("vehicle %s initial speed is less than 0, please check the data", cfg.Name)
	}
	if cfg.CruiseSpeed <= 0 {
		log.Fatalf("vehicle %s cruise speed is not positive, please check the data", cfg.Name)
	}
	if cfg.MaxAcceleration <= 0 {
		log.Fatalf("vehicle %s max acceleration is not positive, please check the data", cfg.Name)
	}
	if cfg.MaxBrakingAcceleration >= 0 {
		log.Fatalf("vehicle %s max braking acceleration is not negative, please check the data", cfg.Name)
	}
	var err error
	if v.controller, err = control.New(
		cfg.Controller.TargetSpeedFraction,
		cfg.Controller.DecelMagnitude,
		cfg.Controller.LookaheadHorizon,
		cfg.Controller.HoldTolerance,
	); err != nil {
		log.Fatalf("vehicle %s controller config: %v", cfg.Name, err)
	}
	if v.tires, err = tire.NewModel(tire.Params{
		B: cfg.Tires.Params.B,
		C: cfg.Tires.Params.C,
		D: cfg.Tires.Params.D,
		E: cfg.Tires.Params.E,
	}, cfg.Tires.Offsets); err != nil {
		log.Fatalf("vehicle %s tire config: %v", cfg.Name, err)
	}
	if len(cfg.Tires.Loads) != v.tires.NumTires() || len(cfg.Tires.Areas) != v.tires.NumTires() {
		log.Fatalf("vehicle %s tire loads/areas length mismatch, please check the data", cfg.Name)
	}
	v.loads = cfg.Tires.Loads
	v.areas = cfg.Tires.Areas
	segments := make([]route.Segment, 0, len(cfg.Route))
	for _, s := range cfg.Route {
		segments = append(segments, route.Segment{Length: s.Length, Radius: s.Radius})
	}
	if v.route, err = route.New(segments); err != nil {
		log.Fatalf("vehicle %s route config: %v", cfg.Name, err)
	}
	v.speedTrace = append(v.speedTrace, v.runtime.V)
	return v
}

// Name 车辆名
func (v *Vehicle) Name() string { return v.name }

// S 当前里程（米）
func (v *Vehicle) S() float64 { return v.snapshot.S }

// V 当前速度（米/秒）
func (v *Vehicle) V() float64 { return v.snapshot.V }

// IsEnd 是否已驶完路线
func (v *Vehicle) IsEnd() bool { return v.isEnd }

// ControllerState 控制器当前状态
func (v *Vehicle) ControllerState() control.State { return v.controller.State() }

// SpeedTrace 各步速度记录
func (v *Vehicle) SpeedTrace() []float64 { return v.speedTrace }

// baselineAccel 自由路段基础加速度
// 功能：无前车的IDM加速度 a = maxA * (1 - (v/cruiseV)^4)
func (v *Vehicle) baselineAccel(speed float64) float64 {
	acc := v.maxA * (1 - math.Pow(speed/v.cruiseV, idmTheta))
	return lo.Clamp(acc, v.maxBrakingA, v.maxA)
}

// 计算本时刻的速度与移动距离
// v(t)=v(t-1)+acc*dt, ds=v(t-1)*dt+acc*dt*dt/2
func computeVAndDistance(v, a, dt float64) (float64, float64) {
	dv := a * dt
	if v+dv < 0 {
		// 刹车到停止
		return 0, v * v / 2 / -a
	}
	return v + dv, (v + dv/2) * dt
}

// prepare 准备阶段
// 功能：将上一步的运行时数据写入快照
func (v *Vehicle) prepare() {
	v.snapshot = v.runtime
}

// update 更新阶段
// 功能：推进一个时间步
// 参数：dt-时间步长（秒）
// 算法说明：
// 1. 由快照速度计算自由路段基础加速度
// 2. 查询路线上最近弯道的距离与半径，交给弯道限速控制器修正加速度并产生横摆角速度指令
// 3. 加速度添加随机扰动（过小的加速度不扰动 扰动不改变加速度符号）
// 4. 积分得到新速度与里程增量，驶过路线终点则标记结束
// 5. 以新速度与横摆角速度指令评估轮胎侧向力与横摆力矩
func (v *Vehicle) update(dt float64) {
	speed := v.snapshot.V
	acc := v.baselineAccel(speed)
	dist, radius := v.route.NextCurve(v.snapshot.S)
	acc, omega, err := v.controller.Adjust(speed, acc, dist, radius, dt)
	if err != nil {
		log.Panicf("vehicle %s: controller failed at %s: %v", v.name, v.ctx.Clock(), err)
	}
	if v.noiseStd > 0 {
		noiseAcc := v.noiseStd * lo.Clamp(.5*v.generator.NormFloat64(), -1, 1)
		if math.Abs(acc) >= zeroAThreshold && math.Signbit(acc) == math.Signbit(acc+noiseAcc) {
			acc += noiseAcc
		}
	}
	acc = lo.Clamp(acc, v.maxBrakingA, v.maxA)
	newV, ds := computeVAndDistance(speed, acc, dt)
	fy, mz, err := v.tires.Compute(v.loads, v.areas, newV, 0, omega)
	if err != nil {
		log.Panicf("vehicle %s: tire model failed at %s: %v", v.name, v.ctx.Clock(), err)
	}
	v.runtime = runtime{
		S:     v.snapshot.S + ds,
		V:     newV,
		A:     acc,
		Omega: omega,
		Fy:    fy,
		Mz:    mz,
	}
	v.speedTrace = append(v.speedTrace, newV)
	if v.runtime.S >= v.route.Length() {
		v.isEnd = true
	}
}
