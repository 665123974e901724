package task

import (
	"path/filepath"
	"sync/atomic"

	"github.com/tsinghua-fib-lab/trucksim-oss/clock"
	"github.com/tsinghua-fib-lab/trucksim-oss/entity/vehicle"
	"github.com/tsinghua-fib-lab/trucksim-oss/utils/config"
	"github.com/tsinghua-fib-lab/trucksim-oss/utils/input"
)

// Context 仿真任务上下文
// 功能：包含一次仿真任务的所有变量和状态，替代原来的全局变量
// 说明：管理仿真系统的所有组件，包括时钟、管理器、配置、输入与输出
type Context struct {

	// 任务名
	job string
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock

	// Vehicle管理器
	vehicleManager *vehicle.Manager

	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig

	// 用于初始化的输入
	initRes *input.Input
}

// NewContext 创建新的仿真任务上下文
// 功能：初始化仿真系统的所有组件和配置
// 参数：job-任务名称，c-配置对象
// 返回：初始化完成的Context实例
// 算法说明：
// 1. 创建Context实例并设置时钟
// 2. 加载碰撞场景输入数据
// 3. 创建车辆管理器
func NewContext(job string, c config.Config) *Context {
	ctx := &Context{
		job: job,
	}
	ctx.runtimeConfig = config.NewRuntimeConfig(c)
	ctx.clock = clock.New(ctx.runtimeConfig.C.Step)

	// 加载所有模拟器启动所需的数据
	ctx.initRes = input.Init(c)

	// 新建各类模拟对象
	ctx.vehicleManager = vehicle.NewManager(ctx)

	return ctx
}

func (ctx *Context) GetInput() *input.Input {
	return ctx.initRes
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) VehicleManager() *vehicle.Manager {
	return ctx.vehicleManager
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

// Init 初始化
// 功能：初始化时钟与所有车辆
func (ctx *Context) Init() {
	ctx.clock.Init()

	log.Infof("Vehicle: %v", len(ctx.runtimeConfig.All.Vehicles))
	log.Infof("Scenario: %v", len(ctx.initRes.Scenarios))

	ctx.vehicleManager.Init(ctx.runtimeConfig.All.Vehicles)
}

// Close 关闭任务
func (ctx *Context) Close() {
	ctx.closed.Store(true)
}

// reportPath 场景报告输出文件路径
func reportPath(dir, name string) string {
	return filepath.Join(dir, name+".txt")
}
