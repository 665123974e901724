package task

import (
	"flag"
	"os"
	"sync"

	"github.com/tsinghua-fib-lab/trucksim-oss/entity/collision"
	"github.com/tsinghua-fib-lab/trucksim-oss/utils/input"
)

const (
	SelfName = "trucksim" // 本程序在模拟任务集群中的名字
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数")
)

// prepare 准备阶段，每步执行一次
// 功能：在每个仿真步骤开始时进行准备工作
// 算法说明：
// 1. 更新时钟：增加内部步数并计算当前时间
// 2. 心跳日志：定期输出系统状态信息
// 3. 车辆管理器准备：应用增删并写入快照
func (ctx *Context) prepare() {
	ctx.clock.InternalStep++
	ctx.clock.T = float64(ctx.clock.InternalStep) * ctx.clock.DT

	if ctx.clock.InternalStep%int32(*heartBeatInterval) == 0 {
		log.Infof(
			"STEP: %d(t=%.2fs, running=%d)",
			ctx.clock.InternalStep,
			ctx.clock.T,
			ctx.vehicleManager.Running(),
		)
	}

	// Prepare
	var wg sync.WaitGroup
	{
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx.vehicleManager.Prepare() // vehicle
		}()
		wg.Wait()
	}
}

// update 更新阶段，每步执行一次
// 功能：在每个仿真步骤中执行主要的仿真逻辑
// 说明：所有车辆基于快照并行推进一个时间步
func (ctx *Context) update() {
	var wg sync.WaitGroup

	// Update
	{
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx.vehicleManager.Update(ctx.clock.DT) // vehicle
		}()
	}
	wg.Wait()
}

// evaluateScenarios 碰撞严重度评估阶段
// 功能：仿真循环结束后逐个评估碰撞场景并输出报告
// 算法说明：
// 1. 将场景配置转换为评估器输入（非法场景记录错误并跳过）
// 2. 计算两车delta-V并划分严重度等级
// 3. 渲染固定格式报告：配置了输出目录则写入文件，否则写入日志
func (ctx *Context) evaluateScenarios() {
	outDir := ctx.runtimeConfig.All.Output.Dir
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			log.Panicf("failed to create output dir %s: %v", outDir, err)
		}
	}
	for _, doc := range ctx.initRes.Scenarios {
		s, err := input.ToScenario(doc)
		if err != nil {
			log.Errorf("scenario %s: bad input, skip: %v", doc.Name, err)
			continue
		}
		res, err := collision.Evaluate(s)
		if err != nil {
			log.Errorf("scenario %s: evaluation failed, skip: %v", doc.Name, err)
			continue
		}
		text := collision.Report{Scenario: s, Result: res}.Render()
		if outDir != "" {
			path := reportPath(outDir, doc.Name)
			if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
				log.Panicf("failed to write report %s: %v", path, err)
			}
			log.Infof("scenario %s: report written to %s", doc.Name, path)
		} else {
			log.Infof("scenario %s:\n%s", doc.Name, text)
		}
	}
}

// Run 运行
// 功能：执行完整任务：初始化、两阶段步进循环、速度统计与碰撞严重度评估
func (ctx *Context) Run() {
	// 初始化
	ctx.Init()
	for {
		ctx.prepare()
		ctx.update()
		log.Debugf("step %d: update complete", ctx.clock.InternalStep)
		if ctx.clock.InternalStep+1 >= ctx.clock.END_STEP {
			break
		}
		if ctx.vehicleManager.Running() == 0 {
			log.Infof("all vehicles finished at %s", ctx.clock)
			break
		}
		if ctx.closed.Load() {
			break
		}
	}
	ctx.vehicleManager.LogSummary()
	ctx.evaluateScenarios()
	log.Infof("engine complete")
	ctx.Close()
}
