package entity

import (
	"github.com/tsinghua-fib-lab/trucksim-oss/clock"
	"github.com/tsinghua-fib-lab/trucksim-oss/utils/config"
)

// ITaskContext 仿真上下文接口
// 说明：实体通过该接口访问全局时钟与运行时配置，避免循环依赖
type ITaskContext interface {
	Clock() *clock.Clock
	RuntimeConfig() *config.RuntimeConfig
}
