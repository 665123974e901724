package config

// RuntimeConfig 运行时配置
// 功能：存储仿真运行时的配置信息，在原始配置基础上补全默认值
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象，补全缺省的控制参数
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针
// 算法说明：
// 1. 步长缺省为1秒
// 2. 随机数种子缺省为43
// 说明：确保配置的正确性和一致性，为仿真运行提供有效配置
func NewRuntimeConfig(config Config) *RuntimeConfig {
	rc := &RuntimeConfig{}

	rc.All = config
	rc.C = config.Control
	if rc.C.Step.Interval <= 0 {
		rc.C.Step.Interval = 1
	}
	if rc.C.Seed == 0 {
		rc.C.Seed = 43
	}

	return rc
}
