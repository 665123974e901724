package config

// InputPath 指定输入数据来源的配置（MongoDB、文件系统）
// 功能：定义碰撞场景数据输入路径，支持两种数据源
// 说明：文件路径优先级高于MongoDB
type InputPath struct {
	DB   string `yaml:"db"`             // 数据库名
	Col  string `yaml:"col"`            // 集合名
	File string `yaml:"file,omitempty"` // YAML文件路径（优先级高于MongoDB）
}

// Input 指定模拟器外部输入数据的配置项
// 功能：定义碰撞场景的外部数据来源与筛选条件
type Input struct {
	URI       string     `yaml:"uri,omitempty"`       // MongoDB连接字符串
	Scenarios *InputPath `yaml:"scenarios,omitempty"` // 碰撞场景
	// 只评估指定名字的场景，为空则评估全部
	ScenarioNames []string `yaml:"scenario_names,omitempty"`
}

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
type ControlStep struct {
	Start    int32   `yaml:"start"`    // 开始步数
	Total    int32   `yaml:"total"`    // 总步数
	Interval float64 `yaml:"interval"` // 每步的时间间隔（秒）
}

// Control 模拟器控制配置
type Control struct {
	Step ControlStep `yaml:"step"`
	Seed uint64      `yaml:"seed,omitempty"` // 随机数种子（加速度扰动）
}

// TireParams 轮胎侧向力曲线参数（魔术公式风格）
type TireParams struct {
	B float64 `yaml:"b"` // 刚度因子
	C float64 `yaml:"c"` // 形状因子
	D float64 `yaml:"d"` // 峰值因子
	E float64 `yaml:"e"` // 曲率因子
}

// Tires 整车轮胎配置
// 功能：定义轮胎几何与载荷分布，三个序列长度必须一致
type Tires struct {
	Params  TireParams `yaml:"params"`  // 曲线参数（全车共用）
	Offsets []float64  `yaml:"offsets"` // 各胎相对质心的纵向位置（米）
	Loads   []float64  `yaml:"loads"`   // 各胎垂向载荷（牛）
	Areas   []float64  `yaml:"areas"`   // 各胎接触面积（无需归一化）
}

// Controller 弯道限速控制器配置
type Controller struct {
	TargetSpeedFraction float64 `yaml:"target_speed_fraction"` // 目标速度比例（0..1]
	DecelMagnitude      float64 `yaml:"decel_magnitude"`       // 减速度大小（米/秒²）
	LookaheadHorizon    float64 `yaml:"lookahead_horizon"`     // 前瞻时间窗（秒）
	HoldTolerance       float64 `yaml:"hold_tolerance"`        // 目标速度判定容差（米/秒）
}

// Segment 路线段配置
type Segment struct {
	Length float64 `yaml:"length"`           // 段长（米）
	Radius float64 `yaml:"radius,omitempty"` // 弯道半径（米），省略为直线段
}

// Vehicle 被仿真车辆（牵引车-挂车）配置
type Vehicle struct {
	Name                   string     `yaml:"name"`
	InitialSpeed           float64    `yaml:"initial_speed"`             // 初始速度（米/秒）
	CruiseSpeed            float64    `yaml:"cruise_speed"`              // 巡航目标速度（米/秒）
	MaxAcceleration        float64    `yaml:"max_acceleration"`          // 最大加速度（米/秒²）
	MaxBrakingAcceleration float64    `yaml:"max_braking_acceleration"`  // 最大制动加速度（米/秒²，负值）
	AccelNoiseStd          float64    `yaml:"accel_noise_std,omitempty"` // 加速度扰动强度，0为关闭
	Controller             Controller `yaml:"controller"`
	Tires                  Tires      `yaml:"tires"`
	Route                  []Segment  `yaml:"route"`
}

// CollisionScenario 碰撞严重度评估场景
// 功能：一次delta-V评估的输入，可内联在配置中、来自YAML文件或MongoDB集合
type CollisionScenario struct {
	Name        string  `yaml:"name" bson:"name"`
	TypeTarget  string  `yaml:"type_target" bson:"type_target"`   // Head-On | Rear-End | Side
	TypeBullet  string  `yaml:"type_bullet" bson:"type_bullet"`   // Head-On | Rear-End | Side
	SpeedTarget float64 `yaml:"speed_target" bson:"speed_target"` // target初始速度（kph）
	SpeedBullet float64 `yaml:"speed_bullet" bson:"speed_bullet"` // bullet初始速度（kph）
	MassTarget  float64 `yaml:"mass_target" bson:"mass_target"`   // target质量（千克）
	MassBullet  float64 `yaml:"mass_bullet" bson:"mass_bullet"`   // bullet质量（千克）
	Bound       string  `yaml:"bound" bson:"bound"`               // Average | Lower | Upper
}

// Output 输出配置
type Output struct {
	// 严重度报告输出目录，为空则只写入日志
	Dir string `yaml:"dir,omitempty"`
}

// Config YAML配置文件的根结构
type Config struct {
	Input   Input   `yaml:"input"`   // 外部输入
	Control Control `yaml:"control"` // 模拟过程控制
	// 被仿真车辆列表（每辆车独享控制器实例）
	Vehicles []Vehicle `yaml:"vehicles,omitempty"`
	// 内联碰撞场景（与外部输入合并）
	Scenarios []CollisionScenario `yaml:"scenarios,omitempty"`
	Output    Output              `yaml:"output"` // 输出
}
