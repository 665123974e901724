package vehicle

import (
	"fmt"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/tsinghua-fib-lab/trucksim-oss/entity"
	"github.com/tsinghua-fib-lab/trucksim-oss/utils/config"
	"github.com/tsinghua-fib-lab/trucksim-oss/utils/container"
)

// Manager Vehicle管理器
// 功能：管理所有Vehicle实体，提供初始化、两阶段步进、查找与统计功能
type Manager struct {
	ctx entity.ITaskContext

	data map[string]*Vehicle

	// 仍在行驶中的车辆
	vehicles *container.IncrementalArray[*Vehicle]
	// 全部车辆（含已驶完的，用于结束后统计）
	all []*Vehicle
}

// NewManager 创建Vehicle管理器实例
func NewManager(ctx entity.ITaskContext) *Manager {
	return &Manager{
		ctx:      ctx,
		data:     make(map[string]*Vehicle),
		vehicles: container.NewIncrementalArray[*Vehicle](),
	}
}

// Init 初始化所有Vehicle
// 功能：根据配置初始化所有车辆对象，建立名字映射关系
// 参数：cfgs-车辆配置列表
// 说明：使用并行处理提高初始化效率，名字重复直接panic
func (m *Manager) Init(cfgs []config.Vehicle) {
	m.vehicles = container.NewIncrementalArray[*Vehicle]()
	m.all = parallel.GoMap(lo.Range(len(cfgs)), func(i int) *Vehicle {
		v := newVehicle(m.ctx, i, cfgs[i])
		m.vehicles.Add(v)
		return v
	})
	for _, v := range m.all {
		if _, ok := m.data[v.name]; ok {
			log.Panicf("vehicles have duplicated name %q, please check data", v.name)
		}
		m.data[v.name] = v
	}
	m.vehicles.Prepare()
	log.Infof("VehicleManager: init %d vehicles", len(m.all))
}

// Get 根据名字获取Vehicle实例，不存在则panic
func (m *Manager) Get(name string) *Vehicle {
	v, ok := m.data[name]
	if !ok {
		log.Panicf("no name %s in vehicle data", name)
	}
	return v
}

// GetOrError 根据名字获取Vehicle实例（带错误处理）
func (m *Manager) GetOrError(name string) (*Vehicle, error) {
	v, ok := m.data[name]
	if !ok {
		return nil, fmt.Errorf("no name %s in vehicle data", name)
	}
	return v, nil
}

// Running 仍在行驶中的车辆数
func (m *Manager) Running() int {
	return m.vehicles.Len()
}

// 准备阶段：snapshot更新
func (m *Manager) Prepare() {
	m.vehicles.Prepare()
	parallel.GoFor(m.vehicles.Data(), func(v *Vehicle) { v.prepare() })
	log.Debug("VehicleManager: prepare done")
}

// 更新阶段
func (m *Manager) Update(dt float64) {
	parallel.GoFor(m.vehicles.Data(), func(v *Vehicle) {
		v.update(dt)
		if v.isEnd {
			m.vehicles.Remove(v)
		}
	})
}

// LogSummary 输出各车速度统计
// 功能：模拟结束后对每辆车的速度记录做均值与标准差统计并写入日志
func (m *Manager) LogSummary() {
	for _, v := range m.all {
		mean, std := stat.MeanStdDev(v.speedTrace, nil)
		log.Infof(
			"vehicle %s: s=%.2fm v=%.2fm/s (mean=%.2f std=%.2f) fy=%.1fN mz=%.1fN·m state=%s end=%v",
			v.name, v.runtime.S, v.runtime.V, mean, std,
			v.runtime.Fy, v.runtime.Mz, v.controller.State(), v.isEnd,
		)
	}
}
