package container

import (
	"sync"
)

// IIncrementalItem 支持增量更新的元素接口
// 功能：定义增量数组元素必须实现的索引管理方法
// 说明：元素需要跟踪自己在数组中的位置以支持O(1)删除
type IIncrementalItem interface {
	Index() int         // 获取元素的索引
	SetIndex(index int) // 设置元素的索引
}

// IncrementalItemBase 增量元素基类
// 功能：提供增量元素的基础实现，可作为嵌入字段使用
type IncrementalItemBase struct {
	index int // 元素在数组中的索引
}

// Index 获取元素的索引
func (b *IncrementalItemBase) Index() int {
	return b.index
}

// SetIndex 设置元素的索引
func (b *IncrementalItemBase) SetIndex(index int) {
	b.index = index
}

// IncrementalArray 增量数组
// 功能：活跃元素集合，增删操作延迟到Prepare时统一执行
// 说明：Add/Remove可被并发调用（更新阶段各元素并行执行），
// Prepare与Data的调用由所有者在准备阶段串行执行
type IncrementalArray[T IIncrementalItem] struct {
	data    []T        // 主数据数组
	add     []T        // 待添加的元素列表
	remove  []T        // 待删除的元素列表
	pending sync.Mutex // 保护待处理列表
}

// NewIncrementalArray 创建增量数组
func NewIncrementalArray[T IIncrementalItem]() *IncrementalArray[T] {
	return &IncrementalArray[T]{}
}

// Len 获取当前数组长度
func (a *IncrementalArray[T]) Len() int {
	return len(a.data)
}

// Data 获取当前已应用所有增量操作的数据
func (a *IncrementalArray[T]) Data() []T {
	return a.data
}

// Add 增加元素（等到Prepare时才会真正增加）
func (a *IncrementalArray[T]) Add(value T) {
	a.pending.Lock()
	defer a.pending.Unlock()
	a.add = append(a.add, value)
}

// Remove 删除元素（等到Prepare时才会真正删除）
func (a *IncrementalArray[T]) Remove(value T) {
	a.pending.Lock()
	defer a.pending.Unlock()
	a.remove = append(a.remove, value)
}

// Prepare 执行增量操作
// 功能：统一执行所有待处理的添加和删除操作并维护元素索引
// 算法说明：
// 1. 删除：用数组末尾元素填充被删除位置（swap-remove），更新填充元素索引
// 2. 添加：追加到数组末尾并设置索引
// 3. 清空待处理列表
func (a *IncrementalArray[T]) Prepare() {
	a.pending.Lock()
	defer a.pending.Unlock()
	for _, x := range a.remove {
		ind := x.Index()
		last := len(a.data) - 1
		a.data[ind] = a.data[last]
		a.data[ind].SetIndex(ind)
		a.data = a.data[:last]
	}
	for _, x := range a.add {
		x.SetIndex(len(a.data))
		a.data = append(a.data, x)
	}
	a.add = nil
	a.remove = nil
}
