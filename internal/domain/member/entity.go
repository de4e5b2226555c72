package member

import (
	"time"
)

// Member 读者实体(聚合根)
// DDD设计说明:
// 1. MemberNo是业务主键(借书证号),由办证流程分配
// 2. 领域实体不依赖GORM tag(infrastructure层的Repository实现时会处理映射)
// 3. 除地址变更外,读者信息在流通业务中只读
type Member struct {
	ID        uint
	MemberNo  string    // 借书证号(业务主键,全局唯一)
	Name      string    // 姓名
	Address   string    // 地址
	RegDate   time.Time // 办证日期
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewMember 创建新读者(工厂方法)
// 办证日期取当天
func NewMember(memberNo, name, address string) *Member {
	now := time.Now()
	return &Member{
		MemberNo:  memberNo,
		Name:      name,
		Address:   address,
		RegDate:   now,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateAddress 更新地址(领域行为)
func (m *Member) UpdateAddress(address string) {
	m.Address = address
	m.UpdatedAt = time.Now()
}
