package staff

import (
	"time"
)

// Employee 馆员实体(聚合根)
// DDD设计说明:
// 1. EmpNo是业务主键(工号)
// 2. 密码已加密存储(bcrypt),不应该有GetPassword()等方法暴露明文
// 3. 馆员必须登录后才能操作借还台(issue/returnBook/assessLateFees)
type Employee struct {
	ID        uint
	EmpNo     string // 工号(业务主键,全局唯一)
	Name      string // 姓名
	Position  string // 职位
	Salary    int64  // 薪资(单位:分)
	BranchNo  string // 所属分馆编号(多对一)
	Password  string // bcrypt哈希值
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewEmployee 创建新馆员(工厂方法)
// hashedPassword必须是bcrypt加密后的密码
func NewEmployee(empNo, name, position string, salary int64, branchNo, hashedPassword string) *Employee {
	now := time.Now()
	return &Employee{
		EmpNo:     empNo,
		Name:      name,
		Position:  position,
		Salary:    salary,
		BranchNo:  branchNo,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Branch 分馆实体
// 设计说明:
// 1. ManagerNo是指向馆员的软自引用(可空)——分馆可以暂无馆长,
//    也可以引用尚未录入的馆员,因此建模为可空指针而非强外键
// 2. 不建模为双向所有权:Branch不持有Employee列表
type Branch struct {
	ID        uint
	BranchNo  string  // 分馆编号(业务主键,全局唯一)
	ManagerNo *string // 馆长工号(可空的软自引用)
	Address   string  // 地址
	Contact   string  // 联系方式
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBranch 创建新分馆(工厂方法)
// managerNo传nil表示暂无馆长
func NewBranch(branchNo string, managerNo *string, address, contact string) *Branch {
	now := time.Now()
	return &Branch{
		BranchNo:  branchNo,
		ManagerNo: managerNo,
		Address:   address,
		Contact:   contact,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AssignManager 指派馆长(领域行为)
func (b *Branch) AssignManager(empNo string) {
	b.ManagerNo = &empNo
	b.UpdatedAt = time.Now()
}
