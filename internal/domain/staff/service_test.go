package staff

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 内存仓储实现,仅用于单元测试

type memEmployeeRepo struct {
	byEmpNo map[string]*Employee
	nextID  uint
}

func newMemEmployeeRepo() *memEmployeeRepo {
	return &memEmployeeRepo{byEmpNo: make(map[string]*Employee)}
}

func (r *memEmployeeRepo) Create(ctx context.Context, e *Employee) error {
	if _, ok := r.byEmpNo[e.EmpNo]; ok {
		return ErrEmpNoDuplicate
	}
	r.nextID++
	e.ID = r.nextID
	r.byEmpNo[e.EmpNo] = e
	return nil
}

func (r *memEmployeeRepo) FindByID(ctx context.Context, id uint) (*Employee, error) {
	for _, e := range r.byEmpNo {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, ErrEmployeeNotFound
}

func (r *memEmployeeRepo) FindByEmpNo(ctx context.Context, empNo string) (*Employee, error) {
	e, ok := r.byEmpNo[empNo]
	if !ok {
		return nil, ErrEmployeeNotFound
	}
	return e, nil
}

func (r *memEmployeeRepo) Update(ctx context.Context, e *Employee) error {
	r.byEmpNo[e.EmpNo] = e
	return nil
}

type memBranchRepo struct {
	byBranchNo map[string]*Branch
}

func newMemBranchRepo(branchNos ...string) *memBranchRepo {
	r := &memBranchRepo{byBranchNo: make(map[string]*Branch)}
	for i, no := range branchNos {
		b := NewBranch(no, nil, "测试地址", "021-00000000")
		b.ID = uint(i + 1)
		r.byBranchNo[no] = b
	}
	return r
}

func (r *memBranchRepo) Create(ctx context.Context, b *Branch) error {
	if _, ok := r.byBranchNo[b.BranchNo]; ok {
		return ErrBranchNoDuplicate
	}
	r.byBranchNo[b.BranchNo] = b
	return nil
}

func (r *memBranchRepo) FindByBranchNo(ctx context.Context, branchNo string) (*Branch, error) {
	b, ok := r.byBranchNo[branchNo]
	if !ok {
		return nil, ErrBranchNotFound
	}
	return b, nil
}

func (r *memBranchRepo) Update(ctx context.Context, b *Branch) error {
	r.byBranchNo[b.BranchNo] = b
	return nil
}

func (r *memBranchRepo) List(ctx context.Context) ([]*Branch, error) {
	var list []*Branch
	for _, b := range r.byBranchNo {
		list = append(list, b)
	}
	return list, nil
}

func newTestService() (Service, *memEmployeeRepo) {
	employees := newMemEmployeeRepo()
	branches := newMemBranchRepo("B001")
	return NewService(employees, branches), employees
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("正常入职", func(t *testing.T) {
		svc, _ := newTestService()

		e, err := svc.Register(ctx, "E001", "李馆员", "流通部馆员", 800000, "B001", "Staff1234")
		require.NoError(t, err)

		assert.NotZero(t, e.ID)
		assert.Equal(t, "E001", e.EmpNo)
		assert.NotEqual(t, "Staff1234", e.Password, "密码应该加密存储")

		// bcrypt验证通过
		assert.NoError(t, svc.ValidatePassword(e.Password, "Staff1234"))
	})

	t.Run("分馆不存在应失败", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Register(ctx, "E001", "李馆员", "流通部馆员", 800000, "B999", "Staff1234")
		assert.ErrorIs(t, err, ErrBranchNotFound)
	})

	t.Run("工号重复应失败", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Register(ctx, "E001", "李馆员", "流通部馆员", 800000, "B001", "Staff1234")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "E001", "王馆员", "编目部馆员", 700000, "B001", "Staff5678")
		assert.ErrorIs(t, err, ErrEmpNoDuplicate)
	})

	t.Run("工号和姓名不能为空", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Register(ctx, "", "李馆员", "", 0, "B001", "Staff1234")
		assert.Error(t, err)

		_, err = svc.Register(ctx, "E001", "", "", 0, "B001", "Staff1234")
		assert.Error(t, err)
	})

	t.Run("薪资不能为负数", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Register(ctx, "E001", "李馆员", "", -1, "B001", "Staff1234")
		assert.Error(t, err)
	})

	t.Run("密码强度校验", func(t *testing.T) {
		svc, _ := newTestService()

		weakPasswords := []string{
			"short1",               // 太短
			"12345678",             // 纯数字
			"abcdefgh",             // 纯字母
			"aVeryLongPassword12345", // 超过20位
		}

		for _, pwd := range weakPasswords {
			_, err := svc.Register(ctx, "E001", "李馆员", "", 0, "B001", pwd)
			assert.ErrorIs(t, err, ErrWeakPassword, "弱密码应该被拒绝: %s", pwd)
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) Service {
		svc, _ := newTestService()
		_, err := svc.Register(ctx, "E001", "李馆员", "流通部馆员", 800000, "B001", "Staff1234")
		require.NoError(t, err)
		return svc
	}

	t.Run("正常登录", func(t *testing.T) {
		svc := setup(t)

		e, err := svc.Login(ctx, "E001", "Staff1234")
		require.NoError(t, err)
		assert.Equal(t, "E001", e.EmpNo)
		assert.Equal(t, "李馆员", e.Name)
	})

	t.Run("密码错误", func(t *testing.T) {
		svc := setup(t)

		_, err := svc.Login(ctx, "E001", "WrongPass1")
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	})

	t.Run("工号不存在与密码错误返回相同错误", func(t *testing.T) {
		// 防止工号枚举
		svc := setup(t)

		_, err := svc.Login(ctx, "E999", "Staff1234")
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	})
}

func TestBranchAssignManager(t *testing.T) {
	b := NewBranch("B001", nil, "上海市徐汇区", "021-12345678")
	assert.Nil(t, b.ManagerNo, "新建分馆可以暂无馆长")

	b.AssignManager("E001")
	require.NotNil(t, b.ManagerNo)
	assert.Equal(t, "E001", *b.ManagerNo)
}
