package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/member"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// memberRepository 读者仓储实现(MySQL)
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository 创建读者仓储
func NewMemberRepository(db *gorm.DB) member.Repository {
	return &memberRepository{db: db}
}

// Create 创建读者
func (r *memberRepository) Create(ctx context.Context, m *member.Member) error {
	model := &MemberModel{
		MemberNo: m.MemberNo,
		Name:     m.Name,
		Address:  m.Address,
		RegDate:  m.RegDate,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return member.ErrMemberNoDuplicate
		}
		return apperrors.Wrap(err, "创建读者失败")
	}

	m.ID = model.ID
	m.CreatedAt = model.CreatedAt
	m.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找读者
func (r *memberRepository) FindByID(ctx context.Context, id uint) (*member.Member, error) {
	var model MemberModel
	err := r.db.WithContext(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, member.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(err, "查询读者失败")
	}

	return toMemberEntity(&model), nil
}

// FindByMemberNo 根据借书证号查找读者
func (r *memberRepository) FindByMemberNo(ctx context.Context, memberNo string) (*member.Member, error) {
	var model MemberModel
	err := r.db.WithContext(ctx).Where("member_no = ?", memberNo).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, member.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(err, "查询读者失败")
	}

	return toMemberEntity(&model), nil
}

// Update 更新读者信息
func (r *memberRepository) Update(ctx context.Context, m *member.Member) error {
	model := &MemberModel{
		ID:       m.ID,
		MemberNo: m.MemberNo,
		Name:     m.Name,
		Address:  m.Address,
		RegDate:  m.RegDate,
	}

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return apperrors.Wrap(err, "更新读者失败")
	}

	m.UpdatedAt = model.UpdatedAt
	return nil
}

// List 分页查询读者列表
func (r *memberRepository) List(ctx context.Context, page, pageSize int) ([]*member.Member, int64, error) {
	var models []MemberModel
	var total int64

	query := r.db.WithContext(ctx).Model(&MemberModel{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询读者总数失败")
	}

	offset := (page - 1) * pageSize
	err := query.Order("reg_date DESC").Limit(pageSize).Offset(offset).Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询读者列表失败")
	}

	members := make([]*member.Member, len(models))
	for i, model := range models {
		members[i] = toMemberEntity(&model)
	}

	return members, total, nil
}

// toMemberEntity GORM模型 → 领域实体
func toMemberEntity(model *MemberModel) *member.Member {
	return &member.Member{
		ID:        model.ID,
		MemberNo:  model.MemberNo,
		Name:      model.Name,
		Address:   model.Address,
		RegDate:   model.RegDate,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
