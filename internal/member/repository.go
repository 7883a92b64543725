package member

import (
	"context"

	"github.com/changhyeonkim/hello-orm/internal/model"
	"gorm.io/gorm"
)

type MemberRepository struct{}

func NewMemberRepository() *MemberRepository {
	return &MemberRepository{}
}

func (m *MemberRepository) FindByID(ctx context.Context, db *gorm.DB, ID int64) (*model.Member, error) {
	var member model.Member
	err := db.WithContext(ctx).Where("id = ?", ID).Take(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}
