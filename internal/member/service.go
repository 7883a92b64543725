package member

import (
	"context"
	"errors"
	"fmt"

	"github.com/changhyeonkim/hello-orm/internal/model"
	"github.com/changhyeonkim/hello-orm/internal/persistence"
	"github.com/changhyeonkim/hello-orm/internal/shared/database"
	"github.com/changhyeonkim/hello-orm/internal/shared/logger"
	"gorm.io/gorm"
)

type MemberService struct {
	emf              *persistence.EntityManagerFactory
	memberRepository *MemberRepository
}

func NewMemberService(emf *persistence.EntityManagerFactory, memberRepository *MemberRepository) *MemberService {
	return &MemberService{
		emf:              emf,
		memberRepository: memberRepository,
	}
}

func (s *MemberService) GetMember(ctx context.Context, memberID int64) (*GetMemberResponse, error) {
	var response *GetMemberResponse

	err := database.WithTransaction(ctx, s.emf.DB(), func(tx *gorm.DB) error {
		member, err := s.memberRepository.FindByID(ctx, tx, memberID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("회원을 찾을 수 없습니다 memberID=%d %w", memberID, ErrMemberNotFound)
			}
			return fmt.Errorf("회원 조회 실패: %w", err)
		}

		response = &GetMemberResponse{
			ID:   member.GetID(),
			Name: member.GetName(),
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return response, nil
}

// Rename loads the member and changes its name. The new name reaches the
// database through the commit of the unit of work; no update is issued here.
func (s *MemberService) Rename(ctx context.Context, memberID int64, name string) error {
	log := logger.FromContext(ctx)

	err := s.inTransaction(ctx, func(em *persistence.EntityManager) error {
		member, err := s.find(ctx, em, memberID)
		if err != nil {
			return err
		}

		member.SetName(name)
		return nil
	})
	if err != nil {
		log.Warn("회원 이름 변경 실패", "member_id", memberID, "error", err)
		return err
	}

	log.Info("회원 이름 변경 완료", "member_id", memberID)
	return nil
}

// Register stores a new member under a caller-chosen id
func (s *MemberService) Register(ctx context.Context, memberID int64, name string) error {
	log := logger.FromContext(ctx)

	err := s.inTransaction(ctx, func(em *persistence.EntityManager) error {
		_, err := persistence.Find[model.Member](ctx, em, memberID)
		switch {
		case err == nil:
			return fmt.Errorf("memberID=%d %w", memberID, ErrMemberAlreadyExists)
		case !errors.Is(err, persistence.ErrEntityNotFound):
			return fmt.Errorf("회원 조회 실패: %w", err)
		}

		return em.Persist(ctx, model.NewMember(memberID, name))
	})
	if err != nil {
		log.Warn("회원 등록 실패", "member_id", memberID, "error", err)
		return err
	}

	log.Info("회원 등록 완료", "member_id", memberID)
	return nil
}

// Remove deletes the member
func (s *MemberService) Remove(ctx context.Context, memberID int64) error {
	log := logger.FromContext(ctx)

	err := s.inTransaction(ctx, func(em *persistence.EntityManager) error {
		member, err := s.find(ctx, em, memberID)
		if err != nil {
			return err
		}
		return em.Remove(ctx, member)
	})
	if err != nil {
		log.Warn("회원 삭제 실패", "member_id", memberID, "error", err)
		return err
	}

	log.Info("회원 삭제 완료", "member_id", memberID)
	return nil
}

func (s *MemberService) find(ctx context.Context, em *persistence.EntityManager, memberID int64) (*model.Member, error) {
	member, err := persistence.Find[model.Member](ctx, em, memberID)
	if err != nil {
		if errors.Is(err, persistence.ErrEntityNotFound) {
			return nil, fmt.Errorf("회원을 찾을 수 없습니다 memberID=%d %w", memberID, ErrMemberNotFound)
		}
		return nil, fmt.Errorf("회원 조회 실패: %w", err)
	}
	return member, nil
}

// inTransaction runs fn in a fresh entity manager: begin, fn, commit.
// Any error from fn rolls back; the entity manager is closed on every path,
// which also rolls back if fn panics.
func (s *MemberService) inTransaction(ctx context.Context, fn func(em *persistence.EntityManager) error) error {
	log := logger.FromContext(ctx)

	em := s.emf.CreateEntityManager()
	defer func() {
		if err := em.Close(); err != nil {
			log.Error("EntityManager 종료 실패", "error", err)
		}
	}()

	tx := em.Transaction()
	if err := tx.Begin(ctx); err != nil {
		return fmt.Errorf("트랜잭션 시작 실패: %w", err)
	}

	if err := fn(em); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("롤백 실패", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		if errors.Is(err, persistence.ErrStaleEntity) {
			return fmt.Errorf("%w: %w", ErrMemberConflict, err)
		}
		return fmt.Errorf("커밋 실패: %w", err)
	}

	return nil
}
