package member

import (
	"context"
	"log/slog"

	"github.com/changhyeonkim/hello-orm/internal/persistence"
)

// RunUpdate renames one member in its own unit of work and then shuts the
// factory down. It takes ownership of emf: the entity manager and the factory
// are released exactly once whether the update commits or rolls back.
func RunUpdate(ctx context.Context, emf *persistence.EntityManagerFactory, memberID int64, name string) error {
	defer func() {
		if err := emf.Close(); err != nil {
			slog.Error("EntityManagerFactory 종료 실패", "unit", emf.Unit(), "error", err)
		}
	}()

	service := NewMemberService(emf, NewMemberRepository())
	return service.Rename(ctx, memberID, name)
}
