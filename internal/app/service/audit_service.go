package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jose-valero/levels-bot/internal/infra/storage"
)

const AuditPageSize = 15

type AuditService struct {
	repo AuditRepo
}

func NewAuditService(r AuditRepo) *AuditService { return &AuditService{repo: r} }

// List muestra los últimos cambios de xp del guild, opcionalmente por usuario y/o moderador.
func (s *AuditService) List(ctx context.Context, guildID, userID, moderatorID string) (string, error) {
	entries, err := s.repo.List(ctx, storage.AuditFilter{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Limit:       AuditPageSize,
	})
	if err != nil {
		return "", fmt.Errorf("read audit log: %w", err)
	}
	if len(entries) == 0 {
		return "No audit log entries match!", nil
	}

	var b strings.Builder
	b.WriteString("**Audit log**")
	for _, e := range entries {
		b.WriteString("\n")
		if e.CreatedAt != "" {
			fmt.Fprintf(&b, "`%s` ", e.CreatedAt)
		}
		if e.Reset {
			fmt.Fprintf(&b, "<@%s> reset <@%s>", e.ModeratorID, e.UserID)
		} else {
			fmt.Fprintf(&b, "<@%s> gave <@%s> %d XP", e.ModeratorID, e.UserID, e.Delta)
		}
	}
	return b.String(), nil
}
