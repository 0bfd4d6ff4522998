package service

import (
	"context"
	"fmt"

	"github.com/jose-valero/levels-bot/internal/infra/storage"
)

// Lo implementa internal/infra/storage.LevelsRepo
type LevelsRepo interface {
	Experience(ctx context.Context, guildID, userID string) (int64, error)
	CountAbove(ctx context.Context, guildID string, xp int64) (int64, error)
	Top(ctx context.Context, guildID string, limit, offset int) ([]storage.LevelEntry, error)
}

// Lo implementa internal/infra/storage.GuildConfigRepo
type GuildConfigRepo interface {
	Get(ctx context.Context, guildID string) (storage.GuildConfig, error)
	Upsert(ctx context.Context, guildID string, u storage.GuildConfigUpdate) (storage.GuildConfig, error)
	Delete(ctx context.Context, guildID string) error
}

// Lo implementa internal/infra/storage.ModerationRepo. Cada método escribe
// xp y auditoría en la misma transacción.
type ModerationRepo interface {
	Grant(ctx context.Context, e storage.AuditEntry) (storage.XPChange, error)
	Reset(ctx context.Context, tmpl storage.AuditEntry, userIDs []string) (int64, error)
}

// Lo implementa internal/infra/storage.AuditRepo
type AuditRepo interface {
	List(ctx context.Context, f storage.AuditFilter) ([]storage.AuditEntry, error)
}

// Lo implementa internal/infra/storage.RewardsRepo
type RewardsRepo interface {
	Add(ctx context.Context, guildID, roleID string, requirement int64) error
	RemoveRole(ctx context.Context, guildID, roleID string) (int64, error)
	RemoveLevel(ctx context.Context, guildID string, requirement int64) (int64, error)
	List(ctx context.Context, guildID string) ([]storage.RoleReward, error)
}

// Lo implementa internal/infra/storage.PrivacyRepo
type PrivacyRepo interface {
	Export(ctx context.Context, userID string) ([]storage.GuildXP, error)
	Forget(ctx context.Context, userID string) (int64, error)
}

// RoleAssigner da y quita roles en Discord (adapters/discord.RoleSync).
type RoleAssigner interface {
	AddRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID string) error
}

// Lo implementa *RewardsService
type RewardSyncer interface {
	Sync(ctx context.Context, guildID, userID string, level int64) error
}

// ValidationError: input del usuario inválido; el texto se muestra tal cual.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
