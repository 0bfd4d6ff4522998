package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jose-valero/levels-bot/internal/domain"
	"github.com/jose-valero/levels-bot/internal/infra/storage"
)

type XPService struct {
	ledger  ModerationRepo
	configs GuildConfigRepo
	rewards RewardSyncer // nil = sin roles de recompensa
}

func NewXPService(ledger ModerationRepo, configs GuildConfigRepo, rewards RewardSyncer) *XPService {
	return &XPService{ledger: ledger, configs: configs, rewards: rewards}
}

// Moderation identifica quién hizo el cambio y desde qué interacción.
type Moderation struct {
	GuildID       string
	ModeratorID   string
	InteractionID string
}

func (m Moderation) entry(userID string) storage.AuditEntry {
	return storage.AuditEntry{
		InteractionID: m.InteractionID,
		GuildID:       m.GuildID,
		UserID:        userID,
		ModeratorID:   m.ModeratorID,
	}
}

func (s *XPService) Add(ctx context.Context, m Moderation, target domain.Member, amount int64) (string, error) {
	if amount < 1 {
		return "", invalid("The amount of XP must be at least 1!")
	}
	if amount > domain.MaxExperience {
		return "", invalid("The amount of XP must be at most %d!", domain.MaxExperience)
	}
	if target.Bot {
		return "", invalid("Bots can't earn XP!")
	}

	e := m.entry(target.ID)
	e.Delta = amount
	ch, err := s.ledger.Grant(ctx, e)
	if err != nil {
		return "", fmt.Errorf("add xp: %w", err)
	}

	li := domain.NewLevelInfo(ch.After)
	applied := ch.After - ch.Before

	var b strings.Builder
	fmt.Fprintf(&b, "Gave %d XP to %s, who now has %d XP (level %d, %d XP to level %d).",
		applied, target.Mention(), li.XP(), li.Level(), li.XPToNext(), li.NextLevel())
	if applied < amount {
		fmt.Fprintf(&b, " %d XP was discarded because %d is the most anyone can have.", amount-applied, domain.MaxExperience)
	}

	if li.Level() > domain.NewLevelInfo(ch.Before).Level() {
		if msg := s.levelUpMessage(ctx, m.GuildID, target, li.Level()); msg != "" {
			b.WriteString("\n" + msg)
		}
	}
	if s.rewards != nil {
		if err := s.rewards.Sync(ctx, m.GuildID, target.ID, li.Level()); err != nil {
			b.WriteString("\nThe XP was saved, but reward roles could not be updated: " + err.Error())
		}
	}
	return b.String(), nil
}

// levelUpMessage: el mensaje configurado del guild ya renderizado, o "".
func (s *XPService) levelUpMessage(ctx context.Context, guildID string, target domain.Member, level int64) string {
	cfg, err := s.configs.Get(ctx, guildID)
	if err != nil || cfg.LevelUpMessage == nil {
		return ""
	}
	msg, err := renderLevelUp(*cfg.LevelUpMessage, target.Mention(), level)
	if err != nil {
		return ""
	}
	return msg
}

func (s *XPService) Reset(ctx context.Context, m Moderation, userIDs []string) (string, error) {
	if len(userIDs) == 0 {
		return "", invalid("No users given! Mention the users or paste their IDs.")
	}

	n, err := s.ledger.Reset(ctx, m.entry(""), userIDs)
	if err != nil {
		return "", fmt.Errorf("reset xp: %w", err)
	}
	return fmt.Sprintf("Reset XP for %d of %d user(s).", n, len(userIDs)), nil
}
