package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/jose-valero/levels-bot/internal/infra/storage"
)

const (
	DefaultMaxXPPerMessage = 25
	DefaultMinXPPerMessage = 15
	DefaultCooldownSeconds = 60

	MaxLevelUpMessageLen = 512
)

// Variables que acepta el mensaje de level-up.
var templateVariables = []string{"user_mention", "level"}

type ConfigService struct {
	repo GuildConfigRepo
}

func NewConfigService(r GuildConfigRepo) *ConfigService { return &ConfigService{repo: r} }

// ChannelRef: el canal elegido en /config levels y si es de texto.
type ChannelRef struct {
	ID   string
	Text bool
}

// LevelsPatch viene de las opciones de /config levels; nil = no tocar.
type LevelsPatch struct {
	LevelUpMessage  *string
	LevelUpChannel  *ChannelRef
	PingUsers       *bool
	MaxXPPerMessage *int64
	MinXPPerMessage *int64
	MessageCooldown *int64
}

func (s *ConfigService) Get(ctx context.Context, guildID string) (string, error) {
	cfg, err := s.load(ctx, guildID)
	if err != nil {
		return "", err
	}
	return RenderConfig(cfg), nil
}

func (s *ConfigService) Reset(ctx context.Context, guildID string) (string, error) {
	if err := s.repo.Delete(ctx, guildID); err != nil {
		return "", fmt.Errorf("reset guild config: %w", err)
	}
	return "Reset guild reward config, but NOT rewards themselves!", nil
}

func (s *ConfigService) UpdateRewards(ctx context.Context, guildID string, oneAtATime *bool) (string, error) {
	if _, err := s.repo.Upsert(ctx, guildID, storage.GuildConfigUpdate{OneAtATime: oneAtATime}); err != nil {
		return "", fmt.Errorf("update rewards config: %w", err)
	}
	return "Updated rewards config!", nil
}

func (s *ConfigService) UpdateLevels(ctx context.Context, guildID string, p LevelsPatch) (string, error) {
	if p.LevelUpMessage != nil {
		if err := validateLevelUpMessage(*p.LevelUpMessage); err != nil {
			return "", err
		}
	}
	if p.LevelUpChannel != nil && !p.LevelUpChannel.Text {
		return "", invalid("The level-up channel must be a text channel!")
	}

	maxXP, err := smallint("max_xp_per_message", p.MaxXPPerMessage)
	if err != nil {
		return "", err
	}
	minXP, err := smallint("min_xp_per_message", p.MinXPPerMessage)
	if err != nil {
		return "", err
	}
	cooldown, err := smallint("message_cooldown", p.MessageCooldown)
	if err != nil {
		return "", err
	}

	// min/max se validan contra la config resultante, no solo contra el patch
	cur, err := s.load(ctx, guildID)
	if err != nil {
		return "", err
	}
	effMax, effMin := orDefault(cur.MaxXP, DefaultMaxXPPerMessage), orDefault(cur.MinXP, DefaultMinXPPerMessage)
	if maxXP != nil {
		effMax = *maxXP
	}
	if minXP != nil {
		effMin = *minXP
	}
	if effMin > effMax {
		return "", invalid("The selected minimum XP value of %d is more than the selected maximum of %d", effMin, effMax)
	}

	u := storage.GuildConfigUpdate{
		LevelUpMessage: p.LevelUpMessage,
		PingOnLevelUp:  p.PingUsers,
		MaxXP:          maxXP,
		MinXP:          minXP,
		CooldownSecs:   cooldown,
	}
	if p.LevelUpChannel != nil {
		u.LevelUpChannel = &p.LevelUpChannel.ID
	}
	cfg, err := s.repo.Upsert(ctx, guildID, u)
	if err != nil {
		return "", fmt.Errorf("update levels config: %w", err)
	}
	return RenderConfig(cfg), nil
}

func (s *ConfigService) load(ctx context.Context, guildID string) (storage.GuildConfig, error) {
	cfg, err := s.repo.Get(ctx, guildID)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.GuildConfig{GuildID: guildID}, nil
	}
	if err != nil {
		return storage.GuildConfig{}, fmt.Errorf("read guild config: %w", err)
	}
	return cfg, nil
}

// validateLevelUpMessage: largo máximo y solo variables conocidas.
func validateLevelUpMessage(msg string) error {
	if len(msg) > MaxLevelUpMessageLen {
		return invalid("The level-up message must be at most %d characters long!", MaxLevelUpMessageLen)
	}
	_, err := renderLevelUp(msg, "", 0)
	return err
}

// renderLevelUp reemplaza {user_mention} y {level}; otra variable es ValidationError.
func renderLevelUp(msg, mention string, level int64) (string, error) {
	t, err := fasttemplate.NewTemplate(msg, "{", "}")
	if err != nil {
		return "", invalid("The level-up message has a `{` without a closing `}`!")
	}
	return t.ExecuteFuncStringWithErr(func(w io.Writer, tag string) (int, error) {
		switch name := strings.TrimSpace(tag); name {
		case "user_mention":
			return io.WriteString(w, mention)
		case "level":
			return io.WriteString(w, strconv.FormatInt(level, 10))
		default:
			return 0, invalid("Unknown template variable `{%s}`. Allowed variables: {%s}",
				name, strings.Join(templateVariables, "}, {"))
		}
	})
}

// RenderConfig muestra la config efectiva (defaults incluidos).
func RenderConfig(c storage.GuildConfig) string {
	oneAtATime := "false"
	if c.OneAtATime != nil && *c.OneAtATime {
		oneAtATime = "true"
	}
	msg := "unset"
	if c.LevelUpMessage != nil {
		msg = "`" + *c.LevelUpMessage + "`"
	}
	channel := "unset"
	if c.LevelUpChannel != nil {
		channel = "`<#" + *c.LevelUpChannel + ">`"
	}
	return fmt.Sprintf(
		"One reward role at a time: %s\nLevel-up message: %s\nLevel-up channel: %s\nMaximum XP per message: %d\nMinimum XP per message: %d\nCooldown (seconds): %d",
		oneAtATime, msg, channel,
		orDefault(c.MaxXP, DefaultMaxXPPerMessage),
		orDefault(c.MinXP, DefaultMinXPPerMessage),
		orDefault(c.CooldownSecs, DefaultCooldownSeconds),
	)
}

func smallint(name string, v *int64) (*int, error) {
	if v == nil {
		return nil, nil
	}
	if *v < 0 || *v > math.MaxInt16 {
		return nil, invalid("%s must be between 0 and %d", name, math.MaxInt16)
	}
	n := int(*v)
	return &n, nil
}

func orDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
