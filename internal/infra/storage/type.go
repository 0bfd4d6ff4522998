package storage

import "errors"

var ErrNotFound = errors.New("not found")

type LevelEntry struct {
	UserID string
	XP     int64
}

// GuildConfig tal cual está en la tabla; nil = no configurado (se usa el default).
type GuildConfig struct {
	GuildID        string
	OneAtATime     *bool
	LevelUpMessage *string
	LevelUpChannel *string
	PingOnLevelUp  *bool
	MinXP          *int
	MaxXP          *int
	CooldownSecs   *int
}

// Para updates parciales desde /config
type GuildConfigUpdate struct {
	OneAtATime     *bool
	LevelUpMessage *string
	LevelUpChannel *string
	PingOnLevelUp  *bool
	MinXP          *int
	MaxXP          *int
	CooldownSecs   *int
}

func (u GuildConfigUpdate) Empty() bool {
	return u.OneAtATime == nil && u.LevelUpMessage == nil && u.LevelUpChannel == nil &&
		u.PingOnLevelUp == nil && u.MinXP == nil && u.MaxXP == nil && u.CooldownSecs == nil
}

type AuditEntry struct {
	InteractionID string
	GuildID       string
	UserID        string
	ModeratorID   string
	Delta         int64
	Reset         bool
	CreatedAt     string // solo en lecturas
}

type AuditFilter struct {
	GuildID     string
	UserID      string // vacío = todos
	ModeratorID string // vacío = todos
	Limit       int
}

// XPChange: total antes y después de una escritura.
type XPChange struct {
	Before int64
	After  int64
}

type RoleReward struct {
	RoleID      string
	Requirement int64 // nivel
}

type GuildXP struct {
	GuildID string
	XP      int64
}
