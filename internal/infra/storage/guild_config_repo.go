package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type GuildConfigRepo struct{ db *DB }

func NewGuildConfigRepo(db *DB) *GuildConfigRepo { return &GuildConfigRepo{db: db} }

func (r *GuildConfigRepo) Get(ctx context.Context, guildID string) (GuildConfig, error) {
	var c GuildConfig
	err := r.db.QueryRowContext(ctx, `
SELECT guild_id, one_at_a_time, level_up_message, level_up_channel, ping_on_level_up,
       min_xp_per_message, max_xp_per_message, cooldown_seconds
  FROM guild_configs
 WHERE guild_id = $1
`, guildID).Scan(
		&c.GuildID, &c.OneAtATime, &c.LevelUpMessage, &c.LevelUpChannel, &c.PingOnLevelUp,
		&c.MinXP, &c.MaxXP, &c.CooldownSecs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GuildConfig{}, ErrNotFound
	}
	return c, err
}

// Upsert aplica solo los campos no-nil y devuelve la fila resultante.
func (r *GuildConfigRepo) Upsert(ctx context.Context, guildID string, u GuildConfigUpdate) (GuildConfig, error) {
	if u.Empty() {
		return r.Get(ctx, guildID)
	}

	cols := []string{"guild_id"}
	args := []any{guildID}
	add := func(col string, v any) {
		cols = append(cols, col)
		args = append(args, v)
	}
	if u.OneAtATime != nil {
		add("one_at_a_time", *u.OneAtATime)
	}
	if u.LevelUpMessage != nil {
		add("level_up_message", *u.LevelUpMessage)
	}
	if u.LevelUpChannel != nil {
		add("level_up_channel", *u.LevelUpChannel)
	}
	if u.PingOnLevelUp != nil {
		add("ping_on_level_up", *u.PingOnLevelUp)
	}
	if u.MinXP != nil {
		add("min_xp_per_message", *u.MinXP)
	}
	if u.MaxXP != nil {
		add("max_xp_per_message", *u.MaxXP)
	}
	if u.CooldownSecs != nil {
		add("cooldown_seconds", *u.CooldownSecs)
	}

	marks := make([]string, len(cols))
	sets := make([]string, 0, len(cols))
	for i, c := range cols {
		marks[i] = fmt.Sprintf("$%d", i+1)
		if i > 0 {
			sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
		}
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")

	q := fmt.Sprintf(`
INSERT INTO guild_configs (%s)
VALUES (%s)
ON CONFLICT (guild_id) DO UPDATE SET
  %s
`, strings.Join(cols, ", "), strings.Join(marks, ", "), strings.Join(sets, ",\n  "))
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return GuildConfig{}, err
	}
	return r.Get(ctx, guildID)
}

// Delete vuelve el guild a los defaults.
func (r *GuildConfigRepo) Delete(ctx context.Context, guildID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM guild_configs WHERE guild_id = $1`, guildID)
	return err
}
