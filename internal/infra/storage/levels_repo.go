package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	pq "github.com/lib/pq"

	"github.com/jose-valero/levels-bot/internal/domain"
)

type LevelsRepo struct{ db *DB }

func NewLevelsRepo(db *DB) *LevelsRepo { return &LevelsRepo{db: db} }

// Experience devuelve ErrNotFound si el usuario nunca sumó xp en el guild.
func (r *LevelsRepo) Experience(ctx context.Context, guildID, userID string) (int64, error) {
	return experience(ctx, r.db, guildID, userID)
}

// CountAbove: cuántos usuarios del guild tienen estrictamente más xp.
func (r *LevelsRepo) CountAbove(ctx context.Context, guildID string, xp int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*)
  FROM levels
 WHERE guild_id = $1 AND xp > $2
`, guildID, xp).Scan(&n)
	return n, err
}

// Top ordena por xp desc; empates por user_id para que la paginación sea estable.
func (r *LevelsRepo) Top(ctx context.Context, guildID string, limit, offset int) ([]LevelEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT user_id, xp
  FROM levels
 WHERE guild_id = $1 AND xp > 0
 ORDER BY xp DESC, user_id ASC
 LIMIT $2 OFFSET $3
`, guildID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LevelEntry, 0, limit)
	for rows.Next() {
		var e LevelEntry
		if err := rows.Scan(&e.UserID, &e.XP); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func experience(ctx context.Context, q querier, guildID, userID string) (int64, error) {
	var xp int64
	err := q.QueryRowContext(ctx, `
SELECT xp
  FROM levels
 WHERE guild_id = $1 AND user_id = $2
`, guildID, userID).Scan(&xp)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return xp, err
}

// el total nunca pasa de domain.MaxExperience: el excedente se descarta en la misma sentencia
var addXPQuery = fmt.Sprintf(`
INSERT INTO levels (user_id, guild_id, xp)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, guild_id) DO UPDATE SET
  xp = CASE
         WHEN levels.xp > %[1]d - excluded.xp THEN %[1]d
         ELSE levels.xp + excluded.xp
       END
RETURNING xp
`, domain.MaxExperience)

// addXP suma delta (0..MaxExperience) y devuelve el total antes y después.
func addXP(ctx context.Context, q querier, guildID, userID string, delta int64) (XPChange, error) {
	if delta < 0 || delta > domain.MaxExperience {
		return XPChange{}, fmt.Errorf("xp delta %d out of range", delta)
	}
	before, err := experience(ctx, q, guildID, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return XPChange{}, err
	}
	var after int64
	if err := q.QueryRowContext(ctx, addXPQuery, userID, guildID, delta).Scan(&after); err != nil {
		return XPChange{}, err
	}
	return XPChange{Before: before, After: after}, nil
}

// resetUsers borra los registros; ausente == 0 xp. Devuelve cuántos había.
func resetUsers(ctx context.Context, q querier, driver, guildID string, userIDs []string) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	var (
		res sql.Result
		err error
	)
	if driver == DriverPostgres {
		res, err = q.ExecContext(ctx, `
DELETE FROM levels
 WHERE guild_id = $1 AND user_id = ANY($2)
`, guildID, pq.Array(userIDs))
	} else {
		// sqlite no tiene arrays: expandimos el IN
		args := make([]any, 0, len(userIDs)+1)
		args = append(args, guildID)
		for _, id := range userIDs {
			args = append(args, id)
		}
		res, err = q.ExecContext(ctx, `
DELETE FROM levels
 WHERE guild_id = $1 AND user_id IN (`+inList(2, len(userIDs))+`)`, args...)
	}
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
