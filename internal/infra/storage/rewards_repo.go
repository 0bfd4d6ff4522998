package storage

import (
	"context"
)

type RewardsRepo struct{ db *DB }

func NewRewardsRepo(db *DB) *RewardsRepo { return &RewardsRepo{db: db} }

// Add: un rol da una sola recompensa; volver a agregarlo cambia el nivel.
func (r *RewardsRepo) Add(ctx context.Context, guildID, roleID string, requirement int64) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO role_rewards (guild_id, role_id, requirement)
VALUES ($1, $2, $3)
ON CONFLICT (guild_id, role_id) DO UPDATE SET
  requirement = excluded.requirement
`, guildID, roleID, requirement)
	return err
}

func (r *RewardsRepo) RemoveRole(ctx context.Context, guildID, roleID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM role_rewards
 WHERE guild_id = $1 AND role_id = $2
`, guildID, roleID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *RewardsRepo) RemoveLevel(ctx context.Context, guildID string, requirement int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM role_rewards
 WHERE guild_id = $1 AND requirement = $2
`, guildID, requirement)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// List ordena por nivel requerido (asc).
func (r *RewardsRepo) List(ctx context.Context, guildID string) ([]RoleReward, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT role_id, requirement
  FROM role_rewards
 WHERE guild_id = $1
 ORDER BY requirement ASC, role_id ASC
`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RoleReward
	for rows.Next() {
		var rw RoleReward
		if err := rows.Scan(&rw.RoleID, &rw.Requirement); err != nil {
			return nil, err
		}
		out = append(out, rw)
	}
	return out, rows.Err()
}
