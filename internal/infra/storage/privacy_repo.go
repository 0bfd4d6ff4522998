package storage

import (
	"context"
	"database/sql"
)

// PrivacyRepo: todo lo que guardamos de un usuario, en todos los guilds.
type PrivacyRepo struct{ db *DB }

func NewPrivacyRepo(db *DB) *PrivacyRepo { return &PrivacyRepo{db: db} }

func (r *PrivacyRepo) Export(ctx context.Context, userID string) ([]GuildXP, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT guild_id, xp
  FROM levels
 WHERE user_id = $1
 ORDER BY guild_id ASC
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GuildXP
	for rows.Next() {
		var g GuildXP
		if err := rows.Scan(&g.GuildID, &g.XP); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Forget borra la xp del usuario y las filas de auditoría donde aparece
// (como target o como moderador). Devuelve cuántos registros de xp había.
func (r *PrivacyRepo) Forget(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM levels WHERE user_id = $1`, userID)
		if err != nil {
			return err
		}
		n, _ = res.RowsAffected()

		if _, err := tx.ExecContext(ctx, `DELETE FROM xp_audit_log WHERE user_id = $1`, userID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM xp_audit_log WHERE moderator_id = $1`, userID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
