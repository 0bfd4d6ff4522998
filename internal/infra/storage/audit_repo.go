package storage

import (
	"context"
	"fmt"
	"strings"
)

type AuditRepo struct{ db *DB }

func NewAuditRepo(db *DB) *AuditRepo { return &AuditRepo{db: db} }

// List devuelve lo más reciente primero. Filtros vacíos no filtran.
func (r *AuditRepo) List(ctx context.Context, f AuditFilter) ([]AuditEntry, error) {
	if f.Limit <= 0 {
		f.Limit = 10
	}

	where := []string{"guild_id = $1"}
	args := []any{f.GuildID}
	if f.UserID != "" {
		args = append(args, f.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.ModeratorID != "" {
		args = append(args, f.ModeratorID)
		where = append(where, fmt.Sprintf("moderator_id = $%d", len(args)))
	}
	args = append(args, f.Limit)

	rows, err := r.db.QueryContext(ctx, `
SELECT interaction_id, guild_id, user_id, moderator_id, delta, reset, created_at
  FROM xp_audit_log
 WHERE `+strings.Join(where, " AND ")+`
 ORDER BY created_at DESC, interaction_id DESC, user_id ASC
 LIMIT `+fmt.Sprintf("$%d", len(args)), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.InteractionID, &e.GuildID, &e.UserID, &e.ModeratorID, &e.Delta, &e.Reset, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Reintentos de la misma interacción no duplican filas.
func recordAudit(ctx context.Context, q querier, entries []AuditEntry) error {
	for _, e := range entries {
		if _, err := q.ExecContext(ctx, `
INSERT INTO xp_audit_log (interaction_id, user_id, guild_id, moderator_id, delta, reset)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (interaction_id, user_id) DO NOTHING
`, e.InteractionID, e.UserID, e.GuildID, e.ModeratorID, e.Delta, e.Reset); err != nil {
			return fmt.Errorf("audit %s/%s: %w", e.InteractionID, e.UserID, err)
		}
	}
	return nil
}
