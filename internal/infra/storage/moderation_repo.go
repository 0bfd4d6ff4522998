package storage

import (
	"context"
	"database/sql"
)

// ModerationRepo: cambios de xp hechos por moderadores. El cambio y su fila
// de auditoría se confirman juntos o no se confirma nada.
type ModerationRepo struct{ db *DB }

func NewModerationRepo(db *DB) *ModerationRepo { return &ModerationRepo{db: db} }

// Grant suma e.Delta a e.UserID. La auditoría guarda lo que realmente se sumó
// (puede ser menos si el total llegó al tope).
func (r *ModerationRepo) Grant(ctx context.Context, e AuditEntry) (XPChange, error) {
	var ch XPChange
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		ch, err = addXP(ctx, tx, e.GuildID, e.UserID, e.Delta)
		if err != nil {
			return err
		}
		e.Delta = ch.After - ch.Before
		e.Reset = false
		return recordAudit(ctx, tx, []AuditEntry{e})
	})
	if err != nil {
		return XPChange{}, err
	}
	return ch, nil
}

// Reset borra la xp de userIDs en el guild de tmpl y deja una fila por usuario.
func (r *ModerationRepo) Reset(ctx context.Context, tmpl AuditEntry, userIDs []string) (int64, error) {
	var n int64
	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		n, err = resetUsers(ctx, tx, r.db.Driver, tmpl.GuildID, userIDs)
		if err != nil {
			return err
		}
		entries := make([]AuditEntry, 0, len(userIDs))
		for _, id := range userIDs {
			e := tmpl
			e.UserID, e.Delta, e.Reset = id, 0, true
			entries = append(entries, e)
		}
		return recordAudit(ctx, tx, entries)
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
