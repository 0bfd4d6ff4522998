package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jose-valero/levels-bot/internal/domain"
)

type PrivacyService struct {
	repo PrivacyRepo
}

func NewPrivacyService(r PrivacyRepo) *PrivacyService { return &PrivacyService{repo: r} }

func (s *PrivacyService) Delete(ctx context.Context, userID string) (string, error) {
	n, err := s.repo.Forget(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("delete user data: %w", err)
	}
	return fmt.Sprintf("Deleted all data stored about you (%d level record(s)).", n), nil
}

// Export: CSV con una fila por guild (guild_id, xp, level).
func (s *PrivacyService) Export(ctx context.Context, userID string) ([]byte, error) {
	rows, err := s.repo.Export(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("export user data: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"guild_id", "xp", "level"})
	for _, r := range rows {
		_ = w.Write([]string{
			r.GuildID,
			strconv.FormatInt(r.XP, 10),
			strconv.FormatInt(domain.NewLevelInfo(r.XP).Level(), 10),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
