package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jose-valero/levels-bot/internal/domain"
	"github.com/jose-valero/levels-bot/internal/infra/storage"
)

const LeaderboardPageSize = 10

type LevelService struct {
	levels LevelsRepo
}

func NewLevelService(r LevelsRepo) *LevelService { return &LevelService{levels: r} }

// Describe arma el mensaje de /rank. Las dos lecturas no van en transacción:
// si otro mensaje suma xp en el medio, el rank puede quedar un paso atrasado.
func (s *LevelService) Describe(ctx context.Context, guildID string, target domain.Member, invokerID string) (string, error) {
	xp, err := s.levels.Experience(ctx, guildID, target.ID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return "", fmt.Errorf("read experience: %w", err)
	}
	if xp < 0 {
		xp = 0
	}

	self := target.ID == invokerID
	if xp == 0 {
		if self {
			return "You aren't ranked yet, because you haven't sent any messages!", nil
		}
		return fmt.Sprintf("%s isn't ranked yet, because they haven't sent any messages!", target.DisplayName()), nil
	}

	above, err := s.levels.CountAbove(ctx, guildID, xp)
	if err != nil {
		return "", fmt.Errorf("read rank: %w", err)
	}
	rank := above + 1
	li := domain.NewLevelInfo(xp)

	if self {
		return fmt.Sprintf("You are level %d (rank #%d), and are %d%% of the way to level %d.",
			li.Level(), rank, li.Percentage(), li.NextLevel()), nil
	}
	return fmt.Sprintf("%s is level %d (rank #%d), and is %d%% of the way to level %d.",
		target.DisplayName(), li.Level(), rank, li.Percentage(), li.NextLevel()), nil
}

// Leaderboard: página 1-based, 10 por página.
func (s *LevelService) Leaderboard(ctx context.Context, guildID string, page int) (string, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * LeaderboardPageSize
	rows, err := s.levels.Top(ctx, guildID, LeaderboardPageSize, offset)
	if err != nil {
		return "", fmt.Errorf("read leaderboard: %w", err)
	}
	if len(rows) == 0 {
		if page == 1 {
			return "Nobody is ranked yet!", nil
		}
		return "No users on this page!", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Leaderboard** (page %d)\n", page)
	for i, r := range rows {
		li := domain.NewLevelInfo(r.XP)
		fmt.Fprintf(&b, "#%d. <@%s>: level %d (%d xp)\n", offset+i+1, r.UserID, li.Level(), r.XP)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
