package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jose-valero/levels-bot/internal/infra/storage"
)

type RewardsService struct {
	repo    RewardsRepo
	configs GuildConfigRepo
	roles   RoleAssigner
}

func NewRewardsService(r RewardsRepo, c GuildConfigRepo, roles RoleAssigner) *RewardsService {
	return &RewardsService{repo: r, configs: c, roles: roles}
}

// RoleRef: el rol elegido en /rewards add, con lo que hace falta para validarlo.
type RoleRef struct {
	ID      string
	Managed bool
}

func (s *RewardsService) Add(ctx context.Context, guildID string, role RoleRef, level int64) (string, error) {
	if level < 1 {
		return "", invalid("The level must be at least 1!")
	}
	if role.ID == guildID {
		return "", invalid("The @everyone role can't be a reward!")
	}
	if role.Managed {
		return "", invalid("That role is managed by an integration and can't be given out!")
	}
	if err := s.repo.Add(ctx, guildID, role.ID, level); err != nil {
		return "", fmt.Errorf("add reward: %w", err)
	}
	return fmt.Sprintf("Added <@&%s> as the reward for level %d!", role.ID, level), nil
}

// Remove borra por rol, por nivel o por ambos.
func (s *RewardsService) Remove(ctx context.Context, guildID, roleID string, level *int64) (string, error) {
	if roleID == "" && level == nil {
		return "", invalid("Pass the role or the level of the reward to remove!")
	}

	var n int64
	if roleID != "" {
		removed, err := s.repo.RemoveRole(ctx, guildID, roleID)
		if err != nil {
			return "", fmt.Errorf("remove reward: %w", err)
		}
		n += removed
	}
	if level != nil {
		removed, err := s.repo.RemoveLevel(ctx, guildID, *level)
		if err != nil {
			return "", fmt.Errorf("remove reward: %w", err)
		}
		n += removed
	}
	if n == 0 {
		return "There was no matching reward to remove.", nil
	}
	return fmt.Sprintf("Removed %d reward(s)!", n), nil
}

func (s *RewardsService) List(ctx context.Context, guildID string) (string, error) {
	rewards, err := s.repo.List(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("list rewards: %w", err)
	}
	if len(rewards) == 0 {
		return "This server has no level rewards yet!", nil
	}

	var b strings.Builder
	b.WriteString("**Level rewards**")
	for _, rw := range rewards {
		fmt.Fprintf(&b, "\nLevel %d: <@&%s>", rw.Requirement, rw.RoleID)
	}
	return b.String(), nil
}

// Sync deja al usuario con los roles que le tocan por nivel. No quita roles
// de niveles que todavía no alcanzó.
func (s *RewardsService) Sync(ctx context.Context, guildID, userID string, level int64) error {
	if s.roles == nil {
		return nil
	}
	rewards, err := s.repo.List(ctx, guildID)
	if err != nil {
		return fmt.Errorf("list rewards: %w", err)
	}
	if len(rewards) == 0 {
		return nil
	}

	oneAtATime := false
	cfg, err := s.configs.Get(ctx, guildID)
	switch {
	case err == nil:
		oneAtATime = cfg.OneAtATime != nil && *cfg.OneAtATime
	case !errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("read guild config: %w", err)
	}

	grant, revoke := planRewards(rewards, level, oneAtATime)
	var errs []error
	for _, id := range grant {
		if err := s.roles.AddRole(ctx, guildID, userID, id); err != nil {
			errs = append(errs, fmt.Errorf("add role %s: %w", id, err))
		}
	}
	for _, id := range revoke {
		if err := s.roles.RemoveRole(ctx, guildID, userID, id); err != nil {
			errs = append(errs, fmt.Errorf("remove role %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// planRewards: roles alcanzados por level. Con oneAtATime solo queda el más alto.
func planRewards(rewards []storage.RoleReward, level int64, oneAtATime bool) (grant, revoke []string) {
	reached := make([]storage.RoleReward, 0, len(rewards))
	for _, rw := range rewards {
		if rw.Requirement <= level {
			reached = append(reached, rw)
		}
	}
	if len(reached) == 0 {
		return nil, nil
	}
	sort.SliceStable(reached, func(i, j int) bool { return reached[i].Requirement < reached[j].Requirement })

	if !oneAtATime {
		for _, rw := range reached {
			grant = append(grant, rw.RoleID)
		}
		return grant, nil
	}
	top := reached[len(reached)-1]
	for _, rw := range reached[:len(reached)-1] {
		revoke = append(revoke, rw.RoleID)
	}
	return []string{top.RoleID}, revoke
}
