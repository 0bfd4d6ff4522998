package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// RoleEditor es la parte de *discordgo.Session que usa RoleSync.
type RoleEditor interface {
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
}

// RoleSync da y quita los roles de recompensa (implementa service.RoleAssigner).
type RoleSync struct{ s RoleEditor }

func NewRoleSync(s RoleEditor) *RoleSync { return &RoleSync{s: s} }

func (r *RoleSync) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	return r.s.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx))
}

func (r *RoleSync) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	return r.s.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx))
}
