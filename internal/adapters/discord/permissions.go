package discord

import "github.com/bwmarrin/discordgo"

const adminPerms = discordgo.PermissionAdministrator | discordgo.PermissionManageGuild

// isAdmin: Discord ya manda los permisos efectivos del miembro en la interacción,
// así que no hace falta pedir roles al API.
func (r *Router) isAdmin(ic *discordgo.Interaction) bool {
	if ic.Member == nil {
		return false
	}
	if ic.Member.Permissions&adminPerms != 0 {
		return true
	}

	// Roles explícitos del bot
	if len(r.adminRoleIDs) > 0 {
		has := make(map[string]struct{}, len(ic.Member.Roles))
		for _, rid := range ic.Member.Roles {
			has[rid] = struct{}{}
		}
		for _, want := range r.adminRoleIDs {
			if _, ok := has[want]; ok {
				return true
			}
		}
	}
	return false
}
