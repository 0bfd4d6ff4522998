// handlers de los slash commands; la resolución del target vive en invocation.go
package discord

import (
	"bytes"
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/jose-valero/levels-bot/internal/app/service"
	"github.com/jose-valero/levels-bot/internal/domain"
)

const helpText = "**Commands**\n" +
	"`/rank [user]` or `/level [user]`: see your level, or someone else's.\n" +
	"Right click a user > Apps > **Get level**: same, from the member list.\n" +
	"Right click a message > Apps > **Get author level**: level of whoever sent it.\n" +
	"`/leaderboard [page]`: top users of this server.\n" +
	"`/config get|reset|levels|rewards`: leveling settings (admins).\n" +
	"`/xp add|reset`: change someone's experience (admins).\n" +
	"`/rewards add|remove|list`: roles given at a level (admins).\n" +
	"`/audit [user] [moderator]`: recent experience changes (admins).\n" +
	"`/gdpr download|delete`: get or erase everything stored about you."

func (r *Router) commandTable() map[string]Command {
	cmds := []Command{
		{Name: "rank", GuildOnly: true, Handler: r.handleRank},
		{Name: "level", GuildOnly: true, Handler: r.handleRank},
		{Name: "help", Handler: r.handleHelp},
		{Name: "leaderboard", GuildOnly: true, Handler: r.handleLeaderboard},
		{Name: "config", GuildOnly: true, AdminOnly: true, Handler: r.handleConfig},
		{Name: "xp", GuildOnly: true, AdminOnly: true, Handler: r.handleXP},
		{Name: "rewards", GuildOnly: true, AdminOnly: true, Handler: r.handleRewards},
		{Name: "audit", GuildOnly: true, AdminOnly: true, Handler: r.handleAudit},
		{Name: "gdpr", Handler: r.handleGDPR},
	}
	out := make(map[string]Command, len(cmds))
	for _, c := range cmds {
		out[c.Name] = c
	}
	return out
}

func (r *Router) handleRank(ctx context.Context, c *Ctx) (Response, error) {
	target, err := slashInvocation{c.Data}.target(c.Invoker)
	if err != nil {
		return Response{}, err
	}
	return r.describe(ctx, c, target)
}

func (r *Router) describe(ctx context.Context, c *Ctx, target domain.Member) (Response, error) {
	msg, err := r.levels.Describe(ctx, c.GuildID, target, c.Invoker.ID)
	if err != nil {
		return Response{}, err
	}
	return ephemeral(msg), nil
}

func (r *Router) handleHelp(_ context.Context, _ *Ctx) (Response, error) {
	return ephemeral(helpText), nil
}

func (r *Router) handleLeaderboard(ctx context.Context, c *Ctx) (Response, error) {
	page := int64(1)
	if v, ok := optInt(c.Data.Options, "page"); ok {
		page = v
	}
	msg, err := r.levels.Leaderboard(ctx, c.GuildID, int(page))
	if err != nil {
		return Response{}, err
	}
	return Response{Content: msg}, nil
}

func (r *Router) handleConfig(ctx context.Context, c *Ctx) (Response, error) {
	sub, ok := subcommand(c.Data.Options)
	if !ok {
		return Response{}, ErrUnrecognizedCommand
	}

	var (
		msg string
		err error
	)
	switch sub.Name {
	case "get":
		msg, err = r.settings.Get(ctx, c.GuildID)

	case "reset":
		msg, err = r.settings.Reset(ctx, c.GuildID)

	case "rewards":
		var oneAtATime *bool
		if v, ok := optBool(sub.Options, "one_at_a_time"); ok {
			oneAtATime = &v
		}
		msg, err = r.settings.UpdateRewards(ctx, c.GuildID, oneAtATime)

	case "levels":
		var patch service.LevelsPatch
		patch, err = levelsPatch(c.Data, sub.Options)
		if err != nil {
			return Response{}, err
		}
		msg, err = r.settings.UpdateLevels(ctx, c.GuildID, patch)

	default:
		return Response{}, ErrUnrecognizedCommand
	}
	if err != nil {
		return Response{}, err
	}
	return embedText(msg), nil
}

func levelsPatch(data discordgo.ApplicationCommandInteractionData, opts []*discordgo.ApplicationCommandInteractionDataOption) (service.LevelsPatch, error) {
	var p service.LevelsPatch
	if v, ok := optStr(opts, "level_up_message"); ok {
		p.LevelUpMessage = &v
	}
	if id, ok := optID(opts, "level_up_channel", discordgo.ApplicationCommandOptionChannel); ok {
		if data.Resolved == nil {
			return p, ErrNoResolvedData
		}
		ch, ok := data.Resolved.Channels[id]
		if !ok || ch == nil {
			return p, ErrNoResolvedData
		}
		p.LevelUpChannel = &service.ChannelRef{ID: id, Text: ch.Type == discordgo.ChannelTypeGuildText}
	}
	if v, ok := optBool(opts, "ping_users"); ok {
		p.PingUsers = &v
	}
	if v, ok := optInt(opts, "max_xp_per_message"); ok {
		p.MaxXPPerMessage = &v
	}
	if v, ok := optInt(opts, "min_xp_per_message"); ok {
		p.MinXPPerMessage = &v
	}
	if v, ok := optInt(opts, "message_cooldown"); ok {
		p.MessageCooldown = &v
	}
	return p, nil
}

func (r *Router) handleXP(ctx context.Context, c *Ctx) (Response, error) {
	sub, ok := subcommand(c.Data.Options)
	if !ok {
		return Response{}, ErrUnrecognizedCommand
	}
	mod := service.Moderation{
		GuildID:       c.GuildID,
		ModeratorID:   c.Invoker.ID,
		InteractionID: c.Interaction.ID,
	}

	switch sub.Name {
	case "add":
		id, ok := optID(sub.Options, "user", discordgo.ApplicationCommandOptionUser)
		if !ok {
			return Response{}, ErrNoTarget
		}
		target, err := resolvedUser(c.Data.Resolved, id)
		if err != nil {
			return Response{}, err
		}
		amount, _ := optInt(sub.Options, "amount")
		msg, err := r.xp.Add(ctx, mod, target, amount)
		if err != nil {
			return Response{}, err
		}
		return ephemeral(msg), nil

	case "reset":
		raw, _ := optStr(sub.Options, "users")
		msg, err := r.xp.Reset(ctx, mod, parseIDs(raw))
		if err != nil {
			return Response{}, err
		}
		return ephemeral(msg), nil
	}
	return Response{}, ErrUnrecognizedCommand
}

func (r *Router) handleRewards(ctx context.Context, c *Ctx) (Response, error) {
	sub, ok := subcommand(c.Data.Options)
	if !ok {
		return Response{}, ErrUnrecognizedCommand
	}

	var (
		msg string
		err error
	)
	switch sub.Name {
	case "add":
		id, ok := optID(sub.Options, "role", discordgo.ApplicationCommandOptionRole)
		if !ok {
			return Response{}, ErrNoTarget
		}
		if c.Data.Resolved == nil {
			return Response{}, ErrNoResolvedData
		}
		role, ok := c.Data.Resolved.Roles[id]
		if !ok || role == nil {
			return Response{}, ErrNoResolvedData
		}
		level, _ := optInt(sub.Options, "level")
		msg, err = r.rewards.Add(ctx, c.GuildID, service.RoleRef{ID: id, Managed: role.Managed}, level)

	case "remove":
		roleID, _ := optID(sub.Options, "role", discordgo.ApplicationCommandOptionRole)
		var level *int64
		if v, ok := optInt(sub.Options, "level"); ok {
			level = &v
		}
		msg, err = r.rewards.Remove(ctx, c.GuildID, roleID, level)

	case "list":
		msg, err = r.rewards.List(ctx, c.GuildID)

	default:
		return Response{}, ErrUnrecognizedCommand
	}
	if err != nil {
		return Response{}, err
	}
	return ephemeral(msg), nil
}

func (r *Router) handleAudit(ctx context.Context, c *Ctx) (Response, error) {
	userID, _ := optID(c.Data.Options, "user", discordgo.ApplicationCommandOptionUser)
	modID, _ := optID(c.Data.Options, "moderator", discordgo.ApplicationCommandOptionUser)
	msg, err := r.audit.List(ctx, c.GuildID, userID, modID)
	if err != nil {
		return Response{}, err
	}
	return embedText(msg), nil
}

// /gdpr actúa sobre el que invoca, en todos los guilds; anda también por DM.
func (r *Router) handleGDPR(ctx context.Context, c *Ctx) (Response, error) {
	sub, ok := subcommand(c.Data.Options)
	if !ok {
		return Response{}, ErrUnrecognizedCommand
	}

	switch sub.Name {
	case "delete":
		if confirm, _ := optBool(sub.Options, "confirm"); !confirm {
			return ephemeral("Nothing was deleted. Run `/gdpr delete confirm:True` to erase your data."), nil
		}
		msg, err := r.privacy.Delete(ctx, c.Invoker.ID)
		if err != nil {
			return Response{}, err
		}
		return ephemeral(msg), nil

	case "download":
		data, err := r.privacy.Export(ctx, c.Invoker.ID)
		if err != nil {
			return Response{}, err
		}
		resp := ephemeral("Here is everything stored about you.")
		resp.Files = []*discordgo.File{{
			Name:        "levels.csv",
			ContentType: "text/csv",
			Reader:      bytes.NewReader(data),
		}}
		return resp, nil
	}
	return Response{}, ErrUnrecognizedCommand
}
