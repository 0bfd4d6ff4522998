package discord

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

var (
	adminOnly = int64(discordgo.PermissionManageGuild)
	minOne    = 1.0
	zero      = 0.0
	maxSmall  = 32767.0
)

var userOpt = &discordgo.ApplicationCommandOption{
	Type:        discordgo.ApplicationCommandOptionUser,
	Name:        "user",
	Description: "User to check the level of",
}

var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "rank",
		Description: "Check someone's level and rank",
		Options:     []*discordgo.ApplicationCommandOption{userOpt},
	},
	{
		Name:        "level",
		Description: "Check someone's level and rank",
		Options:     []*discordgo.ApplicationCommandOption{userOpt},
	},
	{
		Name:        "help",
		Description: "Learn about the bot's commands",
	},
	{
		Name:        "leaderboard",
		Description: "See the most active users of this server",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "page",
			Description: "Page to show (10 users per page)",
			MinValue:    &minOne,
		}},
	},
	{
		Type: discordgo.UserApplicationCommand,
		Name: "Get level",
	},
	{
		Type: discordgo.MessageApplicationCommand,
		Name: "Get author level",
	},
	{
		Name:                     "config",
		Description:              "Configure the leveling system",
		DefaultMemberPermissions: &adminOnly,
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "get", Description: "Show the current configuration"},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "reset", Description: "Reset the configuration to the defaults"},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "levels",
				Description: "Leveling settings (only what you pass is changed)",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "level_up_message", Description: "Message sent on level-up, supports {user_mention} and {level}", MaxLength: 512},
					{
						Type:         discordgo.ApplicationCommandOptionChannel,
						Name:         "level_up_channel",
						Description:  "Channel to send level-up messages in",
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
					},
					{Type: discordgo.ApplicationCommandOptionBoolean, Name: "ping_users", Description: "Ping users when they level up"},
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "max_xp_per_message", Description: "Maximum XP per message", MinValue: &zero, MaxValue: maxSmall},
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "min_xp_per_message", Description: "Minimum XP per message", MinValue: &zero, MaxValue: maxSmall},
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "message_cooldown", Description: "Seconds between messages that give XP", MinValue: &zero, MaxValue: maxSmall},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "rewards",
				Description: "Role reward settings",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionBoolean, Name: "one_at_a_time", Description: "Keep only the highest reward role"},
				},
			},
		},
	},
	{
		Name:                     "xp",
		Description:              "Manage users' experience",
		DefaultMemberPermissions: &adminOnly,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Give experience to a user",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to give experience to", Required: true},
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "amount", Description: "Amount of experience", Required: true, MinValue: &minOne},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "reset",
				Description: "Reset users' experience to zero",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "users", Description: "Mentions or IDs, separated by spaces", Required: true},
				},
			},
		},
	},
	{
		Name:                     "rewards",
		Description:              "Give roles to users when they reach a level",
		DefaultMemberPermissions: &adminOnly,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Add a role reward",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Role to give", Required: true},
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "level", Description: "Level that unlocks the role", Required: true, MinValue: &minOne},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Remove a role reward by role or level",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Role of the reward"},
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "level", Description: "Level of the reward", MinValue: &minOne},
				},
			},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "list", Description: "List the role rewards"},
		},
	},
	{
		Name:                     "audit",
		Description:              "See recent experience changes made by moderators",
		DefaultMemberPermissions: &adminOnly,
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Only changes to this user"},
			{Type: discordgo.ApplicationCommandOptionUser, Name: "moderator", Description: "Only changes made by this moderator"},
		},
	},
	{
		Name:        "gdpr",
		Description: "Download or delete the data stored about you",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "download", Description: "Get your data as a CSV file"},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "delete",
				Description: "Delete your experience in every server",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionBoolean, Name: "confirm", Description: "This can't be undone", Required: true},
				},
			},
		},
	},
}

// CommandRegistrar es la parte de *discordgo.Session que usa Register.
type CommandRegistrar interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// Register pisa todos los comandos de la app (guildID vacío = globales).
func Register(s CommandRegistrar, appID, guildID string, log *slog.Logger) error {
	created, err := s.ApplicationCommandBulkOverwrite(appID, guildID, Commands)
	if err != nil {
		return err
	}
	log.Info("commands registered", "count", len(created), "guild_id", guildID)
	return nil
}
