package discord

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/jose-valero/levels-bot/internal/domain"
)

type Ctx struct {
	Log         *slog.Logger
	Interaction *discordgo.Interaction
	Data        discordgo.ApplicationCommandInteractionData
	GuildID     string
	Invoker     domain.Member
}

type CommandHandler func(ctx context.Context, c *Ctx) (Response, error)

type Command struct {
	Name      string
	AdminOnly bool
	GuildOnly bool
	Handler   CommandHandler
}

// Response es lo que termina en el follow-up.
type Response struct {
	Content   string
	Embeds    []*discordgo.MessageEmbed
	Files     []*discordgo.File
	Ephemeral bool
}

func ephemeral(content string) Response { return Response{Content: content, Ephemeral: true} }

func embedText(text string) Response {
	return Response{
		Embeds:    []*discordgo.MessageEmbed{{Description: text}},
		Ephemeral: true,
	}
}
