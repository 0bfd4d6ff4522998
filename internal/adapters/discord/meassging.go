package discord

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/jose-valero/levels-bot/internal/infra/logx"
	"github.com/jose-valero/levels-bot/internal/infra/metrics"
)

// FollowupSender es la parte de *discordgo.Session que usa el Notifier.
type FollowupSender interface {
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type Notifier struct {
	s   FollowupSender
	log *slog.Logger
	m   *metrics.Metrics
}

func NewNotifier(s FollowupSender, log *slog.Logger, m *metrics.Metrics) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{s: s, log: log, m: m}
}

// Deliver manda el follow-up de la interacción diferida. Un solo intento:
// si falla se loguea y listo, el usuario ya vio el "pensando...".
func (n *Notifier) Deliver(ctx context.Context, ic *discordgo.Interaction, resp Response) error {
	params := &discordgo.WebhookParams{
		Content: resp.Content,
		Embeds:  resp.Embeds,
		Files:   resp.Files,
		// sin pings: los mensajes mencionan usuarios pero no deben notificarlos
		AllowedMentions: &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}},
	}
	if resp.Ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}

	_, err := n.s.FollowupMessageCreate(ic, true, params, discordgo.WithContext(ctx))
	n.m.Followup(err)
	if err != nil {
		n.log.Warn("followup delivery failed",
			"trace_id", logx.TraceID(ctx),
			"interaction_id", ic.ID,
			"err", err,
		)
	}
	return err
}
