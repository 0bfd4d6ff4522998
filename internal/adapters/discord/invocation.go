package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/jose-valero/levels-bot/internal/domain"
)

// invocation: las tres formas de pedir un nivel (slash, menú de usuario, menú de mensaje).
// Cada una resuelve a un único domain.Member.
type invocation interface {
	target(invoker domain.Member) (domain.Member, error)
}

type (
	slashInvocation   struct{ data discordgo.ApplicationCommandInteractionData }
	userInvocation    struct{ data discordgo.ApplicationCommandInteractionData }
	messageInvocation struct{ data discordgo.ApplicationCommandInteractionData }
)

func invocationOf(data discordgo.ApplicationCommandInteractionData) (invocation, error) {
	switch data.CommandType {
	case 0, discordgo.ChatApplicationCommand: // sin type = chat input
		return slashInvocation{data}, nil
	case discordgo.UserApplicationCommand:
		return userInvocation{data}, nil
	case discordgo.MessageApplicationCommand:
		return messageInvocation{data}, nil
	}
	return nil, ErrUnrecognizedCommand
}

// opción "user" si vino, si no el que invocó
func (i slashInvocation) target(invoker domain.Member) (domain.Member, error) {
	id, ok := optID(i.data.Options, "user", discordgo.ApplicationCommandOptionUser)
	if !ok {
		return invoker, nil
	}
	return resolvedUser(i.data.Resolved, id)
}

func (i userInvocation) target(domain.Member) (domain.Member, error) {
	if i.data.TargetID == "" {
		return domain.Member{}, ErrNoMessageTargetID
	}
	return resolvedUser(i.data.Resolved, i.data.TargetID)
}

func (i messageInvocation) target(domain.Member) (domain.Member, error) {
	if i.data.TargetID == "" {
		return domain.Member{}, ErrNoMessageTargetID
	}
	if i.data.Resolved == nil {
		return domain.Member{}, ErrNoResolvedData
	}
	msg, ok := i.data.Resolved.Messages[i.data.TargetID]
	if !ok || msg == nil || msg.Author == nil {
		return domain.Member{}, ErrNoTarget
	}
	nick := ""
	if msg.Member != nil {
		nick = msg.Member.Nick
	} else if m, ok := i.data.Resolved.Members[msg.Author.ID]; ok && m != nil {
		nick = m.Nick
	}
	return domain.MemberFromUser(msg.Author, nick), nil
}

func resolvedUser(res *discordgo.ApplicationCommandInteractionDataResolved, id string) (domain.Member, error) {
	if res == nil {
		return domain.Member{}, ErrNoResolvedData
	}
	u, ok := res.Users[id]
	if !ok || u == nil {
		return domain.Member{}, ErrNoTarget
	}
	nick := ""
	if m, ok := res.Members[id]; ok && m != nil {
		nick = m.Nick
	}
	return domain.MemberFromUser(u, nick), nil
}
