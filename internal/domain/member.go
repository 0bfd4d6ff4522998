package domain

import "github.com/bwmarrin/discordgo"

// Member es el "target user" de un comando: a quién se le calcula el nivel.
type Member struct {
	ID            string
	Username      string
	GlobalName    string
	Discriminator string
	Nick          string
	Bot           bool
}

func MemberFromUser(u *discordgo.User, nick string) Member {
	if u == nil {
		return Member{}
	}
	return Member{
		ID:            u.ID,
		Username:      u.Username,
		GlobalName:    u.GlobalName,
		Discriminator: u.Discriminator,
		Nick:          nick,
		Bot:           u.Bot,
	}
}

// DisplayName: nick del guild › nombre global › username.
// Los usuarios legacy (discriminator distinto de "0") se muestran como name#1234.
func (m Member) DisplayName() string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.GlobalName != "" {
		return m.GlobalName
	}
	if m.Discriminator != "" && m.Discriminator != "0" {
		return m.Username + "#" + m.Discriminator
	}
	return m.Username
}

func (m Member) Mention() string { return "<@" + m.ID + ">" }
