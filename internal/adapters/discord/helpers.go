package discord

import (
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/jose-valero/levels-bot/internal/domain"
)

var reMention = regexp.MustCompile(`<@!?(\d+)>`)

// parseIDs acepta menciones (<@123>, <@!123>) o IDs sueltos; sin repetidos.
func parseIDs(raw string) []string {
	ids := []string{}
	seen := map[string]struct{}{}
	add := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, tok := range strings.Fields(strings.ReplaceAll(raw, ",", " ")) {
		if ms := reMention.FindAllStringSubmatch(tok, -1); len(ms) > 0 {
			for _, m := range ms {
				add(m[1])
			}
			continue
		}
		allDigits := true
		for _, r := range tok {
			if r < '0' || r > '9' {
				allDigits = false
				break
			}
		}
		if allDigits {
			add(tok)
		}
	}
	return ids
}

// invokerOf: en guild viene en Member.User (con nick), en DM en User.
func invokerOf(ic *discordgo.Interaction) (domain.Member, error) {
	if ic.Member != nil && ic.Member.User != nil && ic.Member.User.ID != "" {
		return domain.MemberFromUser(ic.Member.User, ic.Member.Nick), nil
	}
	if ic.User != nil && ic.User.ID != "" {
		return domain.MemberFromUser(ic.User, ""), nil
	}
	return domain.Member{}, ErrNoInvoker
}

// subcommand devuelve la primera opción de tipo subcomando.
func subcommand(opts []*discordgo.ApplicationCommandInteractionDataOption) (*discordgo.ApplicationCommandInteractionDataOption, bool) {
	for _, o := range opts {
		if o != nil && o.Type == discordgo.ApplicationCommandOptionSubCommand {
			return o, true
		}
	}
	return nil, false
}

func findOpt(opts []*discordgo.ApplicationCommandInteractionDataOption, name string, typ discordgo.ApplicationCommandOptionType) (*discordgo.ApplicationCommandInteractionDataOption, bool) {
	for _, o := range opts {
		if o != nil && o.Name == name && o.Type == typ {
			return o, true
		}
	}
	return nil, false
}

func optStr(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) (string, bool) {
	if o, ok := findOpt(opts, name, discordgo.ApplicationCommandOptionString); ok {
		return o.StringValue(), true
	}
	return "", false
}

func optBool(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) (bool, bool) {
	if o, ok := findOpt(opts, name, discordgo.ApplicationCommandOptionBoolean); ok {
		return o.BoolValue(), true
	}
	return false, false
}

func optInt(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) (int64, bool) {
	if o, ok := findOpt(opts, name, discordgo.ApplicationCommandOptionInteger); ok {
		return o.IntValue(), true
	}
	return 0, false
}

// optID: opciones user/channel traen el snowflake como string.
func optID(opts []*discordgo.ApplicationCommandInteractionDataOption, name string, typ discordgo.ApplicationCommandOptionType) (string, bool) {
	o, ok := findOpt(opts, name, typ)
	if !ok {
		return "", false
	}
	id, ok := o.Value.(string)
	return id, ok && id != ""
}
