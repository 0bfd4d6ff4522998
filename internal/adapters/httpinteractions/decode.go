package httpinteractions

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

var ErrMalformedPayload = errors.New("malformed interaction payload")

// Decode parsea el body ya verificado. Solo se llama después de Verify.
func Decode(body []byte) (*discordgo.Interaction, error) {
	var ic discordgo.Interaction
	if err := json.Unmarshal(body, &ic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	switch ic.Type {
	case discordgo.InteractionPing,
		discordgo.InteractionApplicationCommand,
		discordgo.InteractionMessageComponent,
		discordgo.InteractionApplicationCommandAutocomplete,
		discordgo.InteractionModalSubmit:
	default:
		return nil, fmt.Errorf("%w: unknown interaction type %d", ErrMalformedPayload, ic.Type)
	}

	// sin id/token no hay forma de mandar el follow-up
	if ic.Type != discordgo.InteractionPing && (ic.ID == "" || ic.Token == "") {
		return nil, fmt.Errorf("%w: missing id or token", ErrMalformedPayload)
	}
	return &ic, nil
}

func kindLabel(t discordgo.InteractionType) string {
	switch t {
	case discordgo.InteractionPing:
		return "ping"
	case discordgo.InteractionApplicationCommand:
		return "application_command"
	case discordgo.InteractionMessageComponent:
		return "message_component"
	case discordgo.InteractionApplicationCommandAutocomplete:
		return "autocomplete"
	case discordgo.InteractionModalSubmit:
		return "modal_submit"
	}
	return "unknown"
}
