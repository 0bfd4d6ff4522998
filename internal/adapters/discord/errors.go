package discord

import (
	"errors"

	"github.com/jose-valero/levels-bot/internal/app/service"
)

var (
	ErrUnrecognizedCommand = errors.New("unrecognized command")
	ErrNoInvoker           = errors.New("interaction without invoker")
	ErrNoResolvedData      = errors.New("missing resolved data")
	ErrNoMessageTargetID   = errors.New("missing target id")
	ErrNoTarget            = errors.New("target not in resolved data")
	ErrNoGuild             = errors.New("guild only command")
	ErrForbidden           = errors.New("missing admin permissions")
	ErrSlowDown            = errors.New("rate limited")
	ErrInternal            = errors.New("internal error")
)

// userText: lo que ve el usuario por cada sentinel. El orden importa para errors.Is.
var userText = []struct {
	err  error
	text string
}{
	{ErrUnrecognizedCommand, "Discord sent a command that is not known!"},
	{ErrNoInvoker, "Discord did not send a user ID for the command invoker when it was required!"},
	{ErrNoResolvedData, "Discord did not send part of the Resolved Data!"},
	{ErrNoMessageTargetID, "Discord did not send target ID for message!"},
	{ErrNoTarget, "Discord did not send the targeted user in the Resolved Data!"},
	{ErrNoGuild, "This command can only be used in a server!"},
	{ErrForbidden, "You need the Manage Server permission to use this command!"},
	{ErrSlowDown, "You're using commands too quickly, slow down!"},
	{ErrInternal, "Something went wrong while running this command."},
}

// isUserError: errores esperables (input, permisos, validación), no fallas del sistema.
func isUserError(err error) bool {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return true
	}
	for _, u := range userText {
		if u.err != ErrInternal && errors.Is(err, u.err) {
			return true
		}
	}
	return false
}

// errorText arma el mensaje efímero que ve el usuario.
func errorText(err error) string {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return "Oops! " + ve.Msg
	}
	for _, u := range userText {
		if errors.Is(err, u.err) {
			return "Oops! " + u.text
		}
	}
	return "Oops! The database encountered an error: " + err.Error()
}
