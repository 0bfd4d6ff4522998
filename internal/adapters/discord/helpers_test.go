package discord

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/jose-valero/levels-bot/internal/app/service"
)

func TestParseIDs(t *testing.T) {
	cases := map[string]string{
		"<@1> <@!2> 3":     "1,2,3",
		"<@1>,<@2>":        "1,2",
		"<@1><@2>":         "1,2",
		"1 1 <@1>":         "1",
		"hello <@#5> @bob": "",
		"":                 "",
	}
	for in, want := range cases {
		if got := strings.Join(parseIDs(in), ","); got != want {
			t.Fatalf("parseIDs(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUserLimiter(t *testing.T) {
	if l := newUserLimiter(0, 3); l != nil || !l.Allow("x") {
		t.Fatal("zero rate should disable limiting")
	}

	now := time.Unix(1_700_000_000, 0)
	l := newUserLimiter(rate.Limit(1), 2)
	l.now = func() time.Time { return now }

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("burst should be allowed")
	}
	if l.Allow("a") {
		t.Fatal("third call within the same second should be limited")
	}
	if !l.Allow("b") {
		t.Fatal("limits are per user")
	}

	now = now.Add(time.Second)
	if !l.Allow("a") {
		t.Fatal("token should refill after a second")
	}
}

func TestErrorText(t *testing.T) {
	cases := []struct {
		err  error
		want string
		user bool
	}{
		{ErrUnrecognizedCommand, "Oops! Discord sent a command that is not known!", true},
		{fmt.Errorf("resolve: %w", ErrNoTarget), "Oops! Discord did not send the targeted user in the Resolved Data!", true},
		{ErrSlowDown, "Oops! You're using commands too quickly, slow down!", true},
		{&service.ValidationError{Msg: "Bad level!"}, "Oops! Bad level!", true},
		{fmt.Errorf("%w (panic: boom)", ErrInternal), "Oops! Something went wrong while running this command.", false},
		{errors.New("connection refused"), "Oops! The database encountered an error: connection refused", false},
	}
	for _, tc := range cases {
		if got := errorText(tc.err); got != tc.want {
			t.Fatalf("errorText(%v) = %q, want %q", tc.err, got, tc.want)
		}
		if got := isUserError(tc.err); got != tc.user {
			t.Fatalf("isUserError(%v) = %v, want %v", tc.err, got, tc.user)
		}
	}
}
