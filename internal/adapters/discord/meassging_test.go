package discord

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/jose-valero/levels-bot/internal/infra/logx"
	"github.com/jose-valero/levels-bot/internal/infra/metrics"
)

type fakeSender struct {
	calls  int
	params *discordgo.WebhookParams
	wait   bool
	err    error
}

func (f *fakeSender) FollowupMessageCreate(_ *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.calls++
	f.wait, f.params = wait, data
	if f.err != nil {
		return nil, f.err
	}
	return &discordgo.Message{ID: "m1"}, nil
}

func TestNotifierDeliversEphemeral(t *testing.T) {
	s := &fakeSender{}
	n := NewNotifier(s, nil, metrics.New())

	err := n.Deliver(context.Background(), &discordgo.Interaction{ID: "i1", Token: "tok"}, ephemeral("hello"))
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if s.calls != 1 || !s.wait {
		t.Fatalf("expected one waited call, got %d", s.calls)
	}
	if s.params.Content != "hello" || s.params.Flags != discordgo.MessageFlagsEphemeral {
		t.Fatalf("unexpected params: %+v", s.params)
	}
	if s.params.AllowedMentions == nil || len(s.params.AllowedMentions.Parse) != 0 {
		t.Fatalf("expected mentions to be suppressed: %+v", s.params.AllowedMentions)
	}
}

func TestNotifierPublicResponse(t *testing.T) {
	s := &fakeSender{}
	n := NewNotifier(s, nil, nil)

	_ = n.Deliver(context.Background(), &discordgo.Interaction{ID: "i1"}, Response{Content: "board"})
	if s.params.Flags != 0 {
		t.Fatalf("expected no flags, got %v", s.params.Flags)
	}
}

func TestNotifierFailureIsLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	s := &fakeSender{err: errors.New("unknown webhook")}
	n := NewNotifier(s, slog.New(slog.NewTextHandler(&buf, nil)), nil)

	ctx, traceID := logx.WithTrace(context.Background())
	err := n.Deliver(ctx, &discordgo.Interaction{ID: "i1"}, ephemeral("x"))
	if err == nil {
		t.Fatal("expected error to be returned")
	}
	if s.calls != 1 {
		t.Fatalf("expected a single attempt, got %d", s.calls)
	}
	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "unknown webhook") {
		t.Fatalf("expected warn log, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "trace_id="+traceID) {
		t.Fatalf("expected trace id %s in log, got %q", traceID, buf.String())
	}
}

func TestNotifierAttachesFiles(t *testing.T) {
	s := &fakeSender{}
	n := NewNotifier(s, nil, nil)

	file := &discordgo.File{Name: "levels.csv", ContentType: "text/csv", Reader: strings.NewReader("guild_id,xp\n")}
	_ = n.Deliver(context.Background(), &discordgo.Interaction{ID: "i1"}, Response{Content: "data", Files: []*discordgo.File{file}, Ephemeral: true})
	if len(s.params.Files) != 1 || s.params.Files[0].Name != "levels.csv" {
		t.Fatalf("expected the file to be attached: %+v", s.params.Files)
	}
}
