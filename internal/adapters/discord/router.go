package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"

	"github.com/jose-valero/levels-bot/internal/app/service"
	"github.com/jose-valero/levels-bot/internal/domain"
	"github.com/jose-valero/levels-bot/internal/infra/logx"
	"github.com/jose-valero/levels-bot/internal/infra/metrics"
)

// Lo implementa service.LevelService
type LevelQueries interface {
	Describe(ctx context.Context, guildID string, target domain.Member, invokerID string) (string, error)
	Leaderboard(ctx context.Context, guildID string, page int) (string, error)
}

// Lo implementa service.ConfigService
type GuildSettings interface {
	Get(ctx context.Context, guildID string) (string, error)
	Reset(ctx context.Context, guildID string) (string, error)
	UpdateLevels(ctx context.Context, guildID string, p service.LevelsPatch) (string, error)
	UpdateRewards(ctx context.Context, guildID string, oneAtATime *bool) (string, error)
}

// Lo implementa service.XPService
type XPAdmin interface {
	Add(ctx context.Context, m service.Moderation, target domain.Member, amount int64) (string, error)
	Reset(ctx context.Context, m service.Moderation, userIDs []string) (string, error)
}

// Lo implementa service.RewardsService
type RewardsAdmin interface {
	Add(ctx context.Context, guildID string, role service.RoleRef, level int64) (string, error)
	Remove(ctx context.Context, guildID, roleID string, level *int64) (string, error)
	List(ctx context.Context, guildID string) (string, error)
}

// Lo implementa service.AuditService
type AuditLog interface {
	List(ctx context.Context, guildID, userID, moderatorID string) (string, error)
}

// Lo implementa service.PrivacyService
type UserData interface {
	Delete(ctx context.Context, userID string) (string, error)
	Export(ctx context.Context, userID string) ([]byte, error)
}

// Lo implementa *Notifier
type Deliverer interface {
	Deliver(ctx context.Context, ic *discordgo.Interaction, resp Response) error
}

type Deps struct {
	Levels   LevelQueries
	Settings GuildSettings
	XP       XPAdmin
	Rewards  RewardsAdmin
	Audit    AuditLog
	Privacy  UserData
	Notifier Deliverer

	Log     *slog.Logger
	Metrics *metrics.Metrics

	AdminRoleIDs []string
	CommandRate  float64 // por usuario/segundo; 0 = sin límite
	CommandBurst int
}

// Router completa interacciones diferidas: arma la respuesta y la entrega una sola vez.
type Router struct {
	levels   LevelQueries
	settings GuildSettings
	xp       XPAdmin
	rewards  RewardsAdmin
	audit    AuditLog
	privacy  UserData
	notifier Deliverer

	log *slog.Logger
	m   *metrics.Metrics

	adminRoleIDs []string
	limiter      *userLimiter
	commands     map[string]Command
}

func NewRouter(d Deps) *Router {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	r := &Router{
		levels:       d.Levels,
		settings:     d.Settings,
		xp:           d.XP,
		rewards:      d.Rewards,
		audit:        d.Audit,
		privacy:      d.Privacy,
		notifier:     d.Notifier,
		log:          log,
		m:            d.Metrics,
		adminRoleIDs: d.AdminRoleIDs,
		limiter:      newUserLimiter(rate.Limit(d.CommandRate), d.CommandBurst),
	}
	r.commands = r.commandTable()
	return r
}

// Complete corre en la tarea de fondo. Siempre entrega exactamente un follow-up,
// con el resultado o con un error efímero.
func (r *Router) Complete(ctx context.Context, ic *discordgo.Interaction) {
	ctx, traceID := logx.WithTrace(ctx)
	name := commandName(ic)
	log := r.log.With(
		"trace_id", traceID,
		"interaction_id", ic.ID,
		"guild_id", ic.GuildID,
		"command", name,
	)

	stop := step(log, "command."+name)
	start := time.Now()
	resp, err := r.safeProcess(ctx, log, ic)
	r.m.Command(name, err, time.Since(start))
	stop()

	if err != nil {
		if isUserError(err) {
			log.Info("command rejected", "reason", err)
		} else {
			log.Error("command failed", "err", err)
		}
		resp = ephemeral(errorText(err))
	}

	_ = r.notifier.Deliver(ctx, ic, resp)
}

func (r *Router) safeProcess(ctx context.Context, log *slog.Logger, ic *discordgo.Interaction) (resp Response, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("panic in command", "panic", rec)
			err = fmt.Errorf("%w (panic: %v)", ErrInternal, rec)
		}
	}()
	return r.process(ctx, log, ic)
}

func (r *Router) process(ctx context.Context, log *slog.Logger, ic *discordgo.Interaction) (Response, error) {
	invoker, err := invokerOf(ic)
	if err != nil {
		return Response{}, err
	}

	// components, modals y autocomplete no pasan por acá
	data, ok := ic.Data.(discordgo.ApplicationCommandInteractionData)
	if ic.Type != discordgo.InteractionApplicationCommand || !ok {
		return Response{}, ErrUnrecognizedCommand
	}

	if !r.limiter.Allow(invoker.ID) {
		return Response{}, ErrSlowDown
	}

	inv, err := invocationOf(data)
	if err != nil {
		return Response{}, err
	}

	c := &Ctx{
		Log:         log,
		Interaction: ic,
		Data:        data,
		GuildID:     ic.GuildID,
		Invoker:     invoker,
	}

	// menús contextuales: siempre es "ver nivel" del target
	if _, slash := inv.(slashInvocation); !slash {
		target, err := inv.target(invoker)
		if err != nil {
			return Response{}, err
		}
		if c.GuildID == "" {
			return Response{}, ErrNoGuild
		}
		return r.describe(ctx, c, target)
	}

	cmd, ok := r.commands[data.Name]
	if !ok {
		return Response{}, ErrUnrecognizedCommand
	}
	if cmd.GuildOnly && c.GuildID == "" {
		return Response{}, ErrNoGuild
	}
	if cmd.AdminOnly && !r.isAdmin(ic) {
		return Response{}, ErrForbidden
	}
	return cmd.Handler(ctx, c)
}

func commandName(ic *discordgo.Interaction) string {
	if data, ok := ic.Data.(discordgo.ApplicationCommandInteractionData); ok && data.Name != "" {
		return data.Name
	}
	return fmt.Sprintf("type_%d", ic.Type)
}
