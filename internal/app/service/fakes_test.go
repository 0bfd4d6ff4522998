package service

import (
	"context"
	"errors"
	"sort"

	"github.com/jose-valero/levels-bot/internal/domain"
	"github.com/jose-valero/levels-bot/internal/infra/storage"
)

var errDown = errors.New("connection refused")

type fakeLevels struct {
	xp  map[string]int64 // user -> xp (un solo guild)
	err error
}

func newFakeLevels(xp map[string]int64) *fakeLevels {
	if xp == nil {
		xp = map[string]int64{}
	}
	return &fakeLevels{xp: xp}
}

func (f *fakeLevels) Experience(_ context.Context, _, userID string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	v, ok := f.xp[userID]
	if !ok {
		return 0, storage.ErrNotFound
	}
	return v, nil
}

func (f *fakeLevels) CountAbove(_ context.Context, _ string, xp int64) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for _, v := range f.xp {
		if v > xp {
			n++
		}
	}
	return n, nil
}

func (f *fakeLevels) Top(_ context.Context, _ string, limit, offset int) ([]storage.LevelEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	var all []storage.LevelEntry
	for u, v := range f.xp {
		if v > 0 {
			all = append(all, storage.LevelEntry{UserID: u, XP: v})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].XP != all[j].XP {
			return all[i].XP > all[j].XP
		}
		return all[i].UserID < all[j].UserID
	})
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

type fakeConfigs struct {
	rows map[string]storage.GuildConfig
	err  error
}

func newFakeConfigs() *fakeConfigs { return &fakeConfigs{rows: map[string]storage.GuildConfig{}} }

func (f *fakeConfigs) Get(_ context.Context, guildID string) (storage.GuildConfig, error) {
	if f.err != nil {
		return storage.GuildConfig{}, f.err
	}
	c, ok := f.rows[guildID]
	if !ok {
		return storage.GuildConfig{}, storage.ErrNotFound
	}
	return c, nil
}

func (f *fakeConfigs) Upsert(ctx context.Context, guildID string, u storage.GuildConfigUpdate) (storage.GuildConfig, error) {
	if f.err != nil {
		return storage.GuildConfig{}, f.err
	}
	c := f.rows[guildID]
	c.GuildID = guildID
	if u.OneAtATime != nil {
		c.OneAtATime = u.OneAtATime
	}
	if u.LevelUpMessage != nil {
		c.LevelUpMessage = u.LevelUpMessage
	}
	if u.LevelUpChannel != nil {
		c.LevelUpChannel = u.LevelUpChannel
	}
	if u.PingOnLevelUp != nil {
		c.PingOnLevelUp = u.PingOnLevelUp
	}
	if u.MinXP != nil {
		c.MinXP = u.MinXP
	}
	if u.MaxXP != nil {
		c.MaxXP = u.MaxXP
	}
	if u.CooldownSecs != nil {
		c.CooldownSecs = u.CooldownSecs
	}
	f.rows[guildID] = c
	return c, nil
}

func (f *fakeConfigs) Delete(_ context.Context, guildID string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.rows, guildID)
	return nil
}

// fakeLedger imita a storage.ModerationRepo, tope incluido.
type fakeLedger struct {
	xp      map[string]int64
	entries []storage.AuditEntry
	err     error
}

func newFakeLedger(xp map[string]int64) *fakeLedger {
	if xp == nil {
		xp = map[string]int64{}
	}
	return &fakeLedger{xp: xp}
}

func (f *fakeLedger) Grant(_ context.Context, e storage.AuditEntry) (storage.XPChange, error) {
	if f.err != nil {
		return storage.XPChange{}, f.err
	}
	before := f.xp[e.UserID]
	after := before + e.Delta
	if after > domain.MaxExperience {
		after = domain.MaxExperience
	}
	f.xp[e.UserID] = after
	e.Delta = after - before
	f.entries = append(f.entries, e)
	return storage.XPChange{Before: before, After: after}, nil
}

func (f *fakeLedger) Reset(_ context.Context, tmpl storage.AuditEntry, userIDs []string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for _, u := range userIDs {
		if _, ok := f.xp[u]; ok {
			delete(f.xp, u)
			n++
		}
		e := tmpl
		e.UserID, e.Reset = u, true
		f.entries = append(f.entries, e)
	}
	return n, nil
}

type fakeAudit struct {
	entries []storage.AuditEntry
	filter  storage.AuditFilter
	err     error
}

func (f *fakeAudit) List(_ context.Context, filter storage.AuditFilter) ([]storage.AuditEntry, error) {
	f.filter = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

type fakeRewards struct {
	rows []storage.RoleReward
	err  error
}

func (f *fakeRewards) Add(_ context.Context, _, roleID string, requirement int64) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, storage.RoleReward{RoleID: roleID, Requirement: requirement})
	return nil
}

func (f *fakeRewards) RemoveRole(_ context.Context, _, roleID string) (int64, error) {
	return f.remove(func(rw storage.RoleReward) bool { return rw.RoleID == roleID })
}

func (f *fakeRewards) RemoveLevel(_ context.Context, _ string, requirement int64) (int64, error) {
	return f.remove(func(rw storage.RoleReward) bool { return rw.Requirement == requirement })
}

func (f *fakeRewards) remove(match func(storage.RoleReward) bool) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	kept := f.rows[:0]
	for _, rw := range f.rows {
		if match(rw) {
			n++
			continue
		}
		kept = append(kept, rw)
	}
	f.rows = kept
	return n, nil
}

func (f *fakeRewards) List(context.Context, string) ([]storage.RoleReward, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

type fakeRoles struct {
	added, removed []string
	err            error
}

func (f *fakeRoles) AddRole(_ context.Context, _, _, roleID string) error {
	if f.err != nil {
		return f.err
	}
	f.added = append(f.added, roleID)
	return nil
}

func (f *fakeRoles) RemoveRole(_ context.Context, _, _, roleID string) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, roleID)
	return nil
}

type syncCall struct {
	guildID, userID string
	level           int64
}

type fakeSyncer struct {
	calls []syncCall
	err   error
}

func (f *fakeSyncer) Sync(_ context.Context, guildID, userID string, level int64) error {
	f.calls = append(f.calls, syncCall{guildID: guildID, userID: userID, level: level})
	return f.err
}

type fakePrivacy struct {
	rows      []storage.GuildXP
	forgotten []string
	err       error
}

func (f *fakePrivacy) Export(context.Context, string) ([]storage.GuildXP, error) {
	return f.rows, f.err
}

func (f *fakePrivacy) Forget(_ context.Context, userID string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.forgotten = append(f.forgotten, userID)
	return int64(len(f.rows)), nil
}

func storageConfig(levelUpMessage string) storage.GuildConfig {
	return storage.GuildConfig{GuildID: "g", LevelUpMessage: &levelUpMessage}
}
