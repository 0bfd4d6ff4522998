package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jose-valero/levels-bot/internal/domain"
	. "github.com/smartystreets/goconvey/convey"
)

func TestXPService(t *testing.T) {
	ctx := context.Background()
	mod := Moderation{GuildID: "g", ModeratorID: "mod", InteractionID: "i1"}
	target := domain.Member{ID: "100", Username: "alice"}

	Convey("Given an xp admin service", t, func() {
		ledger := newFakeLedger(map[string]int64{"100": 50, "200": 10})
		configs := newFakeConfigs()
		syncer := &fakeSyncer{}
		svc := NewXPService(ledger, configs, syncer)

		Convey("Adding xp increments, audits and syncs rewards", func() {
			msg, err := svc.Add(ctx, mod, target, 50)
			So(err, ShouldBeNil)
			So(msg, ShouldEqual, "Gave 50 XP to <@100>, who now has 100 XP (level 1, 155 XP to level 2).")
			So(ledger.xp["100"], ShouldEqual, 100)
			So(ledger.entries, ShouldHaveLength, 1)
			So(ledger.entries[0].Delta, ShouldEqual, 50)
			So(ledger.entries[0].ModeratorID, ShouldEqual, "mod")
			So(ledger.entries[0].InteractionID, ShouldEqual, "i1")
			So(syncer.calls, ShouldResemble, []syncCall{{guildID: "g", userID: "100", level: 1}})
		})

		Convey("A level-up shows the guild's level-up message", func() {
			configs.rows["g"] = storageConfig("GG {user_mention}, you reached level {level}!")
			msg, err := svc.Add(ctx, mod, target, 50)
			So(err, ShouldBeNil)
			So(msg, ShouldEndWith, "\nGG <@100>, you reached level 1!")
		})

		Convey("No level-up message when the level does not change", func() {
			configs.rows["g"] = storageConfig("GG {user_mention}!")
			msg, err := svc.Add(ctx, mod, target, 1)
			So(err, ShouldBeNil)
			So(msg, ShouldNotContainSubstring, "GG")
		})

		Convey("The total never goes past the maximum", func() {
			ledger.xp["100"] = domain.MaxExperience - 10
			for i := 0; i < 9; i++ {
				_, err := svc.Add(ctx, mod, target, domain.MaxExperience)
				So(err, ShouldBeNil)
			}
			So(ledger.xp["100"], ShouldEqual, domain.MaxExperience)

			msg, err := svc.Add(ctx, mod, target, 5)
			So(err, ShouldBeNil)
			So(msg, ShouldStartWith, "Gave 0 XP to <@100>")
			So(msg, ShouldContainSubstring, "5 XP was discarded")
		})

		Convey("Adding less than 1 is rejected without touching the store", func() {
			_, err := svc.Add(ctx, mod, target, 0)
			var ve *ValidationError
			So(errors.As(err, &ve), ShouldBeTrue)
			So(ledger.xp["100"], ShouldEqual, 50)
			So(ledger.entries, ShouldBeEmpty)
		})

		Convey("Bots can't get xp", func() {
			_, err := svc.Add(ctx, mod, domain.Member{ID: "300", Bot: true}, 10)
			var ve *ValidationError
			So(errors.As(err, &ve), ShouldBeTrue)
			So(ledger.entries, ShouldBeEmpty)
		})

		Convey("Role sync failures keep the xp and are reported", func() {
			syncer.err = errDown
			msg, err := svc.Add(ctx, mod, target, 5)
			So(err, ShouldBeNil)
			So(msg, ShouldContainSubstring, "reward roles could not be updated")
			So(ledger.xp["100"], ShouldEqual, 55)
		})

		Convey("Resetting removes records and audits every user", func() {
			msg, err := svc.Reset(ctx, mod, []string{"100", "999"})
			So(err, ShouldBeNil)
			So(msg, ShouldEqual, "Reset XP for 1 of 2 user(s).")
			_, ok := ledger.xp["100"]
			So(ok, ShouldBeFalse)
			So(ledger.entries, ShouldHaveLength, 2)
			So(ledger.entries[1].Reset, ShouldBeTrue)
		})

		Convey("Resetting nobody is a validation error", func() {
			_, err := svc.Reset(ctx, mod, nil)
			var ve *ValidationError
			So(errors.As(err, &ve), ShouldBeTrue)
		})

		Convey("Ledger failures surface and nothing is synced", func() {
			ledger.err = errDown
			_, err := svc.Add(ctx, mod, target, 5)
			So(errors.Is(err, errDown), ShouldBeTrue)
			So(syncer.calls, ShouldBeEmpty)
		})
	})
}
