package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jose-valero/levels-bot/internal/infra/storage"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAuditServiceList(t *testing.T) {
	ctx := context.Background()

	Convey("Given an audit log", t, func() {
		repo := &fakeAudit{}
		svc := NewAuditService(repo)

		Convey("An empty result says so", func() {
			msg, err := svc.List(ctx, "g", "", "")
			So(err, ShouldBeNil)
			So(msg, ShouldEqual, "No audit log entries match!")
			So(repo.filter, ShouldResemble, storage.AuditFilter{GuildID: "g", Limit: AuditPageSize})
		})

		Convey("Filters reach the store and entries are rendered", func() {
			repo.entries = []storage.AuditEntry{
				{UserID: "u1", ModeratorID: "m1", Delta: 40, CreatedAt: "2024-01-02 03:04:05"},
				{UserID: "u2", ModeratorID: "m1", Reset: true},
			}
			msg, err := svc.List(ctx, "g", "u1", "m1")
			So(err, ShouldBeNil)
			So(repo.filter.UserID, ShouldEqual, "u1")
			So(repo.filter.ModeratorID, ShouldEqual, "m1")
			So(msg, ShouldEqual, "**Audit log**\n`2024-01-02 03:04:05` <@m1> gave <@u1> 40 XP\n<@m1> reset <@u2>")
		})

		Convey("Store failures are wrapped", func() {
			repo.err = errDown
			_, err := svc.List(ctx, "g", "", "")
			So(errors.Is(err, errDown), ShouldBeTrue)
		})
	})
}
