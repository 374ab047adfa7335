package model_test

import (
	"testing"
	"time"

	model "djboard/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestUser(t *testing.T) {
	convey.Convey("Given a User struct", t, func() {
		convey.Convey("When the profile carries the dj role", func() {
			u := model.User{
				ID:    "user-1",
				Name:  "Nova",
				Roles: []model.Role{model.RoleFan, model.RoleDJ},
			}

			convey.Convey("Then IsDJ should be true", func() {
				convey.So(u.IsDJ(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the profile is a plain fan", func() {
			u := model.User{
				ID:    "user-2",
				Name:  "Ada",
				Roles: []model.Role{model.RoleFan},
			}

			convey.Convey("Then IsDJ should be false", func() {
				convey.So(u.IsDJ(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the profile has no roles at all", func() {
			u := model.User{ID: "user-3", Name: "Ghost"}

			convey.Convey("Then IsDJ should be false", func() {
				convey.So(u.IsDJ(), convey.ShouldBeFalse)
			})
		})
	})
}

func TestRoleValid(t *testing.T) {
	convey.Convey("Given role values", t, func() {
		convey.Convey("Then known roles should be valid", func() {
			convey.So(model.RoleFan.Valid(), convey.ShouldBeTrue)
			convey.So(model.RoleDJ.Valid(), convey.ShouldBeTrue)
		})

		convey.Convey("Then unknown roles should be invalid", func() {
			convey.So(model.Role("admin").Valid(), convey.ShouldBeFalse)
			convey.So(model.Role("").Valid(), convey.ShouldBeFalse)
		})
	})
}

func TestTipStatus(t *testing.T) {
	convey.Convey("Given tip status values", t, func() {
		convey.Convey("Then known statuses should be valid", func() {
			convey.So(model.TipPending.Valid(), convey.ShouldBeTrue)
			convey.So(model.TipCompleted.Valid(), convey.ShouldBeTrue)
			convey.So(model.TipDeclined.Valid(), convey.ShouldBeTrue)
		})

		convey.Convey("Then unknown statuses should be invalid", func() {
			convey.So(model.TipStatus("refunded").Valid(), convey.ShouldBeFalse)
			convey.So(model.TipStatus("").Valid(), convey.ShouldBeFalse)
		})
	})
}

func TestRequestStatusTransitions(t *testing.T) {
	convey.Convey("Given song request statuses", t, func() {
		convey.Convey("When the request is pending", func() {
			convey.So(model.RequestPending.CanTransition(model.RequestQueued), convey.ShouldBeTrue)
			convey.So(model.RequestPending.CanTransition(model.RequestDeclined), convey.ShouldBeTrue)
			convey.So(model.RequestPending.CanTransition(model.RequestPlayed), convey.ShouldBeFalse)
			convey.So(model.RequestPending.CanTransition(model.RequestPending), convey.ShouldBeFalse)
		})

		convey.Convey("When the request is queued", func() {
			convey.So(model.RequestQueued.CanTransition(model.RequestPlayed), convey.ShouldBeTrue)
			convey.So(model.RequestQueued.CanTransition(model.RequestDeclined), convey.ShouldBeTrue)
			convey.So(model.RequestQueued.CanTransition(model.RequestPending), convey.ShouldBeFalse)
		})

		convey.Convey("When the request reached a terminal state", func() {
			convey.So(model.RequestPlayed.CanTransition(model.RequestQueued), convey.ShouldBeFalse)
			convey.So(model.RequestPlayed.CanTransition(model.RequestDeclined), convey.ShouldBeFalse)
			convey.So(model.RequestDeclined.CanTransition(model.RequestQueued), convey.ShouldBeFalse)
			convey.So(model.RequestDeclined.CanTransition(model.RequestPlayed), convey.ShouldBeFalse)
		})
	})
}

func TestTipDefaults(t *testing.T) {
	convey.Convey("Given a freshly recorded tip", t, func() {
		now := time.Now().UTC()
		tip := model.Tip{
			ID:        "tip-1",
			FanID:     "fan-1",
			DJName:    "Nova",
			DJID:      "dj-1",
			Amount:    10,
			Status:    model.TipPending,
			CreatedAt: now,
		}

		convey.Convey("Then it should be pending with no settlement time", func() {
			convey.So(tip.Status, convey.ShouldEqual, model.TipPending)
			convey.So(tip.SettledAt, convey.ShouldBeNil)
			convey.So(tip.Amount, convey.ShouldEqual, 10)
		})
	})
}
