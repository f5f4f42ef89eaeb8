package widget

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"aurabox/internal/model"
)

func TestQuotaGate(t *testing.T) {
	Convey("QuotaGate", t, func() {
		gate := NewQuotaGate(DefaultGuestTurnLimit)

		Convey("游客用满额度后被拒绝", func() {
			for _, guest := range []model.Identity{model.NoIdentity(), model.AnonymousIdentity("anon-1")} {
				gate := NewQuotaGate(2)
				So(gate.Admit(guest), ShouldBeNil)
				So(gate.Admit(guest), ShouldBeNil)
				So(gate.Remaining(guest), ShouldEqual, 0)

				So(gate.Admit(guest), ShouldEqual, ErrQuotaExceeded)
				So(gate.Used(), ShouldEqual, 2)
			}
		})

		Convey("已登录用户不计数", func() {
			user := model.AuthenticatedIdentity("u-1")
			for i := 0; i < 10; i++ {
				So(gate.Admit(user), ShouldBeNil)
			}
			So(gate.Used(), ShouldEqual, 0)
			So(gate.Remaining(user), ShouldEqual, -1)
		})

		Convey("没有 user_id 的已登录身份按游客处理", func() {
			broken := model.Identity{Kind: model.IdentityAuthenticated}
			So(gate.Admit(broken), ShouldBeNil)
			So(gate.Used(), ShouldEqual, 1)
		})

		Convey("额度信息", func() {
			guest := model.NoIdentity()
			So(gate.Admit(guest), ShouldBeNil)
			So(gate.Info(guest), ShouldResemble, model.QuotaInfo{Limit: 2, Used: 1, Remaining: 1})
		})

		Convey("负数上限视为 0", func() {
			So(NewQuotaGate(-3).Admit(model.NoIdentity()), ShouldEqual, ErrQuotaExceeded)
		})
	})
}
