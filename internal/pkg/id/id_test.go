package id

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewOrdered(t *testing.T) {
	Convey("NewOrdered 生成可排序的合法UUID", t, func() {
		prev := NewOrdered()
		So(IsValid(prev), ShouldBeTrue)

		for i := 0; i < 50; i++ {
			next := NewOrdered()
			So(IsValid(next), ShouldBeTrue)
			So(next > prev, ShouldBeTrue)
			prev = next
		}
	})

	Convey("IsValid 拒绝非法字符串", t, func() {
		So(IsValid("not-a-uuid"), ShouldBeFalse)
		So(IsValid(New()), ShouldBeTrue)
	})
}
