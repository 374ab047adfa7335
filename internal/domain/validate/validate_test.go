package validate_test

import (
	"errors"
	"testing"

	validate "djboard/internal/domain/validate"
	. "github.com/smartystreets/goconvey/convey"
)

type tipPayload struct {
	FanID  string `validate:"required,uuid4"`
	DJName string `validate:"required,min=1,max=64"`
	Amount uint64 `validate:"required,gt=0"`
}

func TestStruct(t *testing.T) {
	Convey("Given a payload with validation tags", t, func() {
		Convey("When every field is valid", func() {
			err := validate.Struct(tipPayload{
				FanID:  "6ba7b810-9dad-41d1-80b4-00c04fd430c8",
				DJName: "Nova",
				Amount: 10,
			})

			Convey("Then validation should pass", func() {
				So(err, ShouldBeNil)
			})
		})

		Convey("When a required field is missing", func() {
			err := validate.Struct(tipPayload{
				FanID:  "6ba7b810-9dad-41d1-80b4-00c04fd430c8",
				Amount: 10,
			})

			Convey("Then the error should wrap ErrInvalidPayload and name the field", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, validate.ErrInvalidPayload), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "DJName")
			})
		})

		Convey("When the amount is zero", func() {
			err := validate.Struct(tipPayload{
				FanID:  "6ba7b810-9dad-41d1-80b4-00c04fd430c8",
				DJName: "Nova",
				Amount: 0,
			})

			Convey("Then the error should wrap ErrInvalidPayload", func() {
				So(errors.Is(err, validate.ErrInvalidPayload), ShouldBeTrue)
			})
		})

		Convey("When a bound is violated", func() {
			err := validate.Struct(struct {
				Stars uint8 `validate:"required,min=1,max=5"`
			}{Stars: 6})

			Convey("Then the message should include the rule parameter", func() {
				So(errors.Is(err, validate.ErrInvalidPayload), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "max")
			})
		})
	})
}

func TestVar(t *testing.T) {
	Convey("Given single-value rules", t, func() {
		Convey("When the value satisfies the rule", func() {
			So(validate.Var(4.0, "gte=1,lte=5"), ShouldBeNil)
		})

		Convey("When the value violates the rule", func() {
			err := validate.Var(7.5, "gte=1,lte=5")
			So(errors.Is(err, validate.ErrInvalidPayload), ShouldBeTrue)
		})
	})
}
