package timeline_test

import (
	"ertrack/domain/timeline"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Timeline", func() {
	fields := []string{"entry_date", "erf_approved_date", "clarification_date"}

	Describe("IndexOf", func() {
		It("should find known fields and reject unknown ones", func() {
			Expect(timeline.IndexOf(fields, "entry_date")).To(Equal(0))
			Expect(timeline.IndexOf(fields, "clarification_date")).To(Equal(2))
			Expect(timeline.IndexOf(fields, "whatever")).To(Equal(-1))
		})
	})

	Describe("CanFill", func() {
		It("should allow the first position unconditionally", func() {
			Expect(timeline.CanFill([]bool{false, false, false}, 0)).To(BeTrue())
		})

		It("should require the previous position to be filled", func() {
			Expect(timeline.CanFill([]bool{true, false, false}, 1)).To(BeTrue())
			Expect(timeline.CanFill([]bool{true, false, false}, 2)).To(BeFalse())
			Expect(timeline.CanFill([]bool{false, false, false}, 1)).To(BeFalse())
		})

		It("should allow re-filling an already filled position", func() {
			Expect(timeline.CanFill([]bool{true, true, false}, 1)).To(BeTrue())
		})

		It("should reject out of range positions", func() {
			Expect(timeline.CanFill([]bool{true}, -1)).To(BeFalse())
			Expect(timeline.CanFill([]bool{true}, 1)).To(BeFalse())
		})
	})

	Describe("CanClear", func() {
		It("should only allow clearing when every later position is empty", func() {
			Expect(timeline.CanClear([]bool{true, true, true}, 2)).To(BeTrue())
			Expect(timeline.CanClear([]bool{true, true, true}, 1)).To(BeFalse())
			Expect(timeline.CanClear([]bool{true, true, false}, 1)).To(BeTrue())
			Expect(timeline.CanClear([]bool{true, true, false}, 0)).To(BeFalse())
		})

		It("should reject out of range positions", func() {
			Expect(timeline.CanClear([]bool{true}, 1)).To(BeFalse())
		})
	})

	Describe("IsPrefix", func() {
		It("should accept contiguous prefixes including empty and full", func() {
			Expect(timeline.IsPrefix([]bool{false, false, false})).To(BeTrue())
			Expect(timeline.IsPrefix([]bool{true, false, false})).To(BeTrue())
			Expect(timeline.IsPrefix([]bool{true, true, true})).To(BeTrue())
		})

		It("should reject gaps", func() {
			Expect(timeline.IsPrefix([]bool{true, false, true})).To(BeFalse())
			Expect(timeline.IsPrefix([]bool{false, true, false})).To(BeFalse())
		})
	})
})
