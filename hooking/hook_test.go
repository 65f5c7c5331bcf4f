package hooking

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type countingHook struct {
	count int
	last  HookCtx
}

func (h *countingHook) Func(ctx HookCtx) {
	h.count++
	h.last = ctx
}

var _ = Describe("HookableBase", func() {
	var (
		base *HookableBase
		pos  *HookPos
	)

	BeforeEach(func() {
		base = &HookableBase{}
		pos = &HookPos{Name: "Somewhere"}
	})

	It("should invoke hooks in registration order", func() {
		order := []int{}
		base.AcceptHook(HookFunc(func(HookCtx) { order = append(order, 1) }))
		base.AcceptHook(HookFunc(func(HookCtx) { order = append(order, 2) }))

		base.InvokeHook(HookCtx{Pos: pos})

		Expect(order).To(Equal([]int{1, 2}))
		Expect(base.NumHooks()).To(Equal(2))
	})

	It("should pass the context through", func() {
		h := &countingHook{}
		base.AcceptHook(h)

		base.InvokeHook(HookCtx{Pos: pos, Item: 42})

		Expect(h.count).To(Equal(1))
		Expect(h.last.Pos).To(BeIdenticalTo(pos))
		Expect(h.last.Item).To(Equal(42))
	})

	It("should panic on duplicated hooks", func() {
		h := &countingHook{}
		base.AcceptHook(h)

		Expect(func() { base.AcceptHook(h) }).To(Panic())
	})
})

var _ = Describe("LogHook", func() {
	It("should log with the default format", func() {
		buf := new(bytes.Buffer)
		h := NewLogHook(log.New(buf, "", 0), nil)

		h.Func(HookCtx{Pos: &HookPos{Name: "Evaluated"}, Item: "L1"})

		Expect(buf.String()).To(Equal("Evaluated L1\n"))
	})

	It("should skip empty lines", func() {
		buf := new(bytes.Buffer)
		h := NewLogHook(log.New(buf, "", 0), func(HookCtx) string { return "" })

		h.Func(HookCtx{})

		Expect(buf.Len()).To(Equal(0))
	})
})
