package buffer

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

type fakeRecorder struct {
	tables  []string
	entries map[string][]any
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{entries: make(map[string][]any)}
}

func (r *fakeRecorder) CreateTable(tableName string, _ any) {
	r.tables = append(r.tables, tableName)
}

func (r *fakeRecorder) InsertData(tableName string, entry any) {
	r.entries[tableName] = append(r.entries[tableName], entry)
}

func (r *fakeRecorder) ListTables() []string {
	return r.tables
}

func (r *fakeRecorder) Flush() {}

func (r *fakeRecorder) Close() error {
	return nil
}

var _ = Describe("Hooks", func() {
	var (
		mockCtrl *gomock.Controller
		level    *Level
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		level = mustBuild(MakeBuilder().
			WithSpec(sramSpec(1024)).
			WithPhysicalModel(stubPhysicalModel(mockCtrl)))
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("log hook", func() {
		var buf *bytes.Buffer

		BeforeEach(func() {
			buf = new(bytes.Buffer)
			level.AcceptHook(NewEvalLogHook(log.New(buf, "", 0)))
		})

		It("should log successful evaluations", func() {
			level.Evaluate(Tile{denseTile("Inputs", 100)}, Mask{true}, 1000)

			Expect(buf.String()).To(Equal(
				"evaluate L1 ok cycles=1000 energy=0\n"))
		})

		It("should log failures with the reason", func() {
			level.Evaluate(Tile{denseTile("Inputs", 2000)}, Mask{true}, 1000)

			Expect(buf.String()).To(Equal("evaluate L1 fail " +
				"(mapped tile size 2000 exceeds buffer capacity 1024) " +
				"cycles=0 energy=0\n"))
		})

		It("should log pre-checks", func() {
			level.PreEvaluationCheck([]uint64{10}, Mask{true}, nil)

			Expect(buf.String()).To(Equal("precheck L1 ok\n"))
		})
	})

	Context("recorder hook", func() {
		var recorder *fakeRecorder

		BeforeEach(func() {
			recorder = newFakeRecorder()
			level.AcceptHook(NewRecorderHook(recorder))
		})

		It("should record kept data spaces of every evaluation", func() {
			tile := Tile{denseTile("Inputs", 100), denseTile("Outputs", 10)}
			level.Evaluate(tile, Mask{true, false}, 1000)
			level.Evaluate(tile, Mask{true, true}, 1000)

			Expect(recorder.tables).To(Equal(
				[]string{"buffer_evaluations", "buffer_dataspace_stats"}))
			Expect(recorder.entries["buffer_evaluations"]).To(HaveLen(2))
			Expect(recorder.entries["buffer_dataspace_stats"]).To(HaveLen(3))

			eval := recorder.entries["buffer_evaluations"][0].(EvaluationEntry)
			ds := recorder.entries["buffer_dataspace_stats"][0].(DataSpaceEntry)
			Expect(eval.Level).To(Equal("L1"))
			Expect(eval.Success).To(BeTrue())
			Expect(eval.Cycles).To(Equal(uint64(1000)))
			Expect(ds.EvalID).To(Equal(eval.ID))
			Expect(ds.DataSpace).To(Equal("Inputs"))
			Expect(ds.UtilizedCapacity).To(Equal(uint64(100)))
		})

		It("should ignore pre-checks", func() {
			level.PreEvaluationCheck([]uint64{10}, Mask{true}, nil)

			Expect(recorder.tables).To(BeEmpty())
		})
	})
})
