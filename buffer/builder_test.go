package buffer

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Builder", func() {
	var (
		mockCtrl *gomock.Controller
		pm       *MockPhysicalModel
		spec     Spec
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		pm = NewMockPhysicalModel(mockCtrl)

		spec = Defaults()
		spec.WordBits = 8
		spec.BlockSize = 2
		spec.Size = Specified(uint64(128))
		spec.Instances = Specified(uint64(4))
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should require a physical model", func() {
		_, err := MakeBuilder().WithSpec(spec).Build("L1")

		var configErr *ConfigurationError
		Expect(errors.As(err, &configErr)).To(BeTrue())
		Expect(configErr.Level).To(Equal("L1"))
	})

	It("should derive SRAM energy and area", func() {
		pm.EXPECT().
			SRAMEnergy(uint64(64), uint64(16), uint64(2), uint64(2)).
			Return(4.0)
		pm.EXPECT().
			SRAMArea(uint64(64), uint64(16), uint64(2), uint64(2)).
			Return(50.0)

		level, err := MakeBuilder().
			WithSpec(spec).
			WithPhysicalModel(pm).
			Build("L1")

		Expect(err).NotTo(HaveOccurred())
		Expect(level.Name()).To(Equal("L1"))
		Expect(level.OpEnergy().Get(RandomRead)).To(Equal(4.0))
		Expect(level.OpEnergy().Get(GatedRead)).To(Equal(0.0))
		Expect(level.AreaPerInstance()).To(Equal(50.0))
		Expect(level.Area()).To(Equal(200.0))
		Expect(level.Spec().MeshX.Get()).To(Equal(uint64(4)))
		Expect(level.Spec().EffectiveSize.Get()).To(Equal(uint64(128)))
	})

	It("should split the cost of a cluster among its instances", func() {
		spec.ClusterSize = 2
		pm.EXPECT().
			SRAMEnergy(uint64(64), uint64(32), uint64(2), uint64(2)).
			Return(6.0)
		pm.EXPECT().
			SRAMArea(uint64(64), uint64(32), uint64(2), uint64(2)).
			Return(80.0)

		level := mustBuild(MakeBuilder().WithSpec(spec).WithPhysicalModel(pm))

		Expect(level.OpEnergy().Get(RandomFill)).To(Equal(3.0))
		Expect(level.AreaPerInstance()).To(Equal(40.0))
	})

	It("should respect user overrides", func() {
		spec.VectorAccessEnergy = Specified(7.0)
		spec.ClusterArea = 30
		pm.EXPECT().
			SRAMEnergy(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(4.0)
		pm.EXPECT().
			SRAMArea(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(50.0)

		level := mustBuild(MakeBuilder().WithSpec(spec).WithPhysicalModel(pm))

		Expect(level.OpEnergy().Get(RandomUpdate)).To(Equal(7.0))
		Expect(level.AreaPerInstance()).To(Equal(30.0))
	})

	It("should reject a negative vector access energy", func() {
		spec.VectorAccessEnergy = Specified(-1.0)
		pm.EXPECT().
			SRAMEnergy(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(4.0)
		pm.EXPECT().
			SRAMArea(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(50.0)

		_, err := MakeBuilder().
			WithSpec(spec).
			WithPhysicalModel(pm).
			Build("L1")

		Expect(err).To(HaveOccurred())
	})

	It("should use the DRAM model for DRAM", func() {
		spec.Technology = DRAM
		spec.WordBits = 16
		spec.BlockSize = 4
		spec.Size = Attribute[uint64]{}
		pm.EXPECT().DRAMEnergy(uint64(64)).Return(100.0)

		level := mustBuild(MakeBuilder().WithSpec(spec).WithPhysicalModel(pm))

		Expect(level.OpEnergy().Get(RandomRead)).To(Equal(100.0))
		Expect(level.Area()).To(Equal(0.0))
		Expect(level.Size()).To(Equal(uint64(0)))
		Expect(level.HardwareReductionSupported()).To(BeFalse())
	})

	It("should price ops from the energy reference table", func() {
		spec.ERT = map[string]float64{"read": 3, "idle": 0.1}
		pm.EXPECT().
			SRAMEnergy(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(4.0)
		pm.EXPECT().
			SRAMArea(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(50.0)

		level := mustBuild(MakeBuilder().WithSpec(spec).WithPhysicalModel(pm))

		Expect(level.OpEnergy().Get(RandomRead)).To(Equal(3.0))
		Expect(level.OpEnergy().Get(SkippedFill)).To(Equal(0.1))
		Expect(level.OpEnergy().Get(RandomFill)).To(Equal(4.0))
		Expect(level.OpEnergy().Get(MetadataRead)).To(Equal(0.0))
	})

	It("should reject unknown reference table actions", func() {
		spec.ERT = map[string]float64{"reed": 3}
		pm.EXPECT().
			SRAMEnergy(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(4.0)
		pm.EXPECT().
			SRAMArea(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(50.0)

		_, err := MakeBuilder().
			WithSpec(spec).
			WithPhysicalModel(pm).
			Build("L1")

		Expect(err).To(MatchError(ContainSubstring("reed")))
	})

	It("should report topology errors", func() {
		spec.Instances = Attribute[uint64]{}

		_, err := MakeBuilder().
			WithSpec(spec).
			WithPhysicalModel(pm).
			Build("L1")

		Expect(err).To(MatchError(ContainSubstring("must be specified")))
	})
})
