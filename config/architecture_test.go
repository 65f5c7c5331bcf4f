package config_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bufeval/buffer"
	"github.com/sarchlab/bufeval/config"
	"github.com/sarchlab/bufeval/density"
)

var _ = Describe("Scenario", func() {
	It("should load the sample scenario", func() {
		s, err := config.Load("testdata/scenario.yaml")

		Expect(err).NotTo(HaveOccurred())
		Expect(s.ComputeCycles).To(Equal(uint64(4096)))
		Expect(s.Networks).To(HaveLen(2))
		Expect(s.Levels).To(HaveLen(3))
		Expect(s.Tiles).To(HaveLen(2))
		Expect(*s.PhysicalModel.DRAMBitEnergy).To(Equal(6.5))
	})

	It("should report a missing file", func() {
		_, err := config.Load("testdata/missing.yaml")

		Expect(err).To(HaveOccurred())
	})

	DescribeTable("invalid scenarios",
		func(doc string, reason string) {
			_, err := config.Parse([]byte(doc))

			Expect(err).To(MatchError(ContainSubstring(reason)))
		},
		Entry("no levels", "compute-cycles: 1\n", "at least one level"),
		Entry("unnamed level", "levels:\n  - class: DRAM\n", "needs a name"),
		Entry("duplicated level",
			"levels:\n  - name: A\n  - name: A\n", "duplicated level"),
		Entry("duplicated network",
			"levels:\n  - name: A\nnetworks:\n  - name: N\n  - name: N\n",
			"duplicated network"),
		Entry("tile of unknown level",
			"levels:\n  - name: A\ntiles:\n  - level: B\n", "unknown level"),
		Entry("unknown parent",
			"levels:\n  - name: A\ntiles:\n  - level: A\n"+
				"    data-spaces:\n      - name: W\n        parent: B\n",
			"unknown parent"),
		Entry("malformed YAML", "levels: [", "failed to parse"),
	)
})

var _ = Describe("Build", func() {
	var arch *config.Architecture

	BeforeEach(func() {
		s, err := config.Load("testdata/scenario.yaml")
		Expect(err).NotTo(HaveOccurred())

		arch, err = config.Build(s)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should build the networks", func() {
		Expect(arch.Networks).To(HaveLen(2))
		Expect(arch.Networks["GlobalToPE"].DistributedMulticastSupported()).
			To(BeTrue())
		Expect(arch.Networks["PEReduce"].WordBits()).To(Equal(uint64(32)))
	})

	It("should apply physical model overrides", func() {
		Expect(arch.PhysicalModel.DRAMBitEnergy).To(Equal(6.5))

		dram, ok := arch.Level("DRAM")
		Expect(ok).To(BeTrue())
		Expect(dram.OpEnergy().Get(buffer.RandomRead)).To(Equal(64 * 6.5))
		Expect(dram.Spec().Technology).To(Equal(buffer.DRAM))
	})

	It("should build the levels in order", func() {
		Expect(arch.Levels).To(HaveLen(3))
		Expect(arch.Levels[1].Name()).To(Equal("GlobalBuffer"))

		spec := arch.Levels[1].Spec()
		Expect(spec.Size.Get()).To(Equal(uint64(8192)))
		Expect(spec.EffectiveSize.Get()).To(Equal(uint64(4096)))
		Expect(spec.MetadataWordBits).To(Equal(uint64(4)))
		Expect(spec.ReadBandwidth.Get()).To(Equal(8.0))

		pe, _ := arch.Level("PEBuffer")
		Expect(pe.Spec().Instances.Get()).To(Equal(uint64(16)))
		Expect(pe.OpEnergy().Get(buffer.RandomRead)).To(Equal(0.8))
		Expect(pe.OpEnergy().Get(buffer.RandomUpdate)).To(Equal(1.1))
		Expect(pe.OpEnergy().Get(buffer.GatedRead)).To(Equal(0.01))
	})

	It("should build the tiles", func() {
		Expect(arch.Evaluations).To(HaveLen(2))

		e := arch.Evaluations[0]
		Expect(e.Level.Name()).To(Equal("GlobalBuffer"))
		Expect(e.ComputeCycles).To(Equal(uint64(4096)))
		Expect(e.Mask).To(Equal(buffer.Mask{true, true, false}))
		Expect(e.WorkingSetSizes()).To(Equal([]uint64{2400, 800, 256}))

		weights := e.Tile[0]
		Expect(weights.Compressed).To(BeTrue())
		Expect(weights.MetadataFormat).To(Equal(buffer.MetadataBitmask))
		Expect(weights.Density).To(Equal(density.Binomial{Density: 0.4}))
		Expect(weights.Parent.Name).To(Equal("DRAM"))
		Expect(weights.PartitionSize).To(Equal(uint64(2400)))
		Expect(weights.ReplicationFactor).To(Equal(uint64(1)))
		Expect(weights.FineGrainedAccesses[buffer.RandomRead]).
			To(Equal(uint64(9600)))

		Expect(e.Workload.DataSpaceDensity(0)).NotTo(BeNil())
		Expect(e.Workload.DataSpaceDensity(1)).To(BeNil())
		Expect(e.Workload.DataSpaceDensity(7)).To(BeNil())

		pe := arch.Evaluations[1].Tile[0]
		Expect(pe.ReplicationFactor).To(Equal(uint64(16)))
		Expect(pe.FineGrainedAccesses[buffer.GatedRead]).
			To(Equal(uint64(1096)))
		Expect(pe.FineGrainedAccesses[buffer.RandomRead]).
			To(Equal(uint64(3000)))
	})

	It("should evaluate the sample mappings", func() {
		for _, e := range arch.Evaluations {
			status := e.Level.PreEvaluationCheck(
				e.WorkingSetSizes(), e.Mask, e.Workload)
			Expect(status.Success).To(BeTrue(), status.FailReason)

			stats, status := e.Level.Evaluate(e.Tile, e.Mask, e.ComputeCycles)
			Expect(status.Success).To(BeTrue(), status.FailReason)
			Expect(stats.TotalEnergy()).To(BeNumerically(">", 0))
			Expect(stats.TotalUtilizedCapacity()).
				To(BeNumerically("<=", e.Level.Spec().EffectiveSize.Get()))
		}
	})

	It("should pin the confidence when asked", func() {
		s, err := config.Parse([]byte(`
levels:
  - name: L1
    attributes:
      entries: 1024
      instances: 1
tiles:
  - level: L1
    data-spaces:
      - name: W
        size: 100
        compressed: true
        density:
          value: 0.5
          confidence: 0.9
`))
		Expect(err).NotTo(HaveOccurred())

		arch, err := config.Build(s)
		Expect(err).NotTo(HaveOccurred())

		c, pinned := arch.Evaluations[0].Tile[0].Density.UserConfidence()
		Expect(pinned).To(BeTrue())
		Expect(c).To(Equal(0.9))
	})

	DescribeTable("invalid architectures",
		func(doc string, reason string) {
			s, err := config.Parse([]byte(doc))
			Expect(err).NotTo(HaveOccurred())

			_, err = config.Build(s)

			Expect(err).To(MatchError(ContainSubstring(reason)))
		},
		Entry("unknown read network",
			"levels:\n  - name: A\n    attributes:\n      instances: 1\n"+
				"      network_read: N\n",
			"unknown read network"),
		Entry("unknown update network",
			"levels:\n  - name: A\n    attributes:\n      instances: 1\n"+
				"      network_update: N\n",
			"unknown update network"),
		Entry("bad topology",
			"levels:\n  - name: A\n    attributes:\n      meshX: 2\n",
			"must be specified"),
		Entry("unknown op",
			"levels:\n  - name: A\n    attributes:\n      instances: 1\n"+
				"tiles:\n  - level: A\n    data-spaces:\n"+
				"      - name: W\n        fine-grained:\n          peek: 1\n",
			"unknown storage operation"),
		Entry("unknown format",
			"levels:\n  - name: A\n    attributes:\n      instances: 1\n"+
				"tiles:\n  - level: A\n    data-spaces:\n"+
				"      - name: W\n        metadata-format: zip\n",
			"unknown metadata format"),
		Entry("bad density",
			"levels:\n  - name: A\n    attributes:\n      instances: 1\n"+
				"tiles:\n  - level: A\n    data-spaces:\n"+
				"      - name: W\n        density:\n          value: 2\n",
			"not in [0, 1]"),
		Entry("negative coefficient",
			"physical-model:\n  adder-bit-energy: -1\n"+
				"levels:\n  - name: A\n    attributes:\n      instances: 1\n",
			"physical model"),
	)
})
