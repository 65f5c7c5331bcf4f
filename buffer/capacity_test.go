package buffer

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Capacity", func() {
	var (
		mockCtrl *gomock.Controller
		pm       *MockPhysicalModel
		level    *Level
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		pm = stubPhysicalModel(mockCtrl)
		level = mustBuild(MakeBuilder().
			WithSpec(sramSpec(1024)).
			WithPhysicalModel(pm))
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should reject an uncompressed tile larger than the buffer", func() {
		stats, status := level.Evaluate(
			Tile{denseTile("Inputs", 2000)}, Mask{true}, 1000)

		Expect(status.Success).To(BeFalse())
		Expect(status.FailReason).To(ContainSubstring("2000"))
		Expect(status.FailReason).To(ContainSubstring("1024"))
		Expect(stats.Evaluated).To(BeFalse())
	})

	It("should accept an uncompressed tile that fits", func() {
		stats, status := level.Evaluate(
			Tile{denseTile("Inputs", 500)}, Mask{true}, 1000)

		Expect(status.Success).To(BeTrue())
		Expect(status.FailReason).To(BeEmpty())
		Expect(stats.Evaluated).To(BeTrue())
		Expect(stats.UtilizedCapacity(0)).To(Equal(uint64(500)))
		Expect(stats.DataSpaces[0].TileConfidence).To(Equal(1.0))
		Expect(stats.AddrGenBits).To(Equal(uint64(10)))
		Expect(level.CapacityUtilization(stats)).
			To(BeNumerically("~", 500.0/1024.0, 1e-12))
	})

	It("should check the combined footprint of all data spaces", func() {
		stats, status := level.Evaluate(
			Tile{denseTile("Weights", 600), denseTile("Inputs", 500)},
			Mask{true, true}, 1000)

		Expect(status.Success).To(BeFalse())
		Expect(status.FailReason).To(ContainSubstring("1100"))
		Expect(stats.TotalUtilizedCapacity()).To(Equal(uint64(1100)))
	})

	It("should count bitmask metadata of uncompressed tiles", func() {
		spec := sramSpec(1024)
		spec.MetadataWordBits = 1
		level = mustBuild(MakeBuilder().WithSpec(spec).WithPhysicalModel(pm))
		tile := denseTile("Inputs", 800)
		tile.MetadataFormat = MetadataBitmask

		stats, status := level.Evaluate(Tile{tile}, Mask{true}, 1000)

		Expect(status.Success).To(BeTrue())
		Expect(stats.DataSpaces[0].MetadataTileSize).To(Equal(uint64(800)))
		Expect(stats.UtilizedCapacity(0)).To(Equal(uint64(900)))
	})

	It("should never fail capacity checks on unbounded DRAM", func() {
		spec := Defaults()
		spec.Name = "DRAM"
		spec.Technology = DRAM
		spec.Instances = Specified(uint64(1))
		level = mustBuild(MakeBuilder().WithSpec(spec).WithPhysicalModel(pm))

		tile := denseTile("Weights", 1_000_000_000)
		tile.Compressed = true
		tile.Density = fixedDensity{density: 0.25}
		tile.MetadataFormat = MetadataRLE

		stats, status := level.Evaluate(Tile{tile}, Mask{true}, 1000)

		Expect(status.Success).To(BeTrue())
		Expect(stats.DataSpaces[0].TileConfidence).To(Equal(1.0))
		Expect(stats.DataSpaces[0].CompressedTileSize).
			To(Equal(uint64(250_000_000)))
		Expect(stats.AddrGenBits).To(Equal(uint64(28)))
	})

	It("should report too many mapped instances", func() {
		tile := denseTile("Inputs", 100)
		tile.ReplicationFactor = 2

		_, status := level.Evaluate(Tile{tile}, Mask{true}, 1000)

		Expect(status.Success).To(BeFalse())
		Expect(status.FailReason).To(Equal(
			"mapped instances 2 exceeds available hardware instances 1"))
	})

	It("should report every failure", func() {
		tile := denseTile("Inputs", 2000)
		tile.ReplicationFactor = 2

		_, status := level.Evaluate(Tile{tile}, Mask{true}, 1000)

		Expect(status.FailReason).To(Equal(
			"mapped tile size 2000 exceeds buffer capacity 1024; " +
				"mapped instances 2 exceeds available hardware instances 1"))
	})

	It("should enforce the minimum utilization", func() {
		spec := sramSpec(1024)
		spec.MinUtilization = 0.5
		level = mustBuild(MakeBuilder().WithSpec(spec).WithPhysicalModel(pm))

		_, status := level.Evaluate(
			Tile{denseTile("Inputs", 100)}, Mask{true}, 1000)

		Expect(status.Success).To(BeFalse())
		Expect(status.FailReason).To(ContainSubstring("minimum utilization 512"))
	})

	It("should grow utilized capacity with the tile size", func() {
		previous := uint64(0)

		for size := uint64(0); size <= 2048; size += 64 {
			stats, _ := level.Evaluate(
				Tile{denseTile("Inputs", size)}, Mask{true}, 1000)

			Expect(stats.UtilizedCapacity(0)).
				To(BeNumerically(">=", previous))
			previous = stats.UtilizedCapacity(0)
		}
	})

	It("should be idempotent", func() {
		tile := Tile{denseTile("Inputs", 700)}
		tile[0].Compressed = true
		tile[0].Density = fixedDensity{density: 0.5}
		tile[0].MetadataFormat = MetadataRLE

		first, firstStatus := level.Evaluate(tile, Mask{true}, 1000)
		second, secondStatus := level.Evaluate(tile, Mask{true}, 1000)

		Expect(second).To(Equal(first))
		Expect(secondStatus).To(Equal(firstStatus))
	})

	It("should panic if the mask does not match the tile", func() {
		Expect(func() {
			level.Evaluate(Tile{denseTile("Inputs", 1)}, Mask{}, 1000)
		}).To(Panic())
	})

	Context("when the tile is compressed", func() {
		var tile TileInfo

		BeforeEach(func() {
			spec := sramSpec(1024)
			spec.MetadataWordBits = 1
			level = mustBuild(MakeBuilder().
				WithSpec(spec).
				WithPhysicalModel(pm))

			tile = denseTile("Weights", 1600)
			tile.Compressed = true
			tile.Density = fixedDensity{density: 0.5}
			tile.MetadataFormat = MetadataBitmask
		})

		It("should keep full confidence when the tile fits", func() {
			stats, status := level.Evaluate(Tile{tile}, Mask{true}, 1000)

			Expect(status.Success).To(BeTrue())
			d := stats.DataSpaces[0]
			Expect(d.TileConfidence).To(Equal(1.0))
			Expect(d.TileMaxDensity).To(Equal(0.5))
			Expect(d.CompressedTileSize).To(Equal(uint64(800)))
			Expect(d.MetadataTileSize).To(Equal(uint64(1600)))
			Expect(d.UtilizedCapacity).To(Equal(uint64(1000)))
		})

		It("should lower the confidence when the tile does not fit", func() {
			tile.Size = 2000

			stats, status := level.Evaluate(Tile{tile}, Mask{true}, 1000)

			Expect(status.Success).To(BeTrue())
			d := stats.DataSpaces[0]
			Expect(d.TileConfidence).To(BeNumerically("~", 0.774, 0.002))
			Expect(d.TileMaxDensity).To(BeNumerically("<", 0.5))
			Expect(d.UtilizedCapacity).To(BeNumerically("<=", 1024))
		})

		It("should always settle within the allocation", func() {
			formats := []MetadataFormat{
				MetadataNone, MetadataBitmask, MetadataRLE, MetadataCSR,
			}

			for _, format := range formats {
				for size := uint64(100); size <= 8000; size += 350 {
					tile.Size = size
					tile.MetadataFormat = format
					tile.DenseRank0Fills = size
					tile.DenseRank1Fills = size / 16

					stats, status := level.Evaluate(
						Tile{tile}, Mask{true}, 1000)

					d := stats.DataSpaces[0]
					Expect(d.TileConfidence).To(BeNumerically(">=", 0))
					Expect(d.TileConfidence).To(BeNumerically("<=", 1))

					if status.Success {
						Expect(stats.TotalUtilizedCapacity()).
							To(BeNumerically("<=", 1024))
					}
				}
			}
		})

		It("should honor a pinned confidence", func() {
			density := NewMockDensityModel(mockCtrl)
			density.EXPECT().ExpectedDensity(uint64(1600)).
				Return(0.5).AnyTimes()
			density.EXPECT().UserConfidence().Return(0.9, true).AnyTimes()
			density.EXPECT().
				DensityAtConfidence(uint64(1600), 0.9, uint64(unboundedBudget)).
				Return(0.25).
				AnyTimes()
			tile.Density = density

			stats, status := level.Evaluate(Tile{tile}, Mask{true}, 1000)

			Expect(status.Success).To(BeTrue())
			d := stats.DataSpaces[0]
			Expect(d.TileConfidence).To(Equal(0.9))
			Expect(d.CompressedTileSize).To(Equal(uint64(400)))
		})
	})
})
