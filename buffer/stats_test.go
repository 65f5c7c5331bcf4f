package buffer

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Stats", func() {
	var stats *Stats

	BeforeEach(func() {
		stats = &Stats{
			DataSpaces: []DataSpaceStats{
				{
					Energy:                  2,
					TemporalReductionEnergy: 1,
					AddrGenEnergy:           0.5,
					UtilizedInstances:       3,
					UtilizedClusters:        2,
					UtilizedCapacity:        40,
					TileSize:                50,
					Reads:                   1,
					Updates:                 2,
					Fills:                   3,
				},
				{
					Energy:            4,
					UtilizedInstances: 1,
					UtilizedClusters:  1,
					UtilizedCapacity:  10,
					TileSize:          10,
					Reads:             5,
				},
			},
		}
	})

	It("should scale per-instance results", func() {
		Expect(stats.NumDataSpaces()).To(Equal(2))
		Expect(stats.StorageEnergy(0)).To(Equal(6.0))
		Expect(stats.TemporalReductionEnergy(0)).To(Equal(3.0))
		Expect(stats.AddrGenEnergy(0)).To(Equal(1.0))
		Expect(stats.Energy(0)).To(Equal(10.0))
		Expect(stats.Accesses(0)).To(Equal(uint64(18)))
		Expect(stats.UtilizedInstances(0)).To(Equal(uint64(3)))
	})

	It("should sum over data spaces", func() {
		Expect(stats.TotalEnergy()).To(Equal(14.0))
		Expect(stats.TotalStorageEnergy()).To(Equal(10.0))
		Expect(stats.TotalTemporalReductionEnergy()).To(Equal(3.0))
		Expect(stats.TotalAddrGenEnergy()).To(Equal(1.0))
		Expect(stats.TotalAccesses()).To(Equal(uint64(23)))
		Expect(stats.TotalUtilizedCapacity()).To(Equal(uint64(50)))
		Expect(stats.TotalTileSize()).To(Equal(uint64(60)))
		Expect(stats.MaxUtilizedInstances()).To(Equal(uint64(3)))
	})
})
