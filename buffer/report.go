package buffer

import (
	"fmt"
	"io"
	"strings"
)

const reportIndent = "    "

// Fprint writes a human-readable description of the level and, if the stats
// were evaluated, the per data space results. Verbose adds the sparse and
// fine-grained counters.
func Fprint(w io.Writer, level *Level, stats *Stats, verbose bool) {
	fmt.Fprintf(w, "=== %s ===\n\n", level.Name())

	fprintSpecs(w, level)

	if stats == nil || !stats.Evaluated {
		return
	}

	fmt.Fprintln(w)
	fprintStats(w, stats, verbose)
}

func fprintSpecs(w io.Writer, level *Level) {
	s := level.spec
	in := reportIndent

	fmt.Fprintf(w, "%sSPECS\n%s-----\n", in, in)
	in += reportIndent

	fmt.Fprintf(w, "%sTechnology                  : %s\n", in, s.Technology)
	fmt.Fprintf(w, "%sSize                        : %s\n", in, s.Size)
	fmt.Fprintf(w, "%sWord bits                   : %d\n", in, s.WordBits)
	fmt.Fprintf(w, "%sBlock size                  : %d\n", in, s.BlockSize)
	fmt.Fprintf(w, "%sCluster size                : %d\n", in, s.ClusterSize)
	fmt.Fprintf(w, "%sInstances                   : %s (%s*%s)\n",
		in, s.Instances, s.MeshX, s.MeshY)
	fmt.Fprintf(w, "%sRead bandwidth              : %s\n", in, s.ReadBandwidth)
	fmt.Fprintf(w, "%sWrite bandwidth             : %s\n", in, s.WriteBandwidth)
	fmt.Fprintf(w, "%sMultiple buffering          : %g\n",
		in, s.MultipleBuffering)
	fmt.Fprintf(w, "%sEffective size              : %s\n",
		in, s.EffectiveSize)
	fmt.Fprintf(w, "%sMin utilization             : %g\n", in, s.MinUtilization)
	fmt.Fprintf(w, "%sVector access energy        : %s pJ\n",
		in, s.VectorAccessEnergy)

	for _, op := range AllOpTypes() {
		fmt.Fprintf(w, "%sPer-instance %-15s : %g pJ\n",
			in, op, level.opEnergy.Get(op))
	}

	fmt.Fprintf(w, "%sArea                        : %g um^2\n", in, s.StorageArea)
}

func fprintStats(w io.Writer, stats *Stats, verbose bool) {
	in := reportIndent

	fmt.Fprintf(w, "%sSTATS\n%s-----\n", in, in)
	fmt.Fprintf(w, "%sCycles               : %d\n", in, stats.Cycles)
	fmt.Fprintf(w, "%sBandwidth throttling : %g\n", in, stats.Slowdown)

	for i := range stats.DataSpaces {
		d := &stats.DataSpaces[i]
		if !d.Keep {
			continue
		}

		fmt.Fprintf(w, "%s%s:\n", in, d.Name)
		fprintDataSpace(w, stats, i, in+reportIndent, verbose)
	}
}

func fprintDataSpace(
	w io.Writer,
	stats *Stats,
	ds int,
	in string,
	verbose bool,
) {
	d := &stats.DataSpaces[ds]

	line := func(label string, format string, args ...any) {
		fmt.Fprintf(w, "%s%-48s: %s\n",
			in, label, fmt.Sprintf(format, args...))
	}

	line("Partition size", "%d", d.PartitionSize)
	line("Tile size", "%d", d.TileSize)
	line("Utilized capacity", "%d", d.UtilizedCapacity)
	line("Utilized instances (max)", "%d", d.UtilizedInstances)
	line("Utilized clusters (max)", "%d", d.UtilizedClusters)

	if verbose {
		line("Tile confidence", "%g", d.TileConfidence)
		line("Tile max density", "%g", d.TileMaxDensity)
		line("Compressed tile size", "%d", d.CompressedTileSize)
		line("Metadata tile size", "%d", d.MetadataTileSize)

		for _, op := range AllOpTypes() {
			if d.FineGrained[op] == 0 {
				continue
			}

			label := "Scalar " + strings.ReplaceAll(op.String(), "_", " ") +
				"s (per-instance)"
			line(label, "%d", d.FineGrained[op])
		}
	} else {
		line("Scalar reads (per-instance)", "%d", d.Reads)
		line("Scalar updates (per-instance)", "%d", d.Updates)
		line("Scalar fills (per-instance)", "%d", d.Fills)
	}

	line("Temporal reductions (per-instance)", "%d", d.TemporalReductions)
	line("Address generations (per-cluster)", "%d", d.AddressGenerations)
	line("Energy (per-scalar-access)", "%g pJ", d.EnergyPerAccess)
	line("Energy (per-instance)", "%g pJ", d.Energy)
	line("Energy (total)", "%g pJ", stats.Energy(ds))
	line("Temporal reduction energy (per-instance)", "%g pJ",
		d.TemporalReductionEnergy)
	line("Temporal reduction energy (total)", "%g pJ",
		stats.TemporalReductionEnergy(ds))
	line("Address generation energy (per-cluster)", "%g pJ", d.AddrGenEnergy)
	line("Address generation energy (total)", "%g pJ",
		stats.AddrGenEnergy(ds))

	if verbose {
		line("Speculation energy cost (per-instance)", "%g pJ",
			d.SpeculationEnergyCost)
	}

	line("Read bandwidth (per-instance)", "%g words/cycle", d.ReadBandwidth)
	line("Read bandwidth (total)", "%g words/cycle",
		d.ReadBandwidth*float64(d.UtilizedInstances))
	line("Write bandwidth (per-instance)", "%g words/cycle", d.WriteBandwidth)
	line("Write bandwidth (total)", "%g words/cycle",
		d.WriteBandwidth*float64(d.UtilizedInstances))
}
