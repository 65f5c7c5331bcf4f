package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/sarchlab/bufeval/buffer"
	"github.com/sarchlab/bufeval/config"
	"github.com/spf13/cobra"
)

var topologyCmd = &cobra.Command{
	Use:   "topology <scenario.yaml>",
	Short: "Print the derived specs of every level and network.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arch, err := loadArchitecture(args[0])
		if err != nil {
			return err
		}

		printTopology(cmd.OutOrStdout(), arch)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(topologyCmd)
}

func printTopology(w io.Writer, arch *config.Architecture) {
	for _, l := range arch.Levels {
		buffer.Fprint(w, l, nil, false)
		fmt.Fprintln(w)
	}

	names := make([]string, 0, len(arch.Networks))
	for name := range arch.Networks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		n := arch.Networks[name]
		fmt.Fprintf(w, "network %s: %d bits, distributed multicast %t\n",
			name, n.WordBits(), n.DistributedMulticastSupported())
	}
}
