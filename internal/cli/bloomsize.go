package cli

import (
	"fmt"

	"github.com/hupe1980/dsopt/bloom"
	"github.com/spf13/cobra"
)

func newBloomSizeCommand() *cobra.Command {
	var (
		n int
		p float64
	)

	cmd := &cobra.Command{
		Use:   "bloom-size",
		Short: "Compute Bloom filter bit count and hash functions",
		Example: `  dsopt bloom-size --n 1000 --p 0.01
  bits=9586 hash_functions=7 bytes=1200`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, k, err := bloom.OptimalSize(n, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bits=%d hash_functions=%d bytes=%d\n", m, k, (m+63)/64*8)
			return nil
		},
	}

	cmd.Flags().IntVar(&n, "n", 1000, "expected number of elements")
	cmd.Flags().Float64Var(&p, "p", 0.01, "target false positive rate in (0, 1)")
	return cmd
}
