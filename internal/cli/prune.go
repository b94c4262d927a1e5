package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove expired memories",
		Long:  "Expiration is cooperative: expired records stay in the store until pruned.",
		Run:   runPrune,
	}

	RootCmd.AddCommand(cmd)
}

func runPrune(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	n, err := s.PruneExpired()
	if err != nil {
		exitErr("prune", err)
	}
	fmt.Printf(`{"pruned":%d}`+"\n", n)
}
