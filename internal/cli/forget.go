package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mnemo-dev/mnemo/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "forget [id]",
		Short: "Delete memories",
		Long: "Delete a memory by id, or delete in bulk with --tag / --contains\n" +
			"(both given: records must match both).",
		Run: runForget,
	}

	cmd.Flags().StringP("tag", "t", "", "Delete records carrying this tag")
	cmd.Flags().String("contains", "", "Delete records whose text contains this substring")

	RootCmd.AddCommand(cmd)
}

func runForget(cmd *cobra.Command, args []string) {
	tag, _ := cmd.Flags().GetString("tag")
	contains, _ := cmd.Flags().GetString("contains")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if len(args) > 0 {
		id := args[0]
		ok, err := s.Forget(id)
		if err != nil {
			exitErr("forget", err)
		}
		if !ok {
			exitErr("forget", fmt.Errorf("memory not found: %s", id))
		}
		fmt.Printf(`{"forgotten":true,"id":%q}`+"\n", id)
		return
	}

	// Bulk mode. Require a predicate: with neither, ForgetWhere matches
	// everything, and that should never happen from a mistyped command.
	if tag == "" && contains == "" {
		exitErr("forget", fmt.Errorf("give an id, or at least one of --tag / --contains"))
	}

	n, err := s.ForgetWhere(store.ForgetWhereParams{Tag: tag, Contains: contains})
	if err != nil {
		exitErr("forget", err)
	}
	fmt.Printf(`{"forgotten":%d}`+"\n", n)
}
