package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	archiveCmd := &cobra.Command{
		Use:   "archive",
		Short: "Inspect the tombstone archive",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List removed memories, newest first",
		Run:   runArchiveList,
	}
	listCmd.Flags().IntP("limit", "l", 20, "Max results")

	archiveCmd.AddCommand(listCmd)
	RootCmd.AddCommand(archiveCmd)
}

func runArchiveList(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	a := s.Archive()
	if a == nil {
		exitErr("archive", fmt.Errorf("no archive configured (set store.archive in config)"))
	}

	tombstones, err := a.List(limit)
	if err != nil {
		exitErr("archive list", err)
	}

	if len(tombstones) == 0 {
		fmt.Println("[]")
		return
	}
	b, _ := json.MarshalIndent(tombstones, "", "  ")
	fmt.Println(string(b))
}
