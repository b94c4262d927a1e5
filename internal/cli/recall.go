package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mnemo-dev/mnemo/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "recall [query]",
		Short: "Retrieve the most relevant memories",
		Long:  "Rank memories by lexical overlap, recency, and importance; print the top k.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runRecall,
	}

	cmd.Flags().IntP("k", "k", store.DefaultRecallK, "Max results")
	cmd.Flags().String("any-tag", "", "Keep records with at least one of these tags (comma-separated)")
	cmd.Flags().String("must-tags", "", "Keep records carrying all of these tags (comma-separated)")
	cmd.Flags().Bool("include-expired", false, "Include expired records")
	cmd.Flags().Bool("no-touch", false, "Do not refresh last_access on returned records")

	RootCmd.AddCommand(cmd)
}

func runRecall(cmd *cobra.Command, args []string) {
	k, _ := cmd.Flags().GetInt("k")
	anyTag, _ := cmd.Flags().GetString("any-tag")
	mustTags, _ := cmd.Flags().GetString("must-tags")
	includeExpired, _ := cmd.Flags().GetBool("include-expired")
	noTouch, _ := cmd.Flags().GetBool("no-touch")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	records, err := s.Recall(store.RecallParams{
		Query:          strings.Join(args, " "),
		K:              k,
		AnyTag:         splitTags(anyTag),
		MustTags:       splitTags(mustTags),
		IncludeExpired: includeExpired,
		NoTouch:        noTouch,
	})
	if err != nil {
		exitErr("recall", err)
	}

	if len(records) == 0 {
		fmt.Println("[]")
		return
	}
	b, _ := json.MarshalIndent(records, "", "  ")
	fmt.Println(string(b))
}
