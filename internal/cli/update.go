package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mnemo-dev/mnemo/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Change fields of a memory",
		Long:  "Apply field-level changes. Changing the text recomputes its tokens.",
		Args:  cobra.ExactArgs(1),
		Run:   runUpdate,
	}

	cmd.Flags().String("text", "", "Replacement text")
	cmd.Flags().StringP("tags", "t", "", "Replacement tags (comma-separated)")
	cmd.Flags().Float64P("importance", "i", 0, "New importance, clamped to [0,1]")
	cmd.Flags().String("ttl", "", "New expiry like 7d; use 'none' to clear")
	cmd.Flags().String("meta", "", "Replacement JSON metadata object")

	RootCmd.AddCommand(cmd)
}

func runUpdate(cmd *cobra.Command, args []string) {
	id := args[0]
	var p store.UpdateParams

	if cmd.Flags().Changed("text") {
		v, _ := cmd.Flags().GetString("text")
		p.Text = &v
	}
	if cmd.Flags().Changed("tags") {
		v, _ := cmd.Flags().GetString("tags")
		p.Tags = splitTags(v)
		if p.Tags == nil {
			p.Tags = []string{}
		}
	}
	if cmd.Flags().Changed("importance") {
		v, _ := cmd.Flags().GetFloat64("importance")
		p.Importance = &v
	}
	if cmd.Flags().Changed("ttl") {
		v, _ := cmd.Flags().GetString("ttl")
		var ttl time.Duration
		if v != "none" {
			var err error
			ttl, err = parseTTL(v)
			if err != nil {
				exitErr("parse ttl", err)
			}
		}
		p.TTL = &ttl
	}
	if cmd.Flags().Changed("meta") {
		v, _ := cmd.Flags().GetString("meta")
		if err := json.Unmarshal([]byte(v), &p.Meta); err != nil {
			exitErr("parse meta", err)
		}
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	ok, err := s.Update(id, p)
	if err != nil {
		exitErr("update", err)
	}
	if !ok {
		exitErr("update", fmt.Errorf("memory not found: %s", id))
	}

	rec, _ := s.Get(id)
	b, _ := json.MarshalIndent(rec, "", "  ")
	fmt.Println(string(b))
}
