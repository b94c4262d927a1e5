package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mnemo-dev/mnemo/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "remember [text]",
		Short: "Store a memory",
		Long:  "Store a memory. Text can be a positional arg or piped via stdin.",
		Run:   runRemember,
	}

	cmd.Flags().StringP("tags", "t", "", "Comma-separated tags")
	cmd.Flags().Float64P("importance", "i", store.DefaultImportance, "Importance weight, clamped to [0,1]")
	cmd.Flags().String("ttl", "", "Expiry like 7d, 24h, 30m, 60s (default: never)")
	cmd.Flags().String("meta", "", "JSON metadata object")

	RootCmd.AddCommand(cmd)
}

func runRemember(cmd *cobra.Command, args []string) {
	tagsStr, _ := cmd.Flags().GetString("tags")
	importance, _ := cmd.Flags().GetFloat64("importance")
	ttlStr, _ := cmd.Flags().GetString("ttl")
	metaStr, _ := cmd.Flags().GetString("meta")

	// Text: positional arg first, then stdin
	var text string
	if len(args) > 0 {
		text = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			text = string(b)
		}
	}
	if strings.TrimSpace(text) == "" {
		exitErr("remember", fmt.Errorf("text is required (positional arg or stdin)"))
	}

	p := store.RememberParams{
		Text:       text,
		Tags:       splitTags(tagsStr),
		Importance: &importance,
	}

	if ttlStr != "" {
		ttl, err := parseTTL(ttlStr)
		if err != nil {
			exitErr("parse ttl", err)
		}
		p.TTL = ttl
	}
	if metaStr != "" {
		if err := json.Unmarshal([]byte(metaStr), &p.Meta); err != nil {
			exitErr("parse meta", err)
		}
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	id, err := s.Remember(p)
	if err != nil {
		exitErr("remember", err)
	}

	rec, _ := s.Get(id)
	b, _ := json.Marshal(rec)
	fmt.Println(string(b))
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
