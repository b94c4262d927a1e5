package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mnemo-dev/mnemo/internal/model"
	"github.com/mnemo-dev/mnemo/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import memories from JSON on stdin",
		Long: "Import records in the format produced by export. Records are stored\n" +
			"fresh: new ids, timestamps reset to now.",
		Run: runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		exitErr("read stdin", err)
	}

	var records []model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		exitErr("parse json", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	imported := 0
	for _, r := range records {
		importance := r.Importance
		p := store.RememberParams{
			Text:       r.Text,
			Tags:       r.Tags,
			Importance: &importance,
			Meta:       r.Meta,
		}
		if r.TTLSeconds != nil {
			p.TTL = time.Duration(*r.TTLSeconds) * time.Second
		}
		if _, err := s.Remember(p); err != nil {
			exitErr("import", err)
		}
		imported++
	}

	fmt.Printf(`{"imported":%d}`+"\n", imported)
}
