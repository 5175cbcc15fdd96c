package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Destroy and recreate the collection",
	Long: `Destroys the vector collection, recreates it empty, and clears the
paper registry. This is the only operation that deletes indexed data;
normal ingestion always upserts.`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "skip the confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	if paperService == nil {
		return errors.New("paper service not configured")
	}

	if !resetForce {
		cmd.Print("This deletes all indexed papers and chunks. Continue? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		input, _ := reader.ReadString('\n') //nolint:errcheck // CLI prompt, empty input cancels
		if answer := strings.ToLower(strings.TrimSpace(input)); answer != "y" && answer != "yes" {
			cmd.Println("Cancelled.")
			return nil
		}
	}

	if err := paperService.Reset(cmd.Context()); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}

	cmd.Println("Collection reset.")
	return nil
}
