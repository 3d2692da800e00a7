package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"martforge/internal/ui"
	"martforge/internal/warehouse"
)

var rollbackForce bool

var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Restore the previous mart snapshot",
	Long: `Swap the live mart tables with the retained previous snapshot.

Rollback requires a complete previous snapshot, which is kept when the
pipeline runs with keep_previous enabled. Running rollback twice returns
to the current snapshot.`,
	Run: runRollback,
}

func init() {
	rollbackCmd.Flags().BoolVarP(&rollbackForce, "force", "f", false, "Skip the confirmation prompt")

	rootCmd.AddCommand(rollbackCmd)
}

func runRollback(cmd *cobra.Command, args []string) {
	output := ui.NewUI(flagVerbose, flagQuiet)

	_, wh, err := loadWarehouseConfig()
	if err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}

	if !rollbackForce {
		confirmed, err := ui.Confirm(
			fmt.Sprintf("Swap live mart tables in %s/%s with the previous snapshot?", wh.Database, wh.MartsSchema),
			false)
		if err != nil || !confirmed {
			fmt.Println("Rollback cancelled.")
			return
		}
	}

	service := warehouse.NewService(*wh)
	output.StartProgress(fmt.Sprintf("Connecting to %s/%s", wh.Host, wh.Database))
	err = service.Connect()
	output.StopProgress()
	if err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}
	defer service.Close()

	output.StartProgress("Rolling back mart tables")
	err = service.Rollback(context.Background())
	output.StopProgress()
	if err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}

	ui.ShowSuccess("Previous mart snapshot restored")
}
