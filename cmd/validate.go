package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"martforge/internal/pipeline"
	"martforge/internal/ui"
	"martforge/internal/warehouse"
)

var validateStrict bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the raw snapshot without running the pipeline",
	Long: `Load the raw snapshot and check it against the input contract and
referential rules. Nothing is transformed or published.`,
	Run: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Stop at the first referential violation")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) {
	output := ui.NewUI(flagVerbose, flagQuiet)

	cfg, wh, err := loadWarehouseConfig()
	if err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}

	if err := warehouse.ValidateConfig(*wh); err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}
	ui.PrintInfo("Warehouse configuration is valid")

	reference, err := loadReference(cfg.Reference)
	if err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}
	ui.PrintInfo(fmt.Sprintf("Reference set holds %d city corrections", reference.Len()))

	service := warehouse.NewService(*wh)
	output.StartProgress(fmt.Sprintf("Connecting to %s/%s", wh.Host, wh.Database))
	err = service.Connect()
	output.StopProgress()
	if err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}
	defer service.Close()

	output.StartProgress("Loading raw snapshot")
	snap, err := service.LoadSnapshot(context.Background())
	output.StopProgress()
	if err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}

	ui.PrintKeyValue("Products", fmt.Sprintf("%d", len(snap.Products)))
	ui.PrintKeyValue("Users", fmt.Sprintf("%d", len(snap.Users)))
	ui.PrintKeyValue("Orders", fmt.Sprintf("%d", len(snap.Orders)))
	ui.PrintKeyValue("Order items", fmt.Sprintf("%d", len(snap.OrderItems)))
	fmt.Println()

	violations := pipeline.Referential(snap, validateStrict)
	if len(violations) == 0 {
		ui.ShowSuccess("Snapshot passes all referential checks")
		return
	}

	for _, v := range violations {
		ui.PrintWarning(v.Error())
	}
	ui.ShowError(fmt.Errorf("%d referential violation(s) found", len(violations)))
	os.Exit(1)
}
