package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"martforge/internal/config"
	"martforge/internal/git"
	"martforge/internal/pipeline"
	"martforge/internal/refdata"
	"martforge/internal/security"
	"martforge/internal/ui"
	"martforge/internal/warehouse"
	"martforge/pkg/models"
)

var (
	runDryRun  bool
	runStrict  bool
	runWorkers int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the transformation pipeline",
	Long: `Execute one full pipeline run: load the raw snapshot, validate it,
clean and enrich the relations, roll them up into the mart tables and
publish the result atomically.

A failed run leaves the live mart tables untouched. Use --dry-run to
compute everything without publishing.`,
	Run: runPipeline,
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Compute all stages but publish nothing")
	runCmd.Flags().BoolVar(&runStrict, "strict", false, "Fail on the first referential violation")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "Override the rollup worker pool size")

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) {
	output := ui.NewUI(flagVerbose, flagQuiet)

	cfg, wh, err := loadWarehouseConfig()
	if err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}

	pipelineCfg := cfg.Pipeline
	if runDryRun {
		pipelineCfg.DryRun = true
	}
	if runStrict {
		pipelineCfg.Validation.Strict = true
	}
	if runWorkers > 0 {
		pipelineCfg.Workers = runWorkers
	}

	output.StartProgress("Loading reference data")
	reference, err := loadReference(cfg.Reference)
	output.StopProgress()
	if err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}
	output.VerbosePrintf("Reference set holds %d city corrections\n", reference.Len())

	service := warehouse.NewService(*wh)
	output.StartProgress(fmt.Sprintf("Connecting to %s/%s", wh.Host, wh.Database))
	err = service.Connect()
	output.StopProgress()
	if err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}
	defer service.Close()
	service.SetBatchSize(pipelineCfg.BatchSize)

	runner := pipeline.NewRunner(service, reference, pipelineCfg)

	output.StartProgress("Running pipeline")
	result, err := runner.Run(context.Background())
	output.StopProgress()
	if err != nil {
		ui.ShowError(err)
		os.Exit(1)
	}

	report := ui.NewRunReport(true)
	fmt.Print(report.Render(result))
}

// loadWarehouseConfig loads the config file, overlays the selected
// environment and fills in the password from the credential store when
// the config file leaves it empty.
func loadWarehouseConfig() (*models.Config, *models.Warehouse, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	wh, err := config.ResolveEnvironment(cfg, flagEnvironment)
	if err != nil {
		return nil, nil, err
	}

	if wh.Password == "" {
		if cm, err := security.NewCredentialManager(); err == nil {
			if password, err := cm.GetWarehousePassword(flagEnvironment); err == nil {
				wh.Password = password
			}
		}
	}

	return cfg, wh, nil
}

// loadReference resolves the correction set: a git-synced or local YAML
// file when configured, otherwise the built-in defaults.
func loadReference(cfg models.Reference) (*refdata.Set, error) {
	path, err := git.NewService().ResolveReferenceFile(cfg)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return refdata.Default(), nil
	}
	return refdata.LoadFile(path)
}
