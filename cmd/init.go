package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"martforge/internal/scaffold"
)

var initFlags struct {
	author       string
	database     string
	environments string
}

var initCmd = &cobra.Command{
	Use:   "init [project-name]",
	Short: "Initialize a new MartForge project",
	Long: `Initialize a new MartForge project directory.

This command creates a complete project layout including:
- A pipeline configuration file
- A starter reference file for city/state corrections
- The raw schema DDL expected by the extraction layer
- Documentation to get started`,
	Args: cobra.MaximumNArgs(1),
	Run:  runInit,
}

func init() {
	initCmd.Flags().StringVarP(&initFlags.author, "author", "a", "", "Project author recorded in generated files")
	initCmd.Flags().StringVarP(&initFlags.database, "database", "d", "shop", "Warehouse database name")
	initCmd.Flags().StringVar(&initFlags.environments, "environments", "dev,prod", "Comma-separated list of environments")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) {
	projectName := "martforge-project"
	if len(args) > 0 {
		projectName = args[0]
	}

	fmt.Printf("🚀 Initializing MartForge project: %s\n", projectName)
	fmt.Println()

	projectDir, err := filepath.Abs(projectName)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Check if directory exists
	if _, err := os.Stat(projectDir); err == nil {
		var overwrite bool
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("Directory %s already exists. Continue anyway?", projectName),
			Default: false,
		}
		survey.AskOne(prompt, &overwrite)
		if !overwrite {
			fmt.Println("Initialization cancelled.")
			return
		}
	}

	var environments []string
	for _, env := range strings.Split(initFlags.environments, ",") {
		if env = strings.TrimSpace(env); env != "" {
			environments = append(environments, env)
		}
	}

	gen := scaffold.NewGenerator(projectDir, &scaffold.Config{
		ProjectName:  projectName,
		Author:       initFlags.author,
		Database:     initFlags.database,
		RawSchema:    "public",
		MartsSchema:  "marts",
		Environments: environments,
	})

	if err := gen.Generate(); err != nil {
		fmt.Printf("Error creating project structure: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Project created at:", projectDir)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  1. cd %s\n", projectName)
	fmt.Println("  2. Apply sql/raw_schema.sql to your warehouse")
	fmt.Println("  3. Edit config.yaml or run: martforge setup")
	fmt.Println("  4. Run the pipeline: martforge run")
}
