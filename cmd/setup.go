package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"martforge/internal/config"
	"martforge/internal/security"
	"martforge/pkg/models"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Initial configuration setup",
	Run:   runSetup,
}

func runSetup(cmd *cobra.Command, args []string) {
	fmt.Println("🚀 Setting up MartForge CLI...")
	fmt.Println()

	// Check if config already exists
	if config.Exists() {
		var overwrite bool
		prompt := &survey.Confirm{
			Message: "Configuration already exists. Do you want to overwrite it?",
			Default: false,
		}
		survey.AskOne(prompt, &overwrite)
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return
		}
	}

	cfg := &models.Config{}

	fmt.Println("🗄  Warehouse Configuration")
	fmt.Println("-------------------------")

	warehouseQs := []*survey.Question{
		{
			Name: "host",
			Prompt: &survey.Input{
				Message: "PostgreSQL host:",
				Default: "localhost",
			},
			Validate: survey.Required,
		},
		{
			Name: "port",
			Prompt: &survey.Input{
				Message: "Port:",
				Default: "5432",
			},
			Validate: survey.Required,
		},
		{
			Name: "database",
			Prompt: &survey.Input{
				Message: "Database:",
			},
			Validate: survey.Required,
		},
		{
			Name: "username",
			Prompt: &survey.Input{
				Message: "Username:",
			},
			Validate: survey.Required,
		},
		{
			Name: "password",
			Prompt: &survey.Password{
				Message: "Password:",
			},
			Validate: survey.Required,
		},
		{
			Name: "rawschema",
			Prompt: &survey.Input{
				Message: "Raw schema (snapshot tables):",
				Default: "public",
			},
			Validate: survey.Required,
		},
		{
			Name: "martsschema",
			Prompt: &survey.Input{
				Message: "Marts schema (output tables):",
				Default: "marts",
			},
			Validate: survey.Required,
		},
	}

	answers := struct {
		Host        string
		Port        string
		Database    string
		Username    string
		Password    string
		RawSchema   string `survey:"rawschema"`
		MartsSchema string `survey:"martsschema"`
	}{}

	if err := survey.Ask(warehouseQs, &answers); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	port, err := strconv.Atoi(answers.Port)
	if err != nil {
		fmt.Printf("Error: invalid port %q\n", answers.Port)
		os.Exit(1)
	}

	cfg.Warehouse = models.Warehouse{
		Host:        answers.Host,
		Port:        port,
		Database:    answers.Database,
		Username:    answers.Username,
		SSLMode:     "disable",
		RawSchema:   answers.RawSchema,
		MartsSchema: answers.MartsSchema,
		Timeout:     "30s",
	}
	cfg.Pipeline = models.Pipeline{
		Workers:      4,
		BatchSize:    500,
		KeepPrevious: true,
		Validation: models.ValidationConfig{
			Enabled:     true,
			Referential: true,
		},
	}

	// The password goes to the credential store, never the config file.
	storedSecurely := false
	if cm, err := security.NewCredentialManager(); err == nil {
		if err := cm.StoreWarehousePassword("", answers.Password); err == nil {
			storedSecurely = true
		}
	}
	if !storedSecurely {
		fmt.Println("⚠️  Credential store unavailable, keeping the password in the config file.")
		cfg.Warehouse.Password = answers.Password
	}

	// Save configuration
	if err := config.Save(cfg); err != nil {
		fmt.Printf("Error saving configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("✅ Configuration saved to:", config.GetConfigFile())
	fmt.Println()
	fmt.Println("You can now run the pipeline using: martforge run")
	fmt.Println("Use martforge run --dry-run to preview a run without publishing.")
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
