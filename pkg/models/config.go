package models

type Config struct {
	Warehouse    Warehouse     `yaml:"warehouse"`
	Pipeline     Pipeline      `yaml:"pipeline"`
	Reference    Reference     `yaml:"reference"`
	Environments []Environment `yaml:"environments"`
}

// Warehouse holds PostgreSQL warehouse connection configuration
type Warehouse struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Database    string `yaml:"database"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	SSLMode     string `yaml:"sslmode"`
	RawSchema   string `yaml:"raw_schema"`   // Schema holding raw_* snapshot tables
	MartsSchema string `yaml:"marts_schema"` // Schema receiving dim_*/fct_* tables
	Timeout     string `yaml:"timeout"`      // Connection/statement timeout, e.g. "30s"
}

// Pipeline contains run-specific configuration
type Pipeline struct {
	Workers      int              `yaml:"workers"`       // Worker pool size for rollup partitions
	BatchSize    int              `yaml:"batch_size"`    // Rows per bulk insert batch
	DryRun       bool             `yaml:"dry_run"`       // Compute everything, publish nothing
	KeepPrevious bool             `yaml:"keep_previous"` // Retain __prev snapshots for rollback
	Validation   ValidationConfig `yaml:"validation"`
}

// ValidationConfig contains validation settings
type ValidationConfig struct {
	Enabled     bool `yaml:"enabled"`     // Enable input-contract validation
	Referential bool `yaml:"referential"` // Enforce orders→users, items→orders/products
	Strict      bool `yaml:"strict"`      // Fail the run on first violation
}

// Reference configures the city/state correction set
type Reference struct {
	File   string `yaml:"file"`    // Optional YAML file with correction entries
	GitURL string `yaml:"git_url"` // Optional git repo to sync the reference set from
	Branch string `yaml:"branch"`
	Path   string `yaml:"path"` // Local clone path for the reference repo
}

// Environment represents a named warehouse environment configuration
type Environment struct {
	Name        string `yaml:"name"` // Environment name (e.g., "dev", "staging", "prod")
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Database    string `yaml:"database"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	SSLMode     string `yaml:"sslmode"`
	RawSchema   string `yaml:"raw_schema"`
	MartsSchema string `yaml:"marts_schema"`
	Timeout     string `yaml:"timeout"`
}
