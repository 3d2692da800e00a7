package scaffold

const configTemplate = `# {{.ProjectName}} pipeline configuration
# Generated on {{.Date}}{{if .Author}} by {{.Author}}{{end}}
warehouse:
  host: localhost
  port: 5432
  database: {{.Database}}
  username: martforge
  password: ""
  sslmode: disable
  raw_schema: {{.RawSchema}}
  marts_schema: {{.MartsSchema}}
  timeout: 30s

pipeline:
  workers: 4
  batch_size: 500
  dry_run: false
  keep_previous: true
  validation:
    enabled: true
    referential: true
    strict: false

reference:
  file: reference.yaml
{{- range .Environments}}

environments:
  - name: {{.}}
    host: localhost
    port: 5432
    database: {{$.Database}}_{{.}}
{{- end}}
`

const referenceTemplate = `# City/state corrections applied during enrichment.
# Entries here are merged over the built-in set; conflicting duplicates
# fail the load.
corrections: []
#  - city: Gotham
#    state: New Jersey
#    state_code: NJ
`

const envTemplate = `# Environment overrides for local development.
# MARTFORGE_CONFIG=./config.yaml
# MARTFORGE_ENCRYPTION_KEY=
# GIT_USERNAME=
# GIT_PASSWORD=
`

const rawSchemaTemplate = `-- Raw snapshot relations delivered by the extraction layer.
-- Generated on {{.Date}} for {{.ProjectName}}.

CREATE SCHEMA IF NOT EXISTS {{.RawSchema}};

CREATE TABLE IF NOT EXISTS {{.RawSchema}}.raw_products (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL,
    category TEXT,
    brand TEXT,
    sku TEXT,
    price NUMERIC(12,2) NOT NULL,
    discount_percentage NUMERIC(5,2) NOT NULL DEFAULT 0,
    rating NUMERIC(4,2) NOT NULL DEFAULT 0,
    stock INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS {{.RawSchema}}.raw_users (
    id INTEGER PRIMARY KEY,
    first_name TEXT,
    last_name TEXT,
    age INTEGER,
    gender TEXT,
    email TEXT,
    phone TEXT,
    city TEXT,
    state TEXT,
    state_code TEXT,
    country TEXT
);

CREATE TABLE IF NOT EXISTS {{.RawSchema}}.raw_orders (
    order_id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL,
    order_date TIMESTAMPTZ NOT NULL,
    total_amount NUMERIC(12,2) NOT NULL,
    discounted_amount NUMERIC(12,2) NOT NULL,
    total_items INTEGER NOT NULL,
    status TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS {{.RawSchema}}.raw_order_items (
    order_id INTEGER NOT NULL,
    product_id INTEGER NOT NULL,
    product_title TEXT,
    quantity INTEGER NOT NULL,
    unit_price NUMERIC(12,2) NOT NULL,
    discount_percentage NUMERIC(5,2) NOT NULL DEFAULT 0,
    PRIMARY KEY (order_id, product_id)
);
`

const readmeTemplate = `# {{.ProjectName}}

Warehouse transformation pipeline project.

## Getting started

1. Apply ` + "`sql/raw_schema.sql`" + ` to the warehouse so the extraction
   layer has somewhere to land its snapshots.
2. Edit ` + "`config.yaml`" + ` with your warehouse connection details, or run
   ` + "`martforge setup`" + ` for the interactive wizard.
3. Run the pipeline:

    martforge run

Use ` + "`martforge run --dry-run`" + ` to compute everything without
publishing, and ` + "`martforge rollback`" + ` to restore the previous mart
snapshot.
`
