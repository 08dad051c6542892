package config

// EnvPrefix namespaces envconfig lookups for fields without explicit tags.
const EnvPrefix = "servicecommand"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSQLitePath = "servicecommand.db"
)

const (
	EnvDBDSN  = "SERVICECOMMAND_DB_DSN"
	EnvDBHost = "SERVICECOMMAND_DB_HOST"
	EnvDBUser = "SERVICECOMMAND_DB_USER"
	EnvDBName = "SERVICECOMMAND_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
