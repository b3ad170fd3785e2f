package config

// EnvPrefix is the envconfig prefix applied to every variable.
const EnvPrefix = "TIENDALINK"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "TIENDALINK_APP_ENV"
	EnvDBDSN  = "TIENDALINK_DB_DSN"
	EnvDBHost = "TIENDALINK_DB_HOST"
	EnvDBUser = "TIENDALINK_DB_USER"
	EnvDBName = "TIENDALINK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

const (
	// DriverPostgres is the default database driver.
	DriverPostgres = "postgres"
	// DriverSQLite backs the single-file dev/test mode.
	DriverSQLite = "sqlite"
)
