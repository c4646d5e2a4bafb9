package config

const (
	// EnvPrefix is the envconfig prefix; individual fields carry explicit
	// PARTSLEDGER_* names so the prefix stays empty.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "PARTSLEDGER_DB_DSN"
	EnvDBHost = "PARTSLEDGER_DB_HOST"
	EnvDBUser = "PARTSLEDGER_DB_USER"
	EnvDBName = "PARTSLEDGER_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
