package config

const (
	EnvPrefix = "MEDIAOPS"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv     = "MEDIAOPS_APP_ENV"
	EnvPort       = "MEDIAOPS_APP_PORT"
	EnvDBDSN      = "MEDIAOPS_DB_DSN"
	EnvDBHost     = "MEDIAOPS_DB_HOST"
	EnvDBUser     = "MEDIAOPS_DB_USER"
	EnvDBName     = "MEDIAOPS_DB_NAME"
	EnvRedisURL   = "MEDIAOPS_REDIS_URL"
	EnvJWTSecret  = "MEDIAOPS_JWT_SECRET"
	EnvJWTIssuer  = "MEDIAOPS_JWT_ISSUER"
	EnvJWTExpMins = "MEDIAOPS_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
