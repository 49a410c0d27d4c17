package config

// EnvPrefix namespaces every environment variable this service reads.
const EnvPrefix = "discfound"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names shared between Load, ensureDSN diagnostics, and tests.
const (
	EnvAppEnv   = "DISCFOUND_APP_ENV"
	EnvPort     = "DISCFOUND_APP_PORT"
	EnvDBDSN    = "DISCFOUND_DB_DSN"
	EnvDBHost   = "DISCFOUND_DB_HOST"
	EnvDBUser   = "DISCFOUND_DB_USER"
	EnvDBName   = "DISCFOUND_DB_NAME"
	EnvRedisURL = "DISCFOUND_REDIS_URL"

	EnvGCPProjectID = "DISCFOUND_GCP_PROJECT_ID"

	EnvPubSubIdentityTopic = "DISCFOUND_PUBSUB_IDENTITY_TOPIC"
	EnvPubSubIdentitySub   = "DISCFOUND_PUBSUB_IDENTITY_SUBSCRIPTION"
	EnvPubSubOpsTopic      = "DISCFOUND_PUBSUB_OPS_TOPIC"
	EnvPubSubOpsSub        = "DISCFOUND_PUBSUB_OPS_SUBSCRIPTION"

	EnvClaimTokenSecret = "DISCFOUND_CLAIM_TOKEN_SECRET"
	EnvClaimTokenIssuer = "DISCFOUND_CLAIM_TOKEN_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
