package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvUserJWTSecret  = "USER_JWT_SECRET"
	EnvAdminJWTSecret = "ADMIN_JWT_SECRET"

	EnvKafkaBrokers         = "KAFKA_BROKERS"
	EnvKafkaModerationTopic = "KAFKA_MODERATION_TOPIC"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvDefaultBusType  = "DEFAULT_BUS_TYPE"
	EnvDefaultCapacity = "DEFAULT_CAPACITY"
	EnvDefaultFare     = "DEFAULT_FARE"
)
