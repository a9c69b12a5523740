package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Database table names
	TableIncidents      = "incidents"
	TableIncidentPhotos = "incident_photos"
	TableIncidentTypes  = "incident_types"
	TableUsers          = "users"

	// Database drivers
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	// Cache drivers
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"

	// Migration strategies
	MigrationStrategyAuto  = "auto"
	MigrationStrategyGoose = "goose"

	// DateLayout is the wire format of calendar dates such as birth dates
	DateLayout = "2006-01-02"
)

// PhotoFileMode is used when exporting incident photos to disk
const PhotoFileMode = 0o644
