package cfg

type Cfg struct {
	// Database configuration
	DBDriver string
	DBPath   string
	DBURL    string

	DBConnectRetries int
	QueryTimeout     int

	// Cache configuration
	RedisAddr     string
	CacheDuration int

	// Application configuration
	DomainsDir        string
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
