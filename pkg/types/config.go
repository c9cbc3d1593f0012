package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Auth: JWTs are verified against the issuer's JWKS endpoint
	AuthIssuerURL string `envconfig:"AUTH_ISSUER_URL"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey    string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey   string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes
	SessionMaxAgeSec int    `envconfig:"SESSION_MAX_AGE_SEC" default:"604800"` // 7 days

	// Object storage. Driver is one of: supabase, s3, minio
	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"supabase"`
	StorageBucket string `envconfig:"STORAGE_BUCKET" default:"incident-media"`

	SupabaseProjectID  string `envconfig:"SUPABASE_PROJECT_ID"`
	SupabaseServiceKey string `envconfig:"SUPABASE_SERVICE_KEY"`

	S3Region string `envconfig:"S3_REGION"`

	MinioEndpoint  string `envconfig:"MINIO_ENDPOINT"`
	MinioAccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `envconfig:"MINIO_SECRET_KEY"`
	MinioUseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`

	// Realtime change feed (Postgres NOTIFY channel fed by table triggers)
	RealtimeChannel string `envconfig:"REALTIME_CHANNEL" default:"opsboard_changes"`

	// Chat assistant (local OpenAI-compatible inference endpoint)
	ChatEndpointURL  string `envconfig:"CHAT_ENDPOINT_URL" default:"http://localhost:11434/v1/chat/completions"`
	ChatModel        string `envconfig:"CHAT_MODEL" default:"llama3.1"`
	ChatSystemPrompt string `envconfig:"CHAT_SYSTEM_PROMPT" default:"Eres el asistente de operaciones de opsboard. Responde de forma breve y practica sobre incidencias, pagos y estadisticas."`
}
