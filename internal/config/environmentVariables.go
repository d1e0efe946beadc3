package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD                         = false
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if redis init fails, everything runs on the in-memory stores
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 5
	BURST_RATE_LIMIT_PER_SECOND     = 10

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 4
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 10 * time.Second
	WriteTimeout           = 60 * time.Second //PDF export of a large batch can take a while
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//caption job buffer limit
	BufferLimit = 100

	//upload limits
	MaxUploadSize int64 = 64 << 20 //64mb for a whole multipart batch

	//captioning
	CaptionTimeout     = 60 * time.Second
	CaptionAllTimeout  = 10 * time.Minute //covers a sequential pass over a full batch
	GeminiModelName    = "gemini-2.5-flash"
	OpenAIVisionModel  = "gpt-4o"
	CaptionPrompt      = "Describe esta imagen brevemente en una sola frase concisa en español para usarla como pie de foto en un documento PDF. Sé directo."
	CaptionFallback    = "Descripción no disponible."
	CaptionProviderEnv = "CAPTION_PROVIDER" //"gemini" (default) or "openai"

	//preview
	PreviewDebounce = 300 * time.Millisecond

	//export
	ExportFileName = "documento-convertido.pdf"

	//pdf settings defaults - restored when the stored record is missing or malformed
	DefaultPageSize        = "a4"
	DefaultOrientation     = "p"
	DefaultIncludeCaptions = true
	DefaultImageQuality    = 0.8
	DefaultLayoutPref      = "grid"

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore      = 0
	RedisSettingsStore = 1

	//redis timeouts
	RedisJobStoreTTL      = 24 * time.Hour
	RedisSettingsStoreTTL = time.Duration(0) //settings survive until overwritten

	//auth
	NoAuthBypass = true //local single-user tool; flip off when exposing beyond localhost
)

var (
	RedisPassword = os.Getenv("REDIS_PASSWORD")
	AuthToken     = os.Getenv("PICTOPDF_AUTH_TOKEN")
	GeminiAPIKey  = os.Getenv("GEMINI_API_KEY")
	OpenAIAPIKey  = os.Getenv("OPENAI_API_KEY")
)

func CaptionProvider() string {
	if v := os.Getenv(CaptionProviderEnv); v != "" {
		return v
	}
	return "gemini"
}
