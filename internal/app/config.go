package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/coursecards-backend/internal/modules/media"
	"github.com/yungbote/coursecards-backend/internal/observability"
	"github.com/yungbote/coursecards-backend/internal/pkg/stamp"
	"github.com/yungbote/coursecards-backend/internal/platform/courseapi"
	"github.com/yungbote/coursecards-backend/internal/platform/elevenlabs"
	"github.com/yungbote/coursecards-backend/internal/platform/envutil"
	"github.com/yungbote/coursecards-backend/internal/platform/openai"
)

const ServiceName = "coursecards"

// Config is read once at start and never mutated.
type Config struct {
	LogMode     string
	LogLevel    string
	Environment string
	Version     string
	Addr        string
	CORSOrigins []string
	Metrics     bool

	CompanyID  string
	Timezone   string
	Provenance string

	CourseAPI courseapi.Config
	Speech    elevenlabs.Config
	Image     openai.Config
	Media     media.Config
	Storage   StorageConfig
	Otel      observability.OtelConfig
}

type StorageConfig struct {
	// Backend is one of gcs, gcs_emulator, s3, azure. Empty picks gcs when a
	// bucket is configured and leaves uploads disabled otherwise.
	Backend       string
	PublicBaseURL string

	GCSBucket           string
	GCSCredentials      string
	GCSCDNDomain        string
	StorageEmulatorHost string

	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3UsePathStyle    bool

	AzureContainer        string
	AzureConnectionString string
	AzureAccountName      string
	AzureAccountKey       string
	AzureServiceURL       string
}

// LoadDotEnv loads .env files when present. Variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func LoadConfig() Config {
	voice := elevenlabs.DefaultVoiceSettings()
	return Config{
		LogMode:     envutil.String("LOG_MODE", "development"),
		LogLevel:    envutil.String("LOG_LEVEL", ""),
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),
		Addr:        ":" + envutil.String("PORT", "8080"),
		CORSOrigins: envutil.List("CORS_ALLOW_ORIGINS", nil),
		Metrics:     envutil.Bool("METRICS_ENABLED", false),

		CompanyID:  envutil.String("COMPANY_ID", ""),
		Timezone:   envutil.String("STAMP_TIMEZONE", "Asia/Kolkata"),
		Provenance: envutil.String("PROVENANCE", stamp.DefaultProvenance),

		CourseAPI: courseapi.Config{
			BaseURL: envutil.First("", "COURSE_API_BASE_URL", "API_BASE_URL"),
			Token:   envutil.First("", "COURSE_API_TOKEN", "API_TOKEN"),
			Timeout: envutil.Seconds("COURSE_API_TIMEOUT_SECONDS", courseapi.DefaultTimeout),
		},
		Speech: elevenlabs.Config{
			APIKey:  envutil.String("ELEVENLABS_API_KEY", ""),
			BaseURL: envutil.String("ELEVENLABS_BASE_URL", elevenlabs.DefaultBaseURL),
			VoiceID: envutil.String("ELEVENLABS_VOICE_ID", elevenlabs.DefaultVoiceID),
			ModelID: envutil.String("ELEVENLABS_MODEL_ID", elevenlabs.DefaultModelID),
			Voice: elevenlabs.VoiceSettings{
				Stability:       envutil.Float("ELEVENLABS_STABILITY", voice.Stability),
				SimilarityBoost: envutil.Float("ELEVENLABS_SIMILARITY_BOOST", voice.SimilarityBoost),
				Style:           envutil.Float("ELEVENLABS_STYLE", voice.Style),
				UseSpeakerBoost: envutil.Bool("ELEVENLABS_SPEAKER_BOOST", voice.UseSpeakerBoost),
			},
			Timeout: envutil.Seconds("SPEECH_TIMEOUT_SECONDS", elevenlabs.DefaultTimeout),
		},
		Image: openai.Config{
			APIKey:          envutil.First("", "AZURE_OPENAI_API_KEY", "OPENAI_API_KEY"),
			BaseURL:         envutil.String("OPENAI_BASE_URL", openai.DefaultBaseURL),
			Model:           envutil.String("OPENAI_IMAGE_MODEL", openai.DefaultModel),
			AzureEndpoint:   envutil.String("AZURE_OPENAI_ENDPOINT", ""),
			AzureDeployment: envutil.String("AZURE_OPENAI_DEPLOYMENT", ""),
			AzureAPIVersion: envutil.String("AZURE_OPENAI_API_VERSION", openai.DefaultAzureAPIVersion),
			Timeout:         envutil.Seconds("IMAGE_TIMEOUT_SECONDS", openai.DefaultTimeout),
		},
		Media: media.Config{
			WebPQuality:   float32(envutil.Float("WEBP_QUALITY", media.DefaultWebPQuality)),
			UploadTimeout: envutil.Seconds("UPLOAD_TIMEOUT_SECONDS", 60*time.Second),
		},
		Storage: StorageConfig{
			Backend:       strings.ToLower(envutil.String("OBJECT_STORE", "")),
			PublicBaseURL: envutil.String("OBJECT_STORAGE_PUBLIC_BASE_URL", ""),

			GCSBucket:           envutil.First("", "GCS_BUCKET", "GCS_BUCKET_NAME"),
			GCSCredentials:      envutil.String("GOOGLE_APPLICATION_CREDENTIALS_JSON", ""),
			GCSCDNDomain:        envutil.String("GCS_CDN_DOMAIN", ""),
			StorageEmulatorHost: envutil.String("STORAGE_EMULATOR_HOST", ""),

			S3Bucket:          envutil.String("S3_BUCKET", ""),
			S3Region:          envutil.First("", "S3_REGION", "AWS_REGION"),
			S3Endpoint:        envutil.String("S3_ENDPOINT", ""),
			S3AccessKeyID:     envutil.String("S3_ACCESS_KEY_ID", ""),
			S3SecretAccessKey: envutil.String("S3_SECRET_ACCESS_KEY", ""),
			S3UsePathStyle:    envutil.Bool("S3_USE_PATH_STYLE", false),

			AzureContainer:        envutil.String("AZURE_STORAGE_CONTAINER", ""),
			AzureConnectionString: envutil.String("AZURE_STORAGE_CONNECTION_STRING", ""),
			AzureAccountName:      envutil.String("AZURE_STORAGE_ACCOUNT", ""),
			AzureAccountKey:       envutil.String("AZURE_STORAGE_KEY", ""),
			AzureServiceURL:       envutil.String("AZURE_STORAGE_SERVICE_URL", ""),
		},
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", ServiceName),
			Environment: envutil.String("APP_ENV", "development"),
			Version:     envutil.String("APP_VERSION", "dev"),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1),
		},
	}
}

// Validate checks what the HTTP server cannot run without. Speech, image and
// storage are optional; their routes answer 503 when unconfigured.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.CourseAPI.BaseURL) == "" {
		errs = append(errs, errors.New("COURSE_API_BASE_URL is required"))
	}
	if strings.TrimSpace(c.CourseAPI.Token) == "" {
		errs = append(errs, errors.New("COURSE_API_TOKEN is required"))
	}
	if strings.TrimSpace(c.CompanyID) == "" {
		errs = append(errs, errors.New("COMPANY_ID is required"))
	}
	return errors.Join(errs...)
}
