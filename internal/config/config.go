package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"videos"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address        string        `envconfig:"VIDEO_PROCESSOR_ADDRESS" default:":3000"`
	MetricsAddress string        `envconfig:"VIDEO_PROCESSOR_METRICS_ADDRESS" default:":8080"`
	LogLevel       string        `envconfig:"VIDEO_PROCESSOR_LOG_LEVEL" default:"info"`
	S3             s3Config
	Scratch        scratchConfig
	Transcode      transcodeConfig
}

type s3Config struct {
	Endpoint        string `envconfig:"VIDEO_PROCESSOR_S3_ENDPOINT" default:"localhost:9000"`
	AccessKey       string `envconfig:"VIDEO_PROCESSOR_S3_ACCESS_KEY" default:""`
	SecretKey       string `envconfig:"VIDEO_PROCESSOR_S3_SECRET_KEY" default:""`
	RawBucket       string `envconfig:"VIDEO_PROCESSOR_S3_RAW_BUCKET" default:"yt-raw-videos"`
	ProcessedBucket string `envconfig:"VIDEO_PROCESSOR_S3_PROCESSED_BUCKET" default:"yt-processed-videos"`
	UseSSL          bool   `envconfig:"VIDEO_PROCESSOR_S3_USE_SSL" default:"false"`
}

type scratchConfig struct {
	RawDir       string `envconfig:"VIDEO_PROCESSOR_RAW_DIR" default:"./raw-videos"`
	ProcessedDir string `envconfig:"VIDEO_PROCESSOR_PROCESSED_DIR" default:"./processed-videos"`
}

type transcodeConfig struct {
	FfmpegBinary      string        `envconfig:"VIDEO_PROCESSOR_FFMPEG_BINARY" default:"ffmpeg"`
	TargetHeight      int           `envconfig:"VIDEO_PROCESSOR_TARGET_HEIGHT" default:"360"`
	ConversionTimeout time.Duration `envconfig:"VIDEO_PROCESSOR_CONVERSION_TIMEOUT" default:"10m"`
	TransferTimeout   time.Duration `envconfig:"VIDEO_PROCESSOR_TRANSFER_TIMEOUT" default:"5m"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault returns a fresh config, bypassing the singleton. Used by tests
// which tweak the database settings per suite.
func NewDefault() *Config {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		panic(err)
	}
	return cfg
}
