package storage

import (
	"fmt"
	"os"
	"strconv"

	"github.com/docker/go-units"
)

// Backend names a blob storage implementation.
type Backend string

// Supported backends.
const (
	BackendFilesystem Backend = "filesystem"
	BackendGCS        Backend = "gcs"
	BackendS3         Backend = "s3"
)

// Config contains blob storage configuration.
type Config struct {
	Backend Backend `toml:"backend"`
	// BasePath is the root directory for filesystem storage.
	// Default: ".data/blobs"
	BasePath         string    `toml:"base_path"`
	Bucket           string    `toml:"bucket"`
	MaxUploadSize    string    `toml:"max_upload_size"`
	GCS              GCSConfig `toml:"gcs"`
	S3               S3Config  `toml:"s3"`
	maxUploadSizeVal int64
}

// GCSConfig configures the Google Cloud Storage backend.
// EmulatorHost points the client at a fake-gcs-server and disables authentication.
type GCSConfig struct {
	ProjectID       string `toml:"project_id"`
	EmulatorHost    string `toml:"emulator_host"`
	CredentialsFile string `toml:"credentials_file"`
}

// S3Config configures the S3-compatible backend (AWS S3, MinIO).
type S3Config struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Region    string `toml:"region"`
	UseSSL    bool   `toml:"use_ssl"`
}

// Env maps environment variable names for storage configuration.
type Env struct {
	Backend         string
	BasePath        string
	Bucket          string
	MaxUploadSize   string
	GCSProjectID    string
	GCSEmulatorHost string
	GCSCredentials  string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3Region        string
	S3UseSSL        string
}

// MaxUploadSizeBytes returns the parsed upload limit. Valid after Finalize.
func (c *Config) MaxUploadSizeBytes() int64 {
	return c.maxUploadSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the storage configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.Bucket != "" {
		c.Bucket = overlay.Bucket
	}
	if size, err := units.FromHumanSize(overlay.MaxUploadSize); err == nil {
		c.MaxUploadSize = overlay.MaxUploadSize
		c.maxUploadSizeVal = size
	}

	if overlay.GCS.ProjectID != "" {
		c.GCS.ProjectID = overlay.GCS.ProjectID
	}
	if overlay.GCS.EmulatorHost != "" {
		c.GCS.EmulatorHost = overlay.GCS.EmulatorHost
	}
	if overlay.GCS.CredentialsFile != "" {
		c.GCS.CredentialsFile = overlay.GCS.CredentialsFile
	}

	if overlay.S3.Endpoint != "" {
		c.S3.Endpoint = overlay.S3.Endpoint
	}
	if overlay.S3.AccessKey != "" {
		c.S3.AccessKey = overlay.S3.AccessKey
	}
	if overlay.S3.SecretKey != "" {
		c.S3.SecretKey = overlay.S3.SecretKey
	}
	if overlay.S3.Region != "" {
		c.S3.Region = overlay.S3.Region
	}
	if overlay.S3.UseSSL {
		c.S3.UseSSL = true
	}
}

func (c *Config) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendFilesystem
	}
	if c.BasePath == "" {
		c.BasePath = ".data/blobs"
	}
	if c.Bucket == "" {
		c.Bucket = "labels"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "10MB"
	}
	if c.S3.Region == "" {
		c.S3.Region = "us-east-1"
	}
}

func (c *Config) loadEnv(env *Env) {
	str := func(name string, target *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*target = v
		}
	}

	if env.Backend != "" {
		if v := os.Getenv(env.Backend); v != "" {
			c.Backend = Backend(v)
		}
	}
	str(env.BasePath, &c.BasePath)
	str(env.Bucket, &c.Bucket)
	str(env.MaxUploadSize, &c.MaxUploadSize)
	str(env.GCSProjectID, &c.GCS.ProjectID)
	str(env.GCSEmulatorHost, &c.GCS.EmulatorHost)
	str(env.GCSCredentials, &c.GCS.CredentialsFile)
	str(env.S3Endpoint, &c.S3.Endpoint)
	str(env.S3AccessKey, &c.S3.AccessKey)
	str(env.S3SecretKey, &c.S3.SecretKey)
	str(env.S3Region, &c.S3.Region)

	if env.S3UseSSL != "" {
		if v := os.Getenv(env.S3UseSSL); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.S3.UseSSL = b
			}
		}
	}
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendFilesystem:
		if c.BasePath == "" {
			return fmt.Errorf("base_path required")
		}
	case BackendGCS:
		if c.Bucket == "" {
			return fmt.Errorf("bucket required for gcs backend")
		}
	case BackendS3:
		if c.Bucket == "" {
			return fmt.Errorf("bucket required for s3 backend")
		}
		if c.S3.Endpoint == "" {
			return fmt.Errorf("s3.endpoint required for s3 backend")
		}
	default:
		return fmt.Errorf("unknown backend: %s (must be filesystem, gcs, or s3)", c.Backend)
	}

	size, err := units.FromHumanSize(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	c.maxUploadSizeVal = size

	return nil
}
