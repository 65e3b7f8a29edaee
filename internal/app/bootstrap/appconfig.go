// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds app-specific configuration loaded alongside WAFFLE's
// core config. Fields map one-to-one onto the keys in appConfigKeys.
type AppConfig struct {
	// MongoDB
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Token auth
	JWTSecret   string
	TokenExpiry time.Duration

	// File storage
	StorageType      string
	StorageLocalPath string
	StorageLocalURL  string

	// S3/CloudFront
	StorageS3Region    string
	StorageS3Bucket    string
	StorageS3Prefix    string
	StorageCFURL       string
	StorageCFKeyPairID string
	StorageCFKeyPath   string

	// Upload limits
	MaxUploadSize int64
}
