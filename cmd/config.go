package cmd

import (
	"context"

	"github.com/spf13/viper"
	"golang.org/x/oauth2"

	"github.com/postforge/media-mirror/pkg/log"
	"github.com/postforge/media-mirror/store"
)

type Config struct {
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
	S3Bucket    string
	S3PublicURL string

	DriveToken string

	RootFolder     string
	KeyPrefix      string
	Workers        int
	StagingRoot    string
	LocalBase      string
	RetentionHours int
	SweepMinutes   int
}

// loadConfig reads MIRROR_* env vars plus an optional config file.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MIRROR")
	v.AutomaticEnv()
	v.SetDefault("root_folder", "Social Media Automation")
	v.SetDefault("key_prefix", "posts")
	v.SetDefault("workers", 1)
	v.SetDefault("local_base", "./mirror")
	v.SetDefault("retention_hours", 1)
	v.SetDefault("sweep_minutes", 15)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	return &Config{
		S3AccessKey:    v.GetString("s3_access_key"),
		S3SecretKey:    v.GetString("s3_secret_key"),
		S3Endpoint:     v.GetString("s3_endpoint"),
		S3Bucket:       v.GetString("s3_bucket"),
		S3PublicURL:    v.GetString("s3_public_url"),
		DriveToken:     v.GetString("drive_token"),
		RootFolder:     v.GetString("root_folder"),
		KeyPrefix:      v.GetString("key_prefix"),
		Workers:        v.GetInt("workers"),
		StagingRoot:    v.GetString("staging_root"),
		LocalBase:      v.GetString("local_base"),
		RetentionHours: v.GetInt("retention_hours"),
		SweepMinutes:   v.GetInt("sweep_minutes"),
	}, nil
}

// buildStores constructs the storage capabilities once, up front. A
// missing object-store config degrades to folder-only replication; a
// missing Drive token degrades to the local file store.
func buildStores(ctx context.Context, cfg *Config) (store.ObjectStore, store.FolderStore, error) {
	var obj store.ObjectStore
	if cfg.S3Bucket != "" {
		s, err := store.NewS3Store(ctx, &store.S3Opts{
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			return nil, nil, err
		}
		obj = s
	} else {
		log.Warnf("object store not configured, items will carry no public url")
	}

	var folder store.FolderStore
	if cfg.DriveToken != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.DriveToken})
		d, err := store.NewDriveStore(ctx, ts)
		if err != nil {
			return nil, nil, err
		}
		folder = d
	} else {
		log.Warnf("no drive token, using local file store")
		f, err := store.NewFileStore(cfg.LocalBase)
		if err != nil {
			return nil, nil, err
		}
		folder = f
	}
	return obj, folder, nil
}
