// Package config loads client settings from GLOSSARY_* environment
// variables, falling back to the active named remote and then to defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	TransportHTTP = "http"
	TransportGRPC = "grpc"
)

type Config struct {
	Transport   string        // GLOSSARY_TRANSPORT (http|grpc, default "http")
	HTTPURL     string        // GLOSSARY_HTTP_URL (default "http://localhost:5000")
	GRPCAddr    string        // GLOSSARY_GRPC_ADDR (default "localhost:50051")
	WebAddr     string        // GLOSSARY_WEB_ADDR (default ":8090")
	NATSURL     string        // GLOSSARY_NATS_URL (optional, empty = no events)
	ServerGraph bool          // GLOSSARY_SERVER_GRAPH (reconcile with the service's graph)
	Timeout     time.Duration // GLOSSARY_TIMEOUT (default 10s)

	// Refresh and export settings
	RefreshInterval  time.Duration // GLOSSARY_REFRESH_INTERVAL (default 0 = disabled)
	ExportS3Bucket   string        // GLOSSARY_EXPORT_S3_BUCKET (enables S3 when set)
	ExportS3Endpoint string        // GLOSSARY_EXPORT_S3_ENDPOINT (custom endpoint for MinIO)
	ExportS3Region   string        // GLOSSARY_EXPORT_S3_REGION (default "us-east-1")
	ExportS3Key      string        // GLOSSARY_EXPORT_S3_KEY (default "glossary/terms.jsonl")
	ExportGitRepo    string        // GLOSSARY_EXPORT_GIT_REPO (enables git when set; path to clone)
	ExportGitFile    string        // GLOSSARY_EXPORT_GIT_FILE (default "glossary.jsonl")
	ExportGitBranch  string        // GLOSSARY_EXPORT_GIT_BRANCH (default "main")
}

// Load reads the configuration. Values from the active remote in
// RemotesPath() fill in anything the environment leaves unset.
func Load() (*Config, error) {
	var active Remote
	if path, err := RemotesPath(); err == nil {
		rc, err := LoadRemotes(path)
		if err != nil {
			return nil, fmt.Errorf("loading remotes: %w", err)
		}
		active, _ = rc.ActiveRemote()
	}
	return loadWith(active)
}

func loadWith(r Remote) (*Config, error) {
	c := &Config{
		Transport:        envOrDefault("GLOSSARY_TRANSPORT", orDefault(r.Transport, TransportHTTP)),
		HTTPURL:          envOrDefault("GLOSSARY_HTTP_URL", orDefault(r.URL, "http://localhost:5000")),
		GRPCAddr:         envOrDefault("GLOSSARY_GRPC_ADDR", orDefault(r.GRPCAddr, "localhost:50051")),
		WebAddr:          envOrDefault("GLOSSARY_WEB_ADDR", ":8090"),
		NATSURL:          envOrDefault("GLOSSARY_NATS_URL", r.NATSURL),
		ExportS3Bucket:   os.Getenv("GLOSSARY_EXPORT_S3_BUCKET"),
		ExportS3Endpoint: os.Getenv("GLOSSARY_EXPORT_S3_ENDPOINT"),
		ExportS3Region:   envOrDefault("GLOSSARY_EXPORT_S3_REGION", "us-east-1"),
		ExportS3Key:      envOrDefault("GLOSSARY_EXPORT_S3_KEY", "glossary/terms.jsonl"),
		ExportGitRepo:    os.Getenv("GLOSSARY_EXPORT_GIT_REPO"),
		ExportGitFile:    envOrDefault("GLOSSARY_EXPORT_GIT_FILE", "glossary.jsonl"),
		ExportGitBranch:  envOrDefault("GLOSSARY_EXPORT_GIT_BRANCH", "main"),
	}
	if c.Transport != TransportHTTP && c.Transport != TransportGRPC {
		return nil, fmt.Errorf("GLOSSARY_TRANSPORT: unknown transport %q (want http or grpc)", c.Transport)
	}

	var err error
	if c.Timeout, err = durationEnv("GLOSSARY_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if c.RefreshInterval, err = durationEnv("GLOSSARY_REFRESH_INTERVAL", "0"); err != nil {
		return nil, err
	}
	if v := os.Getenv("GLOSSARY_SERVER_GRAPH"); v != "" {
		c.ServerGraph, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("GLOSSARY_SERVER_GRAPH: %w", err)
		}
	}
	return c, nil
}

// ExportEnabled reports whether any export destination is configured.
func (c *Config) ExportEnabled() bool {
	return c.ExportS3Bucket != "" || c.ExportGitRepo != ""
}

func durationEnv(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative", key)
	}
	return d, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
