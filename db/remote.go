// Remote script fetching for S3 and HTTP sources.
package db

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config carries optional S3 authentication settings. Zero values
// fall back to the ambient AWS configuration (environment, shared
// credentials file, instance profile).
type S3Config struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string // custom S3-compatible endpoint
}

// activeS3Config is applied to all S3 fetches. Set once at startup.
var activeS3Config *S3Config

// SetS3Config installs S3 credentials for subsequent FetchScript calls.
func SetS3Config(cfg *S3Config) {
	activeS3Config = cfg
}

type urlScheme string

const (
	schemeS3    urlScheme = "s3"
	schemeHTTP  urlScheme = "http"
	schemeHTTPS urlScheme = "https"
	schemeLocal urlScheme = "local"
)

func detectScheme(path string) urlScheme {
	lower := strings.ToLower(path)
	switch {
	case strings.HasPrefix(lower, "s3://"):
		return schemeS3
	case strings.HasPrefix(lower, "https://"):
		return schemeHTTPS
	case strings.HasPrefix(lower, "http://"):
		return schemeHTTP
	default:
		return schemeLocal
	}
}

// IsRemote reports whether path names a remote script source rather
// than a local file.
func IsRemote(path string) bool {
	return detectScheme(path) != schemeLocal
}

// maxScriptSize bounds a fetched script to keep a misdirected URL from
// exhausting memory.
const maxScriptSize = 64 << 20 // 64 MiB

// FetchScript downloads a SQL script from an s3://, http:// or
// https:// URL and returns its contents.
func FetchScript(ctx context.Context, url string) (string, error) {
	var (
		body io.ReadCloser
		err  error
	)

	switch detectScheme(url) {
	case schemeHTTP, schemeHTTPS:
		body, err = openHTTPReader(ctx, url)
	case schemeS3:
		body, err = openS3Reader(ctx, url, activeS3Config)
	default:
		return "", fmt.Errorf("not a remote URL: %s", url)
	}
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxScriptSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", url, err)
	}
	if len(data) > maxScriptSize {
		return "", fmt.Errorf("script %s exceeds %d bytes", url, maxScriptSize)
	}

	return string(data), nil
}

func openHTTPReader(ctx context.Context, url string) (io.ReadCloser, error) {
	client := &http.Client{
		Timeout: 5 * time.Minute, // generous timeout for large scripts
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %s: %w", url, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP request returned status %d", resp.StatusCode)
	}

	return resp.Body, nil
}

// parseS3URL splits s3://bucket/key into bucket and key parts.
func parseS3URL(url string) (bucket, key string, err error) {
	path := strings.TrimPrefix(url, "s3://")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid S3 URL: %s", url)
	}
	return parts[0], parts[1], nil
}

func getS3Client(ctx context.Context, cfg *S3Config) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error

	if cfg != nil && cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg != nil && cfg.AccessKey != "" && cfg.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		opts = append(opts, config.WithCredentialsProvider(creds))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	clientOpts := []func(*s3.Options){}
	if cfg != nil && cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // for S3-compatible services
		})
	}

	return s3.NewFromConfig(awsCfg, clientOpts...), nil
}

func openS3Reader(ctx context.Context, url string, cfg *S3Config) (io.ReadCloser, error) {
	bucket, key, err := parseS3URL(url)
	if err != nil {
		return nil, err
	}

	client, err := getS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}

	resp, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get S3 object: %w", err)
	}

	return resp.Body, nil
}
