package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-faster/errors"
)

// S3Store talks to any S3-compatible bucket (Cloudflare R2 in
// production). Objects are written world-readable; PublicURL is the
// base the bucket is served from, falling back to the provider default
// when unset.
type S3Store struct {
	client *s3.Client
	opts   *S3Opts
}

type S3Opts struct {
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	PublicURL string
}

func NewS3Store(ctx context.Context, opts *S3Opts) (*S3Store, error) {
	if err := opts.sanitize(); err != nil {
		return nil, err
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = true
	})
	return &S3Store{client: client, opts: opts}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.opts.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         "public-read",
	})
	if err != nil {
		return "", &StoreError{Op: fmt.Sprintf("put %s", key), Err: err}
	}
	return s.publicURL(key), nil
}

func (s *S3Store) Get(ctx context.Context, objURL string) ([]byte, error) {
	key, err := s.keyFromURL(objURL)
	if err != nil {
		return nil, &FetchError{Op: objURL, Err: err}
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &FetchError{Op: fmt.Sprintf("get %s", key), Err: err}
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &FetchError{Op: fmt.Sprintf("read %s", key), Err: err}
	}
	return data, nil
}

func (s *S3Store) publicURL(key string) string {
	if s.opts.PublicURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(s.opts.PublicURL, "/"), key)
	}
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com/%s", s.opts.Bucket, key)
}

// keyFromURL reverses publicURL. Handles the public base, the
// bucket-subdomain form, and the endpoint/<bucket>/<key> form.
func (s *S3Store) keyFromURL(objURL string) (string, error) {
	if s.opts.PublicURL != "" {
		base := strings.TrimSuffix(s.opts.PublicURL, "/") + "/"
		if strings.HasPrefix(objURL, base) {
			return strings.TrimPrefix(objURL, base), nil
		}
	}
	u, err := url.Parse(objURL)
	if err != nil {
		return "", errors.Wrap(err, "parse object url")
	}
	p := strings.TrimPrefix(u.Path, "/")
	if strings.HasPrefix(u.Host, s.opts.Bucket+".") {
		return p, nil
	}
	// endpoint form: first path segment is the bucket
	if rest := strings.TrimPrefix(p, s.opts.Bucket+"/"); rest != p {
		return rest, nil
	}
	if p == "" || p == "." {
		return "", errors.Errorf("no object key in url %s", objURL)
	}
	return path.Clean(p), nil
}

func (o *S3Opts) sanitize() error {
	if o.Bucket == "" || o.AccessKey == "" || o.SecretKey == "" {
		return errors.New("s3 store needs bucket, access key and secret key")
	}
	if o.Region == "" {
		o.Region = "auto"
	}
	return nil
}
