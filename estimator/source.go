package estimator

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"

	"gopkg.in/kothar/go-backblaze.v0"
)

// Source opens artifact blobs by name.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	String() string
}

// DirSource reads artifacts from a local directory.
type DirSource string

func (d DirSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(string(d), name))
}

func (d DirSource) String() string {
	return "dir " + string(d)
}

// B2Credentials identify the Backblaze account holding the artifacts.
type B2Credentials struct {
	AccountID string
	KeyID     string
	AppKey    string
}

// Bucket is the part of a B2 bucket the artifact code uses.
type Bucket interface {
	DownloadFileByName(name string) (*backblaze.File, io.ReadCloser, error)
	UploadTypedFile(name, contentType string, meta map[string]string, file io.Reader) (*backblaze.File, error)
}

// B2Source downloads artifacts from a Backblaze B2 bucket, under an optional
// prefix such as "models/2024-06/".
type B2Source struct {
	Bucket     Bucket
	BucketName string
	Prefix     string
}

// OpenB2Bucket authorizes against B2 and returns the named bucket.
func OpenB2Bucket(creds B2Credentials, bucketName string) (*backblaze.Bucket, error) {
	b2, err := backblaze.NewB2(backblaze.Credentials{
		AccountID:      creds.AccountID,
		ApplicationKey: creds.AppKey,
		KeyID:          creds.KeyID,
	})
	if err != nil {
		return nil, fmt.Errorf("B2 auth error: %w", err)
	}
	bucket, err := b2.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("B2 bucket error: %w", err)
	}
	if bucket == nil {
		return nil, fmt.Errorf("B2 bucket %q not found", bucketName)
	}
	return bucket, nil
}

func (s *B2Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := path.Join(s.Prefix, name)
	_, rc, err := s.Bucket.DownloadFileByName(key)
	if err != nil {
		return nil, fmt.Errorf("B2 download %s: %w", key, err)
	}
	return rc, nil
}

func (s *B2Source) String() string {
	return "b2://" + path.Join(s.BucketName, s.Prefix)
}

// Publish uploads the three artifact files from dir to bucket under prefix.
// Artifacts are validated first so a broken set is never published.
func Publish(ctx context.Context, bucket Bucket, prefix, dir string) error {
	if _, err := Load(ctx, DirSource(dir)); err != nil {
		return fmt.Errorf("refusing to publish invalid artifacts: %w", err)
	}

	for _, name := range []string{EncoderFile, ScalerFile, ModelFile} {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		key := path.Join(prefix, name)
		_, err = bucket.UploadTypedFile(key, "application/json", nil, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("B2 upload %s: %w", key, err)
		}
		log.Printf("[artifacts] Published %s", key)
	}
	return nil
}
