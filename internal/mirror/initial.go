// Package mirror copies finished downloads to an S3 bucket.
package mirror

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog"
)

// Target is an s3://bucket/prefix destination.
type Target struct {
	Bucket string
	Prefix string
}

func ParseTarget(raw string) (Target, error) {
	if !strings.HasPrefix(raw, "s3://") {
		return Target{}, fmt.Errorf("mirror target %q must start with s3://", raw)
	}
	rest := strings.TrimPrefix(raw, "s3://")
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return Target{}, fmt.Errorf("mirror target %q has no bucket", raw)
	}
	return Target{Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
}

func (t Target) Key(name string) string {
	if t.Prefix == "" {
		return name
	}
	return path.Join(t.Prefix, name)
}

func (t Target) String() string {
	return "s3://" + path.Join(t.Bucket, t.Prefix)
}

type S3Mirror struct {
	uploader uploader
	target   Target
	logger   zerolog.Logger
}

// New loads the AWS config for profile and returns a mirror for target.
func New(ctx context.Context, target Target, profile string, logger zerolog.Logger) (*S3Mirror, error) {
	up, err := newS3Uploader(ctx, profile)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("op", "mirror/initial").Msgf("Mirroring downloads to %s", target)
	return &S3Mirror{uploader: up, target: target, logger: logger}, nil
}
