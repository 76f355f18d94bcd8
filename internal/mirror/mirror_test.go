package mirror

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	tg, err := ParseTarget("s3://noaa-archive/qpe/hourly/")
	require.NoError(t, err)
	assert.Equal(t, Target{Bucket: "noaa-archive", Prefix: "qpe/hourly"}, tg)
	assert.Equal(t, "qpe/hourly/a.grb", tg.Key("a.grb"))
	assert.Equal(t, "s3://noaa-archive/qpe/hourly", tg.String())

	tg, err = ParseTarget("s3://bucket")
	require.NoError(t, err)
	assert.Equal(t, "a.grb", tg.Key("a.grb"))

	for _, bad := range []string{"bucket/key", "s3://", "s3:///prefix", "https://bucket"} {
		_, err := ParseTarget(bad)
		assert.Error(t, err, bad)
	}
}

type fakeUploader struct {
	bucket, key, body string
	err               error
}

func (f *fakeUploader) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = aws.ToString(input.Bucket)
	f.key = aws.ToString(input.Key)
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.body = string(data)
	return &manager.UploadOutput{Key: input.Key}, nil
}

func TestUpload(t *testing.T) {
	local := filepath.Join(t.TempDir(), "a.grb")
	require.NoError(t, os.WriteFile(local, []byte("GRIB"), 0644))

	fake := &fakeUploader{}
	m := &S3Mirror{uploader: fake, target: Target{Bucket: "b", Prefix: "p"}, logger: zerolog.Nop()}
	require.NoError(t, m.Upload(context.Background(), local, "a.grb"))
	assert.Equal(t, "b", fake.bucket)
	assert.Equal(t, "p/a.grb", fake.key)
	assert.Equal(t, "GRIB", fake.body)
}

func TestUploadErrors(t *testing.T) {
	m := &S3Mirror{uploader: &fakeUploader{}, target: Target{Bucket: "b"}, logger: zerolog.Nop()}
	assert.Error(t, m.Upload(context.Background(), filepath.Join(t.TempDir(), "missing"), "missing"))

	local := filepath.Join(t.TempDir(), "a.grb")
	require.NoError(t, os.WriteFile(local, []byte("GRIB"), 0644))
	m.uploader = &fakeUploader{err: errors.New("AccessDenied")}
	err := m.Upload(context.Background(), local, "a.grb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDenied")
}
