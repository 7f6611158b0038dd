package covers

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/novelshelf/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestNewS3Mirror_AppliesConfig(t *testing.T) {
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origNew
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-north-1", lo.Region)
		assert.NotNil(t, lo.Credentials)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	m, err := NewS3Mirror(context.Background(), config.MirrorConfig{
		Bucket:    "shelf",
		Region:    "eu-north-1",
		Endpoint:  "http://127.0.0.1:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Prefix:    "covers/",
	})
	require.NoError(t, err)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "shelf", m.bucket)
}

func TestNewS3Mirror_LoadError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewS3Mirror(context.Background(), config.MirrorConfig{Bucket: "b", Region: "r"})
	require.Error(t, err)
}

func TestS3Mirror_Upload(t *testing.T) {
	src := writeFile(t, t.TempDir(), "n1.png", pngBytes)
	p := &fakePutter{}
	m := &S3Mirror{client: p, bucket: "shelf", prefix: "covers/"}

	require.NoError(t, m.Upload(context.Background(), "n1.png", src, "image/png"))
	assert.Equal(t, "shelf", aws.ToString(p.in.Bucket))
	assert.Equal(t, "covers/n1.png", aws.ToString(p.in.Key))
	assert.Equal(t, "image/png", aws.ToString(p.in.ContentType))
	assert.Equal(t, pngBytes, p.body)
}

func TestS3Mirror_UploadErrors(t *testing.T) {
	m := &S3Mirror{client: &fakePutter{}, bucket: "b"}
	require.Error(t, m.Upload(context.Background(), "k", filepath.Join(t.TempDir(), "missing"), "image/png"))

	src := writeFile(t, t.TempDir(), "n1.png", pngBytes)
	m = &S3Mirror{client: &fakePutter{err: errors.New("denied")}, bucket: "b"}
	require.Error(t, m.Upload(context.Background(), "k", src, "image/png"))
}
