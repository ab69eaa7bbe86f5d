package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/memorial/internal/config"
)

type fakeObjects struct {
	put     *s3.PutObjectInput
	body    string
	deleted *s3.DeleteObjectInput
	err     error
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	if in.Body != nil {
		b, _ := io.ReadAll(in.Body)
		f.body = string(b)
	}
	return &s3.PutObjectOutput{}, f.err
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = in
	return &s3.DeleteObjectOutput{}, f.err
}

func TestS3Store_Put(t *testing.T) {
	fake := &fakeObjects{}
	s := &S3Store{client: fake, bucket: "memorial", publicURL: "https://storage.example.net/memorial"}

	err := s.Put(context.Background(), "heroes/20240509_abcdef12.jpg", strings.NewReader("jpeg"), "image/jpeg")
	require.NoError(t, err)

	require.NotNil(t, fake.put)
	assert.Equal(t, "memorial", aws.ToString(fake.put.Bucket))
	assert.Equal(t, "heroes/20240509_abcdef12.jpg", aws.ToString(fake.put.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(fake.put.ContentType))
	assert.Equal(t, types.ObjectCannedACLPublicRead, fake.put.ACL)
	assert.Equal(t, "jpeg", fake.body)
	assert.Equal(t, "https://storage.example.net/memorial/heroes/20240509_abcdef12.jpg", s.URL("heroes/20240509_abcdef12.jpg"))
}

func TestS3Store_Errors(t *testing.T) {
	fake := &fakeObjects{err: errors.New("denied")}
	s := &S3Store{client: fake, bucket: "b"}

	err := s.Put(context.Background(), "k", strings.NewReader(""), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3: put k")
	assert.Nil(t, fake.put.ContentType)

	err = s.Delete(context.Background(), "k")
	require.Error(t, err)
	assert.Equal(t, "k", aws.ToString(fake.deleted.Key))
}

func TestNewS3Store_ConfiguresClient(t *testing.T) {
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() { loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origNew })

	var loadCalled bool
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		loadCalled = true
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "ru-central1", lo.Region)
		return aws.Config{Region: lo.Region}, nil
	}
	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	s, err := NewS3Store(context.Background(), config.S3{
		Endpoint: "https://storage.yandexcloud.net/",
		Region:   "ru-central1",
		Bucket:   "memorial",
	})
	require.NoError(t, err)
	assert.True(t, loadCalled)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "https://storage.yandexcloud.net/", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "https://storage.yandexcloud.net/memorial/a.jpg", s.URL("a.jpg"))
}

func TestNewS3Store_Errors(t *testing.T) {
	_, err := NewS3Store(context.Background(), config.S3{})
	require.Error(t, err)

	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })
	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}
	_, err = NewS3Store(context.Background(), config.S3{Bucket: "b"})
	require.ErrorContains(t, err, "s3: load config")
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.net", publicURL(config.S3{PublicURL: "https://cdn.example.net/", Bucket: "b"}))
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com", publicURL(config.S3{Bucket: "b", Region: "eu-west-1"}))
}

func TestDisabled(t *testing.T) {
	var s Store = Disabled{}
	assert.ErrorIs(t, s.Put(context.Background(), "k", strings.NewReader(""), ""), ErrDisabled)
	assert.ErrorIs(t, s.Delete(context.Background(), "k"), ErrDisabled)
	assert.Empty(t, s.URL("k"))
}
