package external_services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpikenya/mpi-backend/internal/domain/entity"
)

type fakeObjectAPI struct {
	puts    []*s3.PutObjectInput
	bodies  []string
	deletes []string
	err     error
}

func (f *fakeObjectAPI) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, _ := io.ReadAll(in.Body)
	f.puts = append(f.puts, in)
	f.bodies = append(f.bodies, string(b))
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Upload_KeyAndURL(t *testing.T) {
	api := &fakeObjectAPI{}
	s := newS3Storage(api, S3Options{Bucket: "mpi", Region: "eu-west-1", PublicBaseURL: "https://cdn.mpi.test/"})
	s.now = func() time.Time { return time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC) }

	obj, err := s.Upload(context.Background(), "gallery", entity.Upload{
		Filename: "Walk.JPG", ContentType: "image/jpeg", Data: []byte("jpeg-bytes"),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(obj.Key, "gallery/2026/03/"))
	assert.True(t, strings.HasSuffix(obj.Key, ".jpg"))
	assert.Equal(t, "https://cdn.mpi.test/"+obj.Key, obj.URL)

	require.Len(t, api.puts, 1)
	assert.Equal(t, "mpi", aws.ToString(api.puts[0].Bucket))
	assert.Equal(t, "image/jpeg", aws.ToString(api.puts[0].ContentType))
	assert.Equal(t, "jpeg-bytes", api.bodies[0])
}

func TestS3Upload_DefaultURLs(t *testing.T) {
	aws1 := newS3Storage(&fakeObjectAPI{}, S3Options{Bucket: "mpi", Region: "eu-west-1"})
	assert.Equal(t, "https://mpi.s3.eu-west-1.amazonaws.com", aws1.baseURL)

	minio := newS3Storage(&fakeObjectAPI{}, S3Options{Bucket: "mpi", Endpoint: "http://localhost:9000/"})
	assert.Equal(t, "http://localhost:9000/mpi", minio.baseURL)
}

func TestS3Upload_Errors(t *testing.T) {
	api := &fakeObjectAPI{}
	s := newS3Storage(api, S3Options{Bucket: "mpi", Region: "us-east-1"})

	_, err := s.Upload(context.Background(), "news", entity.Upload{Filename: "a.png"})
	assert.Error(t, err)

	api.err = errors.New("access denied")
	_, err = s.Upload(context.Background(), "news", entity.Upload{Filename: "a.png", Data: []byte("x")})
	assert.ErrorIs(t, err, api.err)
}

func TestS3Delete(t *testing.T) {
	api := &fakeObjectAPI{}
	s := newS3Storage(api, S3Options{Bucket: "mpi", Region: "us-east-1"})

	require.NoError(t, s.Delete(context.Background(), ""))
	require.NoError(t, s.Delete(context.Background(), "news/2026/03/x.png"))
	assert.Equal(t, []string{"news/2026/03/x.png"}, api.deletes)
}
