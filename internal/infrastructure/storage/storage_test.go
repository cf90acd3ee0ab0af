package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_EscribeYDevuelveRuta(t *testing.T) {
	dir := t.TempDir()
	st := NewLocalStore(dir, "/media/")

	ref, err := st.Store(context.Background(), "qr_codes/bundles/20000001.png", []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/media/qr_codes/bundles/20000001.png", ref)

	data, err := os.ReadFile(filepath.Join(dir, "qr_codes", "bundles", "20000001.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}

func TestLocalStore_NoSaleDelDirectorio(t *testing.T) {
	dir := t.TempDir()
	st := NewLocalStore(dir, "/media")

	ref, err := st.Store(context.Background(), "../../fuera.png", []byte("x"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/media/fuera.png", ref)
	_, err = os.Stat(filepath.Join(dir, "fuera.png"))
	assert.NoError(t, err)
}

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_Put(t *testing.T) {
	fake := &fakeS3{}
	st := &S3Store{client: fake, bucket: "etiquetas"}

	ref, err := st.Store(context.Background(), "qr_codes/x.png", []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "s3://etiquetas/qr_codes/x.png", ref)
	assert.Equal(t, "etiquetas", aws.ToString(fake.in.Bucket))
	assert.Equal(t, "image/png", aws.ToString(fake.in.ContentType))
	assert.Equal(t, "png", string(fake.body))
}
