package files

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/content-insight/internal/application"
	"github.com/bryanwahyu/content-insight/internal/infra/db/memory"
)

type fakeBlobs struct {
	keys []string
	err  error
}

func (b *fakeBlobs) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	b.keys = append(b.keys, key)
	return "http://blobs/" + key, nil
}

var now = time.UnixMilli(1700000000123).UTC()

func TestUploadStoresRecord(t *testing.T) {
	blobs := &fakeBlobs{}
	svc := &Service{Repo: memory.NewFileRepository(), Blobs: blobs, Clock: application.FixedClock{T: now}}

	f, err := svc.Upload(context.Background(), UploadCommand{
		UserID: 1, OriginalName: "notes.txt", MimeType: "text/plain", Data: []byte("hello world"),
	})
	require.NoError(t, err)

	assert.Equal(t, "1700000000123-notes.txt", f.Filename)
	assert.Equal(t, int64(11), f.Size)
	assert.Equal(t, "hello world", *f.Content)
	assert.Equal(t, []string{"uploads/1/1700000000123-notes.txt"}, blobs.keys)

	list, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUploadRejectsOversizeAndNameless(t *testing.T) {
	svc := &Service{Repo: memory.NewFileRepository(), Clock: application.FixedClock{T: now}}
	var verr *application.ValidationError

	_, err := svc.Upload(context.Background(), UploadCommand{UserID: 1, OriginalName: "big.bin", Data: make([]byte, MaxUploadSize+1)})
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Upload(context.Background(), UploadCommand{UserID: 1, OriginalName: " ", Data: []byte("x")})
	assert.ErrorAs(t, err, &verr)
}

func TestUploadInvalidUTF8IsReplaced(t *testing.T) {
	svc := &Service{Repo: memory.NewFileRepository(), Clock: application.FixedClock{T: now}}
	f, err := svc.Upload(context.Background(), UploadCommand{UserID: 1, OriginalName: "x.bin", Data: []byte{0xff, 'a'}})
	require.NoError(t, err)
	assert.Equal(t, "\uFFFDa", *f.Content)
	assert.Equal(t, "application/octet-stream", f.MimeType)
}

func TestUploadBlobFailureAborts(t *testing.T) {
	repo := memory.NewFileRepository()
	svc := &Service{Repo: repo, Blobs: &fakeBlobs{err: errors.New("minio down")}, Clock: application.FixedClock{T: now}}

	_, err := svc.Upload(context.Background(), UploadCommand{UserID: 1, OriginalName: "a.txt", Data: []byte("a")})
	require.Error(t, err)

	list, _ := repo.ListByUser(context.Background(), 1)
	assert.Empty(t, list)
}
