package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"cvbot-backend/internal/shared/storage/object"
)

type fakeS3 struct {
	putInput  *s3.PutObjectInput
	putBody   []byte
	getErr    error
	getBody   string
	deleteKey string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putInput = in
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.putBody = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, _ *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.getBody))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleteKey = aws.ToString(in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "owner/file.pdf", want: "owner/file.pdf"},
		{name: "simple prefix", prefix: "cv", key: "owner/file.pdf", want: "cv/owner/file.pdf"},
		{name: "prefix trailing slash", prefix: "cv/", key: "owner/file.pdf", want: "cv/owner/file.pdf"},
		{name: "prefix and key slashes", prefix: "/cv/", key: "/owner/file.pdf", want: "cv/owner/file.pdf"},
		{name: "empty key", prefix: "cv", key: "", want: "cv"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestSaveUsesPrefixAndKMS(t *testing.T) {
	api := &fakeS3{}
	store := newWithClient(api, "bucket", "/documents/", "kms-1")

	body := "%PDF-1.3\nbody"
	key, size, mime, err := store.Save(context.Background(), "user-1", "CV_Jane.pdf", strings.NewReader(body))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := aws.ToString(api.putInput.Key); got != "documents/"+key {
		t.Fatalf("expected prefixed key, got %q", got)
	}
	if api.putInput.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms {
		t.Fatalf("expected kms encryption, got %q", api.putInput.ServerSideEncryption)
	}
	if size != int64(len(body)) || string(api.putBody) != body {
		t.Fatalf("unexpected upload size=%d body=%q", size, api.putBody)
	}
	if mime != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", mime)
	}
}

func TestOpenMapsNoSuchKey(t *testing.T) {
	store := newWithClient(&fakeS3{getErr: &s3types.NoSuchKey{}}, "bucket", "", "")
	if _, err := store.Open(context.Background(), "owner/file.pdf"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAppliesPrefix(t *testing.T) {
	api := &fakeS3{}
	store := newWithClient(api, "bucket", "cv", "")
	if err := store.Delete(context.Background(), "owner/file.pdf"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if api.deleteKey != "cv/owner/file.pdf" {
		t.Fatalf("unexpected delete key %q", api.deleteKey)
	}
}
