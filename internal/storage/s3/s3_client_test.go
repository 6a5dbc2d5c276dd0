package s3_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdops/internal/port"
	"holdops/internal/storage/s3"
)

func newClient(endpoint string) *awss3.Client {
	return awss3.New(awss3.Options{
		Region:       "us-east-1",
		Credentials:  credentials.NewStaticCredentialsProvider("AKID", "SECRET", ""),
		BaseEndpoint: aws.String(endpoint),
		UsePathStyle: true,
	})
}

func TestUpload(t *testing.T) {
	var gotPath, gotDisposition, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotDisposition = r.Header.Get("Content-Disposition")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("ETag", `"abc123"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	storage := s3.NewWithClient(newClient(srv.URL))
	out, err := storage.Upload(context.Background(), port.UploadInput{
		Bucket:      "exports",
		Key:         "exports/acme/profit-and-loss/20240101T000000Z.csv",
		Body:        bytes.NewReader([]byte("Label,Value\n")),
		ContentType: "text/csv",
		Filename:    "acme-profit-and-loss.csv",
	})
	require.NoError(t, err)
	assert.Equal(t, "/exports/exports/acme/profit-and-loss/20240101T000000Z.csv", gotPath)
	assert.Equal(t, `attachment; filename="acme-profit-and-loss.csv"`, gotDisposition)
	assert.Contains(t, gotBody, "Label,Value")
	assert.Equal(t, `"abc123"`, out.ETag)
}

func TestGetPresignedURL(t *testing.T) {
	storage := s3.NewWithClient(newClient("http://localhost:9000"))
	url, err := storage.GetPresignedURL(context.Background(), "exports", "a/b.xlsx", 900)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/exports/a/b.xlsx?"))
	assert.Contains(t, url, "X-Amz-Expires=900")
}
