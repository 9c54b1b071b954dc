package gateway

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DTSwithAI/file-service/code/go/fileservice.net/core/common"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/config"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/datastore"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexIdentifier = regexp.MustCompile(`^[0-9a-f]{64}$`)

func setupGateway(t *testing.T) (*StorageGateway, *transfer.FakeBackend) {
	t.Helper()

	_, err := datastore.UseInMemory()
	require.NoError(t, err)
	require.NoError(t, datastore.GetStore().AutoMigrate())

	backend := transfer.NewFakeBackend("/upload")

	cfg := &config.Config{
		PublicBaseURL: "http://files.example.com",
		PublicPort:    50000,
		FTP:           config.FTPConfig{BaseDir: "/upload"},
	}

	gw := NewStorageGateway(backend, cfg)
	gw.now = func() time.Time {
		return time.Date(2024, time.March, 5, 10, 30, 0, 0, time.UTC)
	}
	return gw, backend
}

func inTx(t *testing.T, f func(ctx context.Context) error) error {
	t.Helper()
	return datastore.GetStore().WithNewTransaction(f)
}

func TestUploadPreviewDownloadRoundTrip(t *testing.T) {
	gw, backend := setupGateway(t)

	payload := make([]byte, 1024)
	for i := range payload {
		payload[i] = byte(i % 251)
	}

	var res *UploadResult
	err := inTx(t, func(ctx context.Context) error {
		var err error
		res, err = gw.Upload(ctx, payload, "invoice.pdf", "application/pdf", nil)
		return err
	})
	require.NoError(t, err)

	assert.Regexp(t, hexIdentifier, res.Identifier)
	assert.Equal(t, "http://files.example.com:50000/v1/file/download?code="+res.Identifier, res.RetrievalURL)
	assert.True(t, backend.HasFile("/upload/2024/03/05/invoice.pdf"))
	assert.Equal(t, 0, backend.OpenSessions())

	var preview *PreviewResult
	err = inTx(t, func(ctx context.Context) error {
		var err error
		preview, err = gw.Preview(ctx, res.Identifier)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "invoice.pdf", preview.OriginalName)
	assert.Equal(t, "pdf", preview.Extension)
	assert.Equal(t, int64(1024), preview.SizeBytes)
	assert.Equal(t, res.RetrievalURL, preview.RetrievalURL)

	var data []byte
	var name string
	err = inTx(t, func(ctx context.Context) error {
		var err error
		data, name, err = gw.Download(ctx, res.Identifier)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, "invoice.pdf", name)
	assert.Equal(t, 0, backend.OpenSessions())
}

func TestUploadSameNameYieldsDistinctIdentifiers(t *testing.T) {
	gw, _ := setupGateway(t)

	var first, second *UploadResult
	err := inTx(t, func(ctx context.Context) error {
		var err error
		if first, err = gw.Upload(ctx, []byte("v1"), "report.txt", "text/plain", nil); err != nil {
			return err
		}
		second, err = gw.Upload(ctx, []byte("v2"), "report.txt", "text/plain", nil)
		return err
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.Identifier, second.Identifier)
}

func TestPreviewUnknownIdentifier(t *testing.T) {
	gw, _ := setupGateway(t)

	err := inTx(t, func(ctx context.Context) error {
		_, err := gw.Preview(ctx, NewIdentifier("never-uploaded.bin"))
		return err
	})
	require.Error(t, err)
	assert.Equal(t, "file.not.found", common.ErrorCode(err))
}

func TestDownloadUnknownIdentifier(t *testing.T) {
	gw, backend := setupGateway(t)

	err := inTx(t, func(ctx context.Context) error {
		_, _, err := gw.Download(ctx, NewIdentifier("never-uploaded.bin"))
		return err
	})
	require.Error(t, err)
	assert.Equal(t, "file.not.found", common.ErrorCode(err))
	// no session is opened when the record is missing
	assert.Equal(t, 0, backend.Dials())
}

func TestUploadDeclinedStoreLeavesNoRecord(t *testing.T) {
	gw, backend := setupGateway(t)
	backend.RejectStores = true

	err := inTx(t, func(ctx context.Context) error {
		_, err := gw.Upload(ctx, []byte("x"), "full-disk.bin", "application/octet-stream", nil)
		return err
	})
	require.Error(t, err)
	assert.Equal(t, "file.upload.failed", common.ErrorCode(err))
	assert.Equal(t, 0, backend.OpenSessions())
}

func TestUploadDialFailure(t *testing.T) {
	gw, backend := setupGateway(t)
	backend.DialErr = common.NewError(transfer.CodeConnection, "backend unreachable")

	err := inTx(t, func(ctx context.Context) error {
		_, err := gw.Upload(ctx, []byte("x"), "a.txt", "text/plain", nil)
		return err
	})
	require.Error(t, err)
	assert.Equal(t, "file.upload.failed", common.ErrorCode(err))
}

func TestDownloadObjectRemovedOutOfBand(t *testing.T) {
	gw, backend := setupGateway(t)

	var res *UploadResult
	err := inTx(t, func(ctx context.Context) error {
		var err error
		res, err = gw.Upload(ctx, []byte("doomed"), "doomed.txt", "text/plain", nil)
		return err
	})
	require.NoError(t, err)

	backend.RemoveFile("/upload/2024/03/05/doomed.txt")

	err = inTx(t, func(ctx context.Context) error {
		_, _, err := gw.Download(ctx, res.Identifier)
		return err
	})
	require.Error(t, err)
	// distinct from file.not.found: the record exists, the object is gone
	assert.Equal(t, "file.download.failed", common.ErrorCode(err))
	assert.Equal(t, 0, backend.OpenSessions())
}

func TestUploadEmptyNameRejected(t *testing.T) {
	gw, backend := setupGateway(t)

	err := inTx(t, func(ctx context.Context) error {
		_, err := gw.Upload(ctx, []byte("x"), "", "text/plain", nil)
		return err
	})
	require.Error(t, err)
	assert.Equal(t, 0, backend.Dials())
}
