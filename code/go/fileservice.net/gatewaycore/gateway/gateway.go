package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DTSwithAI/file-service/code/go/fileservice.net/core/common"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/core/logging"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/config"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/reference"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/transfer"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type UploadResult struct {
	Identifier   string `json:"identifier"`
	RetrievalURL string `json:"retrieval_url"`
}

type PreviewResult struct {
	RetrievalURL string `json:"retrieval_url"`
	Extension    string `json:"extension"`
	OriginalName string `json:"original_name"`
	SizeBytes    int64  `json:"size_bytes"`
}

// StorageGateway orchestrates uploads and downloads against the remote
// backend and the record store. One transfer session per operation, closed on
// every exit path; the record is persisted only after the backend confirms
// the store, so a record can never point at an object that was not written.
type StorageGateway struct {
	dialer        transfer.Dialer
	baseDir       string
	publicBaseURL string
	publicPort    int

	now func() time.Time
}

func NewStorageGateway(dialer transfer.Dialer, cfg *config.Config) *StorageGateway {
	return &StorageGateway{
		dialer:        dialer,
		baseDir:       cfg.FTP.BaseDir,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		publicPort:    cfg.PublicPort,
		now:           time.Now,
	}
}

// RetrievalURL builds the externally addressable URL embedding an identifier.
func (g *StorageGateway) RetrievalURL(identifier string) string {
	return fmt.Sprintf("%s:%d/v1/file/download?code=%s", g.publicBaseURL, g.publicPort, identifier)
}

// Upload stores the bytes under the dated remote directory and persists the
// record. Step order is fixed: ensure directory, store, persist; a failure at
// any step aborts the whole operation with no record written.
func (g *StorageGateway) Upload(ctx context.Context, data []byte, originalName, contentType string, customMeta []byte) (*UploadResult, error) {
	if originalName == "" {
		return nil, common.InvalidRequest("missing file name")
	}

	sess, err := g.dialer.Dial(ctx)
	if err != nil {
		logging.Logger.Error("upload: backend dial failed", zap.Error(err))
		return nil, common.NewError("file.upload.failed", "storage backend unavailable")
	}
	defer sess.Close() //nolint:errcheck

	directory, err := transfer.EnsurePath(sess, g.baseDir, transfer.PlanPath(g.now()))
	if err != nil {
		logging.Logger.Error("upload: directory provisioning failed", zap.Error(err))
		return nil, err
	}

	ok, err := sess.Store(directory, originalName, data)
	if err != nil {
		logging.Logger.Error("upload: store failed",
			zap.String("directory", directory), zap.String("name", originalName), zap.Error(err))
		return nil, common.NewError("file.upload.failed", "storing the file failed")
	}
	if !ok {
		logging.Logger.Warn("upload: store declined by backend",
			zap.String("directory", directory), zap.String("name", originalName))
		return nil, common.NewError("file.upload.failed", "backend declined the store")
	}

	identifier := NewIdentifier(originalName)
	retrievalURL := g.RetrievalURL(identifier)

	record := &reference.FileRecord{
		Identifier:   identifier,
		RemotePath:   directory,
		OriginalName: originalName,
		Extension:    reference.Extension(originalName),
		ContentType:  contentType,
		SizeBytes:    int64(len(data)),
		RetrievalURL: retrievalURL,
	}
	if len(customMeta) > 0 {
		record.CustomMeta = datatypes.JSON(customMeta)
	}

	if err := reference.Save(ctx, record); err != nil {
		// the remote object stays behind without a record; reconciled by the
		// offline sweep, never retried inline
		logging.Logger.Error("upload: record persistence failed",
			zap.String("identifier", identifier), zap.Error(err))
		return nil, common.NewError("file.upload.failed", "persisting the file record failed")
	}

	logging.Logger.Info("upload complete",
		zap.String("identifier", identifier),
		zap.String("directory", directory),
		zap.Int64("size", record.SizeBytes))

	return &UploadResult{Identifier: identifier, RetrievalURL: retrievalURL}, nil
}

// Preview is a pure record lookup; it never touches the backend.
func (g *StorageGateway) Preview(ctx context.Context, identifier string) (*PreviewResult, error) {
	record, err := reference.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	return &PreviewResult{
		RetrievalURL: record.RetrievalURL,
		Extension:    record.Extension,
		OriginalName: record.OriginalName,
		SizeBytes:    record.SizeBytes,
	}, nil
}

// Download resolves the identifier and fetches the bytes. A record without a
// retrievable object fails with file.download.failed, distinct from
// file.not.found, so callers can tell "never existed" from "existed but
// unavailable now".
func (g *StorageGateway) Download(ctx context.Context, identifier string) ([]byte, string, error) {
	record, err := reference.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, "", err
	}

	sess, err := g.dialer.Dial(ctx)
	if err != nil {
		logging.Logger.Error("download: backend dial failed",
			zap.String("identifier", identifier), zap.Error(err))
		return nil, "", common.NewError("file.download.failed", "storage backend unavailable")
	}
	defer sess.Close() //nolint:errcheck

	data, err := sess.Retrieve(record.RemotePath, record.OriginalName)
	if err != nil {
		logging.Logger.Error("download: retrieve failed",
			zap.String("identifier", identifier),
			zap.String("directory", record.RemotePath),
			zap.String("name", record.OriginalName),
			zap.Bool("missing_on_backend", transfer.IsNotFound(err)),
			zap.Error(err))
		return nil, "", common.NewError("file.download.failed", "retrieving the file failed")
	}

	return data, record.OriginalName, nil
}
