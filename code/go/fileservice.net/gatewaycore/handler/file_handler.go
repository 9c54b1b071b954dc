package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"

	"github.com/DTSwithAI/file-service/code/go/fileservice.net/core/common"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/config"
)

// FormFileField is the multipart field carrying the file bytes.
const FormFileField = "file"

// UploadHandler accepts one multipart file, hands it to the gateway and
// responds with the identifier and retrieval URL.
func UploadHandler(ctx context.Context, r *http.Request) (interface{}, error) {
	maxSize := config.Configuration.MaxUploadSize
	if maxSize <= 0 {
		maxSize = 64 << 20
	}
	r.Body = http.MaxBytesReader(nil, r.Body, maxSize+(1<<20))

	if err := r.ParseMultipartForm(maxSize); err != nil {
		return nil, common.InvalidRequest("invalid multipart form: " + err.Error())
	}

	file, header, err := r.FormFile(FormFileField)
	if err != nil {
		return nil, common.InvalidRequest("missing file part")
	}
	defer file.Close() //nolint:errcheck

	if header.Size > maxSize {
		return nil, common.InvalidRequest("file exceeds the upload size limit")
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, common.NewError("file.upload.failed", "reading the uploaded bytes failed")
	}

	var customMeta []byte
	if meta := r.FormValue("custom_meta"); meta != "" {
		if !json.Valid([]byte(meta)) {
			return nil, common.InvalidRequest("custom_meta must be valid JSON")
		}
		customMeta = []byte(meta)
	}

	contentType := header.Header.Get("Content-Type")

	return storageGateway.Upload(ctx, data, header.Filename, contentType, customMeta)
}

// PreviewHandler resolves an identifier to the stored metadata without
// touching the backend.
func PreviewHandler(ctx context.Context, r *http.Request) (interface{}, error) {
	code := r.FormValue("code")
	if code == "" {
		return nil, common.InvalidRequest("missing code parameter")
	}

	return storageGateway.Preview(ctx, code)
}

// DownloadHandler resolves an identifier and streams the object back as an
// attachment named after the original upload.
func DownloadHandler(ctx context.Context, r *http.Request) ([]byte, string, error) {
	code := r.FormValue("code")
	if code == "" {
		return nil, "", common.InvalidRequest("missing code parameter")
	}

	return storageGateway.Download(ctx, code)
}

func HealthCheckHandler(ctx context.Context, r *http.Request) (interface{}, error) {
	return map[string]interface{}{
		"status": "ok",
		"time":   common.Now(),
	}, nil
}

func HomepageHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html;charset=UTF-8")
	fmt.Fprintf(w, "<!DOCTYPE html><html><body>")
	fmt.Fprintf(w, "<h1>File Service</h1>")
	fmt.Fprintf(w, "<div>Upload via POST /v1/file/upload, retrieve via GET /v1/file/download?code=...</div>")
	fmt.Fprintf(w, "<div>Go version: %v</div>", runtime.Version())
	fmt.Fprintf(w, "</body></html>")
}

// GetConfig dumps the running configuration; credentials stay out.
func GetConfig(ctx context.Context, r *http.Request) (interface{}, error) {
	return map[string]interface{}{
		"server_host":          config.Configuration.ServerHost,
		"server_port":          config.Configuration.ServerPort,
		"public_base_url":      config.Configuration.PublicBaseURL,
		"public_port":          config.Configuration.PublicPort,
		"ftp_host":             config.Configuration.FTP.Host,
		"ftp_port":             config.Configuration.FTP.Port,
		"ftp_base_dir":         config.Configuration.FTP.BaseDir,
		"max_upload_size":      config.Configuration.MaxUploadSize,
		"sweeper_grace_period": config.Configuration.SweeperGracePeriod.String(),
		"sweeper_num_workers":  config.Configuration.SweeperNumWorkers,
	}, nil
}
