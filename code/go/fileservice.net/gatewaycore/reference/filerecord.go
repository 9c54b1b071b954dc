package reference

import (
	"context"
	"errors"
	"strings"

	"github.com/DTSwithAI/file-service/code/go/fileservice.net/core/cache"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/core/common"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/datastore"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const TableNameFileRecords = "file_records"

// FileRecord is the persisted metadata of one stored object, keyed by the
// identifier returned to clients. Records are write-once: there are no update
// or delete operations, which is what makes the read cache safe.
type FileRecord struct {
	ID           int64          `gorm:"column:id;primaryKey" json:"-"`
	Identifier   string         `gorm:"column:identifier;size:64;not null;uniqueIndex:idx_file_records_identifier" json:"identifier"`
	RemotePath   string         `gorm:"column:remote_path;size:512;not null" json:"remote_path"`
	OriginalName string         `gorm:"column:original_name;size:255;not null" json:"original_name"`
	Extension    string         `gorm:"column:extension;size:64" json:"extension"`
	ContentType  string         `gorm:"column:content_type;size:255" json:"content_type"`
	SizeBytes    int64          `gorm:"column:size_bytes;not null" json:"size_bytes"`
	RetrievalURL string         `gorm:"column:retrieval_url;size:1024;not null" json:"retrieval_url"`
	CustomMeta   datatypes.JSON `gorm:"column:custom_meta" json:"custom_meta,omitempty"`
	datastore.ModelWithTS
}

// TableName get table name of FileRecord
func (FileRecord) TableName() string {
	return TableNameFileRecords
}

func init() {
	datastore.RegisterModel(&FileRecord{})
}

var recordCache = cache.NewLRUCache(10 * 1024)

// Extension derives the filename extension: the substring after the last dot,
// empty when the name has no dot.
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return name[i+1:]
}

// Save persists the record inside the transaction carried by ctx. Callers
// must only invoke this after the backend confirmed the store. The cache is
// not touched here: the surrounding transaction may still roll back, and only
// committed records may ever be served.
func Save(ctx context.Context, record *FileRecord) error {
	tx := datastore.GetStore().GetTransaction(ctx)
	if err := tx.Create(record).Error; err != nil {
		return common.NewErrorf("file.record.save.failed", "saving file record: %v", err)
	}
	return nil
}

// GetByIdentifier resolves an identifier to its record. Unknown identifiers
// yield the stable file.not.found code, never a raw DB error.
func GetByIdentifier(ctx context.Context, identifier string) (*FileRecord, error) {
	if cached, err := recordCache.Get(identifier); err == nil {
		if record, ok := cached.(*FileRecord); ok {
			return record, nil
		}
	}

	tx := datastore.GetStore().GetTransaction(ctx)

	record := &FileRecord{}
	err := tx.Where("identifier = ?", identifier).Take(record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewError("file.not.found", "no file with the given code")
		}
		return nil, common.NewErrorf("file.record.lookup.failed", "looking up file record: %v", err)
	}

	recordCache.Add(record.Identifier, record) //nolint:errcheck
	return record, nil
}

// ListRecordedNames returns the original file names recorded under one remote
// directory. Used by the orphan sweeper only.
func ListRecordedNames(ctx context.Context, remotePath string) (map[string]bool, error) {
	tx := datastore.GetStore().GetTransaction(ctx)

	var names []string
	err := tx.Model(&FileRecord{}).
		Where("remote_path = ?", remotePath).
		Pluck("original_name", &names).Error
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}
	return known, nil
}
