package datastore_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	mocket "github.com/selvatico/go-mocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/datastore"

	// registers the FileRecord model for AutoMigrate
	_ "github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/reference"
)

func TestMocketStore(t *testing.T) {
	datastore.UseMocket(false)

	mocket.Catcher.Reset()
	mocket.Catcher.NewMock().
		WithQuery(`SELECT count(*) FROM file_records`).
		WithReply([]map[string]interface{}{{"count": 3}})

	var count int64
	err := datastore.GetStore().WithNewTransaction(func(ctx context.Context) error {
		tx := datastore.GetStore().GetTransaction(ctx)
		return tx.Raw("SELECT count(*) FROM file_records").Scan(&count).Error
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestSqlmockStore(t *testing.T) {
	store := datastore.UseSqlmock()

	store.Sqlmock.ExpectBegin()
	store.Sqlmock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	store.Sqlmock.ExpectCommit()

	var count int64
	err := datastore.GetStore().WithNewTransaction(func(ctx context.Context) error {
		tx := datastore.GetStore().GetTransaction(ctx)
		return tx.Raw("SELECT count(*) FROM file_records").Scan(&count).Error
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestInMemoryStoreTransactionRollback(t *testing.T) {
	_, err := datastore.UseInMemory()
	require.NoError(t, err)
	require.NoError(t, datastore.GetStore().AutoMigrate())

	rollbackErr := assert.AnError
	err = datastore.GetStore().WithNewTransaction(func(ctx context.Context) error {
		tx := datastore.GetStore().GetTransaction(ctx)
		if err := tx.Exec(
			`INSERT INTO file_records (identifier, remote_path, original_name, size_bytes, retrieval_url)
			 VALUES ('ffff6666ffff6666ffff6666ffff6666ffff6666ffff6666ffff6666ffff6666',
			         '/upload/2024/01/01', 'rollback.txt', 1, 'http://x')`,
		).Error; err != nil {
			return err
		}
		return rollbackErr
	})
	require.ErrorIs(t, err, rollbackErr)

	var count int64
	err = datastore.GetStore().WithNewTransaction(func(ctx context.Context) error {
		tx := datastore.GetStore().GetTransaction(ctx)
		return tx.Raw(
			"SELECT count(*) FROM file_records WHERE original_name = 'rollback.txt'",
		).Scan(&count).Error
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
