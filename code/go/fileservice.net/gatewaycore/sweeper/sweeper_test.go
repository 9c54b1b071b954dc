package sweeper

import (
	"context"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/config"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/datastore"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/reference"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/transfer"
)

func storeFile(t *testing.T, backend *transfer.FakeBackend, dir, name string) {
	t.Helper()
	sess, err := backend.Dial(context.Background())
	require.NoError(t, err)
	defer sess.Close() //nolint:errcheck

	backend.MakeDirAll(dir)
	ok, err := sess.Store(dir, name, []byte("payload"))
	require.NoError(t, err)
	require.True(t, ok)
}

func recordFile(t *testing.T, dir, name string) {
	t.Helper()
	err := datastore.GetStore().WithNewTransaction(func(ctx context.Context) error {
		return reference.Save(ctx, &reference.FileRecord{
			Identifier:   name + "-identifier-padded-to-look-distinct",
			RemotePath:   dir,
			OriginalName: name,
			SizeBytes:    7,
			RetrievalURL: "http://files.example.com/v1/file/download?code=" + name,
		})
	})
	require.NoError(t, err)
}

func TestSweepDeletesOrphansOnly(t *testing.T) {
	_, err := datastore.UseInMemory()
	require.NoError(t, err)
	require.NoError(t, datastore.GetStore().AutoMigrate())

	backend := transfer.NewFakeBackend("/upload")

	staleDir := "/upload/2024/03/05"
	storeFile(t, backend, staleDir, "kept.txt")
	storeFile(t, backend, staleDir, "orphan.txt")
	recordFile(t, staleDir, "kept.txt")

	// a fresh directory inside the grace period must not be touched even
	// though nothing is recorded there yet
	freshDir := path.Join("/upload", path.Join(transfer.PlanPath(time.Now())...))
	storeFile(t, backend, freshDir, "in-flight.txt")

	cfg := &config.Config{
		FTP:                config.FTPConfig{BaseDir: "/upload"},
		SweeperGracePeriod: time.Hour,
		SweeperNumWorkers:  3,
	}

	report, err := Sweep(context.Background(), backend, cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, report.DirectoriesScanned)
	assert.Equal(t, 1, report.OrphansDeleted)
	assert.Equal(t, 0, report.Failures)

	assert.True(t, backend.HasFile(staleDir+"/kept.txt"))
	assert.False(t, backend.HasFile(staleDir+"/orphan.txt"))
	assert.True(t, backend.HasFile(freshDir+"/in-flight.txt"))
	assert.Equal(t, 0, backend.OpenSessions())
}

func TestSweepSparesActiveDayWestOfUTC(t *testing.T) {
	// pin the local clock just before midnight of the day prior to the UTC
	// date, the worst case for a timezone west of UTC
	restoreZone := time.Local
	t.Cleanup(func() { time.Local = restoreZone })
	utc := time.Now().UTC()
	shift := utc.Hour()*3600 + utc.Minute()*60 + utc.Second() + 60
	time.Local = time.FixedZone("WEST", -shift)

	_, err := datastore.UseInMemory()
	require.NoError(t, err)
	require.NoError(t, datastore.GetStore().AutoMigrate())

	backend := transfer.NewFakeBackend("/upload")

	// an upload is writing into today's local directory; its record has not
	// committed yet
	activeDir := path.Join("/upload", path.Join(transfer.PlanPath(time.Now())...))
	storeFile(t, backend, activeDir, "in-flight.txt")

	cfg := &config.Config{
		FTP:                config.FTPConfig{BaseDir: "/upload"},
		SweeperGracePeriod: time.Second,
		SweeperNumWorkers:  1,
	}

	report, err := Sweep(context.Background(), backend, cfg)
	require.NoError(t, err)

	assert.Equal(t, 0, report.OrphansDeleted)
	assert.True(t, backend.HasFile(activeDir+"/in-flight.txt"))
}

func TestSweepDialFailure(t *testing.T) {
	_, err := datastore.UseInMemory()
	require.NoError(t, err)
	require.NoError(t, datastore.GetStore().AutoMigrate())

	backend := transfer.NewFakeBackend("/upload")
	backend.DialErr = assert.AnError

	cfg := &config.Config{
		FTP:               config.FTPConfig{BaseDir: "/upload"},
		SweeperNumWorkers: 1,
	}

	_, err = Sweep(context.Background(), backend, cfg)
	require.Error(t, err)
}
