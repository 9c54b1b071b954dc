package transfer

import (
	"context"
	"testing"
	"time"

	"github.com/DTSwithAI/file-service/code/go/fileservice.net/core/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanPath(t *testing.T) {
	now := time.Date(2024, time.March, 5, 13, 37, 0, 0, time.UTC)
	assert.Equal(t, []string{"2024", "03", "05"}, PlanPath(now))

	// single-digit month and day must still be two-digit segments
	now = time.Date(2031, time.January, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []string{"2031", "01", "09"}, PlanPath(now))
}

func dialFake(t *testing.T, backend *FakeBackend) Session {
	t.Helper()
	sess, err := backend.Dial(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { sess.Close() })
	return sess
}

func TestEnsurePathCreatesSegments(t *testing.T) {
	backend := NewFakeBackend("/upload")
	sess := dialFake(t, backend)

	full, err := EnsurePath(sess, "/upload", []string{"2024", "03", "05"})
	require.NoError(t, err)
	assert.Equal(t, "/upload/2024/03/05", full)
	assert.True(t, backend.HasDir("/upload/2024/03/05"))
}

func TestEnsurePathIsIdempotent(t *testing.T) {
	backend := NewFakeBackend("/upload")

	for i := 0; i < 2; i++ {
		sess := dialFake(t, backend)
		full, err := EnsurePath(sess, "/upload", []string{"2024", "03", "05"})
		require.NoError(t, err)
		assert.Equal(t, "/upload/2024/03/05", full)
	}

	// exactly one directory per segment, no duplicates
	sess := dialFake(t, backend)
	names, err := sess.ListNames("/upload")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024"}, names)
}

func TestEnsurePathToleratesCreateRace(t *testing.T) {
	backend := NewFakeBackend("/upload")

	// another caller wins the create between the listing and the MakeDir
	backend.MakeDirAll("/upload/2024/03/05")

	sess := dialFake(t, backend)
	full, err := EnsurePath(sess, "/upload", []string{"2024", "03", "05"})
	require.NoError(t, err)
	assert.Equal(t, "/upload/2024/03/05", full)
}

func TestEnsurePathFailsOnMissingBase(t *testing.T) {
	backend := NewFakeBackend("/upload")
	sess := dialFake(t, backend)

	_, err := EnsurePath(sess, "/elsewhere", []string{"2024"})
	require.Error(t, err)
	assert.Equal(t, CodeDirectory, common.ErrorCode(err))
}
