package transfer

import (
	"path"
	"time"

	"github.com/DTSwithAI/file-service/code/go/fileservice.net/core/common"
)

// PlanPath maps an instant to its dated directory segments: four-digit year,
// two-digit month, two-digit day. Pure function, no I/O.
func PlanPath(now time.Time) []string {
	return []string{
		now.Format("2006"),
		now.Format("01"),
		now.Format("02"),
	}
}

// EnsurePath walks the segments below baseDir, creating any that are missing,
// and returns the full path for use as the storage prefix.
//
// Idempotency: a failed create is tolerated as long as the directory can be
// entered afterwards, so two concurrent uploads racing on the same new
// day-directory both succeed. Only "cannot enter the directory" is an error.
func EnsurePath(sess Session, baseDir string, segments []string) (string, error) {
	if err := sess.ChangeDir(baseDir); err != nil {
		return "", common.NewErrorf(CodeDirectory, "entering base directory %q: %v", baseDir, err)
	}

	fullPath := baseDir
	for _, segment := range segments {
		exists, err := directoryExists(sess, segment)
		if err != nil {
			return "", common.NewErrorf(CodeDirectory, "listing %q: %v", fullPath, err)
		}
		if !exists {
			// a concurrent caller may win the create; the ChangeDir below is
			// the definitive existence check
			sess.MakeDir(segment) //nolint:errcheck
		}
		if err := sess.ChangeDir(segment); err != nil {
			return "", common.NewErrorf(CodeDirectory, "creating %q under %q: %v", segment, fullPath, err)
		}
		fullPath = path.Join(fullPath, segment)
	}
	return fullPath, nil
}

func directoryExists(sess Session, name string) (bool, error) {
	names, err := sess.ListNames(".")
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}
