package transfer

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/DTSwithAI/file-service/code/go/fileservice.net/core/common"
)

// FakeBackend is an in-memory stand-in for the remote storage host, shared by
// the tests of every package that needs a Dialer. It mimics the backend's
// stateful navigation model: sessions carry a working directory, MakeDir on an
// existing directory fails just like a real MKD reply does.
type FakeBackend struct {
	mu    sync.Mutex
	dirs  map[string]bool
	files map[string][]byte
	open  int
	dials int

	// failure injection
	DialErr       error
	RejectStores  bool
	RetrieveFault bool
}

func NewFakeBackend(baseDir string) *FakeBackend {
	b := &FakeBackend{
		dirs:  make(map[string]bool),
		files: make(map[string][]byte),
	}
	b.dirs[path.Clean(baseDir)] = true
	return b
}

func (b *FakeBackend) Dial(ctx context.Context) (Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dials++
	if b.DialErr != nil {
		return nil, b.DialErr
	}
	b.open++
	return &fakeSession{backend: b, cwd: "/"}, nil
}

// OpenSessions reports sessions not yet closed; tests assert it drops to zero.
func (b *FakeBackend) OpenSessions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

func (b *FakeBackend) Dials() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dials
}

func (b *FakeBackend) HasDir(p string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dirs[path.Clean(p)]
}

func (b *FakeBackend) HasFile(p string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.files[path.Clean(p)]
	return ok
}

// FilePaths lists every stored object path, in no particular order.
func (b *FakeBackend) FilePaths() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	paths := make([]string, 0, len(b.files))
	for p := range b.files {
		paths = append(paths, p)
	}
	return paths
}

// RemoveFile deletes an object out-of-band, bypassing any session.
func (b *FakeBackend) RemoveFile(p string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.files, path.Clean(p))
}

// MakeDirAll pre-creates a directory chain, as if another caller had already
// provisioned it.
func (b *FakeBackend) MakeDirAll(p string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p = path.Clean(p)
	for p != "/" && p != "." {
		b.dirs[p] = true
		p = path.Dir(p)
	}
}

type fakeSession struct {
	backend *FakeBackend
	cwd     string
	closed  bool
}

func (s *fakeSession) resolve(p string) string {
	if path.IsAbs(p) {
		return path.Clean(p)
	}
	return path.Join(s.cwd, p)
}

func (s *fakeSession) ChangeDir(p string) error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	target := s.resolve(p)
	if !b.dirs[target] {
		return fmt.Errorf("550 %s: no such directory", target)
	}
	s.cwd = target
	return nil
}

func (s *fakeSession) MakeDir(p string) error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	target := s.resolve(p)
	if b.dirs[target] {
		return fmt.Errorf("550 %s: already exists", target)
	}
	if parent := path.Dir(target); !b.dirs[parent] {
		return fmt.Errorf("550 %s: no such directory", parent)
	}
	b.dirs[target] = true
	return nil
}

func (s *fakeSession) ListNames(dir string) ([]string, error) {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	target := s.resolve(dir)
	var names []string
	for d := range b.dirs {
		if path.Dir(d) == target {
			names = append(names, path.Base(d))
		}
	}
	for f := range b.files {
		if path.Dir(f) == target {
			names = append(names, path.Base(f))
		}
	}
	return names, nil
}

func (s *fakeSession) Store(directory, filename string, data []byte) (bool, error) {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.RejectStores {
		return false, nil
	}
	dir := s.resolve(directory)
	if !b.dirs[dir] {
		return false, nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	b.files[path.Join(dir, filename)] = cp
	return true, nil
}

func (s *fakeSession) Retrieve(directory, filename string) ([]byte, error) {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.RetrieveFault {
		return nil, common.NewError(CodeTransfer, "injected transfer fault")
	}
	data, ok := b.files[path.Join(s.resolve(directory), filename)]
	if !ok {
		return nil, common.NewErrorf(CodeNotFound, "%s not on backend", filename)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *fakeSession) Delete(directory, filename string) error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	p := path.Join(s.resolve(directory), filename)
	if _, ok := b.files[p]; !ok {
		return common.NewErrorf(CodeNotFound, "%s not on backend", filename)
	}
	delete(b.files, p)
	return nil
}

func (s *fakeSession) Close() error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	b.open--
	return nil
}

var _ Session = (*fakeSession)(nil)
var _ Dialer = (*FakeBackend)(nil)

// FilePath joins the pieces of a fake object path; mirrors how the gateway
// composes remote locations, so tests read the same way.
func FilePath(parts ...string) string {
	return path.Clean(strings.Join(parts, "/"))
}
