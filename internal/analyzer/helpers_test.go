package analyzer

import (
	"errors"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

var errDisk = errors.New("disk on fire")

// brokenFs fails reads for the paths in readErr and panics on open for the
// paths in panics. Everything else goes to the wrapped Fs.
type brokenFs struct {
	afero.Fs
	readErr map[string]bool
	panics  map[string]bool
}

func (b brokenFs) Open(name string) (afero.File, error) {
	if b.panics[name] {
		panic("corrupted handle for " + name)
	}
	f, err := b.Fs.Open(name)
	if err != nil {
		return nil, err
	}
	if b.readErr[name] {
		return failingFile{File: f}, nil
	}
	return f, nil
}

type failingFile struct{ afero.File }

func (failingFile) Read([]byte) (int, error) { return 0, errDisk }

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for path, body := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(body), os.FileMode(0o644)))
	}
}

func nullLogger() (*logrus.Logger, *logtest.Hook) {
	return logtest.NewNullLogger()
}
