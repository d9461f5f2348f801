package analyzer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const (
	// 라인 길이 제한 없음: 버퍼보다 긴 라인은 조각 단위로 처리
	scanBufSize = 64 * 1024

	DefaultProgressEvery = 100_000
)

// Scanner processes one file at a time: it streams the file line by line,
// collects matches into a file-local set and reports status to the store.
type Scanner struct {
	fs    afero.Fs
	ext   *Extractor
	store *StatusStore
	log   logrus.FieldLogger

	// progressEvery lines between intermediate Processing updates; 0 disables.
	progressEvery int64
	bufSize       int
	now           func() time.Time
}

func NewScanner(fs afero.Fs, ext *Extractor, store *StatusStore, log logrus.FieldLogger) *Scanner {
	return &Scanner{
		fs:            fs,
		ext:           ext,
		store:         store,
		log:           log,
		progressEvery: DefaultProgressEvery,
		bufSize:       scanBufSize,
		now:           time.Now,
	}
}

// ScanFile never returns an error: failures are recorded as an Error status
// and an empty set is returned. lines is the number of lines read.
func (s *Scanner) ScanFile(path, name string) (ips map[string]struct{}, lines int64) {
	s.store.Update(name, Processing, 0, 0)

	defer func() {
		if r := recover(); r != nil {
			s.fail(name, fmt.Errorf("panic: %v", r))
			ips, lines = map[string]struct{}{}, 0
		}
	}()

	local, lines, err := s.scan(path, name)
	if err != nil {
		s.fail(name, err)
		return map[string]struct{}{}, lines
	}
	return local, lines
}

func (s *Scanner) scan(path, name string) (map[string]struct{}, int64, error) {
	started := s.now()

	f, err := s.fs.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	reader := bufio.NewReaderSize(f, s.bufSize)

	local := make(map[string]struct{})
	var (
		lines  int64
		window []byte
		carry  []byte
	)

	for {
		chunk, isPrefix, err := reader.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, lines, err
		}

		// chunk belongs to the reader; copy it behind the undecided tail
		window = append(append(window[:0], carry...), chunk...)
		carry = carry[:0]

		if isPrefix {
			ips, rest := s.ext.ExtractPartial(window)
			for _, ip := range ips {
				local[ip] = struct{}{}
			}
			carry = append(carry, window[rest:]...)
			continue
		}

		lines++
		for _, ip := range s.ext.Extract(window) {
			local[ip] = struct{}{}
		}
		if s.progressEvery > 0 && lines%s.progressEvery == 0 {
			s.store.Update(name, Processing, lineRate(lines, s.now().Sub(started)), len(local))
		}
	}

	rate := lineRate(lines, s.now().Sub(started))
	s.store.Update(name, Ready, rate, len(local))
	s.log.WithFields(logrus.Fields{
		"file":   name,
		"lines":  lines,
		"unique": len(local),
		"rate":   rate,
	}).Debug("file scanned")
	return local, lines, nil
}

func (s *Scanner) fail(name string, err error) {
	s.store.Update(name, Failed(err.Error()), 0, 0)
	s.log.WithField("file", name).WithError(err).Warn("file scan failed")
}

// lineRate is lines per wall-clock second rounded to two decimals. Elapsed
// times under a millisecond are treated as zero and yield the line count.
func lineRate(lines int64, elapsed time.Duration) float64 {
	if elapsed.Truncate(time.Millisecond) <= 0 {
		return float64(lines)
	}
	return math.Round(float64(lines)/elapsed.Seconds()*100) / 100
}
