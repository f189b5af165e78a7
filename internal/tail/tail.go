// Package tail follows an append-only log file from its current end.
//
// DESIGN: The tailer is the log-source collaborator behind the stream
// processor's LineSource interface. Open waits for the file to exist,
// watching the parent directory for its creation and falling back to
// exponential backoff polling when the directory cannot be watched.
// Reading starts at the file end: history is never reprocessed.
package tail

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Tailer reads complete lines appended to a file.
// Not safe for concurrent use.
type Tailer struct {
	path    string
	file    *os.File
	reader  *bufio.Reader
	partial strings.Builder // bytes of a line whose newline has not arrived yet
}

// New creates a tailer for path. Call Open before NextLine.
func New(path string) *Tailer {
	return &Tailer{path: path}
}

// Open waits until the file exists, then positions at its end.
// It returns when the file is open or ctx is cancelled.
func (t *Tailer) Open(ctx context.Context) error {
	watcher := watchDir(filepath.Dir(t.path))
	if watcher != nil {
		defer watcher.Close()
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = 0 // wait forever; only ctx cancels

	logged := false
	for {
		f, err := os.Open(t.path)
		if err == nil {
			if _, err := f.Seek(0, io.SeekEnd); err != nil {
				f.Close()
				return fmt.Errorf("seek log file: %w", err)
			}
			t.file = f
			t.reader = bufio.NewReader(f)
			log.Info().Str("path", t.path).Msg("tailing log file")
			return nil
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("open log file: %w", err)
		}
		if !logged {
			log.Warn().Str("path", t.path).Msg("log file not found, waiting")
			logged = true
		}

		if err := t.waitForCreate(ctx, watcher, bo.NextBackOff()); err != nil {
			return err
		}
	}
}

// waitForCreate blocks until the file may have appeared: a create event for
// it, the backoff interval elapsing, or ctx cancellation.
func (t *Tailer) waitForCreate(ctx context.Context, watcher *fsnotify.Watcher, wait time.Duration) error {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	if watcher == nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) == filepath.Base(t.path) && ev.Op&fsnotify.Create != 0 {
				return nil
			}
		case err, ok := <-watcher.Errors:
			if ok {
				log.Debug().Err(err).Msg("log directory watch error")
			}
		}
	}
}

// NextLine returns the next complete line without its trailing newline.
// ok=false means no complete line has been appended yet; a fragment read
// ahead of its newline is buffered until the rest arrives.
func (t *Tailer) NextLine() (string, bool, error) {
	if t.reader == nil {
		return "", false, fmt.Errorf("tailer not opened")
	}

	chunk, err := t.reader.ReadString('\n')
	if err == nil {
		line := chunk
		if t.partial.Len() > 0 {
			line = t.partial.String() + chunk
			t.partial.Reset()
		}
		return strings.TrimRight(line, "\r\n"), true, nil
	}
	if errors.Is(err, io.EOF) {
		if chunk != "" {
			t.partial.WriteString(chunk)
		}
		return "", false, nil
	}
	return "", false, fmt.Errorf("read log file: %w", err)
}

// Close releases the underlying file.
func (t *Tailer) Close() error {
	if t.file == nil {
		return nil
	}
	return t.file.Close()
}

// watchDir returns a directory watcher, or nil when watching is not
// possible (missing directory, inotify exhaustion); callers then rely on
// backoff polling alone.
func watchDir(dir string) *fsnotify.Watcher {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Debug().Err(err).Msg("fsnotify unavailable, polling only")
		return nil
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		log.Debug().Err(err).Str("dir", dir).Msg("cannot watch log directory, polling only")
		return nil
	}
	return w
}
