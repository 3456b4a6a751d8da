/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package fsys

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Forgetter drops cached knowledge about a path.
type Forgetter interface {
	Forget(path string)
}

// Watcher forwards file system changes under a set of directories to a
// Forgetter, so cached existence checks never outlive the file they
// describe.
type Watcher struct {
	fsw   *fsnotify.Watcher
	cache Forgetter
}

// NewWatcher creates a watcher that invalidates entries of cache.
func NewWatcher(cache Forgetter) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	return &Watcher{fsw: fsw, cache: cache}, nil
}

// Add watches root and every directory below it.
func (w *Watcher) Add(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching directory %s: %w", path, err)
		}
		return nil
	})
}

// Run processes events until ctx is done or the watcher is closed.
// onChange, if not nil, is called with every invalidated path.
func (w *Watcher) Run(ctx context.Context, onChange func(path string, op fsnotify.Op)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !isRelevant(event) {
				continue
			}
			w.cache.Forget(event.Name)
			// New directories need their own watch.
			if event.Has(fsnotify.Create) {
				_ = w.Add(event.Name)
			}
			if onChange != nil {
				onChange(event.Name, event.Op)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching: %w", err)
		}
	}
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// isRelevant keeps the events that can change an existence check.
func isRelevant(event fsnotify.Event) bool {
	return event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
