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

// Package fsys provides the file-system checks the loader relies on:
// an afero-backed regular-file test, a TTL stat cache in front of it, and
// an fsnotify watcher that keeps the cache honest.
package fsys

import (
	"github.com/spf13/afero"

	"dirpx.dev/autoload/apis"
)

// FS answers apis.FileSystem questions against an afero.Fs.
type FS struct {
	fs afero.Fs
}

// Ensure FS implements apis.FileSystem.
var _ apis.FileSystem = (*FS)(nil)

// New wraps fs. A nil fs means the operating system file system.
func New(fs afero.Fs) *FS {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FS{fs: fs}
}

// IsRegularFile reports whether path exists and is a regular file.
// Symbolic links are followed.
func (f *FS) IsRegularFile(path string) bool {
	if path == "" {
		return false
	}
	fi, err := f.fs.Stat(path)
	if err != nil {
		return false
	}
	return fi.Mode().IsRegular()
}

// Afero returns the underlying afero.Fs.
func (f *FS) Afero() afero.Fs {
	return f.fs
}
