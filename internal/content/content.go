// Package content resolves selection keys to background markup.
//
// A key names a file "<key>.html" directly under the store's root. The store
// never fails loudly: Lookup returns a Result whose Kind says why nothing was
// found, and callers decide what to do with a miss.
package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

// Extension is appended to a key to derive its file name.
const Extension = ".html"

//go:embed media/*.html
var media embed.FS

// Kind classifies a lookup outcome.
type Kind int

const (
	KindFound Kind = iota
	KindNotFound
	KindUnreadable
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindFound:
		return "found"
	case KindNotFound:
		return "not-found"
	case KindUnreadable:
		return "unreadable"
	case KindInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result is the outcome of resolving a key.
type Result struct {
	Key    string
	Markup string
	Kind   Kind
	Err    error
}

// OK reports whether the lookup produced content.
func (r Result) OK() bool {
	return r.Kind == KindFound
}

// Source is anything that can resolve a selection key.
type Source interface {
	Lookup(key string) Result
}

// Store reads content files from a filesystem.
type Store struct {
	fsys fs.FS
	root string
}

var _ Source = (*Store)(nil)

// New wraps fsys. root is only used for display and resource-root reporting.
func New(fsys fs.FS, root string) *Store {
	return &Store{fsys: fsys, root: root}
}

// NewDir serves content from a directory on disk.
func NewDir(root string) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("content root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content root %s is not a directory", root)
	}
	return New(os.DirFS(root), root), nil
}

// Embedded serves the backgrounds compiled into the binary.
func Embedded() *Store {
	sub, err := fs.Sub(media, "media")
	if err != nil {
		panic(fmt.Sprintf("content: embedded media missing: %v", err))
	}
	return New(sub, "embedded:media")
}

// Root describes where content is read from.
func (s *Store) Root() string {
	return s.root
}

// FileName returns the file a key resolves to, or false for keys that cannot
// name a file directly under the root.
func FileName(key string) (string, bool) {
	if key == "" || key == "." || key == ".." {
		return "", false
	}
	if strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) {
		return "", false
	}
	name := key + Extension
	if !fs.ValidPath(name) {
		return "", false
	}
	return name, true
}

// Lookup reads the content for key.
func (s *Store) Lookup(key string) Result {
	name, ok := FileName(key)
	if !ok {
		return Result{Key: key, Kind: KindInvalid, Err: fmt.Errorf("invalid key %q", key)}
	}
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		kind := KindUnreadable
		if errors.Is(err, fs.ErrNotExist) {
			kind = KindNotFound
		}
		return Result{Key: key, Kind: kind, Err: err}
	}
	return Result{Key: key, Markup: string(data), Kind: KindFound}
}

// Exists reports whether key resolves to a regular file.
func (s *Store) Exists(key string) bool {
	name, ok := FileName(key)
	if !ok {
		return false
	}
	info, err := fs.Stat(s.fsys, name)
	return err == nil && info.Mode().IsRegular()
}

// Keys lists every key available under the root, sorted.
func (s *Store) Keys() []string {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil
	}
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != Extension {
			continue
		}
		keys = append(keys, strings.TrimSuffix(entry.Name(), Extension))
	}
	sort.Strings(keys)
	return keys
}
