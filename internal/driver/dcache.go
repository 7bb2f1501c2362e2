package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"astroid/internal/diag"
	"astroid/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 2

// Digest identifies a cache entry.
type Digest [32]byte

// DiskCache хранит результат разбора файла (диагностики и импорты) по хэшу
// содержимого, чтобы повторный анализ не строил дерево заново.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is what survives of a parsed file: enough to report its syntax
// diagnostics and re-check its imports without the tree. Spans are stored as
// byte offsets into the file.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Module      string
	Package     bool
	Path        string
	ContentHash Digest

	Diags   []CachedDiagnostic
	Imports []CachedImport
	Nodes   uint32

	// Broken: the file had syntax errors
	Broken bool
}

type CachedNote struct {
	Start, End uint32
	Msg        string
}

type CachedDiagnostic struct {
	Severity   uint8
	Code       uint16
	Message    string
	Start, End uint32
	Notes      []CachedNote
}

type CachedImport struct {
	Name        string
	Written     string
	Level       int
	Start, End  uint32
	FromPackage bool
	Whole       bool
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// CacheKey derives the entry key of a module: the same content parsed under a
// different module name or error limit is a different entry.
func CacheKey(module string, pkg bool, content [32]byte, maxDiagnostics int) Digest {
	h := sha256.New()
	var buf [8]byte
	binary.LittleEndian.PutUint16(buf[:2], diskCacheSchemaVersion)
	h.Write(buf[:2])
	h.Write([]byte(module))
	h.Write([]byte{0})
	if pkg {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	binary.LittleEndian.PutUint64(buf[:], uint64(max(maxDiagnostics, 0)))
	h.Write(buf[:])
	h.Write(content[:])
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Для удобства читаемости/очистки - подкаталог "files".
	return filepath.Join(c.dir, "files", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmp)
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	if err := os.Rename(tmp, p); err != nil {
		return err
	}
	renamed = true
	return nil
}

// Get reads and deserializes a payload. A missing entry is (false, nil).
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decoding cache entry: %w", err)
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог, чтобы параллельный Get не увидел полуудалённые файлы
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// resultToDiskPayload keeps only diagnostics located in the file itself.
func resultToDiskPayload(res *FileResult, hash [32]byte) *DiskPayload {
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Module:      res.Module,
		Package:     res.Package,
		Path:        res.Path,
		ContentHash: hash,
		Broken:      res.Bag.HasErrors(),
	}
	if res.Tree != nil {
		payload.Nodes = res.Tree.Nodes.Len()
	}
	for _, d := range res.Bag.Items() {
		if d.Primary.File != res.FileID {
			continue
		}
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		payload.Diags = append(payload.Diags, cd)
	}
	for _, imp := range res.Imports {
		payload.Imports = append(payload.Imports, CachedImport{
			Name:        imp.Name,
			Written:     imp.Written,
			Level:       imp.Level,
			Start:       imp.Span.Start,
			End:         imp.Span.End,
			FromPackage: imp.FromPackage,
			Whole:       imp.Whole,
		})
	}
	return payload
}

// diskPayloadToResult restores a result against fileID of the current FileSet.
// Returns nil for a payload of another schema.
func diskPayloadToResult(payload *DiskPayload, fileID source.FileID, path string, maxDiagnostics int) *FileResult {
	if payload == nil || payload.Schema != diskCacheSchemaVersion {
		return nil
	}
	span := func(start, end uint32) source.Span {
		return source.Span{File: fileID, Start: start, End: end}
	}
	bag := diag.NewBag(maxDiagnostics)
	for _, cd := range payload.Diags {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code), span(cd.Start, cd.End), cd.Message)
		for _, n := range cd.Notes {
			d = d.WithNote(span(n.Start, n.End), n.Msg)
		}
		bag.Add(d)
	}
	res := &FileResult{
		Path:    path,
		Module:  payload.Module,
		Package: payload.Package,
		FileID:  fileID,
		Bag:     bag,
		Cached:  true,
	}
	for _, ci := range payload.Imports {
		res.Imports = append(res.Imports, ImportRef{
			Name:        ci.Name,
			Written:     ci.Written,
			Level:       ci.Level,
			Span:        span(ci.Start, ci.End),
			FromPackage: ci.FromPackage,
			Whole:       ci.Whole,
		})
	}
	return res
}
