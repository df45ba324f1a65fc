package folders

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"authorstore/internal/metrics"
)

// Manager owns one user's folders. Mutations apply to local state first and
// are then written through as the full folder array. A failed write is
// reported but local state is kept; the next successful write carries it.
type Manager struct {
	userID string
	docs   DocumentStore
	blobs  BlobStore
	logger *zap.Logger

	mu        sync.Mutex
	loaded    bool
	folders   []Folder
	nextID    int
	progress  map[int]int
	uploading map[int]bool

	// saveMu orders writes so the latest one always sends the newest array.
	saveMu sync.Mutex
}

func NewManager(userID string, docs DocumentStore, blobs BlobStore, logger *zap.Logger) *Manager {
	return &Manager{
		userID:    userID,
		docs:      docs,
		blobs:     blobs,
		logger:    logger.With(zap.String("user", userID)),
		nextID:    1,
		progress:  make(map[int]int),
		uploading: make(map[int]bool),
	}
}

// ensureLoaded must be called with m.mu held.
func (m *Manager) ensureLoaded(ctx context.Context) error {
	if m.loaded {
		return nil
	}
	folders, err := m.docs.LoadFolders(ctx, m.userID)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("load_folders").Inc()
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	m.folders = folders
	for _, f := range folders {
		m.nextID = max(m.nextID, f.ID+1)
	}
	m.loaded = true
	return nil
}

func (m *Manager) indexOf(id int) int {
	for i, f := range m.folders {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) snapshotLocked() []Folder {
	out := make([]Folder, len(m.folders))
	for i, f := range m.folders {
		out[i] = f.clone()
	}
	return out
}

// Folders returns a copy of the user's folders, loading them on first use.
func (m *Manager) Folders(ctx context.Context) ([]Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return m.snapshotLocked(), nil
}

// Create appends a folder with the next id and the default name.
func (m *Manager) Create(ctx context.Context) (Folder, error) {
	m.mu.Lock()
	if err := m.ensureLoaded(ctx); err != nil {
		m.mu.Unlock()
		return Folder{}, err
	}
	f := Folder{ID: m.nextID, Name: DefaultFolderName, Files: []File{}}
	m.nextID++
	m.folders = append(m.folders, f)
	m.mu.Unlock()

	return f, m.persist(ctx)
}

func (m *Manager) Rename(ctx context.Context, id int, name string) (Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Folder{}, ErrInvalidName
	}

	m.mu.Lock()
	if err := m.ensureLoaded(ctx); err != nil {
		m.mu.Unlock()
		return Folder{}, err
	}
	i := m.indexOf(id)
	if i < 0 {
		m.mu.Unlock()
		return Folder{}, fmt.Errorf("rename %d: %w", id, ErrNotFound)
	}
	m.folders[i].Name = name
	f := m.folders[i].clone()
	m.mu.Unlock()

	return f, m.persist(ctx)
}

func (m *Manager) Remove(ctx context.Context, id int) error {
	m.mu.Lock()
	if err := m.ensureLoaded(ctx); err != nil {
		m.mu.Unlock()
		return err
	}
	i := m.indexOf(id)
	if i < 0 {
		m.mu.Unlock()
		return fmt.Errorf("remove %d: %w", id, ErrNotFound)
	}
	m.folders = append(m.folders[:i:i], m.folders[i+1:]...)
	delete(m.progress, id)
	m.mu.Unlock()

	return m.persist(ctx)
}

// Progress is the upload percentage for a folder; 0 when idle.
func (m *Manager) Progress(id int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.progress[id]
}

// Attach stores each upload in the blob store and appends it to the folder as
// soon as it is stored. Progress is tracked over the combined size and reset
// to 0 when the call returns. Files stored before a failure stay attached.
func (m *Manager) Attach(ctx context.Context, id int, uploads []Upload) (Folder, error) {
	m.mu.Lock()
	if err := m.ensureLoaded(ctx); err != nil {
		m.mu.Unlock()
		return Folder{}, err
	}
	if m.indexOf(id) < 0 {
		m.mu.Unlock()
		return Folder{}, fmt.Errorf("attach to %d: %w", id, ErrNotFound)
	}
	if m.uploading[id] {
		m.mu.Unlock()
		return Folder{}, fmt.Errorf("attach to %d: %w", id, ErrUploadInFlight)
	}
	m.uploading[id] = true
	m.progress[id] = 0
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.uploading, id)
		delete(m.progress, id)
		m.mu.Unlock()
	}()

	var total int64
	for _, u := range uploads {
		total += max(u.Size, 0)
	}
	tracker := &progressTracker{m: m, folderID: id, total: total}

	var uploadErr error
	attached := 0
	for _, u := range uploads {
		key := m.userID + "/" + strconv.Itoa(id) + "/" + u.Name
		url, checksum, err := m.blobs.Put(ctx, key, &countingReader{r: u.Body, t: tracker})
		if err != nil {
			metrics.OperationErrorsTotal.WithLabelValues("store_blob").Inc()
			uploadErr = fmt.Errorf("%w: %s: %w", ErrUpload, u.Name, err)
			break
		}
		if !m.appendFile(id, File{Name: u.Name, URL: url, Checksum: checksum}) {
			uploadErr = fmt.Errorf("attach to %d: %w", id, ErrNotFound)
			break
		}
		attached++
	}

	if attached > 0 {
		if err := m.persist(ctx); err != nil {
			uploadErr = errors.Join(uploadErr, err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return Folder{}, errors.Join(uploadErr, fmt.Errorf("attach to %d: %w", id, ErrNotFound))
	}
	return m.folders[i].clone(), uploadErr
}

func (m *Manager) appendFile(id int, f File) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return false
	}
	m.folders[i].Files = append(m.folders[i].Files, f)
	return true
}

// persist writes the current full local array.
func (m *Manager) persist(ctx context.Context) error {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.mu.Lock()
	folders := m.snapshotLocked()
	m.mu.Unlock()

	if err := m.docs.SaveFolders(ctx, m.userID, folders); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("save_folders").Inc()
		m.logger.Error("error saving folders", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

type progressTracker struct {
	m        *Manager
	folderID int
	total    int64
	read     int64
}

func (t *progressTracker) add(n int) {
	t.read += int64(n)
	metrics.UploadedBytesTotal.Add(float64(n))
	if t.total <= 0 {
		return
	}
	pct := int(min(t.read*100/t.total, 100))

	t.m.mu.Lock()
	if t.m.uploading[t.folderID] {
		t.m.progress[t.folderID] = pct
	}
	t.m.mu.Unlock()
}

type countingReader struct {
	r io.Reader
	t *progressTracker
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.t.add(n)
	}
	return n, err
}
