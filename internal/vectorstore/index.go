package vectorstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/futig/support-backend/internal/embedding"
	"github.com/futig/support-backend/internal/entity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	currentMarker = "CURRENT"
	vectorsFile   = "index.json"
	chunksFile    = "chunks.json"
	versionFile   = "version.txt"

	// DefaultTopK applies when a caller passes a non-positive topK. The
	// score floor is always the caller's: retrieval layers on top pick
	// their own, and a sentinel float would collide with legitimate
	// negative cosine floors.
	DefaultTopK = 3
)

// Index is a per-tenant persistent nearest-neighbor structure over embedded
// chunks. Chunks and vectors are parallel slices kept in lockstep; the version
// token changes if and only if the chunk set changes.
//
// Mutations hold the write lock and persist before returning, searches hold
// the read lock, so a reader never observes a half-applied add or clear.
type Index struct {
	tenantID string
	dir      string
	embedder embedding.Embedder
	logger   *zap.Logger

	mu      sync.RWMutex
	chunks  []entity.DocumentChunk
	vectors [][]float64
	version string
}

// SearchResult is a scored chunk returned by Search
type SearchResult struct {
	Chunk entity.DocumentChunk
	Score float64
}

// snapshot is the on-disk representation of one index generation. The vector
// file, chunk file and version marker live together in a generation directory;
// the CURRENT marker is swapped atomically to commit.
type snapshot struct {
	Dimension int         `json:"dimension"`
	Vectors   [][]float64 `json:"vectors"`
}

// Open loads the tenant's persisted index if one exists, otherwise starts
// empty. Absence or corruption of prior data is a normal state, never an error.
func Open(dir, tenantID string, embedder embedding.Embedder, logger *zap.Logger) (*Index, error) {
	idx := &Index{
		tenantID: tenantID,
		dir:      filepath.Join(dir, tenantID),
		embedder: embedder,
		logger:   logger.With(zap.String("tenant_id", tenantID)),
	}

	if err := os.MkdirAll(idx.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}

	if err := idx.load(); err != nil {
		idx.logger.Warn("failed to load persisted index, starting empty", zap.Error(err))
		idx.chunks = nil
		idx.vectors = nil
		idx.version = newVersion()
	}
	return idx, nil
}

// Version returns the current content version token
func (idx *Index) Version() string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.version
}

// Count returns the number of indexed chunks
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.chunks)
}

// Add embeds and appends chunks, regenerates the version and persists the new
// generation atomically. A failed persist rolls the in-memory state back so
// memory and disk never diverge.
func (idx *Index) Add(chunks []entity.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	// Embedding happens outside the lock; it touches no shared state.
	vectors := idx.embedder.EmbedBatch(texts)
	if len(vectors) != len(chunks) {
		return entity.ErrChunkVectorSkew
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	prevChunks, prevVectors, prevVersion := idx.chunks, idx.vectors, idx.version

	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}
	idx.chunks = append(idx.chunks[:len(idx.chunks):len(idx.chunks)], chunks...)
	idx.vectors = append(idx.vectors[:len(idx.vectors):len(idx.vectors)], vectors...)
	idx.version = newVersion()

	if err := idx.persist(); err != nil {
		idx.chunks, idx.vectors, idx.version = prevChunks, prevVectors, prevVersion
		return fmt.Errorf("persist index: %w", err)
	}

	idx.logger.Info("chunks added to index",
		zap.Int("added", len(chunks)),
		zap.Int("total", len(idx.chunks)),
		zap.String("version", idx.version),
	)
	return nil
}

// Search returns up to topK chunks with similarity >= minScore, sorted by
// similarity descending. An empty index returns an empty result.
func (idx *Index) Search(query string, topK int, minScore float64) []SearchResult {
	if topK <= 0 {
		topK = DefaultTopK
	}

	queryVec := idx.embedder.Embed(query)

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.vectors) == 0 {
		return nil
	}

	scored := make([]SearchResult, 0, len(idx.vectors))
	for i, vec := range idx.vectors {
		score := dot(vec, queryVec)
		if score < minScore {
			continue
		}
		scored = append(scored, SearchResult{Chunk: idx.chunks[i], Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}

// Clear resets the index to zero chunks under a new version and persists
func (idx *Index) Clear() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	prevChunks, prevVectors, prevVersion := idx.chunks, idx.vectors, idx.version

	idx.chunks = nil
	idx.vectors = nil
	idx.version = newVersion()

	if err := idx.persist(); err != nil {
		idx.chunks, idx.vectors, idx.version = prevChunks, prevVectors, prevVersion
		return fmt.Errorf("persist cleared index: %w", err)
	}

	idx.logger.Info("index cleared", zap.String("version", idx.version))
	return nil
}

// persist writes the vector file, chunk file and version marker into a fresh
// generation directory, then commits by renaming a temp CURRENT marker over
// the old one. Callers must hold the write lock.
func (idx *Index) persist() error {
	genDir := "gen-" + idx.version
	genPath := filepath.Join(idx.dir, genDir)
	if err := os.MkdirAll(genPath, 0o755); err != nil {
		return fmt.Errorf("create generation dir: %w", err)
	}

	snap := snapshot{Dimension: idx.embedder.Dimension(), Vectors: idx.vectors}
	if err := writeJSON(filepath.Join(genPath, vectorsFile), snap); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(genPath, chunksFile), idx.chunks); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(genPath, versionFile), []byte(idx.version), 0o644); err != nil {
		return fmt.Errorf("write version marker: %w", err)
	}

	// Atomic commit: the rename swaps all three artifacts at once.
	markerTmp := filepath.Join(idx.dir, currentMarker+".tmp")
	if err := os.WriteFile(markerTmp, []byte(genDir), 0o644); err != nil {
		return fmt.Errorf("write current marker: %w", err)
	}
	if err := os.Rename(markerTmp, filepath.Join(idx.dir, currentMarker)); err != nil {
		return fmt.Errorf("commit current marker: %w", err)
	}

	idx.removeStaleGenerations(genDir)
	return nil
}

func (idx *Index) load() error {
	marker, err := os.ReadFile(filepath.Join(idx.dir, currentMarker))
	if os.IsNotExist(err) {
		idx.version = newVersion()
		return nil
	}
	if err != nil {
		return fmt.Errorf("read current marker: %w", err)
	}

	genPath := filepath.Join(idx.dir, strings.TrimSpace(string(marker)))

	var snap snapshot
	if err := readJSON(filepath.Join(genPath, vectorsFile), &snap); err != nil {
		return err
	}
	if snap.Dimension != idx.embedder.Dimension() {
		return fmt.Errorf("%w: persisted %d, embedder %d",
			entity.ErrDimensionMismatch, snap.Dimension, idx.embedder.Dimension())
	}

	var chunks []entity.DocumentChunk
	if err := readJSON(filepath.Join(genPath, chunksFile), &chunks); err != nil {
		return err
	}
	if len(chunks) != len(snap.Vectors) {
		return entity.ErrChunkVectorSkew
	}

	versionBytes, err := os.ReadFile(filepath.Join(genPath, versionFile))
	if err != nil {
		return fmt.Errorf("read version file: %w", err)
	}

	idx.chunks = chunks
	idx.vectors = snap.Vectors
	idx.version = strings.TrimSpace(string(versionBytes))

	idx.logger.Info("loaded persisted index",
		zap.Int("chunks", len(chunks)),
		zap.String("version", idx.version),
	)
	return nil
}

// removeStaleGenerations best-effort deletes generation dirs other than keep
func (idx *Index) removeStaleGenerations(keep string) {
	entries, err := os.ReadDir(idx.dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() || e.Name() == keep || !strings.HasPrefix(e.Name(), "gen-") {
			continue
		}
		if err := os.RemoveAll(filepath.Join(idx.dir, e.Name())); err != nil {
			idx.logger.Warn("failed to remove stale generation", zap.String("dir", e.Name()), zap.Error(err))
		}
	}
}

func newVersion() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
