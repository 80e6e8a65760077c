package ingest

import (
	"bufio"
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/futig/support-backend/internal/entity"
	"github.com/futig/support-backend/internal/vectorstore"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/unidoc/unioffice/document"
	"go.uber.org/zap"
)

const (
	processedLedger = ".processed"
	rosterFile      = "HumanAssistants.txt"
	minChunkLen     = 20
)

var supportedExtensions = map[string]struct{}{
	".txt":  {},
	".md":   {},
	".docx": {},
}

// Ingester reads a tenant's document directory, splits supported files into
// overlapping chunks and feeds them to the tenant's vector index. A content
// hash ledger skips unchanged files on re-ingestion unless force is set.
type Ingester struct {
	documentsDir string
	manager      *vectorstore.Manager
	chunker      *Chunker
	logger       *zap.Logger
}

func NewIngester(documentsDir string, manager *vectorstore.Manager, chunker *Chunker, logger *zap.Logger) *Ingester {
	return &Ingester{
		documentsDir: documentsDir,
		manager:      manager,
		chunker:      chunker,
		logger:       logger,
	}
}

// IngestAll processes every supported file in the tenant's directory.
// With force set, the tenant index is cleared first and the hash ledger is
// ignored, so every file is re-chunked and re-embedded.
func (ing *Ingester) IngestAll(ctx context.Context, tenantID string, force bool) (*entity.IngestResult, error) {
	result := &entity.IngestResult{TenantID: tenantID}

	tenantDir := filepath.Join(ing.documentsDir, tenantID)
	if err := os.MkdirAll(tenantDir, 0o755); err != nil {
		return nil, fmt.Errorf("create tenant documents dir: %w", err)
	}

	files, err := ing.listDocuments(tenantDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		ctxzap.Info(ctx, "no documents found for tenant", zap.String("tenant_id", tenantID))
		return result, nil
	}

	processed := map[string]string{}
	if !force {
		processed = loadLedger(filepath.Join(tenantDir, processedLedger))
	}
	newLedger := make(map[string]string, len(files))
	var allChunks []entity.DocumentChunk

	for _, path := range files {
		name := filepath.Base(path)

		hash, err := fileHash(path)
		if err != nil {
			result.Errors = append(result.Errors, entity.IngestError{File: name, Error: err.Error()})
			continue
		}

		if !force {
			if prev, ok := processed[name]; ok && prev == hash {
				result.Skipped = append(result.Skipped, name)
				newLedger[name] = hash
				continue
			}
		}

		chunks, err := ing.processFile(ctx, tenantID, path)
		if err != nil {
			result.Errors = append(result.Errors, entity.IngestError{File: name, Error: err.Error()})
			continue
		}

		allChunks = append(allChunks, chunks...)
		result.Processed = append(result.Processed, name)
		newLedger[name] = hash
	}

	if len(allChunks) > 0 {
		idx, err := ing.manager.Get(tenantID)
		if err != nil {
			return nil, fmt.Errorf("get tenant index: %w", err)
		}
		if force {
			if err := idx.Clear(); err != nil {
				return nil, fmt.Errorf("clear index before re-ingest: %w", err)
			}
		}
		if err := idx.Add(allChunks); err != nil {
			return nil, fmt.Errorf("add chunks: %w", err)
		}
		result.TotalChunks = len(allChunks)
	}

	if err := saveLedger(filepath.Join(tenantDir, processedLedger), newLedger); err != nil {
		ctxzap.Warn(ctx, "failed to save processed ledger", zap.Error(err))
	}

	ctxzap.Info(ctx, "ingestion finished",
		zap.String("tenant_id", tenantID),
		zap.Int("processed", len(result.Processed)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("errors", len(result.Errors)),
		zap.Int("total_chunks", result.TotalChunks),
	)
	return result, nil
}

func (ing *Ingester) listDocuments(tenantDir string) ([]string, error) {
	entries, err := os.ReadDir(tenantDir)
	if err != nil {
		return nil, fmt.Errorf("read tenant documents dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || e.Name() == rosterFile {
			continue
		}
		if _, ok := supportedExtensions[strings.ToLower(filepath.Ext(e.Name()))]; !ok {
			continue
		}
		files = append(files, filepath.Join(tenantDir, e.Name()))
	}
	return files, nil
}

func (ing *Ingester) processFile(ctx context.Context, tenantID, path string) ([]entity.DocumentChunk, error) {
	text, err := extractText(path)
	if err != nil {
		return nil, err
	}

	parts := ing.chunker.Split(text)
	ingestedAt := time.Now().UTC()

	chunks := make([]entity.DocumentChunk, 0, len(parts))
	for i, part := range parts {
		if len(part) < minChunkLen {
			continue
		}
		chunks = append(chunks, entity.DocumentChunk{
			Content: part,
			Metadata: entity.ChunkMetadata{
				TenantID:   tenantID,
				Source:     filepath.Base(path),
				Page:       0,
				ChunkIndex: i,
				IngestedAt: ingestedAt,
			},
		})
	}

	ctxzap.Info(ctx, "processed document",
		zap.String("file", filepath.Base(path)),
		zap.Int("chunks", len(chunks)),
	)
	return chunks, nil
}

func extractText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		return string(data), nil
	case ".docx":
		return extractDocxText(path)
	default:
		return "", fmt.Errorf("unsupported extension: %s", filepath.Ext(path))
	}
}

func extractDocxText(path string) (string, error) {
	doc, err := document.Open(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer doc.Close()

	var sb strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			sb.WriteString(run.Text())
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// loadLedger reads the name:hash pairs of previously processed files.
// A missing or unreadable ledger means nothing was processed.
func loadLedger(path string) map[string]string {
	f, err := os.Open(path)
	if err != nil {
		return map[string]string{}
	}
	defer f.Close()

	ledger := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		name, hash, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		ledger[name] = hash
	}
	return ledger
}

func saveLedger(path string, ledger map[string]string) error {
	var sb strings.Builder
	for name, hash := range ledger {
		fmt.Fprintf(&sb, "%s:%s\n", name, hash)
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}
