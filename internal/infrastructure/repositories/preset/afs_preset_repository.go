package preset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/minio/highwayhash"
	logger "github.com/sirupsen/logrus"
	"github.com/viant/afs"

	"github.com/rios0rios0/pomgraph/internal/domain/entities"
	"github.com/rios0rios0/pomgraph/internal/domain/repositories"
)

const (
	indexFile = "index.json"
	fileMode  = 0o644
)

var (
	errInvalidName = errors.New("invalid preset name")

	namePattern = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9._-]*$`)

	// fixed key: the hash only detects unchanged content, it is not a MAC
	hashKey = []byte("pomgraph-preset-fingerprint-key!") //nolint:gochecknoglobals // constant key
)

// AfsPresetRepository stores presets as <dir>/<name>.json plus <dir>/index.json
// on any storage supported by afs (local disk, memory, cloud buckets).
type AfsPresetRepository struct {
	dir  string
	href string
	fs   afs.Service
	now  func() time.Time
}

// NewAfsPresetRepository creates a preset repository writing below dir.
// Index entries reference presets relative to dir as configured.
func NewAfsPresetRepository(dir string) *AfsPresetRepository {
	location := dir
	if !strings.Contains(dir, "://") {
		if abs, err := filepath.Abs(dir); err == nil {
			location = abs
		}
	}
	return &AfsPresetRepository{
		dir:  location,
		href: filepath.ToSlash(dir),
		fs:   afs.New(),
		now:  time.Now,
	}
}

// Save writes the preset and replaces (or appends) its index entry. When the
// stored preset already has the same content hash and its file is still
// present, only the index is refreshed.
func (r *AfsPresetRepository) Save(
	ctx context.Context,
	name, runID string,
	graph *entities.GraphData,
) (repositories.SaveResult, error) {
	if !namePattern.MatchString(name) {
		return repositories.SaveResult{}, fmt.Errorf("%w: %q", errInvalidName, name)
	}

	data, err := json.Marshal(graph)
	if err != nil {
		return repositories.SaveResult{}, fmt.Errorf("failed to encode preset %q: %w", name, err)
	}
	hash, err := fingerprint(data)
	if err != nil {
		return repositories.SaveResult{}, err
	}

	index, err := r.Index(ctx)
	if err != nil {
		return repositories.SaveResult{}, err
	}

	entry := repositories.IndexEntry{
		Name:      name,
		Href:      path.Join(r.href, name+".json"),
		Hash:      hash,
		RunID:     runID,
		UpdatedAt: r.now().UTC(),
	}

	unchanged := false
	for _, existing := range index {
		if existing.Name == name && existing.Hash == hash {
			unchanged = true
			entry.UpdatedAt = existing.UpdatedAt
		}
	}
	if unchanged {
		// the index may outlive the preset file
		exists, existsErr := r.fs.Exists(ctx, r.presetURL(name))
		if existsErr != nil {
			return repositories.SaveResult{}, fmt.Errorf("failed to check preset %q: %w", name, existsErr)
		}
		if !exists {
			unchanged = false
			entry.UpdatedAt = r.now().UTC()
		}
	}

	if !unchanged {
		if uploadErr := r.fs.Upload(ctx, r.presetURL(name), fileMode, bytes.NewReader(data)); uploadErr != nil {
			return repositories.SaveResult{}, fmt.Errorf("failed to write preset %q: %w", name, uploadErr)
		}
	} else {
		logger.Infof("Preset %q is unchanged (hash %s)", name, hash)
	}

	index = upsert(index, entry)
	if writeErr := r.writeIndex(ctx, index); writeErr != nil {
		return repositories.SaveResult{}, writeErr
	}

	return repositories.SaveResult{Entry: entry, Unchanged: unchanged}, nil
}

// Load reads a preset back into a graph.
func (r *AfsPresetRepository) Load(ctx context.Context, name string) (*entities.GraphData, error) {
	if !namePattern.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", errInvalidName, name)
	}

	url := r.presetURL(name)
	exists, err := r.fs.Exists(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to check preset %q: %w", name, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %q", repositories.ErrPresetNotFound, name)
	}

	data, err := r.fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset %q: %w", name, err)
	}
	return DecodeGraph(data)
}

// Index returns the stored index, empty when none was written yet.
func (r *AfsPresetRepository) Index(ctx context.Context) ([]repositories.IndexEntry, error) {
	url := r.indexURL()
	exists, err := r.fs.Exists(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to check index: %w", err)
	}
	if !exists {
		return []repositories.IndexEntry{}, nil
	}

	data, err := r.fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	var index []repositories.IndexEntry
	if unmarshalErr := json.Unmarshal(data, &index); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse index: %w", unmarshalErr)
	}
	return index, nil
}

// DecodeGraph parses a {nodes, edges} preset.
func DecodeGraph(data []byte) (*entities.GraphData, error) {
	var view entities.GraphView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, fmt.Errorf("failed to parse preset: %w", err)
	}
	return entities.NewGraphDataFrom(view.Nodes, view.Edges), nil
}

func (r *AfsPresetRepository) writeIndex(ctx context.Context, index []repositories.IndexEntry) error {
	data, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	if uploadErr := r.fs.Upload(ctx, r.indexURL(), fileMode, bytes.NewReader(data)); uploadErr != nil {
		return fmt.Errorf("failed to write index: %w", uploadErr)
	}
	return nil
}

func (r *AfsPresetRepository) presetURL(name string) string {
	return strings.TrimSuffix(r.dir, "/") + "/" + name + ".json"
}

func (r *AfsPresetRepository) indexURL() string {
	return strings.TrimSuffix(r.dir, "/") + "/" + indexFile
}

// upsert replaces the entry with the same name in place, or appends it.
func upsert(index []repositories.IndexEntry, entry repositories.IndexEntry) []repositories.IndexEntry {
	for i, existing := range index {
		if existing.Name == entry.Name {
			index[i] = entry
			return index
		}
	}
	return append(index, entry)
}

func fingerprint(data []byte) (string, error) {
	hash, err := highwayhash.New64(hashKey)
	if err != nil {
		return "", fmt.Errorf("failed to create hash: %w", err)
	}
	if _, writeErr := hash.Write(data); writeErr != nil {
		return "", fmt.Errorf("failed to hash preset: %w", writeErr)
	}
	return strconv.FormatUint(hash.Sum64(), 16), nil
}
