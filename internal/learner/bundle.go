package learner

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"

	"github.com/odysseyquest/odyssey/internal/store"
)

// BundleVersion is written into every export. Imports must share its
// major version.
const BundleVersion = "v1.0.0"

// ErrIncompatibleExport is returned for bundles that fail validation or
// come from an incompatible major version.
var ErrIncompatibleExport = errors.New("incompatible export bundle")

//go:embed bundle.schema.json
var bundleSchemaJSON []byte

var (
	bundleSchemaOnce sync.Once
	bundleSchema     *jsonschema.Schema
	bundleSchemaErr  error
)

// Bundle is the portable export of the learner's core documents.
type Bundle struct {
	Version      string                 `json:"version"`
	ExportedAt   time.Time              `json:"exportedAt"`
	User         *User                  `json:"user"`
	Progress     *Progress              `json:"progress"`
	Achievements map[string]Achievement `json:"achievements"`
}

// Export snapshots user, progress and achievements.
func (s *Service) Export(ctx context.Context) (Bundle, error) {
	b := Bundle{Version: BundleVersion, ExportedAt: s.now()}

	u, err := s.User(ctx)
	if err != nil {
		return Bundle{}, err
	}
	b.User = u

	var p Progress
	found, err := s.kv.Load(ctx, store.KeyProgress, &p)
	if err != nil {
		return Bundle{}, fmt.Errorf("load progress: %w", err)
	}
	if found {
		b.Progress = &p
	}

	if b.Achievements, err = s.Achievements(ctx); err != nil {
		return Bundle{}, err
	}
	return b, nil
}

// Import validates raw as an export bundle and writes back whichever of
// its documents are present.
func (s *Service) Import(ctx context.Context, raw []byte) (Bundle, error) {
	if err := validateBundle(raw); err != nil {
		return Bundle{}, fmt.Errorf("%w: %w", ErrIncompatibleExport, err)
	}

	var b Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return Bundle{}, fmt.Errorf("%w: decode: %w", ErrIncompatibleExport, err)
	}
	if semver.Major(b.Version) != semver.Major(BundleVersion) {
		return Bundle{}, fmt.Errorf("%w: version %s, want %s.x", ErrIncompatibleExport, b.Version, semver.Major(BundleVersion))
	}

	if b.User != nil {
		if err := s.save(ctx, store.KeyUser, b.User); err != nil {
			return Bundle{}, err
		}
	}
	if b.Progress != nil {
		// Overall is derived, never trusted from the file.
		b.Progress.Overall = computeOverall(b.Progress.Subjects, s.now())
		if err := s.save(ctx, store.KeyProgress, b.Progress); err != nil {
			return Bundle{}, err
		}
	}
	if len(b.Achievements) > 0 {
		if err := s.save(ctx, store.KeyAchievements, b.Achievements); err != nil {
			return Bundle{}, err
		}
	}
	return b, nil
}

func validateBundle(raw []byte) error {
	bundleSchemaOnce.Do(func() {
		bundleSchema, bundleSchemaErr = compileBundleSchema()
	})
	if bundleSchemaErr != nil {
		return fmt.Errorf("compile bundle schema: %w", bundleSchemaErr)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := bundleSchema.Validate(inst); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func compileBundleSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(bundleSchemaJSON))
	if err != nil {
		return nil, err
	}
	const url = "schema://bundle.json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(url)
}
