package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/pipegraph/internal/config"
	"github.com/vk/pipegraph/internal/ctxlog"
	"github.com/vk/pipegraph/internal/fsutil"
	"github.com/vk/pipegraph/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot decodes the top-level blocks of one manifest file.
type fileRoot struct {
	Pipelines []*schema.Pipeline `hcl:"pipeline,block"`
	Remain    hcl.Body           `hcl:",remain"`
}

// Load discovers and parses all manifest files under the given paths and
// merges their pipelines into one model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindHCLFiles(paths...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered manifest files.", "count", len(files))

	model := &config.Model{}
	seen := make(map[string]string)
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode %s: %w", file, diags)
		}

		for _, p := range root.Pipelines {
			if prev, ok := seen[p.Name]; ok {
				return nil, fmt.Errorf("pipeline %q in %s already declared in %s", p.Name, file, prev)
			}
			seen[p.Name] = file

			translated, err := l.translatePipeline(p)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			model.Pipelines = append(model.Pipelines, translated)
		}
	}

	logger.Debug("HCL loading complete.", "pipelines", len(model.Pipelines))
	return model, nil
}
