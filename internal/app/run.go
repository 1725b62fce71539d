package app

import (
	"context"
	"fmt"

	"github.com/vk/pipegraph/internal/creator"
	"github.com/vk/pipegraph/internal/ctxlog"
	"github.com/vk/pipegraph/internal/model"
)

// Run builds the partition graph of every loaded pipeline and prints it.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if len(a.config.Pipelines) == 0 {
		a.logger.Warn("No pipelines found in manifest, nothing to build.")
		return nil
	}

	for _, p := range a.config.Pipelines {
		a.logger.Debug("Building pipeline graph.", "pipeline", p.Name)

		root, err := model.Build(ctx, p, a.registry)
		if err != nil {
			return fmt.Errorf("pipeline %q: failed to build module tree: %w", p.Name, err)
		}

		graph, err := creator.BuildGraph(ctx, root, p.Inputs)
		closeErr := root.Close()
		if err != nil {
			return fmt.Errorf("pipeline %q: failed to build graph: %w", p.Name, err)
		}
		if closeErr != nil {
			a.logger.Warn("Failed to close worker connections.", "pipeline", p.Name, "error", closeErr)
		}

		fmt.Fprintf(a.outW, "pipeline %s\n%s", p.Name, graph.DebugString())
		a.logger.Debug("Pipeline graph built.", "pipeline", p.Name, "layers", len(graph.Layers()))
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
