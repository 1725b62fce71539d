package registry

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/vk/pipegraph/internal/config"
	"github.com/vk/pipegraph/internal/ctxlog"
)

// ValidateModel performs a strict parity check between the loaded manifest
// and the registered transports: every remote's worker endpoint must parse
// and its scheme must have a registered transport. All failures are
// collected so a broken manifest is reported in one pass.
func (r *Registry) ValidateModel(ctx context.Context, model *config.Model) error {
	logger := ctxlog.FromContext(ctx)
	var errs []string

	var checkRemotes func(scope string, remotes []*config.Remote, modules []*config.Module)
	checkRemotes = func(scope string, remotes []*config.Remote, modules []*config.Module) {
		for _, remote := range remotes {
			u, err := url.Parse(remote.Worker)
			if err != nil {
				errs = append(errs, fmt.Sprintf("remote '%s.%s': invalid worker URL %q: %v", scope, remote.Name, remote.Worker, err))
				continue
			}
			if u.Scheme == "" {
				errs = append(errs, fmt.Sprintf("remote '%s.%s': worker URL %q has no scheme", scope, remote.Name, remote.Worker))
				continue
			}
			if _, ok := r.Transports[u.Scheme]; !ok {
				errs = append(errs, fmt.Sprintf("remote '%s.%s': no transport registered for scheme %q", scope, remote.Name, u.Scheme))
			}
		}
		for _, mod := range modules {
			checkRemotes(scope+"."+mod.Name, mod.Remotes, mod.Modules)
		}
	}

	for _, p := range model.Pipelines {
		checkRemotes(p.Name, p.Remotes, p.Modules)
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Debug("Registry validation passed.", "pipelines", len(model.Pipelines))
	return nil
}
