package app

import (
	"github.com/vk/pipegraph/internal/registry"
	"github.com/vk/pipegraph/modules/socketio"
)

// coreModules is the definitive list of all transport modules that are
// compiled into the pipegraph binary.
var coreModules = []registry.Module{
	&socketio.Module{},
}
