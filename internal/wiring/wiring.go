// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/droidrun/depbuilder/internal/adapters/builder"
	_ "github.com/droidrun/depbuilder/internal/adapters/locator"
	_ "github.com/droidrun/depbuilder/internal/adapters/logger"
	_ "github.com/droidrun/depbuilder/internal/adapters/manifest"
	_ "github.com/droidrun/depbuilder/internal/adapters/pip"
	_ "github.com/droidrun/depbuilder/internal/adapters/pypi"
	_ "github.com/droidrun/depbuilder/internal/adapters/settings"
	_ "github.com/droidrun/depbuilder/internal/adapters/shell"
	_ "github.com/droidrun/depbuilder/internal/adapters/source"
	_ "github.com/droidrun/depbuilder/internal/adapters/state"
	_ "github.com/droidrun/depbuilder/internal/adapters/sysdeps"
	// Register app nodes.
	_ "github.com/droidrun/depbuilder/internal/app"
)
