// Package loader registers the bundled kv drivers.
//
//	import _ "github.com/MrSnakeDoc/tuck/internal/kv/loader"
package loader

import (
	_ "github.com/MrSnakeDoc/tuck/internal/kv/file"
	_ "github.com/MrSnakeDoc/tuck/internal/kv/redis"
	_ "github.com/MrSnakeDoc/tuck/internal/kv/sqlite"
)
