// Package config provides the configuration for tessera.
//
// Configuration is a plain value built once at startup. Sources are layered
// with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority (Options)
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← TESSERA_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← TOML or YAML
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: file (TOML, YAML) and environment loading, map merging
//
// # Basic Usage
//
//	cfg, err := config.Load("tessera.toml", config.WithLogLevel("debug"))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Screen.Width)
//
// Environment variables follow TESSERA_SECTION_SETTING, so
// TESSERA_SCREEN_TRUE_COLOR sets screen.trueColor. The shorthands
// TESSERA_WIDTH, TESSERA_HEIGHT, TESSERA_SCENE, TESSERA_LOG_LEVEL and
// TESSERA_LOG_FILE are also recognized.
package config
