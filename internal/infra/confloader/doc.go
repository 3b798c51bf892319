// Package confloader loads securestore configuration.
//
// It uses koanf to merge sources with priority Flag > Env > File >
// Default. Defaults come from the prepopulated target struct; the
// loader only overlays what the higher-priority sources define.
package confloader
