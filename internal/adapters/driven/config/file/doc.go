// Package file provides file-based implementations of driven port interfaces.
//
// ConfigStore keeps settings in ~/.skilldex/config.toml. Keys are exposed in
// flattened dot notation ("publish.bucket") and written back as nested TOML
// tables.
package file
