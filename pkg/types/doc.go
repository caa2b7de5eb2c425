// Package types defines the layer entity types, the Label entity, the
// export document format, configuration, and the standard error values
// shared by the store, codec, and CLI.
package types
