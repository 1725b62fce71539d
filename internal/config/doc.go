// Package config defines the format-agnostic model for pipeline manifests
// and the Loader interface that format-specific loaders implement. Nothing
// in this package depends on HCL; argument references arrive pre-parsed as
// ArgRef values.
package config
