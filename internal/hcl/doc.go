// Package hcl is the HCL-specific implementation of the config.Loader
// interface. It discovers manifest files, decodes pipeline blocks, and
// translates argument expressions like input.x, step.e, and step.e[0]
// into the format-agnostic reference model, validating that every
// reference points at something declared earlier.
package hcl
