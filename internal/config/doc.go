// Package config loads model files: the mesh, the submodels to assemble
// and the parameter values used to evaluate the compiled system.
package config
