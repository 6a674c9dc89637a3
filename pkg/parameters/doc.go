// Package parameters declares the symbolic parameters submodels are
// written against. Values are never stored here: every parameter is a
// named leaf resolved through symbol.Inputs when the compiled system is
// evaluated.
package parameters
