// Package registry holds the variable mapping shared by submodels while a
// model is assembled: domain-qualified names such as
// "Negative electrode potential" bound to the symbols that define them.
package registry
