/*
Package catalog resolves configured submodels by kind.

A Catalog maps kind names ("decay", "interface", ...) to factories. Each
factory decodes the free-form options of a Spec into its own typed options
with mapstructure, so model files can describe submodels declaratively:

	submodels:
	  - kind: interface
	    domain: Negative
	    options:
	      kinetics: inverse-butler-volmer
	  - kind: whole-cell
	    options:
	      reaction: Li plating

Numeric option values become Scalars and string values become Parameters.
*/
package catalog
