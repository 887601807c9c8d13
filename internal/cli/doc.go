// Package cli parses command-line arguments for the micrograd tool, builds
// its logger and renders the traced graph of a differentiated program.
package cli
