// Package steps registers the built-in steps in the default pipeline
// registry. Import it for its side effects:
//
//	import _ "github.com/askiada/go-stpipe/pkg/steps"
package steps
