// Package pipeline runs a sequence of steps over a model library.
//
// Steps form a directed acyclic graph. A step added without dependencies
// follows the step added before it, so a plain list of steps runs in order.
// Each step receives its parameters merged from, lowest priority first:
//
//   - the defaults given when the step is added;
//   - a ParameterProvider, usually backed by reference files selected with the
//     library CRDS parameters;
//   - the parameters of the configuration file;
//   - the overrides given to Run.
//
// Steps are registered by name so a pipeline can be described by a YAML
// configuration file:
//
//	name: calwebb
//	output_dir: out
//	steps:
//	  - name: flag
//	    class: update_data
//	    parameters:
//	      flagged: true
//	  - name: assign
//	    class: set_exptype
//	    save_results: true
//	    suffix: cal
//
// Features such as timing and drawing are attached with WithFeatures and are
// notified as the pipeline is prepared and run.
package pipeline
