// Package model provides the data structures shared by the pipeline and its
// features. It describes the steps of a pipeline and the hooks a feature
// receives while the pipeline is prepared and run.
package model
