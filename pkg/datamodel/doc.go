// Package datamodel provides a YAML-tree data model and the library backend reading it.
//
// A model file is a YAML document with a "meta" block, holding the metadata the model library reads and
// writes, and a free-form "data" block:
//
//	meta:
//	  filename: jw0001_cal.asdf
//	  exptype: SCIENCE
//	  group_id: jw0001_1
//	data:
//	  detector: NRCA1
package datamodel
