package library

// DefaultExpType is used for models that do not declare an exposure type.
const DefaultExpType = "SCIENCE"

// DefaultModelFilename is used for models that do not declare a filename.
const DefaultModelFilename = "model.asdf"

// AsnMeta holds the association provenance written into every model.
type AsnMeta struct {
	TableName string
	PoolName  string
}

// Meta is the mutable metadata namespace of a model.
type Meta struct {
	Filename        string
	ExpType         string
	GroupID         string
	TweakregCatalog string
	Asn             AsnMeta
}

// Model is a data model owned by a library.
//
// The library tracks borrowed models by identity, so implementations should
// use pointer receivers: two equal values of a non-pointer type are the same
// ledger key. Models whose dynamic value cannot be used as a map key are
// rejected with ErrInvalidInput.
type Model interface {
	// Meta returns the model metadata. Changes through the pointer are kept.
	Meta() *Meta
	// Save writes the model to path.
	Save(path string) error
	// CRDSParameters returns the parameters used to select reference files.
	CRDSParameters() (map[string]any, error)
}

// Backend supplies the observatory specific operations a library needs.
type Backend interface {
	// CRDSObservatory names the observatory owning the models.
	CRDSObservatory() string
	// Open reads a model from path. opts are passed through untouched.
	Open(path string, opts map[string]any) (Model, error)
	// LoadAssociation parses the association manifest at path.
	LoadAssociation(path string) (Manifest, error)
	// FilenameToGroupID reads the group id stored in the file at path
	// without opening the full model. It returns ErrNoGroupID if there is none.
	FilenameToGroupID(path string) (string, error)
	// ModelToGroupID reads the group id of an open model.
	// It returns ErrNoGroupID if there is none.
	ModelToGroupID(model Model) (string, error)
}

func modelFilename(model Model) string {
	if name := model.Meta().Filename; name != "" {
		return name
	}

	return DefaultModelFilename
}

func modelExpType(model Model) string {
	if exptype := model.Meta().ExpType; exptype != "" {
		return exptype
	}

	return DefaultExpType
}
