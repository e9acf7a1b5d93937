package cli

import (
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/askiada/go-stpipe/pkg/datamodel"
	"github.com/askiada/go-stpipe/pkg/library"
)

// libraryFlags are the flags shared by the commands building a library.
type libraryFlags struct {
	observatory string
	onDisk      bool
	tempDir     string
	exptypes    []string
	maxMembers  int
	concurrency int
}

func (lf *libraryFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&lf.observatory, "observatory", "jwst", "observatory owning the models")
	flags.BoolVar(&lf.onDisk, "on-disk", false, "keep models in temporary files between steps")
	flags.StringVar(&lf.tempDir, "temp-dir", "", "directory of the temporary files, created if empty")
	flags.StringSliceVar(&lf.exptypes, "exptype", nil, "keep only members of these exposure types")
	flags.IntVar(&lf.maxMembers, "n-members", -1, "keep only the first members, negative keeps all")
	flags.IntVar(&lf.concurrency, "group-concurrency", 1, "number of member files read at once to find group ids")
}

func (lf *libraryFlags) open(asnPath string, logger *slog.Logger) (*library.Library, error) {
	opts := []library.Option{
		library.WithMaxMembers(lf.maxMembers),
		library.WithGroupIDConcurrency(lf.concurrency),
		library.WithLogger(logger),
	}
	if len(lf.exptypes) > 0 {
		opts = append(opts, library.WithExpTypes(lf.exptypes...))
	}
	if lf.onDisk {
		opts = append(opts, library.OnDisk(), library.WithTempDir(lf.tempDir))
	}

	return library.New(datamodel.NewBackend(lf.observatory), asnPath, opts...)
}
