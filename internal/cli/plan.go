package cli

import (
	"fmt"

	"github.com/disiqueira/gotree/v3"
	"github.com/spf13/cobra"

	"github.com/askiada/go-stpipe/pkg/pipeline"
)

func newPlanCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <config>",
		Short: "Print the steps of a pipeline configuration as a tree",
		Long: `
Prints every step under the steps it depends on, and the execution order.
A step depending on several steps appears under each of them.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := pipeline.LoadConfig(args[0])
			if err != nil {
				return err
			}
			pipe, err := cfg.Build()
			if err != nil {
				return err
			}
			tree, order, err := planTree(pipe)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.stdout, "%sorder: %v\n", tree.Print(), order)

			return err
		},
	}
}

// planTree returns the steps of pipe as a tree rooted at the pipeline name,
// and their execution order.
func planTree(pipe *pipeline.Pipeline) (gotree.Tree, []string, error) {
	order, err := pipe.Plan()
	if err != nil {
		return nil, nil, err
	}
	dependents := make(map[string][]string, len(order))
	roots := []string{}
	for _, name := range order {
		after, err := pipe.After(name)
		if err != nil {
			return nil, nil, err
		}
		if len(after) == 0 {
			roots = append(roots, name)
		}
		for _, dep := range after {
			dependents[dep] = append(dependents[dep], name)
		}
	}

	root := gotree.New(pipe.Name())
	var add func(parent gotree.Tree, name string) error
	add = func(parent gotree.Tree, name string) error {
		info, err := pipe.Step(name)
		if err != nil {
			return err
		}
		label := name
		if info.Class != name {
			label += " (" + info.Class + ")"
		}
		if info.Skip {
			label += " [skip]"
		}
		node := parent.Add(label)
		for _, child := range dependents[name] {
			err := add(node, child)
			if err != nil {
				return err
			}
		}

		return nil
	}
	for _, name := range roots {
		err := add(root, name)
		if err != nil {
			return nil, nil, err
		}
	}

	return root, order, nil
}
