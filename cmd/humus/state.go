package main

import (
	"fmt"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/humus"
	"github.com/aretw0/humus/pkg/adapters/fs"
	"github.com/aretw0/humus/pkg/core"
)

var stateDiagram bool

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the state of the service and its store",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := openService(cmd)
		if err != nil {
			fatal("Error initializing humus", err)
		}
		defer humus.Close(svc)

		out := cmd.OutOrStdout()
		if stateDiagram {
			config := introspection.DefaultDiagramConfig()
			config.SecondaryID = "humus"
			config.SecondaryLabel = "Store Topology"
			fmt.Fprintln(out, introspection.TreeDiagram(buildTree(svc), config))
			return
		}

		report := map[string]any{
			"service":  svc.State(),
			"registry": svc.Registry().State(),
		}
		if intro, ok := svc.Store().(introspection.Introspectable); ok {
			report["store"] = intro.State()
		}
		if err := writeJSON(out, report); err != nil {
			fatal("Error encoding state", err)
		}
	},
}

// stateNode is one box of the topology diagram.
// Status must match a class of introspection.DefaultStyles().
type stateNode struct {
	Name     string
	Status   string
	Metadata map[string]string
	Children []stateNode
}

func buildTree(svc *core.Service) stateNode {
	state := svc.State().(core.ServiceState)

	store := stateNode{
		Name:     "Store",
		Status:   "running",
		Metadata: map[string]string{"type": state.StoreType},
	}
	if intro, ok := svc.Store().(introspection.Introspectable); ok {
		if fsState, ok := intro.State().(fs.RepositoryState); ok {
			store.Metadata["path"] = fsState.Path
			store.Metadata["format"] = fsState.Format
			watcher := "suspended"
			if fsState.WatcherActive {
				watcher = "running"
			}
			store.Children = append(store.Children, stateNode{
				Name:     "Watcher",
				Status:   watcher,
				Metadata: map[string]string{"type": "goroutine"},
			})
		}
	}

	kinds := make([]stateNode, 0, len(state.Kinds))
	for _, k := range state.Kinds {
		kinds = append(kinds, stateNode{Name: k, Status: "running", Metadata: map[string]string{"type": "kind"}})
	}

	return stateNode{
		Name:     "Service",
		Status:   "running",
		Metadata: map[string]string{"type": "container"},
		Children: []stateNode{store, {
			Name:     "Registry",
			Status:   "running",
			Metadata: map[string]string{"type": "container"},
			Children: kinds,
		}},
	}
}

func init() {
	stateCmd.Flags().BoolVar(&stateDiagram, "diagram", false, "Print a Mermaid topology diagram")
	rootCmd.AddCommand(stateCmd)
}
