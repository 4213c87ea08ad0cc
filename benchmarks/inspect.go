package benchmarks

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/zeu5/pacman-rl/config"
	"github.com/zeu5/pacman-rl/pacman"
	"github.com/zeu5/pacman-rl/policies"
	"github.com/zeu5/pacman-rl/store"
)

// TableStats describes the contents of a Q-table.
type TableStats struct {
	Entries int
	States  int
	// Actions counts entries per action
	Actions map[pacman.Action]int
	Min     float64
	Max     float64
	Top     []policies.StateAction
	TopVals []float64
}

// Inspect summarizes table; top is the number of best valued entries kept.
func Inspect(table *policies.QTable, top int) TableStats {
	stats := TableStats{Actions: make(map[pacman.Action]int)}
	states := make(map[pacman.State]bool)
	type entry struct {
		key policies.StateAction
		val float64
	}
	entries := make([]entry, 0, table.Len())
	table.Range(func(k policies.StateAction, v float64) bool {
		if len(entries) == 0 || v < stats.Min {
			stats.Min = v
		}
		if len(entries) == 0 || v > stats.Max {
			stats.Max = v
		}
		states[k.State] = true
		stats.Actions[k.Action]++
		entries = append(entries, entry{k, v})
		return true
	})
	stats.Entries = len(entries)
	stats.States = len(states)

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].val != entries[j].val {
			return entries[i].val > entries[j].val
		}
		return entries[i].key.State.Hash()+entries[i].key.Action.Hash() < entries[j].key.State.Hash()+entries[j].key.Action.Hash()
	})
	if top > len(entries) {
		top = len(entries)
	}
	for _, e := range entries[:top] {
		stats.Top = append(stats.Top, e.key)
		stats.TopVals = append(stats.TopVals, e.val)
	}
	return stats
}

func printStats(name string, stats TableStats) {
	fmt.Printf("Policy: %s\n", name)
	fmt.Printf("Entries: %d, States: %d, Min: %.3f, Max: %.3f\n", stats.Entries, stats.States, stats.Min, stats.Max)
	for _, a := range pacman.AllActions {
		fmt.Printf("  %-5s %d\n", a.String(), stats.Actions[a])
	}
	for i, k := range stats.Top {
		fmt.Printf("%3d. %10.3f %-5s %s\n", i+1, stats.TopVals[i], k.Action.String(), k.State.Hash())
	}
}

func InspectCommand() *cobra.Command {
	var top int
	var list bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print statistics of the saved policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := context.Background()
			if list {
				return listPolicies(ctx, c)
			}
			s, policyName, closeStore, err := c.OpenStore()
			if err != nil {
				return err
			}
			defer closeStore()
			if s == nil {
				return fmt.Errorf("%w: no store configured", config.ErrInvalid)
			}
			table := policies.NewQTable()
			if err := s.Load(ctx, policyName, table); err != nil {
				return err
			}
			printStats(policyName, Inspect(table, top))
			return nil
		},
	}
	cmd.PersistentFlags().IntVar(&top, "top", 10, "Number of best valued entries to print")
	cmd.PersistentFlags().BoolVar(&list, "list", false, "List the policies of the sqlite store")
	return cmd
}

func listPolicies(ctx context.Context, c *config.Config) error {
	if c.Store.Backend != config.BackendSQLite {
		return fmt.Errorf("%w: --list needs the sqlite backend", config.ErrInvalid)
	}
	db, err := store.OpenSQLite(c.Store.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	infos, err := db.List(ctx)
	if err != nil {
		return err
	}
	for _, info := range infos {
		fmt.Printf("%-20s v%d %8d entries, updated %d\n", info.Name, info.Version, info.Entries, info.UpdatedAt)
	}
	return nil
}
