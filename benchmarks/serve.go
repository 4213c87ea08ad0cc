package benchmarks

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/zeu5/pacman-rl/dashboard"
	"github.com/zeu5/pacman-rl/logging"
	"github.com/zeu5/pacman-rl/types"
)

func ServeCommand() *cobra.Command {
	var addr string
	var stay bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Train while serving progress on the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				c.Dashboard.Address = addr
			}
			ctx, stop := interruptContext()
			defer stop()

			board := dashboard.NewBoard(ctx, c.Dashboard.Address, c.Dashboard.Keep, c.Training.Window)
			board.Start()

			_, err = Train(ctx, c, TrainOptions{
				Runs:      1,
				Quiet:     true,
				Observers: []types.Observer{board},
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if err != nil {
				return err
			}
			if stay {
				logging.Info().Add(logging.Component("cli")).Msg("training finished, serving until interrupted")
				<-ctx.Done()
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&addr, "addr", ":8080", "Dashboard listen address")
	cmd.PersistentFlags().BoolVar(&stay, "stay", false, "Keep serving after training finishes")
	return cmd
}
