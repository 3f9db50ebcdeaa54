package app

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/avstrong/roomdash/internal/booking"
	"github.com/avstrong/roomdash/internal/config"
	"github.com/avstrong/roomdash/internal/logger"
)

func NewRootCommand() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "roomdash",
		Short:         "Room availability and booking dashboard backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	load := func() (*config.Config, *logger.Logger, error) {
		conf, err := config.Load(envFile)
		if err != nil {
			return nil, nil, fmt.Errorf("load config: %w", err)
		}

		l := logger.New(logger.Config{
			Level:   conf.LogLevel,
			Format:  conf.LogFormat,
			Service: serviceName,
		})

		return conf, l, nil
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(_ *cobra.Command, _ []string) error {
			conf, l, err := load()
			if err != nil {
				return err
			}

			return Run(l, conf)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "rooms",
		Short: "Print seeded rooms with their live status and free slots today",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, l, err := load()
			if err != nil {
				return err
			}

			// Printing needs no simulated network.
			conf.Latency = config.Latency{}

			deps, err := Build(cmd.Context(), l, conf)
			if err != nil {
				return err
			}

			defer func() {
				if err := deps.Shutdown(context.WithoutCancel(cmd.Context())); err != nil {
					l.LogErrorf("Failed to stop tracing: %v", err.Error())
				}
			}()

			return printRooms(cmd.Context(), cmd.OutOrStdout(), deps.Manager)
		},
	})

	return root
}

func printRooms(ctx context.Context, out io.Writer, m *booking.Manager) error {
	rooms, err := m.ListRooms(ctx)
	if err != nil {
		return fmt.Errorf("list rooms: %w", err)
	}

	today := m.Now().Format(booking.DateLayout)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0) //nolint:gomnd

	fmt.Fprintln(tw, "ID\tNUMBER\tNAME\tCAPACITY\tSTATUS\tFREE TODAY")

	for _, room := range rooms {
		slots, err := m.GetSlots(ctx, room.ID, today)
		if err != nil {
			return fmt.Errorf("get slots for room %v: %w", room.ID, err)
		}

		free := 0

		for _, slot := range slots {
			if slot.Available {
				free++
			}
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%d/%d\n", room.ID, room.RoomNumber, room.Name, room.Capacity, room.Status, free, len(slots))
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}
