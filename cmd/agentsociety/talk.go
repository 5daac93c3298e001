package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentsociety/transport"
	"github.com/hupe1980/agentsociety/wire"
)

func newTalkCmd() *cobra.Command {
	var (
		configPath string
		from       string
		port       int
		kind       string
		extra      string
	)

	cmd := &cobra.Command{
		Use:   "talk <instruction>",
		Short: "Send one message to an agent",
		Long:  "Encodes a single frame stamped with --from and writes it to the agent listening on --port. Nothing is read back.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			k, err := wire.ParseKind(kind)
			if err != nil {
				return err
			}

			mouth, err := transport.NewMouth(from, cfg.Network, func(o *transport.MouthOptions) {
				o.Logger = newLogger(cfg.Logging, cmd.ErrOrStderr())
			})
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Network.DialTimeout)
			defer cancel()
			if err := mouth.Send(ctx, port, k, args[0], extra); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Sent %s message from %s to port %d\n", k, from, port)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to agentsociety config file")
	cmd.Flags().StringVar(&from, "from", "", "sender name stamped on the frame (required)")
	cmd.Flags().IntVar(&port, "port", 0, "destination port (required)")
	cmd.Flags().StringVar(&kind, "kind", wire.KindDefault.String(), "message kind (default, greeting)")
	cmd.Flags().StringVar(&extra, "extra", "", "extra payload, e.g. a comma separated attachment list")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("port")
	return cmd
}
