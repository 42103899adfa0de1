package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aeolun/ircweb/pkg/client"
	"github.com/aeolun/ircweb/pkg/feed"
	"github.com/aeolun/ircweb/pkg/session"
	"pkt.systems/pslog"
)

func newFeedCmd(opts *options) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Subscribe to the event feed and print each batch as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			clientID := client.NewClientID()
			_, source, err := newTransports(ctx, cfg, clientID, nil)
			if err != nil {
				return err
			}
			pslog.Ctx(ctx).Info("feed subscribing", "server", cfg.Server.URL, "transport", cfg.Server.Transport, "client_id", clientID)
			return dumpFeed(ctx, cmd.OutOrStdout(), source, count)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "stop after this many batches (0 runs until interrupted)")
	return cmd
}

// dumpFeed prints batches from src, one JSON array per line. Failed
// requests are logged and the source keeps retrying.
func dumpFeed(ctx context.Context, w io.Writer, src session.Source, count int) error {
	logger := pslog.Ctx(ctx)
	src.Start(ctx)
	defer src.Stop()

	for n := 0; count == 0 || n < count; {
		select {
		case <-ctx.Done():
			return nil
		case b := <-src.Results():
			if b.Err != nil {
				logger.Warn("feed request failed", "err", b.Err)
				continue
			}
			data, err := feed.EncodeBatch(b.Events)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w, string(data)); err != nil {
				return err
			}
			n++
		}
	}
	return nil
}
