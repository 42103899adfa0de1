package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/aeolun/ircweb/pkg/client"
	"github.com/aeolun/ircweb/pkg/feed"
	"github.com/aeolun/ircweb/pkg/session"
	"pkt.systems/pslog"
)

func newStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the clients attached to the web interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			transport, err := client.NewHTTPTransport(cfg.Server.URL,
				client.WithLogger(pslog.Ctx(cmd.Context())))
			if err != nil {
				return err
			}
			return printStatus(cmd.Context(), cmd.OutOrStdout(), transport)
		},
	}
}

// printStatus queries the client table once and prints it.
func printStatus(ctx context.Context, w io.Writer, transport client.TransportInterface) error {
	clients, err := transport.Clients(ctx)
	if err != nil {
		return fmt.Errorf("query clients: %w", err)
	}
	_, err = fmt.Fprintln(w, renderClients(clients))
	return err
}

func renderClients(clients []feed.ClientInfo) string {
	if len(clients) == 0 {
		return "No clients"
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("IP", "LAST POLL", "EVENTS")
	for _, c := range clients {
		t.Row(c.IP, session.FormatAge(c.Time), strconv.Itoa(c.EventCount))
	}
	return t.Render()
}
