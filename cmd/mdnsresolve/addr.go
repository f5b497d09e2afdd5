package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// addrWaitBudget covers GetAddress' worst case: four sequential
// collector cycles (1.5s, 1.0s, 1.0s, then 1.0s for the fallback to the
// SRV hostname), each with its own 100ms post-send pause and 500ms
// jitter margin, plus the 100ms pause between the SRV and A steps:
// about 7s in all.
const addrWaitBudget = 8 * time.Second

func newAddrCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "addr <instance>.<service-type>",
		Short: "Resolve a service instance to an ip:port (e.g. Printer._http._tcp.local)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fqdn := args[0]

			r, err := newResolver()
			if err != nil {
				return err
			}
			defer func() { _ = r.Close() }()

			var ip string
			var port *uint16
			ok := waitFor(addrWaitBudget, func(done func()) {
				r.GetAddress(context.Background(), fqdn, func(gotIP string, gotPort *uint16) {
					ip, port = gotIP, gotPort
					done()
				})
			})

			if !ok {
				fmt.Printf("%s: no answer (timed out)\n", fqdn)
				return nil
			}
			fmt.Println(renderAddress(ip, port))
			return nil
		},
	}
}
