package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const ipWaitBudget = 2 * time.Second

func newIPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ip <name>",
		Short: "Resolve a hostname's IPv4 address (e.g. host1.local)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			r, err := newResolver()
			if err != nil {
				return err
			}
			defer func() { _ = r.Close() }()

			var ip string
			ok := waitFor(ipWaitBudget, func(done func()) {
				r.GetIP(context.Background(), name, func(addr string) {
					if ip == "" {
						ip = addr
					}
					done()
				})
			})

			if !ok || ip == "" {
				fmt.Printf("%s: no answer (timed out)\n", name)
				return nil
			}
			fmt.Println(ip)
			return nil
		},
	}
}
