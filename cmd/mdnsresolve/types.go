package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/toddaustin07/mdns-resolver/querier"
)

// typesWaitBudget covers GetServiceTypes' fixed 2s listen window plus
// the collector's jitter margin and scheduling slack.
const typesWaitBudget = 3 * time.Second

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List every service type advertised on the local network",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newResolver()
			if err != nil {
				return err
			}
			defer func() { _ = r.Close() }()

			var result querier.Result
			ok := waitFor(typesWaitBudget, func(done func()) {
				r.GetServiceTypes(context.Background(), func(res querier.Result) {
					result = res
					done()
				})
			})

			if !ok {
				fmt.Println("no service types found (timed out)")
				return nil
			}
			fmt.Println(renderServiceTypes(result))
			return nil
		},
	}
}
