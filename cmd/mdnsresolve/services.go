package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/toddaustin07/mdns-resolver/querier"
)

const servicesWaitBudget = 3 * time.Second

func newServicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "services <service-type>",
		Short: "List every instance of a service type (e.g. _http._tcp.local)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			serviceType := args[0]

			r, err := newResolver()
			if err != nil {
				return err
			}
			defer func() { _ = r.Close() }()

			var result querier.Result
			ok := waitFor(servicesWaitBudget, func(done func()) {
				r.GetServices(context.Background(), serviceType, func(res querier.Result) {
					result = res
					done()
				})
			})

			if !ok {
				fmt.Printf("no instances of %s found (timed out)\n", serviceType)
				return nil
			}
			fmt.Println(renderServices(serviceType, result))
			return nil
		},
	}
}
