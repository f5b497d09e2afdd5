package main

import (
	"context"
	"log/slog"
	"net"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/toddaustin07/mdns-resolver/querier"
)

var (
	flagInterface string
	flagVerbose   bool
)

func main() {
	root := &cobra.Command{
		Use:   "mdnsresolve",
		Short: "One-shot mDNS/DNS-SD discovery from the command line",
	}

	root.PersistentFlags().StringVar(&flagInterface, "interface", "", "network interface to send/listen on (default: system default)")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log resolver activity to stderr")

	root.AddCommand(
		newTypesCmd(),
		newServicesCmd(),
		newIPCmd(),
		newAddrCmd(),
	)

	if err := fang.Execute(context.Background(), root); err != nil {
		os.Exit(1)
	}
}

// newResolver builds a Resolver honouring --interface and --verbose.
// The CLI's subcommands each drive one of the fixed-window operations
// (GetServiceTypes, GetServices, GetIP, GetAddress) rather than Query,
// so WithTimeout is not set here; their listen windows are not
// configurable from the command line.
func newResolver() (*querier.Resolver, error) {
	var opts []querier.Option

	logLevel := slog.LevelWarn
	if flagVerbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	opts = append(opts, querier.WithLogger(logger))

	if flagInterface != "" {
		iface, err := net.InterfaceByName(flagInterface)
		if err != nil {
			return nil, err
		}
		opts = append(opts, querier.WithInterfaces([]net.Interface{*iface}))
	}

	return querier.New(opts...)
}
