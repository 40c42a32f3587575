package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/D-DSOLUTIONS/ddsolutions-webpage/extensions/fileserver"
	"github.com/D-DSOLUTIONS/ddsolutions-webpage/extensions/log"
	"github.com/fatih/color"
	E "github.com/sagernet/sing/common/exceptions"
	M "github.com/sagernet/sing/common/metadata"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const commandName = "http-fileserver"

func main() {
	err := newCommand(new(Flags)).Execute()
	if err != nil {
		logrus.Fatal(err)
	}
}

func newCommand(f *Flags) *cobra.Command {
	var envFile string
	command := &cobra.Command{
		Use:   commandName + " [port]",
		Short: "static website server",
		Long: "Serve a static website with permissive CORS headers.\n\n" +
			"The document root defaults to the directory containing this program, while the\n" +
			"environment file is read relative to the current working directory.",
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			osSignals := make(chan os.Signal, 1)
			signal.Notify(osSignals, os.Interrupt, syscall.SIGTERM)
			ctx, cancel := contextWithSignal(context.Background(), osSignals)
			defer cancel()

			err := loadDotEnv(envFile)
			if err != nil {
				logrus.Warn(err)
			}

			code := report(color.Output, f, run(ctx, color.Output, f, args))
			if code != 0 {
				os.Exit(code)
			}
		},
	}

	command.Flags().StringVarP(&f.ConfigFile, "config", "c", "", "Use a configuration file.")
	command.Flags().StringVar(&envFile, "env-file", ".env", "Environment file, relative to the working directory.")
	command.Flags().StringVarP(&f.Listen, "listen", "l", "", "Address to bind. Defaults to all interfaces.")
	command.Flags().StringVarP(&f.Root, "root", "d", "", "Document root. Defaults to the directory containing this program.")
	command.Flags().StringVar(&f.Index, "index", "", "Document served for the root path. Defaults to "+fileserver.DefaultIndex+".")
	command.Flags().IntVar(&f.MaxConnections, "max-connections", 0, "Maximum number of simultaneous connections, 0 for no limit.")
	command.Flags().StringVar(&f.LogLevel, "log-level", "", "Log level. [possible values: trace, debug, info, warn, error]")
	command.Flags().BoolVarP(&f.Verbose, "verbose", "v", false, "Enable verbose mode.")
	return command
}

// contextWithSignal returns a context cancelled by the first value received
// from osSignals.
func contextWithSignal(parent context.Context, osSignals <-chan os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case <-osSignals:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// report prints the diagnostic for an error returned by run and returns the
// process exit code.
func report(w io.Writer, f *Flags, err error) int {
	var portErr *InvalidPortError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &portErr):
		color.New(color.FgRed).Fprintln(w, portErr.Error())
	case fileserver.IsAddressInUse(err):
		printAddressInUse(w, f.Port)
	default:
		logrus.StandardLogger().Log(logrus.FatalLevel, err)
	}
	return 1
}

// run serves until ctx is done. The returned error is either an
// *InvalidPortError, a bind error, or a setup failure.
func run(ctx context.Context, stdout io.Writer, f *Flags, args []string) error {
	err := loadFlags(f, args)
	if err != nil {
		return err
	}

	if f.Verbose {
		logrus.SetLevel(logrus.TraceLevel)
	} else if f.LogLevel != "" {
		err = log.SetLevel(f.LogLevel)
		if err != nil {
			return E.Cause(err, "unknown log level ", f.LogLevel)
		}
	}

	logger := log.NewLogger(commandName)
	server, err := fileserver.NewServer(f.Root, M.ParseSocksaddrHostPort(f.Listen, f.Port),
		fileserver.WithIndex(f.Index),
		fileserver.WithMaxConnections(f.MaxConnections),
		fileserver.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	err = server.Start()
	if err != nil {
		return err
	}
	logger.Debug("serving ", server.Root(), " on ", server.Addr())

	printBanner(stdout, server.URL())
	<-ctx.Done()

	err = server.Close()
	if err != nil {
		logger.Warn(err)
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "👋 Server stopped.")
	return nil
}

func printBanner(w io.Writer, url string) {
	color.New(color.FgGreen).Fprintln(w, "🌐 DDSolutions website running at "+url)
	fmt.Fprintln(w, "🔴 Press Ctrl+C to stop the server")
}

func printAddressInUse(w io.Writer, port uint16) {
	color.New(color.FgRed).Fprintf(w, "❌ Error: Port %d is already in use.\n", port)
	fmt.Fprintln(w, "💡 Try one of these alternatives:")
	for _, alternative := range fileserver.SuggestPorts(port) {
		fmt.Fprintf(w, "   %s %d\n", commandName, alternative)
	}
}
