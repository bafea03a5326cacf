// Command kvs-server runs the request server over one of the two storage
// engines.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/ignitedb/ignite/internal/server"
	"github.com/ignitedb/ignite/pkg/ignite"
	"github.com/ignitedb/ignite/pkg/logger"
	"github.com/ignitedb/ignite/pkg/metrics"
	"github.com/ignitedb/ignite/pkg/options"
)

func main() {
	var (
		addr    = flag.String("addr", "127.0.0.1:4000", "address to listen on")
		engine  = flag.String("engine", options.DefaultEngine, "storage engine: kvs or bolt")
		dataDir = flag.String("data-dir", options.DefaultDataDir, "directory segment or database files live in")
		workers = flag.Int("workers", options.DefaultWorkers, "number of worker goroutines handling connections")
	)
	flag.Parse()

	if err := run(*addr, *engine, *dataDir, *workers); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(addr, engine, dataDir string, workers int) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	eng, err := ignite.Open(ctx, "kvs-server",
		options.WithDataDir(dataDir),
		options.WithEngine(engine),
		options.WithWorkers(workers),
	)
	if err != nil {
		return fmt.Errorf("opening engine: %w", err)
	}
	defer eng.Close()

	log := logger.New("kvs-server")
	met := metrics.New(nil, options.DefaultMetricsNamespace)

	srv := server.New(addr, eng, workers, log, met)

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve() }()

	select {
	case <-ctx.Done():
		return srv.Shutdown()
	case err := <-serveErr:
		return err
	}
}
