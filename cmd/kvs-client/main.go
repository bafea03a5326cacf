// Command kvs-client issues a single get, set, or rm request against a
// running kvs-server.
package main

import (
	"fmt"
	"net"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/ignitedb/ignite/internal/wire"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:4000", "server address")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: kvs-client [--addr host:port] get <key> | set <key> <value> | rm <key>")
		os.Exit(1)
	}

	if err := run(*addr, args[0], args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(addr, cmd string, args []string) error {
	switch cmd {
	case "get":
		if len(args) != 1 {
			return fmt.Errorf("usage: get <key>")
		}
		return runGet(addr, args[0])

	case "set":
		if len(args) != 2 {
			return fmt.Errorf("usage: set <key> <value>")
		}
		return runSet(addr, args[0], args[1])

	case "rm":
		if len(args) != 1 {
			return fmt.Errorf("usage: rm <key>")
		}
		return runRemove(addr, args[0])

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runGet(addr, key string) error {
	conn, err := dial(addr, wire.NewGetRequest(key))
	if err != nil {
		return err
	}
	defer conn.Close()

	resp, err := wire.DecodeGetResponse(conn)
	if err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if resp.Err != "" {
		return fmt.Errorf("%s", resp.Err)
	}
	if !resp.Found {
		fmt.Println("Key not found")
		return nil
	}

	fmt.Println(resp.Value)
	return nil
}

func runSet(addr, key, value string) error {
	conn, err := dial(addr, wire.NewSetRequest(key, value))
	if err != nil {
		return err
	}
	defer conn.Close()

	resp, err := wire.DecodeSetResponse(conn)
	if err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if resp.Err != "" {
		return fmt.Errorf("%s", resp.Err)
	}
	return nil
}

func runRemove(addr, key string) error {
	conn, err := dial(addr, wire.NewRemoveRequest(key))
	if err != nil {
		return err
	}
	defer conn.Close()

	resp, err := wire.DecodeRemoveResponse(conn)
	if err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if resp.Err != "" {
		return fmt.Errorf("%s", resp.Err)
	}
	return nil
}

func dial(addr string, req wire.Request) (net.Conn, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	if err := wire.EncodeRequest(conn, req); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sending request: %w", err)
	}
	return conn, nil
}
