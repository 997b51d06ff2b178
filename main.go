// Command quake3query sends a single out-of-band getstatus query to a
// Quake 3 server and prints the decoded status.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/0xkowalskidev/quake3query/internal/logger"
	"github.com/0xkowalskidev/quake3query/protocol"
)

// version is set at build time via ldflags.
var version = "dev"

type options struct {
	ReadTimeout  time.Duration `long:"read-timeout" env:"Q3QUERY_READ_TIMEOUT" description:"Socket read timeout" default:"5s"`
	WriteTimeout time.Duration `long:"write-timeout" env:"Q3QUERY_WRITE_TIMEOUT" description:"Socket write timeout" default:"5s"`
	BufferSize   int           `long:"buffer-size" env:"Q3QUERY_BUFFER_SIZE" description:"Reply buffer size in bytes, larger replies are truncated" default:"1024"`
	Format       string        `short:"f" long:"format" description:"Output format" choice:"text" choice:"json" default:"json"`
	LogLevel     string        `long:"log-level" env:"Q3QUERY_LOG_LEVEL" description:"Log level (trace, debug, info, warn, error)" default:"info"`
	LogFormat    string        `long:"log-format" env:"Q3QUERY_LOG_FORMAT" description:"Log format (console or json)" default:"console"`
	Version      bool          `short:"v" long:"version" description:"Print version and exit"`

	Args struct {
		Host string `positional-arg-name:"HOST[:PORT]" description:"Server address, port defaults to 27960"`
	} `positional-args:"true"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] HOST[:PORT]"

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	logger.Setup(opts.LogLevel, opts.LogFormat)

	if opts.Args.Host == "" {
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}

	client, err := protocol.NewClient(opts.Args.Host,
		protocol.WithReadTimeout(opts.ReadTimeout),
		protocol.WithWriteTimeout(opts.WriteTimeout),
		protocol.WithBufferSize(opts.BufferSize),
	)
	if err != nil {
		log.Error().Err(err).Str("address", opts.Args.Host).Msg("Invalid server address")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.ReadTimeout+opts.WriteTimeout)
	defer cancel()

	log.Debug().Str("address", client.Addr()).Msg("Querying server")

	status, err := client.GetStatus(ctx)
	if err != nil {
		log.Error().Err(err).Str("address", client.Addr()).Msg("Query failed")
		os.Exit(1)
	}

	if err := output(status, opts.Format); err != nil {
		log.Error().Err(err).Msg("Output failed")
		os.Exit(1)
	}
}

func output(status *protocol.ServerStatus, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(status)
	case "text":
		return outputText(status)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func outputText(status *protocol.ServerStatus) error {
	keys := make([]string, 0, len(status.Keys))
	for key := range status.Keys {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Printf("%s: %s\n", key, status.Keys[key])
	}

	if len(status.Players) > 0 {
		fmt.Println("\nPlayers:")
		for _, player := range status.Players {
			if player.CleanName != player.Name {
				fmt.Printf("  %s (%s)\n", player.CleanName, player.Name)
			} else {
				fmt.Printf("  %s\n", player.CleanName)
			}
		}
	}

	return nil
}
