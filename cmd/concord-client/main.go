package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load(".env")

	formatCmd := flag.NewFlagSet("format", flag.ExitOnError)
	music := formatCmd.Bool("music", false, "format the activity status as a playback position")
	speed := formatCmd.Float64("speed", 1, "playback speed for elapsed times")
	duration := formatCmd.Int64("duration", 0, "also format a duration in milliseconds")

	mentionsCmd := flag.NewFlagSet("mentions", flag.ExitOnError)
	clearMentions := mentionsCmd.Bool("clear", false, "delete the persisted mention records")

	if len(os.Args) < 2 {
		printUsage()
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "run":
		return runClient(ctx)
	case "format":
		if err := formatCmd.Parse(os.Args[2:]); err != nil {
			return err
		}
		return handleFormat(os.Stdout, formatCmd.Args(), *music, *speed, *duration)
	case "mentions":
		if err := mentionsCmd.Parse(os.Args[2:]); err != nil {
			return err
		}
		return handleMentions(ctx, os.Stdout, *clearMentions)
	default:
		printUsage()
		return nil
	}
}

func printUsage() {
	fmt.Println("Concord client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  concord-client run")
	fmt.Println("  concord-client format [--music] [--speed 1.5] [--duration <ms>] <unix-ms>")
	fmt.Println("  concord-client mentions [--clear]")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  SESSION_USER_ID=123 GATEWAY_TOKEN=... concord-client run")
	fmt.Println("  concord-client format 1710513000000")
	fmt.Println("  concord-client format --duration 5400000 1710513000000")
}
