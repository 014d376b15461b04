// Package main is a terminal client for the duel relay
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tecu23/duel-server/pkg/client"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/ws", "relay websocket url")
	apiKey := flag.String("api-key", os.Getenv("DUEL_API_KEY"), "api key sent to the relay")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logger := initLogger(*debug)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := client.Dial(ctx, *url, *apiKey)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer conn.Close()

	view := newTerminal(os.Stdout)
	session := client.NewSession(conn, view, logger)

	go func() {
		if err := session.Run(ctx, conn); err != nil {
			view.OnNotice("disconnected: " + err.Error())
		}
		stop()
	}()

	view.OnNotice("connected to " + *url + ", type help for commands")

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			quit, err := execute(session, view, line)
			if err != nil {
				view.OnNotice(err.Error())
			}
			if quit {
				return
			}
		}
	}
}

// initLogger writes to stderr only so the board stays readable
func initLogger(debug bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	return logger
}
