package main

import (
	"context"
	"os/signal"
	"syscall"

	"fenrir/internal/book"
	"fenrir/internal/net"
)

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	// Setup the TCP server over a fresh order book.
	ob := book.NewOrderBook()
	srv := net.New("0.0.0.0", 9001, ob)

	go srv.Run(ctx)
	// Block on running the server.
	<-ctx.Done()
}
