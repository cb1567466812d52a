package main

import (
	"context"
	"time"

	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/app"
)

const shutdownTimeout = 10 * time.Second

func main() {
	application := app.New()    // Initialize the application
	wait := application.Start() // Start the application and wait for the termination signal
	<-wait                      // Wait for the application to receive a termination signal

	// the deadline starts once shutdown begins, not at boot
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	application.Stop(ctx) // Stop the application gracefully
}
