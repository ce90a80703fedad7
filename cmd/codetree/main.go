package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/temirov/codetree/internal/cli"
	"github.com/temirov/codetree/internal/utils"
)

const exitCodeFailure = 1

// main is the entry point for the codetree command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(os.Getenv("CODETREE_DEBUG") != "")
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	applicationExecutionError := cli.Execute(ctx, loggerInstance)
	stop()
	if applicationExecutionError != nil {
		loggerInstance.Error(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
		_ = loggerInstance.Sync()
		os.Exit(exitCodeFailure)
	}
	_ = loggerInstance.Sync()
}
