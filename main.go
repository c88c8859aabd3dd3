package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gatewayadmin/admin-contract-tests/cases"
	"github.com/gatewayadmin/admin-contract-tests/client"
	"github.com/gatewayadmin/admin-contract-tests/fakegateway"
	"github.com/gatewayadmin/admin-contract-tests/framework"
	"github.com/gatewayadmin/admin-contract-tests/gatewaytests"
	"github.com/gatewayadmin/admin-contract-tests/report"

	"github.com/fatih/color"
)

const (
	exitFailed  = 1
	exitInvalid = 2
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	var params commandParams
	if !params.Read(args, os.Stderr) {
		return exitInvalid
	}
	if params.noColor {
		color.NoColor = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	tables := cases.Defaults()
	if params.casesFile != "" {
		loaded, err := cases.LoadFile(params.casesFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid test cases: %s\n", err)
			return exitInvalid
		}
		tables = loaded
	}

	baseURL := params.baseURL
	if params.fake {
		url, closeFake, err := startFakeGateway(params.workspace, mainDebugLogger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not start fake gateway: %s\n", err)
			return exitInvalid
		}
		defer closeFake()
		baseURL = url
		fmt.Printf("Started fake gateway at %s\n", baseURL)
	}

	adminClient := client.NewAdminClient(baseURL, params.workspace, params.requestTimeout)
	if err := adminClient.AwaitReady(ctx, params.readyTimeout, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Admin API error: %s\n", err)
		return exitInvalid
	}

	fmt.Println()
	fmt.Printf("Testing admin API at %s, workspace %q\n", adminClient.BaseURL(), adminClient.Workspace())
	framework.PrintFilterDescription(os.Stdout, params.filters)

	fmt.Printf("Running test suite (%d test cases)\n", tables.Count())

	testLogger := &ConsoleTestLogger{
		Out:                  os.Stdout,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	started := time.Now()
	results := gatewaytests.RunTestSuite(ctx, adminClient, tables, params.filters.AsFilter, testLogger)
	finished := time.Now()

	fmt.Println()
	framework.PrintResults(os.Stdout, results)

	if params.reportFile != "" {
		r := report.Build(results, adminClient.BaseURL(), adminClient.Workspace(), started, finished)
		if err := r.WriteFile(params.reportFile); err != nil {
			fmt.Fprintf(os.Stderr, "Report error: %s\n", err)
			return exitInvalid
		}
		fmt.Printf("Wrote report to %s\n", params.reportFile)
	}

	if !results.OK() {
		fmt.Println()
		fmt.Println("To run only the failed tests again:")
		fmt.Printf("  %s\n", params.rerunCommand(args[0], results.Failures))
		return exitFailed
	}
	return 0
}

func startFakeGateway(workspace string, logger framework.Logger) (string, func(), error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, err
	}
	server := &http.Server{
		Handler:           fakegateway.New(fakegateway.Options{Workspace: workspace, Logger: logger}),
		ReadHeaderTimeout: time.Second * 5,
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("fake gateway stopped: %s", err)
		}
	}()
	return "http://" + listener.Addr().String(), func() { _ = server.Close() }, nil
}
