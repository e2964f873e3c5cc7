// homeboard-mock serves a fake attendance API for running homeboard
// without a backend. The roster is generated from a seed, or read from
// a JSON or YAML fixture with --file.
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

	"github.com/spf13/pflag"

	"homeboard/internal/api"
	"homeboard/internal/domain"
	"homeboard/internal/mockapi"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		addr    string
		count   int
		seed    int64
		file    string
		latency time.Duration
		failing bool
	)

	flagSet := pflag.NewFlagSet("homeboard-mock", pflag.ContinueOnError)
	flagSet.StringVar(&addr, "addr", "localhost:4001", "address to listen on")
	flagSet.IntVar(&count, "students", 24, "number of generated students")
	flagSet.Int64Var(&seed, "seed", 1, "seed for generated names")
	flagSet.StringVar(&file, "file", "", "serve the roster from a JSON or YAML file instead of generating one")
	flagSet.DurationVar(&latency, "latency", 0, "delay before each response (e.g. 800ms)")
	flagSet.BoolVar(&failing, "fail", false, "answer every roster request with 500")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if count < 0 {
		return fmt.Errorf("--students must not be negative, got %d", count)
	}

	logger := log.New(os.Stderr, "homeboard-mock: ", log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	students, err := loadStudents(ctx, file, count, seed)
	if err != nil {
		return err
	}

	mock := mockapi.New(students,
		mockapi.WithLatency(latency),
		mockapi.WithFailure(failing),
		mockapi.WithLogger(logger),
	)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	server := &http.Server{
		Handler:           mock.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Printf("serving %d students on http://%s/%s", len(students), listener.Addr(), api.StudentsPath)

	serveDone := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveDone <- err
		}
		close(serveDone)
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutting down")
	case err := <-serveDone:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

func loadStudents(ctx context.Context, file string, count int, seed int64) ([]domain.Person, error) {
	if file == "" {
		return mockapi.SampleStudents(count, seed), nil
	}
	payload, err := api.NewFileSource(file).FetchStudents(ctx)
	if err != nil {
		return nil, err
	}
	return payload.Students, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `homeboard-mock serves GET /%s for local development.

Usage:
  homeboard-mock [flags]

Flags:
%s`, api.StudentsPath, flagSet.FlagUsages())
}
