package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/pprof"
	"strconv"

	"github.com/lukaszgryglicki/raycoat/internal/raycoat"
)

func main() {
	raycoat.Debug = os.Getenv("DEBUG") != ""
	raycoat.CSV = os.Getenv("CSV") != ""
	if w := os.Getenv("WORKERS"); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil {
			fmt.Printf("Error: WORKERS: %v\n", err)
			os.Exit(1)
		}
		raycoat.Workers = n
	}

	level := slog.LevelInfo
	if raycoat.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	profile := os.Getenv("PROFILE") != ""
	if profile {
		f, err := os.Create("cpu.out")
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	cfg := "configs/config.json"
	if len(os.Args) > 1 {
		cfg = os.Args[1]
	}
	if err := raycoat.Run(cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
