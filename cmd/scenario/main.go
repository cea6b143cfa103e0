package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/milk9111/traversal/prefabs"
	"github.com/milk9111/traversal/scenario"
)

func main() {
	scriptName := flag.String("script", "", "script in prefabs/scripts to run (empty runs all)")
	characterName := flag.String("character", scenario.DefaultCharacter, "character prefab")
	courseName := flag.String("course", scenario.DefaultCourse, "course prefab")
	out := flag.String("out", "", "write the trace of each run as YAML to this file")
	quiet := flag.Bool("q", false, "only report failures")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	names := []string{*scriptName}
	if *scriptName == "" {
		all, err := prefabs.Scripts()
		if err != nil {
			log.Fatalf("scenario: list scripts: %v", err)
		}
		names = all
	}

	logger := log.Default()
	if *quiet {
		logger = log.New(io.Discard, "", 0)
	}

	var traceFile *os.File
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("scenario: %v", err)
		}
		traceFile = f
	}

	failed := 0
	for _, name := range names {
		rig, err := scenario.NewRig(
			scenario.WithCharacter(*characterName),
			scenario.WithCourse(*courseName),
			scenario.WithLogger(logger),
		)
		if err != nil {
			log.Fatalf("scenario: %v", err)
		}

		trace, err := scenario.RunFile(ctx, rig, name)
		rig.Close()
		if err != nil {
			log.Printf("scenario: %v", err)
			failed++
			continue
		}

		if traceFile != nil {
			if err := trace.WriteYAML(traceFile); err != nil {
				log.Fatalf("scenario: %v", err)
			}
		}

		if trace.Passed() {
			if !*quiet {
				fmt.Printf("ok   %s (%d ticks)\n", name, trace.Ticks)
			}
			continue
		}
		failed++
		fmt.Printf("FAIL %s (%d ticks)\n", name, trace.Ticks)
		for _, f := range trace.Failures {
			fmt.Printf("     %s\n", f)
		}
	}

	if traceFile != nil {
		if err := traceFile.Close(); err != nil {
			log.Printf("scenario: %v", err)
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}
