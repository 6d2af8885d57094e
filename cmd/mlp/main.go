// Package main provides the MLP training CLI.
//
// Usage:
//
//	mlp version
//	mlp train -config run.yaml -dataset xor
//	mlp train -dataset onehot8 -test 0.25 -graph graph.json
//	mlp graph -config run.yaml
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/born-ml/mlp/internal/config"
	"github.com/born-ml/mlp/internal/dataset"
	"github.com/born-ml/mlp/internal/nn"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "version":
		fmt.Printf("mlp %s\n", version)
		return
	case "train":
		err = train(os.Args[2:])
	case "graph":
		err = graph(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "mlp: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("mlp - multi-layer perceptron trainer")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  train      Train a network (see mlp train -h)")
	fmt.Println("  graph      Print the network graph as JSON")
}

func loadRun(path string) (*config.Run, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func train(args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML run file (default: built-in 2-4-2 network)")
	data := fs.String("dataset", "xor", "Dataset: and, or, xor or onehot<n>")
	testFraction := fs.Float64("test", 0, "Fraction of the dataset held out for validation")
	epochs := fs.Int("epochs", 0, "Override the number of epochs")
	logDir := fs.String("logdir", "", "Override the metrics directory")
	graphPath := fs.String("graph", "", "Write the network graph as JSON to this file")
	verbose := fs.Bool("v", false, "Log every epoch")
	_ = fs.Parse(args)

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	run, err := loadRun(*configPath)
	if err != nil {
		return err
	}
	if *epochs > 0 {
		run.Epochs = *epochs
	}
	if *logDir != "" {
		run.LogDir = *logDir
	}

	d, err := dataset.ByName(*data)
	if err != nil {
		return err
	}

	model, err := run.BuildNetwork()
	if err != nil {
		return err
	}
	fmt.Print(model)

	trainConfig, err := run.TrainConfig(logger)
	if err != nil {
		return err
	}
	if *testFraction > 0 {
		var test nn.Dataset
		d, test = dataset.Split(d, *testFraction)
		trainConfig.Test = &test
	}

	logger.Info("training", "dataset", *data, "samples", d.Len(), "epochs", run.Epochs)
	result, err := model.Train(d, trainConfig)
	if err != nil {
		return err
	}
	logger.Info("done",
		"epochs", result.Epochs,
		"loss", result.FinalLoss,
		"stopped_early", result.StoppedEarly,
		"logdir", run.LogDir)

	if *graphPath != "" {
		return writeGraph(model, *graphPath)
	}
	return nil
}

func graph(args []string) error {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML run file (default: built-in 2-4-2 network)")
	_ = fs.Parse(args)

	run, err := loadRun(*configPath)
	if err != nil {
		return err
	}
	model, err := run.BuildNetwork()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(model.Graph())
}

func writeGraph(model *nn.MLP, path string) error {
	out, err := json.MarshalIndent(model.Graph(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}
