package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/sachinbhirud1998/Status/cmd"
	"github.com/sachinbhirud1998/Status/internal/config"
	"github.com/sachinbhirud1998/Status/internal/logging"
	"github.com/sachinbhirud1998/Status/internal/runner"
)

func main() {
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		lambda.Start(handler)
		return
	}
	cmd.Execute()
}

func handler(ctx context.Context, _ map[string]interface{}) (runner.Result, error) {
	log := logging.New()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		return runner.Result{StatusCode: 500, Body: "Error: " + err.Error()}, nil
	}

	run, err := runner.Build(ctx, cfg, log)
	if err != nil {
		return runner.Result{StatusCode: 500, Body: "Error: " + err.Error()}, nil
	}

	return run.Execute(ctx), nil
}
