// Command coupe-lambda serves team selection behind an AWS Lambda function URL.
// Selection rules and the log level come from COUPE_* environment variables.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/viper"

	"github.com/photogolffrance/coupe-hdf-app/internal/api"
	"github.com/photogolffrance/coupe-hdf-app/internal/config"
	"github.com/photogolffrance/coupe-hdf-app/internal/logging"
	"github.com/photogolffrance/coupe-hdf-app/internal/selection"
)

func main() {
	config.SetDefaults()
	viper.AutomaticEnv()
	viper.SetEnvPrefix("COUPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	logger := logging.NewWriterLogger(os.Stdout, cfg.Logging.Level)
	selector := selection.NewSelector(selection.RulesFromConfig(cfg.Selection), selection.WithLogger(logger))

	lambda.Start(api.NewHandler(selector, logger).Handle)
}
