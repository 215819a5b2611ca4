// Command predict prints the feasible price ranges for one week.
//
//	predict -preset acnl -tolerance 1 "95 90/85 80/"
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"TurnipSentinel/internal/config"
	"TurnipSentinel/internal/logger"
	"TurnipSentinel/internal/model"
	"TurnipSentinel/internal/notifier"
	"TurnipSentinel/internal/preset"
	"TurnipSentinel/internal/strategy"
	"TurnipSentinel/internal/week"
)

// Exit codes.
const (
	exitOK          = 0
	exitUnexplained = 1
	exitUsage       = 2
	exitFailure     = 3
)

func main() {
	logger.Init("turnip-predict")
	os.Exit(run(os.Args[0], os.Args[1:], os.Stdout, os.Stderr))
}

func run(name string, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		presetName = fs.String("preset", preset.Default, "parameter preset: "+strings.Join(preset.Keys(), ", "))
		tolerance  = fs.Int("tolerance", 0, "widen every bound by this many bells")
		cfgPath    = fs.String("config", "", "read prediction parameters from this config file instead")
		asJSON     = fs.Bool("json", false, "print the raw result as JSON")
	)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [flags] \"<purchase> <mon am>/<mon pm> ...\"\n", name)
		fs.PrintDefaults()
	}
	usageError := func(err error) int {
		fmt.Fprintf(stderr, "%s: %v\n", name, err)
		fs.Usage()
		return exitUsage
	}

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}
	series, err := week.ParseInline(strings.Join(fs.Args(), " "))
	if err != nil {
		return usageError(err)
	}
	params, err := loadParams(*cfgPath, *presetName, *tolerance)
	if err != nil {
		return usageError(err)
	}

	result := strategy.Predict(params, series)
	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			log.Error().Err(err).Msg("encode result")
			return exitFailure
		}
		return exitOK
	}

	fmt.Fprintf(stdout, "Prices: %s\n\n", week.FormatInline(series))
	if result.Empty() {
		fmt.Fprintln(stdout, "No pattern explains these prices. Check the inputs or raise -tolerance.")
		return exitUnexplained
	}
	fmt.Fprint(stdout, notifier.FormatTable(series, &result))
	return exitOK
}

func loadParams(cfgPath, presetName string, tolerance int) (model.Parameters, error) {
	if cfgPath != "" {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return model.Parameters{}, err
		}
		return cfg.Parameters()
	}
	params, err := preset.Get(presetName)
	if err != nil {
		return model.Parameters{}, err
	}
	params.Tolerance = tolerance
	return params, config.ValidateParameters(params)
}
