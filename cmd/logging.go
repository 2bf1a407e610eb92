package cmd

import (
	"fmt"
	"strings"

	"github.com/YitongTseo/WaterSimulationAndRendering/log"
	"github.com/urfave/cli"
)

var logger = log.New("waves")

func setupLogging(ctx *cli.Context) error {
	if name := ctx.GlobalString("log-level"); name != "" {
		level, err := log.ParseLevel(name)
		if err != nil {
			return err
		}
		log.SetLevel(level)
	}

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}

	for _, entry := range ctx.GlobalStringSlice("module-level") {
		module, level, err := parseModuleLevel(entry)
		if err != nil {
			return err
		}
		log.SetModuleLevel(module, level)
	}

	return nil
}

// Parse a "module=level" override such as "tracer pool=warning".
func parseModuleLevel(entry string) (string, log.Level, error) {
	tokens := strings.SplitN(entry, "=", 2)
	if len(tokens) != 2 || strings.TrimSpace(tokens[0]) == "" {
		return "", log.Notice, fmt.Errorf("invalid module level %q; expected module=level", entry)
	}

	level, err := log.ParseLevel(strings.TrimSpace(tokens[1]))
	if err != nil {
		return "", log.Notice, err
	}
	return strings.TrimSpace(tokens[0]), level, nil
}
