package common

import (
	"net/url"

	"github.com/bornholm/taskmanager/pkg/client"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
)

const (
	paramServer = "server"
)

var (
	flagServer = altsrc.NewStringFlag(&cli.StringFlag{
		Name:    paramServer,
		Aliases: []string{"s"},
		Value:   "http://localhost:8081",
		EnvVars: []string{"TASKMANAGER_CLI_SERVER"},
		Usage:   "Task manager server base url",
	})
)

func WithCommonFlags(flags ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		flagServer,
	}, flags...)
}

func GetClient(ctx *cli.Context) (*client.Client, error) {
	rawServerURL := ctx.String(paramServer)

	serverURL, err := url.Parse(rawServerURL)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse server url '%s'", rawServerURL)
	}

	return client.New(
		client.WithBaseURL(serverURL),
	), nil
}
