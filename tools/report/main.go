/*
Copyright 2021 by Milo Christiansen

This software is provided 'as-is', without any express or implied warranty. In
no event will the authors be held liable for any damages arising from the use of
this software.

Permission is granted to anyone to use this software for any purpose, including
commercial applications, and to alter it and redistribute it freely, subject to
the following restrictions:

1. The origin of this software must not be misrepresented; you must not claim
that you wrote the original software. If you use this software in a product, an
acknowledgment in the product documentation would be appreciated but is not
required.

2. Altered source versions must be plainly marked as such, and must not be
misrepresented as being the original software.

3. This notice may not be removed or altered from any source distribution.
*/

package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/milochristiansen/ledgerfmt/config"
	"github.com/milochristiansen/ledgerfmt/tools"
)

func main() {
	settings := tools.HandleErrV(config.Load())
	a := &app{settings: settings, log: tools.NewLogger(settings.LogLevel), out: os.Stdout}

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	for _, c := range a.commands() {
		commander.Register(c, "reports")
	}
	commander.Register(&printCmd{app: a}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// app holds what every command shares.
type app struct {
	settings config.Settings
	log      *slog.Logger
	out      io.Writer
}

func (a *app) commands() []subcommands.Command {
	return []subcommands.Command{
		&registerCmd{app: a},
		&balanceCmd{app: a},
		&equityCmd{app: a},
	}
}
