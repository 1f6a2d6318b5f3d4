// Command binaural renders mono audio binaurally through a set of
// head-related impulse responses, steered interactively from the keyboard.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mitchellh/go-homedir"

	"github.com/cwbudde/algo-binaural/internal/cli"
)

var version = "0.1.0"

const (
	appDescription    = "Real-time binaural rendering with HRIR crossfading"
	defaultConfigPath = "~/.config/binaural/config.json"
)

// versionFlag prints the styled version banner and exits.
type versionFlag bool

func (v versionFlag) BeforeApply(app *kong.Kong) error {
	cli.PrintVersion(version)
	app.Exit(0)
	return nil
}

// Globals are the flags shared by every command.
type Globals struct {
	Config   kong.ConfigFlag `short:"c" type:"path" help:"Load flag defaults from a JSON file."`
	LogLevel string          `default:"info" enum:"debug,info,warn,error" help:"Log level (${enum})."`
	LogFile  string          `default:"binaural.log" type:"path" help:"Log file for interactive playback."`
	Version  versionFlag     `short:"v" help:"Show version information."`
}

// CLI defines the command-line interface.
type CLI struct {
	Globals

	Play    PlayCmd    `cmd:"" help:"Play a file and steer the source with the arrow keys."`
	Render  RenderCmd  `cmd:"" help:"Render a file at a fixed direction to a stereo WAV."`
	Info    InfoCmd    `cmd:"" help:"Describe a database and the resulting block geometry."`
	SynthDB SynthDBCmd `cmd:"" name:"synth-db" help:"Write a synthetic spherical-head database."`
}

// newParser builds the kong parser. main adds the config file loader.
func newParser(c *CLI, extra ...kong.Option) (*kong.Kong, error) {
	opts := []kong.Option{
		kong.Name("binaural"),
		kong.Description(appDescription),
		kong.UsageOnError(),
		kong.Help(cli.StyledHelpPrinter(appDescription)),
	}
	return kong.New(c, append(opts, extra...)...)
}

func configPaths() []string {
	path, err := homedir.Expand(defaultConfigPath)
	if err != nil {
		return nil
	}
	return []string{path}
}

func main() {
	var c CLI
	parser, err := newParser(&c, kong.Configuration(kong.JSON, configPaths()...))
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := ctx.Run(&c.Globals); err != nil {
		cli.PrintError(fmt.Sprint(err))
		os.Exit(1)
	}
}
