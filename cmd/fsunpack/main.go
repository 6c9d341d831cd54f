package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	unpacker "github.com/Huzzahd/fortune-summoners-unpacker"
	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/bmp"
)

const defaultDB = "fsunpack.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func decodeImage(r io.Reader) (image.Image, error) {
	m, _, err := image.Decode(r)
	return m, err
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func options(c *cli.Context) unpacker.Options {
	return unpacker.Options{
		OutputDir:      c.String("output"),
		Overwrite:      c.Bool("overwrite"),
		Lenient:        c.Bool("lenient"),
		IncludePalette: c.Bool("with-palette"),
		Quantize:       c.Bool("quantize"),
	}
}

func report(s *unpacker.Summary) error {
	fmt.Printf("%d file(s) converted, %d failed\n", s.Converted, s.Failed)
	if s.Converted == 0 {
		return cli.NewExitError("no files converted", 1)
	}
	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "fsunpack"
	app.Usage = "Fortune Summoners image resource un/packer"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"FSUNPACK_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to resource catalog",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "unpack",
			Usage:       "Unpack image resources into bitmaps",
			Description: "",
			ArgsUsage:   "PATH...",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "directory for converted files",
				},
				&cli.BoolFlag{
					Name:    "overwrite",
					Aliases: []string{"x"},
					Usage:   "overwrite existing files",
				},
				&cli.BoolFlag{
					Name:  "lenient",
					Usage: "only perform the checks the game engine does",
				},
				&cli.BoolFlag{
					Name:  "with-palette",
					Usage: "copy the color-table region into 24bpp bitmaps",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				u := unpacker.New(nil, nil, newLogger(c))

				s, err := u.Unpack(c.Args().Slice(), options(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				return report(s)
			},
		},
		{
			Name:        "pack",
			Usage:       "Pack bitmaps into image resources",
			Description: "",
			ArgsUsage:   "PATH...",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "directory for converted files",
				},
				&cli.BoolFlag{
					Name:    "overwrite",
					Aliases: []string{"x"},
					Usage:   "overwrite existing files",
				},
				&cli.BoolFlag{
					Name:  "quantize",
					Usage: "reduce unsupported images to 256 colors",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				u := unpacker.New(nil, decodeImage, newLogger(c))

				s, err := u.Pack(c.Args().Slice(), options(c))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				return report(s)
			},
		},
		{
			Name:        "scan",
			Usage:       "Index packed resources under a directory",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				catalog, err := unpacker.OpenCatalog(c.String("db"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer catalog.Close()

				u := unpacker.New(catalog, nil, newLogger(c))

				if err := u.Scan(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
